package config_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/emscape/sparky/pkg/config"
	"github.com/emscape/sparky/pkg/sparky"
)

var _ = Describe("Config", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		for _, key := range []string{"SPARKY_CONFIG", "SPARKY_MODEL", "SPARKY_BASE_URL", "SPARKY_LISTEN", "SPARKY_DEBUG"} {
			GinkgoT().Setenv(key, "")
		}
	})

	writeFile := func(name, contents string) string {
		path := filepath.Join(dir, name)
		Expect(os.WriteFile(path, []byte(contents), 0o600)).To(Succeed())
		return path
	}

	Describe("Load", func() {
		It("returns defaults when the file does not exist", func() {
			cfg, err := config.Load(filepath.Join(dir, "missing.toml"))
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg).To(Equal(config.Default()))
			Expect(cfg.Model).To(Equal(sparky.DefaultModel))
			Expect(cfg.BaseURL).To(Equal(sparky.DefaultBaseURL))
		})

		It("reads values from the file", func() {
			path := writeFile("config.toml", `
model = "gpt-4o-mini"
base_url = "http://localhost:11434/v1/"
listen = ":9090"
debug = true
`)
			cfg, err := config.Load(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg).To(Equal(config.Config{
				Model:   "gpt-4o-mini",
				BaseURL: "http://localhost:11434/v1/",
				Listen:  ":9090",
				Debug:   true,
			}))
		})

		It("keeps defaults for keys the file omits", func() {
			path := writeFile("config.toml", `listen = ":7070"`)

			cfg, err := config.Load(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Listen).To(Equal(":7070"))
			Expect(cfg.Model).To(Equal(sparky.DefaultModel))
		})

		It("lets the environment override the file", func() {
			path := writeFile("config.toml", `model = "from-file"`)
			GinkgoT().Setenv("SPARKY_MODEL", "from-env")
			GinkgoT().Setenv("SPARKY_DEBUG", "true")

			cfg, err := config.Load(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Model).To(Equal("from-env"))
			Expect(cfg.Debug).To(BeTrue())
		})

		It("rejects malformed TOML", func() {
			path := writeFile("config.toml", `model = `)

			_, err := config.Load(path)
			Expect(err).To(MatchError(ContainSubstring("could not parse config")))
		})

		It("rejects unknown keys", func() {
			path := writeFile("config.toml", `api_key = "sk-nope"`)

			_, err := config.Load(path)
			Expect(err).To(MatchError(ContainSubstring("api_key")))
		})

		It("rejects an empty model", func() {
			path := writeFile("config.toml", `model = ""`)

			_, err := config.Load(path)
			Expect(err).To(MatchError(ContainSubstring("model")))
		})
	})

	Describe("ResolvePath", func() {
		It("prefers an explicit path", func() {
			GinkgoT().Setenv("SPARKY_CONFIG", "/from/env.toml")

			path, err := config.ResolvePath("/explicit.toml")
			Expect(err).NotTo(HaveOccurred())
			Expect(path).To(Equal("/explicit.toml"))
		})

		It("falls back to SPARKY_CONFIG, then XDG_CONFIG_HOME, then HOME", func() {
			GinkgoT().Setenv("SPARKY_CONFIG", "/from/env.toml")
			path, err := config.ResolvePath("")
			Expect(err).NotTo(HaveOccurred())
			Expect(path).To(Equal("/from/env.toml"))

			GinkgoT().Setenv("SPARKY_CONFIG", "")
			GinkgoT().Setenv("XDG_CONFIG_HOME", dir)
			path, err = config.ResolvePath("")
			Expect(err).NotTo(HaveOccurred())
			Expect(path).To(Equal(filepath.Join(dir, "sparky", "config.toml")))

			GinkgoT().Setenv("XDG_CONFIG_HOME", "")
			GinkgoT().Setenv("HOME", dir)
			path, err = config.ResolvePath("")
			Expect(err).NotTo(HaveOccurred())
			Expect(path).To(Equal(filepath.Join(dir, ".config", "sparky", "config.toml")))
		})
	})

	It("translates into gateway options", func() {
		Expect(config.Default().GatewayOptions()).To(HaveLen(2))
	})
})
