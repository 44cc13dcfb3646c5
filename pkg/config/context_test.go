package config_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/emscape/sparky/pkg/config"
	"github.com/emscape/sparky/pkg/llm"
)

var _ = Describe("LoadContextFile", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	writeFile := func(name, contents string) string {
		path := filepath.Join(dir, name)
		Expect(os.WriteFile(path, []byte(contents), 0o600)).To(Succeed())
		return path
	}

	want := []llm.Message{
		{Role: llm.RoleUser, Content: "Chapter 7 draft is in Obsidian."},
		{Role: llm.RoleAssistant, Content: "Noted. Chapter 7 it is."},
	}

	It("reads JSON", func() {
		path := writeFile("book.json", `[
  {"role": "user", "content": "Chapter 7 draft is in Obsidian."},
  {"role": "assistant", "content": "Noted. Chapter 7 it is."}
]`)

		messages, err := config.LoadContextFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(messages).To(Equal(want))
	})

	It("reads YAML", func() {
		path := writeFile("book.yaml", `
- role: user
  content: Chapter 7 draft is in Obsidian.
- role: assistant
  content: Noted. Chapter 7 it is.
`)

		messages, err := config.LoadContextFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(messages).To(Equal(want))
	})

	It("accepts an empty list", func() {
		path := writeFile("empty.json", `[]`)

		messages, err := config.LoadContextFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(messages).To(BeEmpty())
	})

	It("rejects unknown roles", func() {
		path := writeFile("bad.yml", "- role: narrator\n  content: Meanwhile\n")

		_, err := config.LoadContextFile(path)
		Expect(err).To(MatchError(ContainSubstring("narrator")))
	})

	It("rejects malformed files", func() {
		path := writeFile("bad.json", `{"role":`)

		_, err := config.LoadContextFile(path)
		Expect(err).To(MatchError(ContainSubstring("could not parse context file")))
	})

	It("reports a missing file", func() {
		_, err := config.LoadContextFile(filepath.Join(dir, "nope.json"))
		Expect(err).To(MatchError(ContainSubstring("could not read context file")))
	})
})
