package sparky

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"

	"github.com/openai/openai-go/v3"
)

// CredentialEnv is the environment variable holding the API credential.
const CredentialEnv = "OPENAI_API_KEY"

var (
	// ErrMissingCredential is returned before any network activity when no
	// credential is configured.
	ErrMissingCredential = errors.New("openai api key not found: set the " + CredentialEnv + " environment variable")

	// ErrTransport wraps failures reaching the completion endpoint.
	ErrTransport = errors.New("completion endpoint unreachable")

	// ErrUpstreamStatus wraps non-2xx replies from the completion endpoint.
	ErrUpstreamStatus = errors.New("completion endpoint returned an error status")

	// ErrResponseShape is returned when the reply cannot be decoded or carries
	// no choices.
	ErrResponseShape = errors.New("unexpected completion response")
)

// classify tags an error from the completion call with its category while
// keeping the original error in the chain.
func classify(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%w: status %d: %w", ErrUpstreamStatus, apiErr.StatusCode, err)
	}

	var urlErr *url.Error
	var netErr net.Error
	if errors.As(err, &urlErr) || errors.As(err, &netErr) ||
		errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}

	return fmt.Errorf("%w: %w", ErrResponseShape, err)
}
