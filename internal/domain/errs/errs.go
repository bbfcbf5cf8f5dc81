// Package errs holds the error taxonomy shared by planners, agents and provider adapters.
package errs

import "errors"

var (
	// ErrProviderUnavailable covers network, authentication, rate-limit and timeout failures.
	ErrProviderUnavailable = errors.New("provider unavailable")
	// ErrMalformedResponse is returned when a provider reply does not match the expected schema.
	ErrMalformedResponse = errors.New("malformed provider response")
	ErrNoCapableAgent    = errors.New("no capable agent")
	ErrEmptyInput        = errors.New("empty input")
)

// Kind returns a short label for err suitable for log fields.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrProviderUnavailable):
		return "provider_unavailable"
	case errors.Is(err, ErrMalformedResponse):
		return "malformed_response"
	case errors.Is(err, ErrNoCapableAgent):
		return "no_capable_agent"
	case errors.Is(err, ErrEmptyInput):
		return "empty_input"
	default:
		return "unknown"
	}
}
