package civictrack

import "net/http"

// TokenSource yields the access token to attach to outgoing requests. An
// empty string means the request goes out unauthenticated.
type TokenSource interface {
	Token() string
}

// StaticToken is a TokenSource backed by a fixed string.
type StaticToken string

// Token implements TokenSource.
func (s StaticToken) Token() string { return string(s) }

// bearerTransport injects the current access token as a bearer header on
// each request. Scoping credential attachment to the client's transport
// keeps it off shared defaults: two clients with different sources never
// see each other's tokens.
type bearerTransport struct {
	base   http.RoundTripper
	source TokenSource
}

// RoundTrip implements http.RoundTripper.
func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.source != nil {
		if tok := t.source.Token(); tok != "" {
			// Per-request clone: RoundTrippers must not mutate their input.
			req = req.Clone(req.Context())
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(req)
}
