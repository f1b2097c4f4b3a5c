// Package cloudflare implements a thin client for the Cloudflare v4
// REST API, covering the DNS record read and write calls the
// reconciler needs.
package cloudflare

import (
	"net/http"
)

type Client struct {
	client  *http.Client
	baseURL string
}

func New(client *http.Client, options ...Option) *Client {
	settings := newDefaultSettings()
	for _, option := range options {
		option(&settings)
	}

	return &Client{
		client:  client,
		baseURL: settings.baseURL,
	}
}

type settings struct {
	baseURL string
}

func newDefaultSettings() settings {
	return settings{
		baseURL: "https://api.cloudflare.com",
	}
}

type Option func(s *settings)

// WithBaseURL overrides the API base URL, notably for tests.
func WithBaseURL(baseURL string) Option {
	return func(s *settings) {
		s.baseURL = baseURL
	}
}

func setHeaders(request *http.Request, token string) {
	request.Header.Set("User-Agent", "Flarewatcher (github.com/flarewatcher/flarewatcher)")
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Accept", "application/json")
	request.Header.Set("Authorization", "Bearer "+token)
}
