// Package propagation verifies, best effort, that a public resolver
// already reflects a just-written DNS value. Results are informational
// only and never affect the outcome of a write.
package propagation

import (
	"context"
	"strings"
	"time"

	"github.com/miekg/dns"
)

// Client matches the exchange method of *dns.Client.
type Client interface {
	ExchangeContext(ctx context.Context, m *dns.Msg, a string) (
		r *dns.Msg, rtt time.Duration, err error)
}

type Checker struct {
	client       Client
	resolverAddr string
}

func New(options ...Option) *Checker {
	settings := newDefaultSettings()
	for _, option := range options {
		option(&settings)
	}

	return &Checker{
		client:       settings.client,
		resolverAddr: settings.resolverAddr,
	}
}

type settings struct {
	client       Client
	resolverAddr string
}

func newDefaultSettings() settings {
	const defaultTimeout = 5 * time.Second
	return settings{
		client:       &dns.Client{Timeout: defaultTimeout},
		resolverAddr: "1.1.1.1:53",
	}
}

type Option func(s *settings)

func WithClient(client Client) Option {
	return func(s *settings) {
		s.client = client
	}
}

func WithResolverAddress(address string) Option {
	return func(s *settings) {
		s.resolverAddr = address
	}
}

const (
	notePropagated    = "DNS record matches public IP."
	noteNotPropagated = "DNS record has not propagated yet."
	noteCheckFailed   = "Propagation check failed."
	noteSkipped       = "Propagation check skipped for non-A record."
)

// Check resolves the record name through the configured public
// resolver and compares the answers with the expected content.
// It only checks A records; any lookup failure is swallowed and
// reported through the note.
func (c *Checker) Check(ctx context.Context, name, recordType, content string) (
	propagated *bool, note string) {
	if strings.ToUpper(recordType) != "A" {
		return nil, noteSkipped
	}

	message := new(dns.Msg)
	message.SetQuestion(dns.Fqdn(name), dns.TypeA)
	message.RecursionDesired = true

	response, _, err := c.client.ExchangeContext(ctx, message, c.resolverAddr)
	if err != nil {
		return nil, noteCheckFailed
	}

	matches := false
	for _, rr := range response.Answer {
		aRecord, ok := rr.(*dns.A)
		if !ok {
			continue
		}
		if aRecord.A.String() == content {
			matches = true
			break
		}
	}

	if matches {
		return boolPtr(true), notePropagated
	}
	return boolPtr(false), noteNotPropagated
}

func boolPtr(b bool) *bool { return &b }
