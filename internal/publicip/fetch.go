package publicip

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/netip"
	"regexp"
)

var (
	ErrIPResolutionFailed = errors.New("public IP resolution failed")
	ErrNoIPFound          = errors.New("no IP address found")
	ErrTooManyIPs         = errors.New("too many IP addresses")
)

var ipv4Regex = regexp.MustCompile(`(([0-9]|[1-9][0-9]|1[0-9]{2}|2[0-4][0-9]|25[0-5])\.){3}(25[0-5]|2[0-4][0-9]|1[0-9]{2}|[1-9][0-9]|[0-9])`)

// IP returns the current public IPv4 address seen by one of the
// configured echo services. The service used rotates on each call so
// a single misbehaving service does not pin resolution failures.
func (f *Fetcher) IP(ctx context.Context) (publicIP netip.Addr, err error) {
	url := f.ring.next()
	publicIP, err = fetch(ctx, f.client, url)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("%w: from %s: %w",
			ErrIPResolutionFailed, url, err)
	}
	return publicIP, nil
}

func fetch(ctx context.Context, client *http.Client, url string) (
	publicIP netip.Addr, err error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return netip.Addr{}, err
	}

	response, err := client.Do(request)
	if err != nil {
		return netip.Addr{}, err
	}
	defer response.Body.Close()

	b, err := io.ReadAll(response.Body)
	if err != nil {
		return netip.Addr{}, err
	}

	ipStrings := ipv4Regex.FindAllString(string(b), -1)
	switch {
	case len(ipStrings) == 0:
		return netip.Addr{}, ErrNoIPFound
	case len(ipStrings) > 1:
		return netip.Addr{}, fmt.Errorf("%w: found %d IP addresses instead of a single one",
			ErrTooManyIPs, len(ipStrings))
	}

	publicIP, err = netip.ParseAddr(ipStrings[0])
	if err != nil {
		return netip.Addr{}, fmt.Errorf("parsing IP address: %w", err)
	}

	return publicIP, nil
}
