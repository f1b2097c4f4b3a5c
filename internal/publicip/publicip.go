// Package publicip queries public IP echo services over HTTPS to find
// the caller's current public IP address, rotating between services.
package publicip

import (
	"net/http"
	"sync"
)

type Fetcher struct {
	client *http.Client
	ring   *urlsRing
}

type urlsRing struct {
	mutex sync.Mutex
	index int
	urls  []string
}

func New(client *http.Client, options ...Option) (f *Fetcher, err error) {
	settings := newDefaultSettings()
	for _, option := range options {
		err = option(&settings)
		if err != nil {
			return nil, err
		}
	}

	urls := make([]string, len(settings.providers))
	for i, provider := range settings.providers {
		urls[i] = provider.url()
	}

	return &Fetcher{
		client: client,
		ring:   &urlsRing{urls: urls},
	}, nil
}

func (r *urlsRing) next() (url string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	url = r.urls[r.index]
	r.index++
	if r.index == len(r.urls) {
		r.index = 0
	}
	return url
}
