package market

import (
	"context"
	"net/url"
	"sync"
)

// fakeFetcher serves canned bodies per endpoint and records calls.
type fakeFetcher struct {
	mu        sync.Mutex
	responses map[string][]byte
	errs      map[string]error
	calls     map[string]int
	params    map[string][]url.Values
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		responses: make(map[string][]byte),
		errs:      make(map[string]error),
		calls:     make(map[string]int),
		params:    make(map[string][]url.Values),
	}
}

func (f *fakeFetcher) respond(endpoint, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[endpoint] = []byte(body)
	delete(f.errs, endpoint)
}

func (f *fakeFetcher) fail(endpoint string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[endpoint] = err
}

func (f *fakeFetcher) callCount(endpoint string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[endpoint]
}

func (f *fakeFetcher) lastParams(endpoint string) url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.params[endpoint]
	if len(p) == 0 {
		return nil
	}
	return p[len(p)-1]
}

func (f *fakeFetcher) Fetch(_ context.Context, endpoint string, params url.Values) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[endpoint]++
	f.params[endpoint] = append(f.params[endpoint], params)
	if err, ok := f.errs[endpoint]; ok {
		return nil, err
	}
	return f.responses[endpoint], nil
}
