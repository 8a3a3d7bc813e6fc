package testkit

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
)

// MockTransport answers outgoing pkg/http requests from a step's mock list
// instead of touching the network. Unmatched calls fail.
type MockTransport struct {
	mu    sync.Mutex
	steps []httpMockEntry
}

type httpMockEntry struct {
	step      MockStep
	callCount int
}

func NewMockTransport(steps []MockStep) *MockTransport {
	mt := &MockTransport{}
	for _, s := range steps {
		mt.steps = append(mt.steps, httpMockEntry{step: s})
	}
	return mt
}

func (mt *MockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	for i := range mt.steps {
		entry := &mt.steps[i]
		if !urlMatches(req.URL.String(), entry.step.MatchURL) {
			continue
		}
		entry.callCount++
		return buildHTTPResponse(req, entry.step.ReturnData), nil
	}
	return nil, fmt.Errorf("testkit: unexpected outgoing HTTP call to %s", req.URL)
}

// AssertAllCalled reports every mock step that was never triggered.
func (mt *MockTransport) AssertAllCalled() []error {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	var errs []error
	for _, e := range mt.steps {
		if e.callCount == 0 {
			errs = append(errs, fmt.Errorf("testkit: mock for %q was never called", e.step.MatchURL))
		}
	}
	return errs
}

// urlMatches reports whether candidate starts with pattern. An empty
// pattern matches anything.
func urlMatches(candidate, pattern string) bool {
	return pattern == "" || strings.HasPrefix(candidate, pattern)
}

func buildHTTPResponse(req *http.Request, rd MockReturnData) *http.Response {
	code := rd.StatusCode
	if code == 0 {
		code = http.StatusOK
	}

	header := make(http.Header)
	header.Set("Content-Type", "application/json")
	return &http.Response{
		StatusCode: code,
		Status:     fmt.Sprintf("%d %s", code, http.StatusText(code)),
		Header:     header,
		Body:       io.NopCloser(bytes.NewReader(rd.Body)),
		Request:    req,
	}
}
