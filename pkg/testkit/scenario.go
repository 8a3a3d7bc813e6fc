// Package testkit runs JSON-described API flows against an http.Handler.
//
// A scenario file is a named list of steps fired in order. Values captured
// from one response can be used by later steps:
//
//	{
//	  "name": "diner orders a pizza",
//	  "steps": [
//	    {"name": "login", "method": "PUT", "url": "/api/auth",
//	     "body": {"email": "d@jwt.com", "password": "diner"},
//	     "expectedCode": 200, "capture": {"diner": "token", "dinerId": "user.id"}},
//	    {"name": "list orders", "method": "GET", "url": "/api/order", "as": "diner",
//	     "expectedCode": 200, "expect": {"dinerId": "{{dinerId}}"}}
//	  ]
//	}
//
// "{{var}}" as a whole JSON string is replaced by the captured JSON value;
// inside a longer string, in a URL or in a header it is replaced by its text.
// "as" names a captured token sent as the bearer. "expect" is matched as a
// subset of the response body, and the string "<any>" matches any value.
package testkit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Scenario is one API flow loaded from a JSON file.
type Scenario struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Steps       []Step `json:"steps"`
}

// Step is one request and its assertions.
type Step struct {
	Name    string            `json:"name"`
	Method  string            `json:"method"`
	URL     string            `json:"url"`
	As      string            `json:"as"`
	Headers map[string]string `json:"headers"`
	Body    json.RawMessage   `json:"body"`

	ExpectedCode int               `json:"expectedCode"`
	Expect       json.RawMessage   `json:"expect"`
	Capture      map[string]string `json:"capture"`

	// FactoryMock intercepts outgoing pkg/http calls made while the step runs.
	FactoryMock []MockStep `json:"factoryMock"`
}

// MockStep describes one intercepted outgoing call.
type MockStep struct {
	// MatchURL is a prefix of the outgoing URL. Empty matches any call.
	MatchURL   string         `json:"matchUrl"`
	ReturnData MockReturnData `json:"returnData"`
}

type MockReturnData struct {
	StatusCode int             `json:"statusCode"` // defaults to 200
	Body       json.RawMessage `json:"body"`
}

// LoadScenario reads and validates a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("testkit: read %q: %w", path, err)
	}

	var s Scenario
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("testkit: parse %q: %w", path, err)
	}
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("testkit: invalid scenario %q: %w", path, err)
	}
	return &s, nil
}

func (s *Scenario) validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("at least one step is required")
	}
	for i := range s.Steps {
		st := &s.Steps[i]
		if st.URL == "" {
			return fmt.Errorf("steps[%d].url is required", i)
		}
		if st.ExpectedCode == 0 {
			return fmt.Errorf("steps[%d].expectedCode is required", i)
		}
		if st.Method == "" {
			st.Method = "GET"
		}
		if st.Name == "" {
			st.Name = fmt.Sprintf("%s %s", st.Method, st.URL)
		}
	}
	return nil
}

// LoadAllFromDir loads every *.json file in dir. Files that fail to load
// are returned as errors.
func LoadAllFromDir(dir string) ([]*Scenario, []error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil || len(paths) == 0 {
		return nil, []error{fmt.Errorf("testkit: no scenario files found in %q", dir)}
	}

	var (
		scenarios []*Scenario
		errs      []error
	)
	for _, path := range paths {
		s, err := LoadScenario(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, errs
}
