package testkit

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	pizzahttp "github.com/shashiranjanraj/jwtpizza/pkg/http"
)

// Run loads one scenario file and runs it against handler.
func Run(t *testing.T, handler http.Handler, path string) {
	t.Helper()
	s, err := LoadScenario(path)
	if err != nil {
		t.Fatal(err)
	}
	NewFlow().Run(t, handler, s)
}

// RunDir runs every scenario in dir, each with its own variables.
func RunDir(t *testing.T, handler http.Handler, dir string) {
	t.Helper()
	scenarios, errs := LoadAllFromDir(dir)
	for _, err := range errs {
		t.Error(err)
	}
	for _, s := range scenarios {
		NewFlow().Run(t, handler, s)
	}
}

// Flow holds the variables captured while a scenario runs.
type Flow struct {
	vars map[string]json.RawMessage
}

func NewFlow() *Flow {
	return &Flow{vars: map[string]json.RawMessage{}}
}

// Set stores v, JSON-encoded, under name.
func (f *Flow) Set(name string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	f.vars[name] = raw
}

// Var returns the text form of a captured value.
func (f *Flow) Var(name string) string {
	return textOf(f.vars[name])
}

// Run fires the scenario's steps in order as subtests.
func (f *Flow) Run(t *testing.T, handler http.Handler, s *Scenario) {
	t.Helper()
	t.Run(s.Name, func(t *testing.T) {
		for _, step := range s.Steps {
			ok := t.Run(step.Name, func(t *testing.T) {
				f.runStep(t, handler, step)
			})
			if !ok {
				// later steps depend on this one's captures
				return
			}
		}
	})
}

func (f *Flow) runStep(t *testing.T, handler http.Handler, st Step) {
	t.Helper()

	var body io.Reader
	if len(st.Body) > 0 {
		body = strings.NewReader(f.expandJSON(t, string(st.Body)))
	}

	req := httptest.NewRequest(strings.ToUpper(st.Method), f.expandText(t, st.URL), body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if st.As != "" {
		req.Header.Set("Authorization", "Bearer "+f.Var(st.As))
	}
	for k, v := range st.Headers {
		req.Header.Set(k, f.expandText(t, v))
	}

	var mt *MockTransport
	if len(st.FactoryMock) > 0 {
		mt = NewMockTransport(st.FactoryMock)
		pizzahttp.DefaultClient.Transport = mt
		defer pizzahttp.ResetTransport()
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	AssertStatusCode(t, st, rec.Code, rec.Body.Bytes())
	if len(st.Expect) > 0 {
		AssertJSONSubset(t, st.Name, []byte(f.expandJSON(t, string(st.Expect))), rec.Body.Bytes())
	}
	if mt != nil {
		for _, err := range mt.AssertAllCalled() {
			assert.NoError(t, err, "[%s]", st.Name)
		}
	}
	f.capture(t, st, rec.Body.Bytes())
}

func (f *Flow) capture(t *testing.T, st Step, body []byte) {
	t.Helper()
	if len(st.Capture) == 0 {
		return
	}

	var doc interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		t.Fatalf("[%s] capture from non-JSON body: %s", st.Name, body)
	}
	for name, path := range st.Capture {
		v, ok := lookup(doc, path)
		if !ok {
			t.Fatalf("[%s] capture %q: path %q not in response %s", st.Name, name, path, body)
		}
		f.Set(name, v)
	}
}

// expandJSON substitutes variables into JSON text.
func (f *Flow) expandJSON(t *testing.T, text string) string {
	t.Helper()
	for name, raw := range f.vars {
		text = strings.ReplaceAll(text, `"{{`+name+`}}"`, string(raw))
	}
	return f.expandText(t, text)
}

// expandText substitutes the text form of variables.
func (f *Flow) expandText(t *testing.T, text string) string {
	t.Helper()
	for name, raw := range f.vars {
		text = strings.ReplaceAll(text, "{{"+name+"}}", textOf(raw))
	}
	if i := strings.Index(text, "{{"); i >= 0 {
		t.Fatalf("testkit: unresolved variable in %q", text)
	}
	return text
}

func textOf(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(bytes.TrimSpace(raw))
}

// lookup walks a dotted path such as "franchises.0.id".
func lookup(doc interface{}, path string) (interface{}, bool) {
	cur := doc
	for _, key := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]interface{}:
			v, ok := node[key]
			if !ok {
				return nil, false
			}
			cur = v
		case []interface{}:
			i, err := strconv.Atoi(key)
			if err != nil || i < 0 || i >= len(node) {
				return nil, false
			}
			cur = node[i]
		default:
			return nil, false
		}
	}
	return cur, true
}
