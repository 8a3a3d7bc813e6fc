package testkit

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pizzahttp "github.com/shashiranjanraj/jwtpizza/pkg/http"
)

// echoHandler issues a token on PUT /login and echoes the bearer and body
// back on POST /echo. POST /relay calls the outside world through pkg/http.
var echoHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/login":
		json.NewEncoder(w).Encode(map[string]any{"token": "tok-1", "user": map[string]any{"id": 7}}) //nolint:errcheck
	case "/echo":
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
			"auth":  r.Header.Get("Authorization"),
			"query": r.URL.Query().Get("id"),
			"body":  body,
		})
	case "/relay":
		resp, err := pizzahttp.Post("http://factory.test/api/order").Body(map[string]any{}).Send()
		if err != nil {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(resp.StatusCode)
		w.Write(resp.Raw) //nolint:errcheck
	default:
		w.WriteHeader(http.StatusNotFound)
	}
})

func writeScenario(t *testing.T, s string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "flow.json")
	require.NoError(t, os.WriteFile(path, []byte(s), 0o600))
	return path
}

func TestFlowCapturesAndSubstitutes(t *testing.T) {
	path := writeScenario(t, `{
	  "name": "login then echo",
	  "steps": [
	    {"name": "login", "method": "PUT", "url": "/login", "expectedCode": 200,
	     "capture": {"me": "token", "myId": "user.id"}},
	    {"name": "echo", "method": "POST", "url": "/echo?id={{myId}}", "as": "me",
	     "body": {"dinerId": "{{myId}}", "note": "user {{myId}}"},
	     "expectedCode": 200,
	     "expect": {"auth": "Bearer tok-1", "query": "7", "body": {"dinerId": 7, "note": "user 7"}}}
	  ]
	}`)
	Run(t, echoHandler, path)
}

func TestFactoryMockIsInstalledPerStep(t *testing.T) {
	path := writeScenario(t, `{
	  "name": "relay",
	  "steps": [
	    {"url": "/relay", "method": "POST", "expectedCode": 200,
	     "expect": {"jwt": "<any>"},
	     "factoryMock": [{"matchUrl": "http://factory.test/", "returnData": {"body": {"jwt": "receipt"}}}]}
	  ]
	}`)
	Run(t, echoHandler, path)

	_, isMock := pizzahttp.DefaultClient.Transport.(*MockTransport)
	assert.False(t, isMock)
}

func TestLoadScenarioValidates(t *testing.T) {
	_, err := LoadScenario(writeScenario(t, `{"name": "empty", "steps": []}`))
	assert.Error(t, err)

	_, err = LoadScenario(writeScenario(t, `{"name": "no code", "steps": [{"url": "/"}]}`))
	assert.Error(t, err)

	s, err := LoadScenario(writeScenario(t, `{"name": "ok", "steps": [{"url": "/x", "expectedCode": 200}]}`))
	require.NoError(t, err)
	assert.Equal(t, "GET", s.Steps[0].Method)
	assert.Equal(t, "GET /x", s.Steps[0].Name)
}

func TestDiffJSONSubset(t *testing.T) {
	decode := func(s string) interface{} {
		var v interface{}
		require.NoError(t, json.Unmarshal([]byte(s), &v))
		return v
	}
	actual := decode(`{"franchises":[{"id":1,"name":"a"},{"id":2,"name":"b"}],"more":false,"token":"x"}`)

	assert.Empty(t, DiffJSON("", decode(`{"more":false}`), actual))
	assert.Empty(t, DiffJSON("", decode(`{"franchises":[{"name":"b"}],"token":"<any>"}`), actual))
	assert.NotEmpty(t, DiffJSON("", decode(`{"franchises":[{"name":"c"}]}`), actual))
	assert.NotEmpty(t, DiffJSON("", decode(`{"missing":1}`), actual))
	assert.NotEmpty(t, DiffJSON("", decode(`{"more":true}`), actual))
}

func TestLookup(t *testing.T) {
	var doc interface{}
	require.NoError(t, json.Unmarshal([]byte(`{"franchises":[{"id":4,"stores":[{"id":9}]}]}`), &doc))

	v, ok := lookup(doc, "franchises.0.stores.0.id")
	require.True(t, ok)
	assert.Equal(t, float64(9), v)

	_, ok = lookup(doc, "franchises.3.id")
	assert.False(t, ok)
}
