package testkit

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Any matches every value in an expected body.
const Any = "<any>"

// AssertStatusCode checks the response code and shows the body on mismatch.
func AssertStatusCode(t *testing.T, st Step, got int, body []byte) {
	t.Helper()
	assert.Equal(t, st.ExpectedCode, got,
		"[%s] HTTP status code mismatch\nbody: %s", st.Name, body)
}

// AssertJSONSubset checks that every value in expected is present in actual.
// Extra fields in actual are ignored.
func AssertJSONSubset(t *testing.T, name string, expected, actual []byte) {
	t.Helper()

	var expVal, actVal interface{}
	require.NoError(t, json.Unmarshal(expected, &expVal),
		"[%s] expected body is not valid JSON", name)
	if !assert.NoError(t, json.Unmarshal(actual, &actVal),
		"[%s] actual response is not valid JSON\nbody: %s", name, actual) {
		return
	}

	if diffs := DiffJSON("", expVal, actVal); len(diffs) > 0 {
		t.Errorf("[%s] response body mismatch:\n%s\nbody: %s", name, strings.Join(diffs, "\n"), actual)
	}
}

// DiffJSON lists where actual fails to contain expected. Objects match when
// every expected key matches; arrays when every expected element matches
// some actual element.
func DiffJSON(path string, expected, actual interface{}) []string {
	var diffs []string
	switch exp := expected.(type) {
	case map[string]interface{}:
		act, ok := actual.(map[string]interface{})
		if !ok {
			return append(diffs, fmt.Sprintf("  %s: expected object, got %T", keyPath(path), actual))
		}
		for k, ev := range exp {
			p := keyPath(path) + "." + k
			av, exists := act[k]
			if !exists {
				diffs = append(diffs, fmt.Sprintf("  %s: missing in actual", p))
				continue
			}
			diffs = append(diffs, DiffJSON(p, ev, av)...)
		}
	case []interface{}:
		act, ok := actual.([]interface{})
		if !ok {
			return append(diffs, fmt.Sprintf("  %s: expected array, got %T", keyPath(path), actual))
		}
		for i, ev := range exp {
			if !containsMatch(act, ev) {
				diffs = append(diffs, fmt.Sprintf("  %s[%d]: no element matches %v", keyPath(path), i, ev))
			}
		}
	case string:
		if exp == Any {
			return nil
		}
		if exp != actual {
			diffs = append(diffs, fmt.Sprintf("  %s:\n    - %v\n    + %v", keyPath(path), expected, actual))
		}
	default:
		if fmt.Sprintf("%v", expected) != fmt.Sprintf("%v", actual) {
			diffs = append(diffs, fmt.Sprintf("  %s:\n    - %v\n    + %v", keyPath(path), expected, actual))
		}
	}
	return diffs
}

func containsMatch(candidates []interface{}, expected interface{}) bool {
	for _, c := range candidates {
		if len(DiffJSON("", expected, c)) == 0 {
			return true
		}
	}
	return false
}

func keyPath(path string) string {
	if path == "" {
		return "root"
	}
	return strings.TrimPrefix(path, ".")
}
