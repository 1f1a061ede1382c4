package conformance_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os/exec"
	"strconv"
	"strings"
	"testing"
)

// doRequest makes an HTTP request to the test server as the portal owning key
// and returns the response. An empty key sends no hapikey. The caller is
// responsible for closing the response body.
func doRequest(t *testing.T, method, path, key string, body any) *http.Response {
	t.Helper()

	var bodyReader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		bodyReader = bytes.NewReader(b)
	}

	target := serverURL + path
	if key != "" {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		target += sep + "hapikey=" + url.QueryEscape(key)
	}

	req, err := http.NewRequest(method, target, bodyReader)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

// readJSON reads the response body and unmarshals it into a map.
func readJSON(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}

	var result map[string]any
	if err := json.Unmarshal(b, &result); err != nil {
		t.Fatalf("unmarshal response (status %d): body=%s err=%v", resp.StatusCode, string(b), err)
	}
	return result
}

// mustStatus asserts the HTTP response has the expected status code.
func mustStatus(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		b, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected status %d, got %d; body=%s", expected, resp.StatusCode, string(b))
	}
}

// resetServer calls POST /_sandbox/reset to return the server to its seeded state.
func resetServer(t *testing.T) {
	t.Helper()
	resp := doRequest(t, http.MethodPost, "/_sandbox/reset", "", nil)
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		t.Fatalf("reset server failed: status=%d body=%s", resp.StatusCode, string(b))
	}
}

// list fetches a whole collection as key.
func list(t *testing.T, path, key string) []map[string]any {
	t.Helper()
	resp := doRequest(t, http.MethodGet, path+"?limit=1000", key, nil)
	mustStatus(t, resp, http.StatusOK)
	body := readJSON(t, resp)

	var out []map[string]any
	for _, o := range assertIsArray(t, body, "objects") {
		m, ok := o.(map[string]any)
		if !ok {
			t.Fatalf("object is %T, want map", o)
		}
		out = append(out, m)
	}
	return out
}

// create posts body to path as key and returns the created object.
func create(t *testing.T, path, key string, body any) map[string]any {
	t.Helper()
	resp := doRequest(t, http.MethodPost, path, key, body)
	mustStatus(t, resp, http.StatusCreated)
	return readJSON(t, resp)
}

type requestLogEntry struct {
	ID          int64  `json:"id"`
	Method      string `json:"method"`
	Path        string `json:"path"`
	PortalID    int64  `json:"portalId"`
	StatusCode  int    `json:"statusCode"`
	RequestBody string `json:"requestBody"`
}

// requestLog returns up to 1000 recorded requests, newest first.
func requestLog(t *testing.T) []requestLogEntry {
	t.Helper()
	resp := doRequest(t, http.MethodGet, "/_sandbox/requests?limit=1000", "", nil)
	mustStatus(t, resp, http.StatusOK)
	defer func() { _ = resp.Body.Close() }()

	var out struct {
		Results []requestLogEntry `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode request log: %v", err)
	}
	return out.Results
}

// requestsSince returns the logged requests newer than afterID.
func requestsSince(t *testing.T, afterID int64) []requestLogEntry {
	t.Helper()
	var out []requestLogEntry
	for _, e := range requestLog(t) {
		if e.ID > afterID {
			out = append(out, e)
		}
	}
	return out
}

// lastRequestID returns the id of the newest logged request, 0 if none.
func lastRequestID(t *testing.T) int64 {
	t.Helper()
	entries := requestLog(t)
	if len(entries) == 0 {
		return 0
	}
	return entries[0].ID
}

// runCLI runs the solarsail binary against the sandbox with extra environment
// and returns its combined output and exit code.
func runCLI(t *testing.T, env []string, args ...string) (string, int) {
	t.Helper()
	cmd := exec.Command(cliPath, append([]string{"--no-color", "--env-file", "does-not-exist.env"}, args...)...)
	cmd.Env = append([]string{
		"SOLARSAIL_BASE_URL=" + serverURL + "/",
		"SOLARSAIL_REQUEST_INTERVAL=0s",
	}, env...)

	out, err := cmd.CombinedOutput()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return string(out), exitErr.ExitCode()
		}
		t.Fatalf("run solarsail: %v", err)
	}
	return string(out), 0
}

func keysEnv() []string {
	return []string{
		"HAPI_KEY_SOURCE=" + sourceKey,
		"HAPI_KEY_DESTINATION=" + destinationKey,
	}
}

// assertHubSpotError validates the response matches the standard HubSpot error format.
func assertHubSpotError(t *testing.T, body map[string]any, expectedCategory string) {
	t.Helper()
	assertStringField(t, body, "status", "error")
	assertFieldPresent(t, body, "message")
	assertFieldPresent(t, body, "correlationId")
	if expectedCategory != "" {
		assertStringField(t, body, "category", expectedCategory)
	}
}

// assertFieldPresent checks that a key exists in the map.
func assertFieldPresent(t *testing.T, m map[string]any, key string) {
	t.Helper()
	if _, ok := m[key]; !ok {
		t.Errorf("expected field %q to be present, got keys: %v", key, mapKeys(m))
	}
}

// assertStringField checks that a key exists and has the expected string value.
func assertStringField(t *testing.T, m map[string]any, key, expected string) {
	t.Helper()
	v, ok := m[key]
	if !ok {
		t.Errorf("expected field %q to be present", key)
		return
	}
	s, ok := v.(string)
	if !ok {
		t.Errorf("expected field %q to be string, got %T", key, v)
		return
	}
	if s != expected {
		t.Errorf("field %q: expected %q, got %q", key, expected, s)
	}
}

// assertIsArray checks that a field is a JSON array and returns it.
func assertIsArray(t *testing.T, m map[string]any, key string) []any {
	t.Helper()
	v, ok := m[key]
	if !ok {
		t.Errorf("expected field %q to be present", key)
		return nil
	}
	a, ok := v.([]any)
	if !ok {
		t.Errorf("expected field %q to be array, got %T", key, v)
		return nil
	}
	return a
}

// idOf returns the numeric id of an object as a path segment.
func idOf(t *testing.T, m map[string]any) string {
	t.Helper()
	v, ok := m["id"].(float64)
	if !ok {
		t.Fatalf("expected numeric id, got %v (%T)", m["id"], m["id"])
	}
	return strconv.FormatInt(int64(v), 10)
}

func mapKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

func byName(objs []map[string]any, field string) map[string][]map[string]any {
	out := map[string][]map[string]any{}
	for _, o := range objs {
		name := fmt.Sprint(o[field])
		out[name] = append(out[name], o)
	}
	return out
}
