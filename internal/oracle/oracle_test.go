package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"colorder/internal/matcher"
)

// stubClient returns a canned reply or error and records the request.
type stubClient struct {
	reply string
	err   error
	last  Request
}

func (c *stubClient) Complete(_ context.Context, req Request) (string, error) {
	c.last = req
	return c.reply, c.err
}

func requireOracleError(t *testing.T, err error, want ErrorType) {
	t.Helper()
	var oe *OracleError
	require.True(t, errors.As(err, &oe), "expected *OracleError, got %T: %v", err, err)
	assert.Equal(t, want, oe.Type)
}

func TestParseAssignments(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []int
	}{
		{"all matched", `{"1": 2, "2": 1}`, []int{1, 0}},
		{"null means no match", `{"1": null, "2": 1}`, []int{-1, 0}},
		{"omitted source is unmatched", `{"2": 2}`, []int{-1, 1}},
		{"markdown fence", "```json\n{\"1\": 1, \"2\": 2}\n```", []int{0, 1}},
		{"leading chatter", "Here is the mapping:\n{\"1\": 1, \"2\": null}", []int{0, -1}},
		{"integral float", `{"1": 2.0, "2": 1}`, []int{1, 0}},
		{"repeated key keeps first", `{"1": 1, "1": 2, "2": null}`, []int{0, -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAssignments(tt.content, 2, 2)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseAssignments_Failures(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    ErrorType
	}{
		{"not json", "I could not find a match", InvalidResponse},
		{"truncated", `{"1": 2,`, InvalidResponse},
		{"array", `[1, 2]`, InvalidResponse},
		{"non numeric key", `{"Carrier": 1}`, InvalidResponse},
		{"string target", `{"1": "2"}`, InvalidResponse},
		{"fractional target", `{"1": 1.5}`, InvalidResponse},
		{"source out of range", `{"3": 1}`, IndexOutOfRange},
		{"source zero", `{"0": 1}`, IndexOutOfRange},
		{"target out of range", `{"1": 3}`, IndexOutOfRange},
		{"target zero", `{"1": 0}`, IndexOutOfRange},
		{"huge target", `{"1": 1e300}`, IndexOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAssignments(tt.content, 2, 2)
			requireOracleError(t, err, tt.want)
		})
	}
}

func TestReconcile_FirstSourceWins(t *testing.T) {
	// sources 0 and 2 both claim canonical 1; canonical 0 and 2 are unclaimed
	mapping := Reconcile([]int{1, -1, 1}, 3)

	assert.Equal(t, matcher.Mapping{matcher.Unmapped, 0, matcher.Unmapped}, mapping)
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt([]string{"st", "Carrier\nName"}, []string{"ST", "Carrier"})

	assert.Contains(t, prompt, `1. "st"`)
	assert.Contains(t, prompt, `2. "Carrier\nName"`)
	assert.Contains(t, prompt, "Target headers:\n1. \"ST\"\n2. \"Carrier\"")
	assert.Contains(t, prompt, "JSON object")
}

func TestStrategy_Map(t *testing.T) {
	client := &stubClient{reply: `{"1": 2, "2": 1, "3": null}`}
	s := NewStrategy(client, "gpt-test", 0)

	mapping, err := s.Map(context.Background(), []string{"Carrier Name", "State", "Memo"}, []string{"ST", "Carrier"})
	require.NoError(t, err)

	assert.Equal(t, matcher.Mapping{1, 0}, mapping)
	assert.Equal(t, "gpt-test", client.last.Model)
	assert.Equal(t, 0.0, client.last.Temperature)
	assert.True(t, client.last.JSON)
	assert.Equal(t, matcher.StrategyOracle, s.Name())
}

func TestStrategy_WrapsClientErrors(t *testing.T) {
	s := NewStrategy(&stubClient{err: errors.New("connection reset")}, "gpt-test", 0)

	_, err := s.Map(context.Background(), []string{"ST"}, []string{"ST"})
	requireOracleError(t, err, Transport)

	s = NewStrategy(&stubClient{err: newError(MissingCredentials, nil, "no key")}, "gpt-test", 0)
	_, err = s.Map(context.Background(), []string{"ST"}, []string{"ST"})
	requireOracleError(t, err, MissingCredentials)

	s = NewStrategy(nil, "gpt-test", 0)
	_, err = s.Map(context.Background(), []string{"ST"}, []string{"ST"})
	requireOracleError(t, err, MissingCredentials)
}

func TestStrategy_FallbackThroughResolve(t *testing.T) {
	source := []string{"st", "Carrier  \n"}
	canonical := []string{"ST", "Carrier"}
	s := NewStrategy(&stubClient{reply: `{"1": 9}`}, "gpt-test", 0)

	outcome := matcher.Resolve(context.Background(), s, source, canonical)

	assert.True(t, outcome.UsedFallback())
	requireOracleError(t, outcome.Fallback, IndexOutOfRange)
	assert.Equal(t, matcher.MapDeterministic(source, canonical), outcome.Mapping)
}

func TestHTTPClient_Complete(t *testing.T) {
	var captured map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"1\": 1}"}}]}`))
	}))
	defer server.Close()

	client := NewHTTPClient("sk-test", server.URL+"/v1/", 5*time.Second)
	reply, err := client.Complete(context.Background(), Request{
		Model:       "gpt-test",
		Prompt:      "match these",
		Temperature: 0,
		JSON:        true,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"1": 1}`, reply)

	assert.Equal(t, "gpt-test", captured["model"])
	temperature, ok := captured["temperature"]
	assert.True(t, ok, "temperature must be sent even when zero")
	assert.Equal(t, 0.0, temperature)
	assert.Equal(t, map[string]interface{}{"type": "json_object"}, captured["response_format"])

	messages := captured["messages"].([]interface{})
	require.Len(t, messages, 2)
	assert.Equal(t, "match these", messages[1].(map[string]interface{})["content"])
}

func TestHTTPClient_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   ErrorType
	}{
		{"server error", http.StatusInternalServerError, `{"error":{"message":"overloaded"}}`, Transport},
		{"unauthorized", http.StatusUnauthorized, `{"error":{"message":"bad key"}}`, Transport},
		{"not json", http.StatusOK, `<html>gateway</html>`, InvalidResponse},
		{"no choices", http.StatusOK, `{"choices":[]}`, InvalidResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewHTTPClient("sk-test", server.URL, 5*time.Second)
			_, err := client.Complete(context.Background(), Request{Model: "gpt-test", Prompt: "p"})
			requireOracleError(t, err, tt.want)
		})
	}
}

func TestHTTPClient_MissingKey(t *testing.T) {
	client := NewHTTPClient("  ", "", time.Second)
	assert.Equal(t, DefaultBaseURL, client.BaseURL)

	_, err := client.Complete(context.Background(), Request{Model: "gpt-test", Prompt: "p"})
	requireOracleError(t, err, MissingCredentials)
}

func TestHTTPClient_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewHTTPClient("sk-test", url, time.Second)
	_, err := client.Complete(context.Background(), Request{Model: "gpt-test", Prompt: "p"})
	requireOracleError(t, err, Transport)
	assert.False(t, strings.Contains(err.Error(), "sk-test"), "errors must not leak the API key")
}
