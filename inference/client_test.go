package inference

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, WithHTTPClient(srv.Client()))
}

func TestExtractEntities_DecodesPayload(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/ner/extract-entities", r.URL.Path)
		w.Write([]byte(`{"success": true, "entities": [{"text": "Acme", "label": "ORG"}]}`))
	})

	payload, err := c.ExtractEntities(context.Background(), "Acme filed its report.")
	require.NoError(t, err)
	assert.Equal(t, true, payload["success"])
}

func TestPostJSON_NoRetryOnClientError(t *testing.T) {
	calls := 0
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail": "Text cannot be empty"}`))
	})

	_, err := c.ExtractEntities(context.Background(), "")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Text cannot be empty", apiErr.Detail)
	assert.Equal(t, 1, calls)
}

func TestPostJSON_RetriesServerErrors(t *testing.T) {
	calls := 0
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"success": true}`))
	})

	// Shrink the backoff indirectly by keeping the failure count at one.
	start := time.Now()
	payload, err := c.AnalyzeSentiment(context.Background(), "Revenue grew.")
	require.NoError(t, err)
	assert.Equal(t, true, payload["success"])
	assert.Equal(t, 2, calls)
	assert.Less(t, time.Since(start), 10*time.Second)
}

func TestExtractClauses_RepairsMalformedJSON(t *testing.T) {
	// Trailing comma plus missing closing brace, the kind of output a relayed
	// LLM response produces.
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"clauses": [{"type": "payment_clause", "text": "Payment due in 30 days."},]`))
	})

	payload, err := c.ExtractClauses(context.Background(), "Payment due in 30 days.")
	require.NoError(t, err)
	assert.Contains(t, payload, "clauses")
}

func TestExtractText_RejectsEmptyText(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": true, "text": ""}`))
	})

	_, err := c.ExtractText(context.Background(), "empty.pdf", strings.NewReader("data"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no text could be extracted")
}

func TestQuery_DecodesSources(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/rag/query", r.URL.Path)
		w.Write([]byte(`{"success": true, "answer": "Thirty days.", "metadata": {"sources_used": ["contract.pdf"]}}`))
	})

	result, err := c.Query(context.Background(), "When is payment due?", 0)
	require.NoError(t, err)
	assert.Equal(t, "Thirty days.", result.Answer)
	assert.Equal(t, []string{"contract.pdf"}, result.Sources)
}

func TestBackendStatus_ReportsUnreachable(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v1/rag/status" {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"status": "ok"}`))
	})

	status := c.BackendStatus(context.Background())
	assert.True(t, status["ner"])
	assert.True(t, status["finbert"])
	assert.False(t, status["rag"])
}
