package graphql

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func newTestHandler(t *testing.T) *GraphQLHandler {
	t.Helper()
	schema, err := NewSchema(setupReport(t))
	if err != nil {
		t.Fatalf("NewSchema() error = %v", err)
	}
	return NewGraphQLHandler(schema, 0)
}

func decodeResponse(t *testing.T, rr *httptest.ResponseRecorder) GraphQLResponse {
	t.Helper()
	var response GraphQLResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	return response
}

// TestGraphQLHTTPHandler tests the HTTP handler for GraphQL queries
func TestGraphQLHTTPHandler(t *testing.T) {
	handler := newTestHandler(t)

	body, _ := json.Marshal(GraphQLRequest{Query: `{ report { graph { nodes } } }`})
	req := httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Handler returned wrong status code: got %v want %v", rr.Code, http.StatusOK)
	}
	response := decodeResponse(t, rr)
	if len(response.Errors) > 0 {
		t.Fatalf("Response has errors: %v", response.Errors)
	}

	data := response.Data.(map[string]any)
	nodes := data["report"].(map[string]any)["graph"].(map[string]any)["nodes"]
	if nodes != 4.0 {
		t.Errorf("nodes = %v, want 4", nodes)
	}
}

func TestGraphQLHTTPHandler_Get(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/graphql?query="+url.QueryEscape(`{ health }`), nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	response := decodeResponse(t, rr)
	if got := response.Data.(map[string]any)["health"]; got != "ok" {
		t.Errorf("health = %v, want ok", got)
	}
}

func TestGraphQLHTTPHandler_BadRequests(t *testing.T) {
	handler := newTestHandler(t)

	tests := []struct {
		name   string
		method string
		body   string
		want   int
	}{
		{"invalid json", http.MethodPost, "{not json", http.StatusBadRequest},
		{"missing query", http.MethodPost, `{"query": ""}`, http.StatusBadRequest},
		{"wrong method", http.MethodDelete, "", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/graphql", bytes.NewReader([]byte(tt.body)))
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			if rr.Code != tt.want {
				t.Errorf("status = %d, want %d", rr.Code, tt.want)
			}
		})
	}
}

func TestGraphQLHTTPHandler_QueryErrors(t *testing.T) {
	handler := newTestHandler(t)

	body, _ := json.Marshal(GraphQLRequest{Query: `{ report { nonexistent } }`})
	req := httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if response := decodeResponse(t, rr); len(response.Errors) == 0 {
		t.Error("expected errors for unknown field")
	}
}
