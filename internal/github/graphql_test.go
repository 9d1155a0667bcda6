// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	triageerrors "github.com/sirseerhq/sirseer-triage/internal/errors"
)

// graphqlRequest mirrors the request body the client sends, captured for
// query and variable assertions.
type graphqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

// newTestClient builds a GraphQLClient wired to an httptest server that
// replies with the given response body and status code. The last request
// body is captured for assertions when lastReq is non-nil.
func newTestClient(t *testing.T, responseCode int, response interface{}, lastReq *graphqlRequest) (*GraphQLClient, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-token" {
			t.Errorf("expected Bearer test-token, got %s", auth)
		}
		if ua := r.Header.Get("User-Agent"); !strings.HasPrefix(ua, "sirseer-triage/") {
			t.Errorf("expected sirseer-triage user agent, got %s", ua)
		}

		if lastReq != nil {
			if err := json.NewDecoder(r.Body).Decode(lastReq); err != nil {
				t.Fatalf("failed to decode request: %v", err)
			}
		}

		w.WriteHeader(responseCode)
		json.NewEncoder(w).Encode(response)
	}))
	t.Cleanup(server.Close)

	return NewGraphQLClient("test-token", server.URL+"/graphql"), server
}

func createGraphQLIssueEdge(number int, title string, crossRefs int, labels ...string) map[string]interface{} {
	labelNodes := make([]interface{}, 0, len(labels))
	for _, l := range labels {
		labelNodes = append(labelNodes, map[string]interface{}{"name": l})
	}

	return map[string]interface{}{
		"cursor": fmt.Sprintf("Y3Vyc29yOnYyOpHO%d", number),
		"node": map[string]interface{}{
			"number":    number,
			"title":     title,
			"url":       fmt.Sprintf("https://github.com/octocat/hello-world/issues/%d", number),
			"createdAt": time.Now().Add(-24 * time.Hour).Format(time.RFC3339),
			"labels": map[string]interface{}{
				"nodes": labelNodes,
			},
			"timelineItems": map[string]interface{}{
				"totalCount": crossRefs,
			},
		},
	}
}

func issuesResponse(hasNextPage bool, totalCount int, edges ...interface{}) map[string]interface{} {
	if edges == nil {
		edges = []interface{}{}
	}
	return map[string]interface{}{
		"data": map[string]interface{}{
			"repository": map[string]interface{}{
				"issues": map[string]interface{}{
					"totalCount": totalCount,
					"pageInfo": map[string]interface{}{
						"hasNextPage": hasNextPage,
						"endCursor":   "",
					},
					"edges": edges,
				},
			},
		},
	}
}

func TestNewGraphQLClient(t *testing.T) {
	client := NewGraphQLClient("test-token", "https://api.github.com/graphql")
	if client == nil {
		t.Fatal("expected non-nil client")
	}

	// Verify it implements the Client interface
	var _ Client = client
}

func TestGraphQLClient_GetRepositoryInfo(t *testing.T) {
	tests := []struct {
		name          string
		response      interface{}
		responseCode  int
		wantError     error
		wantOpenCount int
	}{
		{
			name: "successful response",
			response: map[string]interface{}{
				"data": map[string]interface{}{
					"repository": map[string]interface{}{
						"issues": map[string]interface{}{
							"totalCount": 137,
						},
					},
				},
			},
			responseCode:  http.StatusOK,
			wantOpenCount: 137,
		},
		{
			name: "repository not found",
			response: map[string]interface{}{
				"errors": []interface{}{
					map[string]interface{}{
						"message": "Could not resolve to a Repository",
					},
				},
			},
			responseCode: http.StatusOK,
			wantError:    triageerrors.ErrRepoNotFound,
		},
		{
			name:         "authentication error",
			response:     map[string]interface{}{"message": "Bad credentials"},
			responseCode: http.StatusUnauthorized,
			wantError:    triageerrors.ErrInvalidToken,
		},
		{
			name:         "rate limit error",
			response:     map[string]interface{}{"message": "API rate limit exceeded"},
			responseCode: http.StatusTooManyRequests,
			wantError:    triageerrors.ErrRateLimit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, tt.responseCode, tt.response, nil)

			info, err := client.GetRepositoryInfo(context.Background(), "octocat", "hello-world")

			if tt.wantError != nil {
				if !errors.Is(err, tt.wantError) {
					t.Fatalf("expected %v, got %v", tt.wantError, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if info.TotalOpenIssues != tt.wantOpenCount {
				t.Errorf("expected %d open issues, got %d", tt.wantOpenCount, info.TotalOpenIssues)
			}
		})
	}
}

func TestGraphQLClient_FetchIssues(t *testing.T) {
	response := issuesResponse(true, 5,
		createGraphQLIssueEdge(368, "Most referenced", 3, "bug", "Triaged"),
		createGraphQLIssueEdge(389, "Never referenced", 0),
	)

	var lastReq graphqlRequest
	client, _ := newTestClient(t, http.StatusOK, response, &lastReq)

	page, err := client.FetchIssues(context.Background(), "octocat", "hello-world", FetchOptions{PageSize: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(page.Edges) != 2 {
		t.Fatalf("expected 2 edges, got %d", len(page.Edges))
	}
	if !page.HasNextPage {
		t.Error("expected HasNextPage=true")
	}
	if page.TotalCount != 5 {
		t.Errorf("expected total count hint 5, got %d", page.TotalCount)
	}

	first := page.Edges[0]
	if first.Node.Number != 368 {
		t.Errorf("expected issue 368 first, got %d", first.Node.Number)
	}
	if first.Node.CrossRefs != 3 {
		t.Errorf("expected 3 cross-refs, got %d", first.Node.CrossRefs)
	}
	if !first.Node.HasLabel("Triaged") {
		t.Errorf("expected Triaged label, got %v", first.Node.Labels)
	}
	if first.Cursor == "" {
		t.Error("expected non-empty edge cursor")
	}

	if !strings.Contains(lastReq.Query, "timelineItems(itemTypes: [CROSS_REFERENCED_EVENT])") {
		t.Errorf("query missing cross-reference count field: %s", lastReq.Query)
	}
	if !strings.Contains(lastReq.Query, "states: [OPEN]") {
		t.Errorf("query missing open-state filter: %s", lastReq.Query)
	}
}

func TestGraphQLClient_FetchIssues_PageSizeBounds(t *testing.T) {
	tests := []struct {
		name      string
		pageSize  int
		wantFirst float64
	}{
		{"default when zero", 0, 50},
		{"capped at maximum", 500, 100},
		{"explicit size", 25, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var lastReq graphqlRequest
			client, _ := newTestClient(t, http.StatusOK, issuesResponse(false, 0), &lastReq)

			if _, err := client.FetchIssues(context.Background(), "octocat", "hello-world", FetchOptions{PageSize: tt.pageSize}); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := lastReq.Variables["first"]; got != tt.wantFirst {
				t.Errorf("expected first=%v in variables, got %v", tt.wantFirst, got)
			}
		})
	}
}

func TestGraphQLClient_FetchIssues_CursorVariable(t *testing.T) {
	t.Run("first page sends null cursor", func(t *testing.T) {
		var lastReq graphqlRequest
		client, _ := newTestClient(t, http.StatusOK, issuesResponse(false, 0), &lastReq)

		if _, err := client.FetchIssues(context.Background(), "octocat", "hello-world", FetchOptions{PageSize: 10}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got, ok := lastReq.Variables["after"]; !ok || got != nil {
			t.Errorf("expected after=null on first page, got %v (present=%v)", got, ok)
		}
	})

	t.Run("subsequent page sends cursor", func(t *testing.T) {
		var lastReq graphqlRequest
		client, _ := newTestClient(t, http.StatusOK, issuesResponse(false, 0), &lastReq)

		if _, err := client.FetchIssues(context.Background(), "octocat", "hello-world", FetchOptions{
			PageSize: 10,
			After:    "Y3Vyc29yOnYyOpHOabc",
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := lastReq.Variables["after"]; got != "Y3Vyc29yOnYyOpHOabc" {
			t.Errorf("expected after cursor in variables, got %v", got)
		}
	})
}

func TestGraphQLClient_FetchIssues_EmptyFinalPage(t *testing.T) {
	client, _ := newTestClient(t, http.StatusOK, issuesResponse(false, 42), nil)

	page, err := client.FetchIssues(context.Background(), "octocat", "hello-world", FetchOptions{
		PageSize: 50,
		After:    "Y3Vyc29yOnYyOpHOlast",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Edges) != 0 {
		t.Errorf("expected zero edges on final page, got %d", len(page.Edges))
	}
	if page.HasNextPage {
		t.Error("expected HasNextPage=false")
	}
}

func TestGraphQLClient_FetchIssues_MalformedResponse(t *testing.T) {
	tests := []struct {
		name string
		edge map[string]interface{}
	}{
		{
			name: "missing issue number",
			edge: map[string]interface{}{
				"cursor": "Y3Vyc29yOnYyOpHO1",
				"node": map[string]interface{}{
					"title": "no number",
					"url":   "https://github.com/octocat/hello-world/issues/1",
				},
			},
		},
		{
			name: "missing cursor",
			edge: map[string]interface{}{
				"cursor": "",
				"node": map[string]interface{}{
					"number": 12,
					"title":  "no cursor",
					"url":    "https://github.com/octocat/hello-world/issues/12",
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, http.StatusOK, issuesResponse(false, 1, tt.edge), nil)

			_, err := client.FetchIssues(context.Background(), "octocat", "hello-world", FetchOptions{PageSize: 10})
			if !errors.Is(err, triageerrors.ErrMalformedResponse) {
				t.Errorf("expected ErrMalformedResponse, got %v", err)
			}
		})
	}
}

func TestGraphQLClient_FetchIssues_NetworkError(t *testing.T) {
	// Point the client at a closed server to force a connection error.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := server.URL + "/graphql"
	server.Close()

	client := NewGraphQLClient("test-token", endpoint)

	_, err := client.FetchIssues(context.Background(), "octocat", "hello-world", FetchOptions{PageSize: 10})
	if !errors.Is(err, triageerrors.ErrNetworkFailure) {
		t.Errorf("expected ErrNetworkFailure, got %v", err)
	}
}
