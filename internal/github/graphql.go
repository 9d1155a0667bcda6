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
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shurcooL/graphql"
	triageerrors "github.com/sirseerhq/sirseer-triage/internal/errors"
	"github.com/sirseerhq/sirseer-triage/internal/giterror"
	"github.com/sirseerhq/sirseer-triage/pkg/version"
)

// GraphQLClient implements the GitHub Client interface using the GraphQL API.
// The authentication token is injected at construction; the client never
// consults the environment itself.
type GraphQLClient struct {
	client    *graphql.Client
	token     string
	inspector giterror.Inspector
}

// NewGraphQLClient creates a new GitHub GraphQL client with the provided token and endpoint.
// The client is configured with:
//   - Authentication via the provided token
//   - Custom GraphQL endpoint URL (e.g., for GitHub Enterprise)
//   - Response size limiting to prevent memory issues
//   - User-Agent header for API compliance
//   - Optimized connection pooling for API performance
func NewGraphQLClient(token string, endpoint string) *GraphQLClient {
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10,
		MaxConnsPerHost:     10,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}

	httpClient := &http.Client{
		Transport: &authTransport{
			token: token,
			base:  transport,
		},
	}

	return &GraphQLClient{
		client:    graphql.NewClient(endpoint, httpClient),
		token:     token,
		inspector: giterror.NewInspector(),
	}
}

// GetRepositoryInfo retrieves basic repository metadata including the total
// open-issue count. It executes a minimal GraphQL query to get just the count,
// which the paginator uses as a progress hint.
func (c *GraphQLClient) GetRepositoryInfo(ctx context.Context, owner, repo string) (*RepositoryInfo, error) {
	var query struct {
		Repository struct {
			Issues struct {
				TotalCount graphql.Int
			} `graphql:"issues(states: [OPEN])"`
		} `graphql:"repository(owner: $owner, name: $repo)"`
	}

	variables := map[string]interface{}{
		"owner": graphql.String(owner),
		"repo":  graphql.String(repo),
	}

	if err := c.client.Query(ctx, &query, variables); err != nil {
		return nil, c.mapError(err, owner, repo)
	}

	return &RepositoryInfo{
		TotalOpenIssues: int(query.Repository.Issues.TotalCount),
	}, nil
}

// issuesQuery is the typed form of the issue query document. The $after
// variable is the injection point for the pagination cursor; the first page
// is requested with a null cursor.
type issuesQuery struct {
	Repository struct {
		Issues struct {
			TotalCount graphql.Int
			PageInfo   struct {
				HasNextPage graphql.Boolean
				EndCursor   graphql.String
			}
			Edges []issueEdgeNode
		} `graphql:"issues(first: $first, after: $after, states: [OPEN])"`
	} `graphql:"repository(owner: $owner, name: $repo)"`
}

type issueEdgeNode struct {
	Cursor graphql.String
	Node   struct {
		Number    graphql.Int
		Title     graphql.String
		URL       graphql.String
		CreatedAt time.Time
		Labels    struct {
			Nodes []struct {
				Name graphql.String
			}
		} `graphql:"labels(first: 100)"`
		TimelineItems struct {
			TotalCount graphql.Int
		} `graphql:"timelineItems(itemTypes: [CROSS_REFERENCED_EVENT])"`
	}
}

// FetchIssues fetches a page of open issues from the specified repository.
// It supports cursor-based pagination via the opts.After parameter and
// configurable page sizes through opts.PageSize. The returned page preserves
// the server-reported edge order.
func (c *GraphQLClient) FetchIssues(ctx context.Context, owner, repo string, opts FetchOptions) (*IssuePage, error) {
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	var query issuesQuery

	variables := map[string]interface{}{
		"owner": graphql.String(owner),
		"repo":  graphql.String(repo),
		"first": graphql.Int(int32(pageSize)), // #nosec G115 - pageSize is capped at 100
		"after": (*graphql.String)(nil),
	}
	if opts.After != "" {
		variables["after"] = graphql.NewString(graphql.String(opts.After))
	}

	if err := c.client.Query(ctx, &query, variables); err != nil {
		return nil, c.mapError(err, owner, repo)
	}

	page := &IssuePage{
		HasNextPage: bool(query.Repository.Issues.PageInfo.HasNextPage),
		TotalCount:  int(query.Repository.Issues.TotalCount),
		Edges:       make([]IssueEdge, 0, len(query.Repository.Issues.Edges)),
	}

	for i := range query.Repository.Issues.Edges {
		edge, err := convertGraphQLEdge(&query.Repository.Issues.Edges[i])
		if err != nil {
			return nil, err
		}
		page.Edges = append(page.Edges, edge)
	}

	return page, nil
}

// convertGraphQLEdge converts a GraphQL issue edge to our domain model.
// A missing issue number or cursor means the payload cannot be keyed or
// paginated, so it is surfaced as a malformed-response error rather than
// silently skipped.
func convertGraphQLEdge(e *issueEdgeNode) (IssueEdge, error) {
	if e.Node.Number <= 0 {
		return IssueEdge{}, fmt.Errorf("issue node missing number: %w", triageerrors.ErrMalformedResponse)
	}
	if e.Cursor == "" {
		return IssueEdge{}, fmt.Errorf("issue #%d edge missing cursor: %w", e.Node.Number, triageerrors.ErrMalformedResponse)
	}

	issue := Issue{
		Number:    int(e.Node.Number),
		Title:     string(e.Node.Title),
		URL:       string(e.Node.URL),
		CreatedAt: e.Node.CreatedAt,
		CrossRefs: int(e.Node.TimelineItems.TotalCount),
	}

	issue.Labels = make([]string, 0, len(e.Node.Labels.Nodes))
	for _, label := range e.Node.Labels.Nodes {
		issue.Labels = append(issue.Labels, string(label.Name))
	}

	return IssueEdge{
		Cursor: string(e.Cursor),
		Node:   issue,
	}, nil
}

// mapError maps GraphQL errors to our domain errors with actionable messages
func (c *GraphQLClient) mapError(err error, owner, repo string) error {
	if err == nil {
		return nil
	}

	// Check rate limit first, as 403 can be both auth and rate limit
	if c.inspector.IsRateLimitError(err) {
		return fmt.Errorf("GitHub API rate limit exceeded. Please wait before re-running: %w", triageerrors.ErrRateLimit)
	}

	if c.inspector.IsAuthError(err) {
		return fmt.Errorf("GitHub API authentication failed. Please provide a valid token via --token flag or GITHUB_TOKEN environment variable: %w", triageerrors.ErrInvalidToken)
	}

	if c.inspector.IsNotFoundError(err) {
		return fmt.Errorf("repository '%s/%s' not found. Please check the repository name and your access permissions: %w", owner, repo, triageerrors.ErrRepoNotFound)
	}

	if c.inspector.IsNetworkError(err) {
		return fmt.Errorf("network error connecting to GitHub API. Please check your internet connection and try again: %w", triageerrors.ErrNetworkFailure)
	}

	return fmt.Errorf("failed to fetch issues: %w", err)
}

// limitedReader wraps a ReadCloser with a size limit to prevent excessive memory usage.
type limitedReader struct {
	io.ReadCloser
	limit int64
	read  int64
}

// Read implements io.Reader with size limit enforcement.
func (lr *limitedReader) Read(p []byte) (n int, err error) {
	if lr.read >= lr.limit {
		return 0, fmt.Errorf("response size exceeded limit of %d bytes", lr.limit)
	}

	remaining := lr.limit - lr.read
	if int64(len(p)) > remaining {
		p = p[:remaining]
	}

	n, err = lr.ReadCloser.Read(p)
	lr.read += int64(n)

	return n, err
}

// authTransport adds authentication header and safety limits to HTTP requests
type authTransport struct {
	token string
	base  http.RoundTripper
}

// RoundTrip implements http.RoundTripper
func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone the request to avoid modifying the original
	req = req.Clone(req.Context())

	req.Header.Set("Authorization", "Bearer "+t.token)
	req.Header.Set("User-Agent", fmt.Sprintf("sirseer-triage/%s", version.Version))

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	// Apply response size limit (10MB)
	if resp.Body != nil {
		resp.Body = &limitedReader{
			ReadCloser: resp.Body,
			limit:      10 * 1024 * 1024,
		}
	}

	return resp, nil
}
