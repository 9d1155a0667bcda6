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
	"time"

	triageerrors "github.com/sirseerhq/sirseer-triage/internal/errors"
)

// MockClient is a mock implementation of the GitHub Client interface for testing.
// It serves the configured edges in pages of the requested size, handing out
// per-edge cursors the same way the real API does.
type MockClient struct {
	// Edges to serve, in order
	Edges []IssueEdge

	// Error to return
	Error error

	// Behavior flags
	ShouldFailAuth     bool
	ShouldFailNetwork  bool
	ShouldFailNotFound bool

	// Stall makes every FetchIssues call return the first page with
	// HasNextPage set, simulating a server whose cursor never advances.
	Stall bool

	// Track calls for verification
	CallCount     int
	InfoCallCount int
	LastOwner     string
	LastRepo      string
	LastOpts      FetchOptions
}

// NewMockClient creates a new mock client with default test data.
func NewMockClient() *MockClient {
	return &MockClient{
		Edges: GenerateTestEdges(5),
	}
}

// FetchIssues implements the Client interface.
func (m *MockClient) FetchIssues(ctx context.Context, owner, repo string, opts FetchOptions) (*IssuePage, error) {
	m.CallCount++
	m.LastOwner = owner
	m.LastRepo = repo
	m.LastOpts = opts

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if m.ShouldFailAuth {
		return nil, fmt.Errorf("authentication failed: %w", triageerrors.ErrInvalidToken)
	}

	if m.ShouldFailNetwork {
		return nil, fmt.Errorf("network timeout: %w", triageerrors.ErrNetworkFailure)
	}

	if m.ShouldFailNotFound || (owner == "nonexistent" && repo == "repo") {
		return nil, fmt.Errorf("repository not found: %w", triageerrors.ErrRepoNotFound)
	}

	if m.Error != nil {
		return nil, m.Error
	}

	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	start := 0
	if !m.Stall && opts.After != "" {
		for i, e := range m.Edges {
			if e.Cursor == opts.After {
				start = i + 1
				break
			}
		}
	}

	end := start + pageSize
	if end > len(m.Edges) {
		end = len(m.Edges)
	}

	page := &IssuePage{
		Edges:       m.Edges[start:end],
		HasNextPage: end < len(m.Edges),
		TotalCount:  len(m.Edges),
	}
	if m.Stall {
		page.HasNextPage = true
	}

	return page, nil
}

// GetRepositoryInfo implements the Client interface.
func (m *MockClient) GetRepositoryInfo(ctx context.Context, owner, repo string) (*RepositoryInfo, error) {
	m.InfoCallCount++

	if m.ShouldFailAuth {
		return nil, fmt.Errorf("authentication failed: %w", triageerrors.ErrInvalidToken)
	}

	if m.ShouldFailNotFound || (owner == "nonexistent" && repo == "repo") {
		return nil, fmt.Errorf("repository not found: %w", triageerrors.ErrRepoNotFound)
	}

	return &RepositoryInfo{TotalOpenIssues: len(m.Edges)}, nil
}

// GenerateTestEdges creates n sequential issue edges with distinct numbers,
// cursors, and cross-reference counts for use in tests.
func GenerateTestEdges(n int) []IssueEdge {
	now := time.Now().UTC()

	edges := make([]IssueEdge, 0, n)
	for i := 0; i < n; i++ {
		number := 100 + i
		edges = append(edges, IssueEdge{
			Cursor: fmt.Sprintf("cursor:%04d", i+1),
			Node: Issue{
				Number:    number,
				Title:     fmt.Sprintf("Issue %d", number),
				URL:       fmt.Sprintf("https://github.com/octocat/hello-world/issues/%d", number),
				CreatedAt: now.Add(-time.Duration(n-i) * 24 * time.Hour),
				CrossRefs: (n - i) % 7,
			},
		})
	}
	return edges
}
