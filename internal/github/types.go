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

// Package github provides types and interfaces for interacting with the GitHub API.
package github

import "time"

// Issue represents a single open GitHub issue with the fields needed for
// cross-reference ranking. CrossRefs counts how many times the issue was
// mentioned by another issue, pull request, or commit; it is used as an
// importance proxy when ranking.
type Issue struct {
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
	Labels    []string  `json:"labels,omitempty"`
	CrossRefs int       `json:"cross_refs"`
}

// HasLabel reports whether the issue carries the named label.
func (i Issue) HasLabel(name string) bool {
	for _, l := range i.Labels {
		if l == name {
			return true
		}
	}
	return false
}

// IssueEdge pairs an issue with its pagination cursor. The cursor is an
// opaque token identifying the edge's position in the paged result set;
// the cursor of the last edge of a page is used to request the next page.
type IssueEdge struct {
	Cursor string `json:"cursor"`
	Node   Issue  `json:"node"`
}

// IssuePage represents one page of open issues from a GraphQL query.
// TotalCount is the server's hint for the size of the full open-issue set.
// It is informational only; termination is driven by the edge list and
// HasNextPage, never by the hint.
type IssuePage struct {
	Edges       []IssueEdge
	HasNextPage bool
	TotalCount  int
}

// FetchOptions configures how a page of issues is fetched.
type FetchOptions struct {
	// PageSize controls how many issues to fetch per page.
	// Defaults to 50 if not specified. Maximum is 100 per GitHub's API limits.
	PageSize int

	// After is the cursor for pagination.
	// Empty string fetches from the beginning.
	// Use the cursor of the last edge of the previous page for the next page.
	After string
}

// Default values for fetch operations
const (
	defaultPageSize = 50
	maxPageSize     = 100
)

// RepositoryInfo contains basic repository metadata.
// Used primarily to get the total open-issue count for progress reporting
// while paginating through the full issue set.
type RepositoryInfo struct {
	TotalOpenIssues int
}
