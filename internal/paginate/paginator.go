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

package paginate

import (
	"context"
	"fmt"
	"io"

	"github.com/sirseerhq/sirseer-triage/internal/github"
	"github.com/sirseerhq/sirseer-triage/internal/metadata"
)

// Paginator follows the issue cursor until the full open-issue set has been
// retrieved, flattening the paged edges into one ordered sequence. Requests
// are strictly sequential; any failure aborts the whole fetch with no
// partial result.
type Paginator struct {
	client   github.Client
	pageSize int

	// Progress receives a redrawn progress line after each page.
	// Defaults to io.Discard; the CLI points it at stderr.
	Progress io.Writer

	// Tracker, when set, records per-page statistics for the run summary.
	Tracker *metadata.Tracker
}

// New creates a Paginator that fetches pages of pageSize issues through the
// given client. A pageSize outside (0, 100] falls back to the client default.
func New(client github.Client, pageSize int) *Paginator {
	return &Paginator{
		client:   client,
		pageSize: pageSize,
		Progress: io.Discard,
	}
}

// FetchAll retrieves every open issue of owner/repo, preserving server order
// across pages. The first request carries no cursor; each subsequent request
// uses the cursor of the last edge of the previous page. An empty edge list,
// an exhausted HasNextPage, or a cursor that fails to advance (stall guard)
// all terminate the loop.
func (p *Paginator) FetchAll(ctx context.Context, owner, repo string) ([]github.IssueEdge, error) {
	info, err := p.client.GetRepositoryInfo(ctx, owner, repo)
	if err != nil {
		return nil, fmt.Errorf("failed to get repository info: %w", err)
	}
	if p.Tracker != nil {
		p.Tracker.IncrementAPICall()
	}

	total := info.TotalOpenIssues

	var (
		edges  []github.IssueEdge
		cursor = ""
	)

	for {
		page, err := p.client.FetchIssues(ctx, owner, repo, github.FetchOptions{
			PageSize: p.pageSize,
			After:    cursor,
		})
		if err != nil {
			fmt.Fprintf(p.Progress, "\r\033[K")
			return nil, err
		}
		if p.Tracker != nil {
			p.Tracker.IncrementAPICall()
			p.Tracker.RecordPage()
			for _, e := range page.Edges {
				p.Tracker.RecordIssue(e.Node.Number, e.Node.CrossRefs)
			}
		}

		if len(page.Edges) == 0 {
			break
		}

		edges = append(edges, page.Edges...)
		fmt.Fprintf(p.Progress, "\rFetched %d / %d open issues", len(edges), total)

		if !page.HasNextPage {
			break
		}

		next := page.Edges[len(page.Edges)-1].Cursor
		if next == cursor {
			// Stall guard: a cursor that does not advance would loop forever.
			fmt.Fprintf(p.Progress, "\r\033[K")
			fmt.Fprintf(p.Progress, "Warning: pagination cursor did not advance; treating result as complete\n")
			break
		}
		cursor = next
	}

	fmt.Fprintf(p.Progress, "\r\033[K")

	return edges, nil
}
