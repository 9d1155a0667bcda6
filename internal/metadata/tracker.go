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

// Package metadata collects statistics about a fetch run: API calls made,
// pages retrieved, issue counts, and the most-referenced issue seen. The
// tracker feeds the end-of-run summary line; nothing is persisted.
package metadata

import (
	"fmt"
	"time"
)

// Tracker collects statistics during a fetch operation. Create a new tracker
// at the start of each run and call its methods to record activity.
type Tracker struct {
	startTime time.Time
	apiCalls  int
	pages     int
	stats     IssueStats
}

// IssueStats holds statistical information about the issues processed during
// a run. It tracks the numerical range of issue numbers seen and the highest
// cross-reference count observed.
type IssueStats struct {
	TotalIssues    int // Total number of issues processed
	FirstIssue     int // Lowest issue number seen
	LastIssue      int // Highest issue number seen
	MostReferenced int // Issue number with the highest cross-reference count
	MaxCrossRefs   int // Highest cross-reference count seen
}

// New creates a new tracker and initializes it with the current time.
func New() *Tracker {
	return &Tracker{
		startTime: time.Now(),
	}
}

// IncrementAPICall records that an API call was made. Call this after each
// GitHub API request to maintain accurate usage statistics.
func (t *Tracker) IncrementAPICall() {
	t.apiCalls++
}

// RecordPage records that a page of edges was retrieved.
func (t *Tracker) RecordPage() {
	t.pages++
}

// RecordIssue updates the running statistics with a single issue.
func (t *Tracker) RecordIssue(number, crossRefs int) {
	t.stats.TotalIssues++

	if t.stats.FirstIssue == 0 || number < t.stats.FirstIssue {
		t.stats.FirstIssue = number
	}
	if number > t.stats.LastIssue {
		t.stats.LastIssue = number
	}
	if crossRefs > t.stats.MaxCrossRefs || t.stats.MostReferenced == 0 {
		t.stats.MaxCrossRefs = crossRefs
		t.stats.MostReferenced = number
	}
}

// APICalls returns the number of API calls recorded.
func (t *Tracker) APICalls() int {
	return t.apiCalls
}

// Pages returns the number of pages recorded.
func (t *Tracker) Pages() int {
	return t.pages
}

// Stats returns the issue statistics collected so far.
func (t *Tracker) Stats() IssueStats {
	return t.stats
}

// Elapsed returns the time since the tracker was created.
func (t *Tracker) Elapsed() time.Duration {
	return time.Since(t.startTime)
}

// Summary renders a one-line human-readable summary of the run, suitable for
// printing to stderr after the report is written.
func (t *Tracker) Summary() string {
	return fmt.Sprintf("Fetched %d open issues in %s (%d pages, %d API calls)",
		t.stats.TotalIssues, t.Elapsed().Round(time.Second), t.pages, t.apiCalls)
}
