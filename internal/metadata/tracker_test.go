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

package metadata

import (
	"strings"
	"testing"
)

func TestTracker_Counts(t *testing.T) {
	tracker := New()

	tracker.IncrementAPICall()
	tracker.RecordPage()
	tracker.IncrementAPICall()
	tracker.RecordPage()
	tracker.IncrementAPICall()

	if got := tracker.APICalls(); got != 3 {
		t.Errorf("expected 3 API calls, got %d", got)
	}
	if got := tracker.Pages(); got != 2 {
		t.Errorf("expected 2 pages, got %d", got)
	}
}

func TestTracker_RecordIssue(t *testing.T) {
	tracker := New()

	tracker.RecordIssue(573, 2)
	tracker.RecordIssue(368, 3)
	tracker.RecordIssue(389, 0)

	stats := tracker.Stats()
	if stats.TotalIssues != 3 {
		t.Errorf("expected 3 issues, got %d", stats.TotalIssues)
	}
	if stats.FirstIssue != 368 {
		t.Errorf("expected first issue 368, got %d", stats.FirstIssue)
	}
	if stats.LastIssue != 573 {
		t.Errorf("expected last issue 573, got %d", stats.LastIssue)
	}
	if stats.MostReferenced != 368 {
		t.Errorf("expected most referenced issue 368, got %d", stats.MostReferenced)
	}
	if stats.MaxCrossRefs != 3 {
		t.Errorf("expected max cross-refs 3, got %d", stats.MaxCrossRefs)
	}
}

func TestTracker_Summary(t *testing.T) {
	tracker := New()

	tracker.IncrementAPICall()
	tracker.RecordPage()
	tracker.RecordIssue(1, 0)
	tracker.RecordIssue(2, 1)

	summary := tracker.Summary()
	if !strings.Contains(summary, "2 open issues") {
		t.Errorf("expected issue count in summary, got %q", summary)
	}
	if !strings.Contains(summary, "1 pages") {
		t.Errorf("expected page count in summary, got %q", summary)
	}
	if !strings.Contains(summary, "1 API calls") {
		t.Errorf("expected API call count in summary, got %q", summary)
	}
}
