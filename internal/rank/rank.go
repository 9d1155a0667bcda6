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

package rank

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sirseerhq/sirseer-triage/internal/github"
)

// ToMapping flattens an ordered edge sequence into a mapping keyed by issue
// number. Issue numbers are unique within an open-issue set at query time;
// should the server ever repeat one, the first occurrence wins so the result
// does not depend on iteration order.
func ToMapping(edges []github.IssueEdge) map[int]github.Issue {
	m := make(map[int]github.Issue, len(edges))
	for _, e := range edges {
		if _, ok := m[e.Node.Number]; ok {
			continue
		}
		m[e.Node.Number] = e.Node
	}
	return m
}

// FilterByLabel returns a copy of the mapping with every entry removed whose
// label set intersects excluded. The input mapping is never mutated.
// Excluded labels that match nothing are a silent no-op.
func FilterByLabel(m map[int]github.Issue, excluded []string) map[int]github.Issue {
	out := make(map[int]github.Issue, len(m))
	for number, issue := range m {
		if hasAnyLabel(issue, excluded) {
			continue
		}
		out[number] = issue
	}
	return out
}

func hasAnyLabel(issue github.Issue, labels []string) bool {
	for _, l := range labels {
		if issue.HasLabel(l) {
			return true
		}
	}
	return false
}

// FilterByBlacklist returns a copy of the mapping with the given issue
// numbers removed. The input mapping is never mutated. Numbers not present
// in the mapping are a silent no-op.
func FilterByBlacklist(m map[int]github.Issue, numbers []int) map[int]github.Issue {
	blacklist := make(map[int]struct{}, len(numbers))
	for _, n := range numbers {
		blacklist[n] = struct{}{}
	}

	out := make(map[int]github.Issue, len(m))
	for number, issue := range m {
		if _, ok := blacklist[number]; ok {
			continue
		}
		out[number] = issue
	}
	return out
}

// RenderTopN sorts the mapping by cross-reference count descending (ties
// broken by ascending issue number, so output is deterministic) and renders
// the top n entries as a markdown table. An n larger than the mapping yields
// all entries; n must be positive.
func RenderTopN(m map[int]github.Issue, n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("top-n must be positive, got: %d", n)
	}

	issues := make([]github.Issue, 0, len(m))
	for _, issue := range m {
		issues = append(issues, issue)
	}

	sort.Slice(issues, func(i, j int) bool {
		if issues[i].CrossRefs != issues[j].CrossRefs {
			return issues[i].CrossRefs > issues[j].CrossRefs
		}
		return issues[i].Number < issues[j].Number
	})

	if n < len(issues) {
		issues = issues[:n]
	}

	var b strings.Builder
	b.WriteString("| # xrefs | Issue # | Issue |\n")
	b.WriteString("| --- | --- | --- |\n")
	for _, issue := range issues {
		fmt.Fprintf(&b, "| %d | %d | [%s](%s) |\n",
			issue.CrossRefs, issue.Number, escapeTitle(issue.Title), issue.URL)
	}

	return b.String(), nil
}

// escapeTitle neutralizes characters that would break the markdown table or
// the link syntax. Issue titles routinely contain pipes and brackets.
func escapeTitle(title string) string {
	r := strings.NewReplacer(
		"|", "\\|",
		"[", "\\[",
		"]", "\\]",
	)
	return r.Replace(title)
}
