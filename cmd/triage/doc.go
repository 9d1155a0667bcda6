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

// Package main implements the sirseer-triage command-line interface.
// This tool collects every open issue of a GitHub repository along with a
// cross-reference count and writes a ranked top-N markdown table.
//
// The CLI supports:
//   - Label-based and issue-number exclusion filters
//   - Customizable output destinations (file or stdout)
//   - GitHub token authentication via flag or environment variable
//   - YAML configuration with environment overrides
//   - Graceful error handling with appropriate exit codes
//
// Usage:
//
//	sirseer-triage rank <org>/<repo> [flags]
//
// Example:
//
//	export GITHUB_TOKEN=your_token
//	sirseer-triage rank golang/go --top 10 --exclude-label Triaged
//
// Exit codes:
//   - 0: Success
//   - 1: General error
//   - 2: Authentication/authorization error
//   - 3: Network error
package main
