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

// Package paginate implements the sequential cursor-following loop that
// flattens GitHub's paged issue responses into one ordered edge sequence.
// It is deliberately single-threaded and failure-intolerant: the tool is
// run interactively and re-run on failure, so there is no retry path and
// no partial result.
package paginate
