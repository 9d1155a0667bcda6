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

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sirseerhq/sirseer-triage/internal/config"
	triageerrors "github.com/sirseerhq/sirseer-triage/internal/errors"
	"github.com/sirseerhq/sirseer-triage/internal/github"
	"github.com/sirseerhq/sirseer-triage/internal/metadata"
	"github.com/sirseerhq/sirseer-triage/internal/output"
	"github.com/sirseerhq/sirseer-triage/internal/paginate"
	"github.com/sirseerhq/sirseer-triage/internal/rank"
	"github.com/spf13/cobra"
)

// rankOptions collects the flag values for the rank command.
type rankOptions struct {
	configPath    string
	token         string
	outputFile    string
	topN          int
	pageSize      int
	excludeLabels []string
	excludeIssues []int
}

// newRankCommand builds the rank subcommand.
func newRankCommand() *cobra.Command {
	opts := &rankOptions{}

	cmd := &cobra.Command{
		Use:   "rank <org>/<repo>",
		Short: "Fetch open issues and rank them by cross-reference count",
		Long: `Fetch every open issue of a GitHub repository and write a markdown
table of the most cross-referenced ones.

The repository must be specified in the format: <org>/<repo>
For example: golang/go, kubernetes/kubernetes

Authentication is required via GitHub token:
  - Use --token flag to provide token directly
  - Or set GITHUB_TOKEN environment variable`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRank(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "Path to config file (default: auto-discover)")
	cmd.Flags().StringVar(&opts.token, "token", "", "GitHub personal access token (overrides GITHUB_TOKEN env var)")
	cmd.Flags().StringVar(&opts.outputFile, "output", "", "Output file path, '-' for stdout (default: top_issues_table.md)")
	cmd.Flags().IntVar(&opts.topN, "top", 0, "Number of issues to include in the table (default: 10)")
	cmd.Flags().IntVar(&opts.pageSize, "page-size", 0, "Issues to request per page, max 100 (default: 50)")
	cmd.Flags().StringSliceVar(&opts.excludeLabels, "exclude-label", nil, "Exclude issues carrying this label (repeatable)")
	cmd.Flags().IntSliceVar(&opts.excludeIssues, "exclude-issue", nil, "Exclude this issue number (repeatable)")

	return cmd
}

// runRank executes the rank command
func runRank(cmd *cobra.Command, repoArg string, opts *rankOptions) error {
	owner, repo, err := parseRepository(repoArg)
	if err != nil {
		return err
	}

	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return err
	}
	applyFlagOverrides(cmd, cfg, opts)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	token := getToken(opts.token, cfg.GitHub.TokenEnv)
	if token == "" {
		return fmt.Errorf("GitHub token not found. Set %s or use --token flag: %w",
			cfg.GitHub.TokenEnv, triageerrors.ErrInvalidToken)
	}

	client := github.NewGraphQLClient(token, cfg.GitHub.GraphQLEndpoint)

	return rankIssues(cmd.Context(), client, owner, repo, cfg)
}

// applyFlagOverrides lets explicitly set flags win over config file and
// environment values.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config, opts *rankOptions) {
	if cmd.Flags().Changed("output") {
		cfg.Defaults.OutputFile = opts.outputFile
	}
	if cmd.Flags().Changed("top") {
		cfg.Defaults.TopN = opts.topN
	}
	if cmd.Flags().Changed("page-size") {
		cfg.Defaults.PageSize = opts.pageSize
	}
	if cmd.Flags().Changed("exclude-label") {
		cfg.Filters.ExcludeLabels = opts.excludeLabels
	}
	if cmd.Flags().Changed("exclude-issue") {
		cfg.Filters.ExcludeIssues = opts.excludeIssues
	}
}

// rankIssues runs the fetch and ranking pipeline and writes the report.
func rankIssues(ctx context.Context, client github.Client, owner, repo string, cfg *config.Config) error {
	tracker := metadata.New()

	paginator := paginate.New(client, cfg.Defaults.PageSize)
	paginator.Progress = os.Stderr
	paginator.Tracker = tracker

	edges, err := paginator.FetchAll(ctx, owner, repo)
	if err != nil {
		return err
	}

	mapping := rank.ToMapping(edges)
	mapping = rank.FilterByLabel(mapping, cfg.Filters.ExcludeLabels)
	mapping = rank.FilterByBlacklist(mapping, cfg.Filters.ExcludeIssues)

	report, err := rank.RenderTopN(mapping, cfg.Defaults.TopN)
	if err != nil {
		return err
	}

	writer, err := newReportWriter(cfg.Defaults.OutputFile)
	if err != nil {
		return err
	}
	defer writer.Close()

	if err := writer.WriteReport(report); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "%s\n", tracker.Summary())
	if cfg.Defaults.OutputFile != "" && cfg.Defaults.OutputFile != "-" {
		fmt.Fprintf(os.Stderr, "Wrote %s\n", cfg.Defaults.OutputFile)
	}

	return nil
}

// newReportWriter resolves the output destination. An empty path falls back
// to the default file name; "-" selects stdout.
func newReportWriter(outputFile string) (output.ReportWriter, error) {
	if outputFile == "-" {
		return output.NewWriter(os.Stdout), nil
	}
	if outputFile == "" {
		outputFile = "top_issues_table.md"
	}
	writer, err := output.NewFileWriter(outputFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return writer, nil
}

// parseRepository parses an org/repo string into owner and repo components
func parseRepository(repoArg string) (owner, repo string, err error) {
	parts := strings.Split(repoArg, "/")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid repository format. Expected: <org>/<repo>, got: %s", repoArg)
	}

	owner = strings.TrimSpace(parts[0])
	repo = strings.TrimSpace(parts[1])

	if owner == "" || repo == "" {
		return "", "", fmt.Errorf("invalid repository format. Expected: <org>/<repo>, got: %s", repoArg)
	}

	return owner, repo, nil
}

// getToken returns the GitHub token from flag or environment variable
func getToken(flagToken, tokenEnv string) string {
	if flagToken != "" {
		return flagToken
	}
	return os.Getenv(tokenEnv)
}

// mapErrorToExitCode maps internal errors to appropriate exit codes
func mapErrorToExitCode(err error) int {
	if err == nil {
		return 0
	}

	if errors.Is(err, triageerrors.ErrInvalidToken) ||
		errors.Is(err, triageerrors.ErrRepoNotFound) ||
		errors.Is(err, triageerrors.ErrRateLimit) {
		return 2 // Authentication/authorization errors
	}

	if errors.Is(err, triageerrors.ErrNetworkFailure) {
		return 3 // Network errors
	}

	return 1 // General error
}
