package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/cloo-solutions/docsearch/internal/config"
	"github.com/cloo-solutions/docsearch/internal/domain"
	"github.com/cloo-solutions/docsearch/internal/service"
	"github.com/cloo-solutions/docsearch/internal/upstash"
	"github.com/spf13/cobra"
)

// SearchOptions controls a search command invocation.
type SearchOptions struct {
	Limit      int
	OutputJSON bool
}

// searchOutput is one result as printed with --output.
type searchOutput struct {
	ID            string  `json:"id"`
	Score         float64 `json:"score"`
	Title         string  `json:"title"`
	DocumentTitle string  `json:"document_title"`
	Path          string  `json:"path"`
	Snippet       string  `json:"snippet"`
}

// SearchCmd returns the search command.
func SearchCmd() *cobra.Command {
	var opts SearchOptions

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the docs index",
		Long: `Queries the search index the way the docs site search bar does.

Uses UPSTASH_SEARCH_READONLY_REST_TOKEN when set, otherwise
UPSTASH_SEARCH_REST_TOKEN.`,
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{argsAnnotation: "<query>"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			return RunSearch(cmd.Context(), cmd.OutOrStdout(), cfg, args[0], opts)
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 0, "Maximum number of results (default SEARCH_LIMIT)")
	cmd.Flags().BoolVar(&opts.OutputJSON, "output", false, "Output as JSON")

	return cmd
}

// RunSearch queries the index and writes the results to w.
func RunSearch(ctx context.Context, w io.Writer, cfg *config.Config, query string, opts SearchOptions) error {
	if err := cfg.ValidateForSearch(); err != nil {
		return err
	}

	client, err := upstash.NewClient(upstash.Config{
		URL:               cfg.SearchURL,
		Token:             cfg.ReadToken(),
		Namespace:         cfg.Namespace,
		Timeout:           cfg.RequestTimeout,
		RequestsPerSecond: cfg.RequestsPerSecond,
	})
	if err != nil {
		return fmt.Errorf("failed to create search client: %w", err)
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = cfg.SearchLimit
	}

	results, err := service.NewSearcher(client, limit).Search(ctx, query)
	if err != nil {
		return err
	}

	if opts.OutputJSON {
		return writeJSONResults(w, results)
	}
	writeTextResults(w, results)
	return nil
}

func writeJSONResults(w io.Writer, results []domain.SearchResult) error {
	out := make([]searchOutput, 0, len(results))
	for _, r := range results {
		out = append(out, searchOutput{
			ID:            r.ID,
			Score:         r.Score,
			Title:         r.Metadata.Title,
			DocumentTitle: r.Metadata.DocumentTitle,
			Path:          r.Metadata.Path,
			Snippet:       service.MakeSnippet(r.Content.Content),
		})
	}
	output, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	_, err = fmt.Fprintln(w, string(output))
	return err
}

func writeTextResults(w io.Writer, results []domain.SearchResult) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	st := stylesFor(w)
	fmt.Fprintf(w, "Found %d results:\n\n", len(results))
	for i, r := range results {
		fmt.Fprintf(w, "%d. %s %s\n", i+1, st.Title.Render(r.Metadata.Title), st.Score.Render(fmt.Sprintf("(%.2f)", r.Score)))
		if r.Metadata.DocumentTitle != "" {
			fmt.Fprintf(w, "   %s %s\n", st.Label.Render("In:"), r.Metadata.DocumentTitle)
		}
		if snippet := service.MakeSnippet(r.Content.Content); snippet != "" {
			fmt.Fprintf(w, "   %s\n", snippet)
		}
		fmt.Fprintf(w, "   %s\n", st.ID.Render("ID: "+r.ID))
		if i < len(results)-1 {
			fmt.Fprintln(w)
		}
	}
}
