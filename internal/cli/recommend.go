package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/justyntemme/bookfinder/internal/finder"
)

func newRecommendCmd(e *env) *cobra.Command {
	var exclude string
	var format string

	cmd := &cobra.Command{
		Use:   "recommend <author...>",
		Short: "List other books by an author",
		Example: `  # Books by Frank Herbert other than Dune
  bookfinder recommend Frank Herbert --exclude /works/OL893415W`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}

			author := strings.TrimSpace(strings.Join(args, " "))
			if author == "" {
				return fmt.Errorf("author must not be blank")
			}

			log, err := e.logger(false)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			client := e.client(log)
			res := finder.FetchRecommendations(cmd.Context(), client, finder.RecommendationRequest{
				Author:      author,
				SelectedKey: exclude,
			})
			if res.Failed() {
				return fmt.Errorf("recommendations for %q: %w", author, res.Err)
			}

			books := finder.FilterRecommendations(res.Books, exclude)
			return render(cmd.OutOrStdout(), format, listing{
				Query: author,
				Total: len(books),
				Books: toRecords(books, client.CoversURL()),
			})
		},
	}

	cmd.Flags().StringVar(&exclude, "exclude", "", "Work key to leave out, e.g. the book you came from")
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "Output format: table, json or yaml")

	return cmd
}
