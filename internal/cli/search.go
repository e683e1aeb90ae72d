package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/justyntemme/bookfinder/internal/finder"
)

func newSearchCmd(e *env) *cobra.Command {
	var page int
	var format string

	cmd := &cobra.Command{
		Use:   "search <title...>",
		Short: "Search the catalog by title and print one page of results",
		Example: `  # First page as a table
  bookfinder search dune

  # Second page as JSON
  bookfinder search the lord of the rings --page 2 --format json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}

			log, err := e.logger(false)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			state := finder.NewState(false)
			req, ok := state.BeginSearch(strings.Join(args, " "))
			if !ok {
				return fmt.Errorf("search title must not be blank")
			}

			client := e.client(log)
			res := finder.FetchSearch(cmd.Context(), client, req)
			if res.Failed() {
				return fmt.Errorf("search %q: %w", req.Query, res.Err)
			}
			state.CompleteSearch(req, res)

			if total := state.TotalPages(); total > 0 && (page < 1 || page > total) {
				return fmt.Errorf("page %d out of range (1-%d)", page, total)
			}
			state.SetPage(page)
			p := state.Page()

			return render(cmd.OutOrStdout(), format, listing{
				Query:      req.Query,
				Page:       p.Number,
				TotalPages: p.TotalPages,
				Total:      len(state.Books),
				Books:      toRecords(p.Books, client.CoversURL()),
			})
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, fmt.Sprintf("Page to print (%d books per page)", finder.BooksPerPage))
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "Output format: table, json or yaml")

	return cmd
}
