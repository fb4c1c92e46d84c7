package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/talentdex/internal/domain/search/mode"
	"github.com/kailas-cloud/talentdex/internal/domain/search/query"
	"github.com/kailas-cloud/talentdex/internal/domain/search/request"
	"github.com/kailas-cloud/talentdex/internal/domain/search/result"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search the roster",
	Long: `Runs one search against the configured roster.

Every --group flag is one AND-clause; its comma-separated badges are ORed:

  talentctl search -g "rust,go" -g "budapest university" --mode relevance`,
	RunE: runSearch,
}

var (
	searchGroups    []string
	searchMode      string
	searchReference string
	searchOffset    int
	searchLimit     int
	searchJSON      bool
)

func init() {
	searchCmd.Flags().StringArrayVarP(&searchGroups, "group", "g", nil, "Comma-separated badges of one OR-group (repeatable)")
	searchCmd.Flags().StringVarP(&searchMode, "mode", "m", "alphabetical", "Ranking mode: alphabetical, relevance, distance, availability")
	searchCmd.Flags().StringVarP(&searchReference, "reference", "r", "", "Reference city for distance ranking")
	searchCmd.Flags().IntVar(&searchOffset, "offset", 0, "Results to skip")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "l", 0, "Page size (default 50)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Print JSON instead of a table")
	rootCmd.AddCommand(searchCmd)
}

// parseGroups turns flag values into query groups named g1, g2, ...
func parseGroups(values []string) query.Query {
	q := make(query.Query, 0, len(values))
	for i, v := range values {
		q = append(q, query.Group{
			ID:     "g" + strconv.Itoa(i+1),
			Badges: strings.Split(v, ","),
		})
	}
	return q
}

func runSearch(cmd *cobra.Command, _ []string) error {
	m, err := mode.Parse(searchMode)
	if err != nil {
		return err
	}
	req, err := request.New(parseGroups(searchGroups), m, searchReference, searchOffset, searchLimit)
	if err != nil {
		return err
	}

	a, _, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	page, err := a.Search.Search(cmd.Context(), &req)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}

	if searchJSON {
		out, err := json.MarshalIndent(page, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	}
	printHits(cmd, page.Hits, page.Total)
	return nil
}

func printHits(cmd *cobra.Command, hits []result.Hit, total int) {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCITY\tAVAILABLE\tSCORE\tDISTANCE_KM")
	for i := range hits {
		h := &hits[i]
		avail := "no"
		switch {
		case h.Record.Available:
			avail = "now"
		case h.Record.AvailableFrom != nil:
			avail = h.Record.AvailableFrom.Format("2006-01-02")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			h.ID(), h.Record.FullName, h.Record.City, avail, formatOptional(h.Score, 3), formatOptional(h.DistanceKM, 1))
	}
	_ = tw.Flush()
	fmt.Fprintf(cmd.OutOrStdout(), "%d of %d\n", len(hits), total)
}

func formatOptional(v *float64, prec int) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', prec, 64)
}
