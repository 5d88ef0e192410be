package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gcbaptista/go-voter-search/internal/engine"
	internalErrors "github.com/gcbaptista/go-voter-search/internal/errors"
)

var (
	searchPartition string
	searchName      string
	searchRelative  string
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search one partition by name and/or relative name",
	Long: `Searches one partition for voters whose name contains --name and whose
relative's name contains --relative. Matching ignores case and treats the
input as literal text. At least one of the two must be given.

Example:
  votersearch search --partition "107 - பேரூர் (Perur)" --name raman`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&searchPartition, "partition", "", "Partition label, e.g. \"101 - மெட்டுப்பாளையம் (Mettupalayam)\"")
	searchCmd.Flags().StringVar(&searchName, "name", "", "Text contained in the voter's name")
	searchCmd.Flags().StringVar(&searchRelative, "relative", "", "Text contained in the relative's name")
	_ = searchCmd.MarkFlagRequired("partition")
}

func runSearch(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), settings, logger)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	reporter := a.engine.Reporter()

	resp, err := a.engine.Search(cmd.Context(), engine.SearchRequest{
		Partition:    searchPartition,
		Name:         searchName,
		RelativeName: searchRelative,
	})
	switch {
	case errors.Is(err, internalErrors.ErrEmptyQuery):
		notice := reporter.EmptyQuery()
		fmt.Fprintln(out, styleMessage(notice.Message, notice.Level))
		return nil
	case errors.Is(err, internalErrors.ErrPartitionUnavailable):
		notice := reporter.PartitionUnavailable()
		fmt.Fprintln(out, styleMessage(notice.Message, notice.Level))
		return err
	case err != nil:
		return err
	}

	fmt.Fprintln(out, styleMessage(resp.Message, resp.Level))
	if !resp.Empty {
		fmt.Fprintln(out, renderRows(resp.Columns, resp.Rows))
	}
	return nil
}
