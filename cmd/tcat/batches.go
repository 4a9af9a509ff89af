package main

import (
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func (a *app) batchesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "batches",
		Short: "List batches and their update counts",
		Args:  cobra.NoArgs,
		RunE:  a.batches,
	}
}

func (a *app) batches(cmd *cobra.Command, _ []string) error {
	store, err := a.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	batches, err := store.Batches()
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"Batch", "Updates"})
	total := 0
	for _, b := range batches {
		table.Append([]string{strconv.FormatUint(b.ID(), 10), strconv.Itoa(b.Len())})
		total += b.Len()
	}
	table.SetFooter([]string{"Total", strconv.Itoa(total)})
	table.Render()
	return nil
}
