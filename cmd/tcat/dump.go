package main

import (
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/dacapoday/trace/borrow"
	"github.com/dacapoday/trace/cursor"
)

const (
	keyWidth = 32
	valWidth = 40
)

func (a *app) dumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the merged trace, or one batch, in (key, val, time) order",
		Args:  cobra.NoArgs,
		RunE:  a.dump,
	}
	cmd.Flags().IntP(limitF, "n", 0, limitUsage)
	cmd.Flags().Int64(batchF, -1, batchUsage)
	return cmd
}

func (a *app) dump(cmd *cobra.Command, _ []string) error {
	store, err := a.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	var out [][]string
	if a.cfg.Batch >= 0 {
		batch, err := store.Batch(uint64(a.cfg.Batch))
		if err != nil {
			return err
		}
		c, err := batch.Cursor()
		if err != nil {
			return err
		}
		defer c.Close()

		out = rows(c, batch, a.cfg.Limit)
		if err := c.Error(); err != nil {
			return err
		}
	} else {
		tr, err := store.Trace()
		if err != nil {
			return err
		}
		defer tr.Close()

		a.log.Debugw("merging batches", "count", tr.Len())
		out = rows(tr, tr.Batches, a.cfg.Limit)
		if err := tr.Error(); err != nil {
			return err
		}
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"Key", "Val", "Time", "Diff"})
	table.AppendBulk(out)
	table.Render()
	return nil
}

// rows walks c from the start and formats up to limit updates.
func rows[S any](c cursor.Cursor[S, borrow.View, borrow.View, uint64, int64], s S, limit int) (out [][]string) {
	for c.RewindKeys(s); c.KeyValid(s); c.StepKey(s) {
		key := display(c.Key(s), keyWidth)
		for c.RewindVals(s); c.ValValid(s); c.StepVal(s) {
			val := display(c.Val(s), valWidth)
			for time, diff := range cursor.Times(c, s) {
				if limit > 0 && len(out) == limit {
					return out
				}
				out = append(out, []string{key, val, strconv.FormatUint(time, 10), strconv.FormatInt(diff, 10)})
			}
		}
	}
	return out
}
