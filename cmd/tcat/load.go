package main

import (
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dacapoday/trace/borrow"
	"github.com/dacapoday/trace/pebblebatch"
)

// tupleDoc is one update tuple of a load file:
//
//	- {key: apple, val: red, time: 1, diff: 1}
type tupleDoc struct {
	Key  string `yaml:"key"`
	Val  string `yaml:"val"`
	Time uint64 `yaml:"time"`
	Diff int64  `yaml:"diff"`
}

func (a *app) loadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load FILE",
		Short: "Append the tuples of a yaml file as one batch",
		Args:  cobra.ExactArgs(1),
		RunE:  a.load,
	}
	cmd.Flags().Bool(noSyncF, false, noSyncUsage)
	return cmd
}

func (a *app) load(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	tuples, err := readTuples(f)
	if err != nil {
		return errors.Wrapf(err, "read %s", args[0])
	}

	store, err := a.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	batch, err := store.Append(tuples)
	if err != nil {
		return err
	}
	a.log.Infow("loaded batch", "file", args[0], "id", batch.ID(), "updates", batch.Len())
	cmd.Printf("appended batch %d (%d updates)\n", batch.ID(), batch.Len())
	return nil
}

// readTuples decodes a yaml sequence of tuples. An empty document is an
// empty batch.
func readTuples(r io.Reader) ([]pebblebatch.Tuple, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var docs []tupleDoc
	if err := dec.Decode(&docs); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	tuples := make([]pebblebatch.Tuple, len(docs))
	for i, d := range docs {
		tuples[i] = pebblebatch.Tuple{
			Key:  borrow.Bytes(d.Key),
			Val:  borrow.Bytes(d.Val),
			Time: d.Time,
			Diff: d.Diff,
		}
	}
	return tuples, nil
}
