// tcat loads update tuples into a Pebble-backed trace and prints it back.
//
// Usage:
//
//	tcat load --db DIR FILE.yaml        # append FILE as one batch
//	tcat dump --db DIR                  # print the merged trace
//	tcat dump --db DIR --batch 3 -n 20  # print the first 20 updates of batch 3
//	tcat batches --db DIR               # list batches
//
// Flags may also come from a YAML file (--config) or TCAT_* environment
// variables, e.g. TCAT_DB or TCAT_LOG_LEVEL.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := NewCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
