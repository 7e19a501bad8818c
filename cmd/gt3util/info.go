package main

import (
	"fmt"

	"github.com/kjoti/gt3/chunkfile"
	"github.com/spf13/cobra"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <path>",
		Short: "Print the first chunk's header slots and the file's chunk count",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(cmd, args[0])
		},
	}
}

func runInfo(cmd *cobra.Command, path string) error {
	cf, err := chunkfile.Open(path)
	if err != nil {
		return err
	}
	defer cf.Close()

	h, err := cf.Header()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	for _, key := range []string{"DSET", "ITEM", "TITLE", "UNIT", "DATE", "DFMT"} {
		val, err := h.GetString(key)
		if err != nil {
			continue
		}
		fmt.Fprintf(out, "%-8s %s\n", key, val)
	}

	nx, ny, nz := cf.Dims()
	fmt.Fprintf(out, "%-8s %d %d %d\n", "DIMS", nx, ny, nz)

	n, err := chunkfile.CountChunks(path)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%-8s %d\n", "CHUNKS", n)
	return nil
}
