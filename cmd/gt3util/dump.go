package main

import (
	"fmt"

	"github.com/kjoti/gt3/chunkfile"
	"github.com/spf13/cobra"
)

func newDumpCmd() *cobra.Command {
	var chunk, z int

	cmd := &cobra.Command{
		Use:   "dump <path>",
		Short: "Print one decoded z-plane as whitespace-separated text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(cmd, args[0], chunk, z)
		},
	}

	cmd.Flags().IntVar(&chunk, "chunk", 0, "chunk index to read")
	cmd.Flags().IntVar(&z, "z", 0, "z-plane index within the chunk")
	return cmd
}

func runDump(cmd *cobra.Command, path string, chunk, z int) error {
	cf, err := chunkfile.Open(path)
	if err != nil {
		return err
	}
	defer cf.Close()

	if err := cf.Seek(chunk, chunkfile.SeekStart); err != nil {
		return err
	}

	v, err := chunkfile.GetVarbuf(cf)
	if err != nil {
		return err
	}

	plane, err := v.Plane(z)
	if err != nil {
		return err
	}

	nx, ny, _ := v.Dims()
	out := cmd.OutOrStdout()
	for y := 0; y < ny; y++ {
		row := plane[y*nx : (y+1)*nx]
		for x, val := range row {
			if x > 0 {
				fmt.Fprint(out, " ")
			}
			fmt.Fprintf(out, "%g", val)
		}
		fmt.Fprintln(out)
	}
	return nil
}
