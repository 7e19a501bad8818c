package main

import (
	"fmt"

	"github.com/kjoti/gt3/catalog"
	"github.com/spf13/cobra"
)

func newCatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cat <path...>",
		Short: "Open a virtual catalog over the given paths and print its cumulative chunk count",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCat(cmd, args)
		},
	}
}

func runCat(cmd *cobra.Command, paths []string) error {
	c := catalog.New()
	for _, p := range paths {
		if err := c.Add(p); err != nil {
			return err
		}
	}
	defer c.Close()

	fmt.Fprintf(cmd.OutOrStdout(), "%d\n", c.NumChunks())
	return nil
}
