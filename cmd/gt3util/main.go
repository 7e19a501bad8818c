// Command gt3util is a thin text-producing front end over packages
// chunkfile and catalog: it inspects and dumps gt3 container files from the
// shell. The library does no text formatting of its own; this command is
// the external collaborator that does.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "gt3util",
		Short:         "Inspect and dump gt3 scientific data containers",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newInfoCmd())
	cmd.AddCommand(newDumpCmd())
	cmd.AddCommand(newCatCmd())
	return cmd
}
