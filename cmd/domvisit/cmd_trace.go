package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/reoring/domvisit"
	"github.com/reoring/domvisit/convert"
)

func newTraceCmd() *cobra.Command {
	var from, caps string

	cmd := &cobra.Command{
		Use:   "trace [file]",
		Short: "Print the events a visitor with the given capabilities receives",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := convert.ParseFormat(from)
			if err != nil {
				return err
			}
			flags, err := domvisit.ParseFlags(caps)
			if err != nil {
				return err
			}
			in := os.Stdin
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			return convert.Trace(in, cmd.OutOrStdout(), src, flags, convert.Options{Logger: log})
		},
	}

	cmd.Flags().StringVarP(&from, "from", "f", envString("DOMVISIT_FROM", "json"), "input format: json, yaml or xml")
	cmd.Flags().StringVarP(&caps, "caps", "c", "nodes", "capabilities of the recording visitor, e.g. objects,arrays")

	return cmd
}
