package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reoring/domvisit"
)

func newCapsCmd() *cobra.Command {
	var caps string

	cmd := &cobra.Command{
		Use:   "caps",
		Short: "Show which primitives an adapter emulates for a downstream visitor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			native, err := domvisit.ParseFlags(caps)
			if err != nil {
				return err
			}
			polyfill, err := domvisit.Negotiate(native)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "native:     %s\n", native)
			fmt.Fprintf(out, "polyfilled: %s\n", polyfill)
			fmt.Fprintf(out, "offered:    %s\n", native|polyfill)
			return nil
		},
	}

	cmd.Flags().StringVarP(&caps, "caps", "c", "objects,arrays", "capabilities of the downstream visitor")

	return cmd
}
