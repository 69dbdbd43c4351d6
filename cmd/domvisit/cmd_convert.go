package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reoring/domvisit/convert"
)

func newConvertCmd() *cobra.Command {
	var (
		from, to      string
		indent        string
		jobs          int
		rawNumbers    bool
		allDocuments  bool
		reservedNames bool
		maxDepth      int
	)

	cmd := &cobra.Command{
		Use:   "convert [file...]",
		Short: "Convert documents from one format to another",
		Long: `Convert each file (or stdin) from --from to --to.

Each input is read by its own producer and written through its own adapter,
so several files are converted concurrently on a pool of --jobs workers.
Outputs are printed in argument order.

Defaults come from DOMVISIT_FROM, DOMVISIT_TO and DOMVISIT_JOBS, which may
also be set in a .env file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := convert.ParseFormat(from)
			if err != nil {
				return err
			}
			dst, err := convert.ParseFormat(to)
			if err != nil {
				return err
			}
			opt := convert.Options{
				Indent:        indent,
				RawNumbers:    rawNumbers,
				AllDocuments:  allDocuments,
				ReservedNames: reservedNames,
				MaxDepth:      maxDepth,
				Logger:        log,
			}
			results, err := convert.Batch(jobsFor(args), src, dst, jobs, opt)
			if err != nil {
				return err
			}
			var failed int
			out := cmd.OutOrStdout()
			for _, r := range results {
				if r.Err != nil {
					failed++
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", r.Name, r.Err)
					continue
				}
				if _, err := out.Write(r.Output); err != nil {
					return err
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d inputs failed", failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&from, "from", "f", envString("DOMVISIT_FROM", "json"), "input format: json, yaml or xml")
	cmd.Flags().StringVarP(&to, "to", "t", envString("DOMVISIT_TO", "json"), "output format: json, yaml, xml or tree")
	cmd.Flags().StringVar(&indent, "indent", "", "indent unit for json, xml and tree output")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", envInt("DOMVISIT_JOBS", 4), "number of inputs converted concurrently")
	cmd.Flags().BoolVar(&rawNumbers, "raw-numbers", false, "pass json numbers on as raw text")
	cmd.Flags().BoolVar(&allDocuments, "all", false, "read every yaml document or json stream value as one array")
	cmd.Flags().BoolVar(&reservedNames, "reserved", false, "read Object, Array and Entry xml elements back as structures")
	cmd.Flags().IntVar(&maxDepth, "max-depth", 0, "reject input nested deeper than this (0: no limit)")

	return cmd
}
