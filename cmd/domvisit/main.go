package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

var log = commonlog.GetLogger("domvisit")

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	var verbosity int
	rootCmd := &cobra.Command{
		Use:           "domvisit",
		Short:         "Convert documents between JSON, YAML and XML through capability adapters",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if !cmd.Flags().Changed("verbose") {
				verbosity = envInt("DOMVISIT_VERBOSITY", 0)
			}
			commonlog.Configure(verbosity, nil)
		},
	}
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity (repeatable)")

	rootCmd.AddCommand(newConvertCmd())
	rootCmd.AddCommand(newTraceCmd())
	rootCmd.AddCommand(newCapsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "domvisit: %v\n", err)
		os.Exit(1)
	}
}
