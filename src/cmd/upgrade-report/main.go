package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upgrade-report",
		Short: "Source checks and report rendering for database upgrades",
		Long: `upgrade-report keeps upgrade script repositories clean and turns upgrade
message feeds into announcements. The check command runs configured hooks
(commands, rego policies, builtin checks) against a source tree and publishes
the results locally or as a GitHub PR comment. The render command turns a
message feed into the HTML upgrade report shown to end users.`,
		Version: fmt.Sprintf("%s (built: %s)", Version, BuildTime),
	}

	cmd.AddCommand(newCheckCmd())
	cmd.AddCommand(newRenderCmd())

	return cmd
}
