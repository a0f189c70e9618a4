package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/carlog/internal/engine"
)

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check the stored fuel history without reading the source",
		Long: `Create any missing tables, then run the payment, mileage and
efficiency checks over the stored fuel history in (date, odometer) order.
The declarative source is not read.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStages(cmd, rootOpts, engine.StageCheck)
		},
	}
}
