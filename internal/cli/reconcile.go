package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/carlog/internal/engine"
)

// NewReconcileCommand creates the reconcile command.
func NewReconcileCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Merge the declarative source into the store",
		Long: `Create any missing tables, then insert every source record whose
(date, odometer) key is not stored yet. Records whose stored value differs
are reported and left unchanged. No checks run.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStages(cmd, rootOpts, engine.StageReconcile)
		},
	}
}
