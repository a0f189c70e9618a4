package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/carlog/internal/model"
	"github.com/roach88/carlog/internal/report"
)

// NewRidesCommand creates the rides command.
func NewRidesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "rides",
		Short:         "List stored ride notes in (date, odometer) order",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRides(cmd, rootOpts)
		},
	}
}

func runRides(cmd *cobra.Command, opts *RootOptions) error {
	f := opts.formatter(cmd)

	notes, err := opts.engine(0).Rides(cmd.Context())
	if err != nil {
		return fail(f, errorCode(err), err)
	}

	if f.Format == report.FormatJSON {
		if notes == nil {
			notes = []model.RideNote{}
		}
		return f.Success(notes)
	}
	for _, note := range notes {
		if _, err := fmt.Fprintf(f.Writer, "%s %d %s\n", note.Date, note.Odometer, note.Description); err != nil {
			return err
		}
	}
	return nil
}
