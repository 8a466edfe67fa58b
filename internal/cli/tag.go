package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	beacon "github.com/Tap30/beacon-go"
)

func newTagCmd() *cobra.Command {
	var short bool
	var count int

	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Print fresh tracking tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count <= 0 {
				return fmt.Errorf("--count must be positive, got %d", count)
			}
			for i := 0; i < count; i++ {
				tag := beacon.GenerateTrackingTag()
				if short {
					tag = beacon.GenerateShortTrackingTag()
				}
				fmt.Fprintln(cmd.OutOrStdout(), tag)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&short, "short", false, "print 8 character short tags")
	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of tags")
	return cmd
}
