package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	beacon "github.com/Tap30/beacon-go"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <message-type> <param> <value>",
		Short: "Check a parameter value against the collector rules",
		Example: `  beacon validate ins r 123,456
  beacon validate pgr u /home/index.html`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			mt, err := beacon.ParseMessageType(args[0])
			if err != nil {
				return err
			}
			if err := beacon.Validate(mt, args[1], args[2]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "valid")
			return nil
		},
	}
}
