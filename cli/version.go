package cli

import (
	"encoding/json"
	"fmt"

	"github.com/chainview/chainview/pkg/version"
	"github.com/spf13/cobra"
)

func VersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.Get()
			asJSON, err := cmd.Flags().GetBool("json")
			if err != nil {
				return fmt.Errorf("failed to get json flag: %w", err)
			}
			out := cmd.OutOrStdout()
			if asJSON {
				return json.NewEncoder(out).Encode(info)
			}
			_, err = fmt.Fprintln(out, info.String())
			return err
		},
	}
	cmd.Flags().Bool("json", false, "Print build information as JSON")
	return cmd
}
