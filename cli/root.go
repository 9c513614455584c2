package cli

import (
	"github.com/spf13/cobra"
)

func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "chainview",
		Short: "Render decoded chain values as plain JSON",
		Long: `chainview turns decoded blockchain value trees into plain JSON: integers
become decimal strings, byte strings become 0x hex and enums, options and
results become small objects.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return SetupGlobalConfig(cmd)
		},
	}
	AddGlobalFlags(root)
	root.AddCommand(
		NormalizeCmd(),
		ServeCmd(),
		VersionCmd(),
	)
	return root
}

// AddGlobalFlags registers flags shared by every command.
func AddGlobalFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.String("config", "", "Path to a YAML configuration file")
	flags.String("env-file", ".env", "Path to a dotenv file loaded before configuration; missing files are ignored")
	flags.String("log-level", "info", "Log level (debug, info, warn, error, disabled)")
	flags.Bool("log-json", false, "Emit logs as JSON")
	flags.Bool("log-source", false, "Include source locations in logs")
	flags.Int("max-depth", 0, "Maximum container nesting rebuilt by the normalizer")
	flags.Bool("strict-depth", false, "Fail instead of passing through containers beyond max-depth")
}
