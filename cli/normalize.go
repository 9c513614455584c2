package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/chainview/chainview/engine/normalizer"
	"github.com/chainview/chainview/engine/service"
	"github.com/chainview/chainview/pkg/config"
	"github.com/chainview/chainview/pkg/logger"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"
)

// NormalizeCmd reads one value envelope and prints its normalized JSON.
func NormalizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "normalize [file|-]",
		Short: "Normalize a value envelope read from a file or stdin",
		Example: `  chainview normalize value.json
  echo '{"type":"u128","value":"1"}' | chainview normalize --pretty`,
		Args: cobra.MaximumNArgs(1),
		RunE: runNormalize,
	}
	cmd.Flags().Bool("pretty", false, "Indent the output")
	return cmd
}

func runNormalize(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	log := logger.FromContext(ctx)
	cfg := config.FromContext(ctx)
	path := "-"
	if len(args) == 1 {
		path = args[0]
	}
	raw, err := readInput(cmd, path)
	if err != nil {
		return err
	}
	svc := service.New(service.OptionsFromConfig(cfg, nil))
	out, err := svc.Normalize(ctx, raw)
	if err != nil {
		return fmt.Errorf("failed to normalize %s: %w", path, err)
	}
	payload, err := normalizer.Marshal(out)
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	prettyOut, err := cmd.Flags().GetBool("pretty")
	if err != nil {
		return fmt.Errorf("failed to get pretty flag: %w", err)
	}
	if prettyOut {
		payload = pretty.PrettyOptions(payload, &pretty.Options{Width: 80, Indent: "  "})
	} else {
		payload = append(payload, '\n')
	}
	log.Debug("Normalized input", "source", path, "bytes", len(raw))
	_, err = cmd.OutOrStdout().Write(payload)
	return err
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		in := cmd.InOrStdin()
		if f, ok := in.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
			return nil, fmt.Errorf("no input: pass a file or pipe an envelope on stdin")
		}
		raw, err := io.ReadAll(in)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return raw, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return raw, nil
}
