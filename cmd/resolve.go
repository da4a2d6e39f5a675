package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/zjrosen/modmap/internal/config"
	"github.com/zjrosen/modmap/internal/log"
	"github.com/zjrosen/modmap/internal/presentation"
)

var errUnresolved = errors.New("some files have no module path")

var (
	resolveFormat string
	resolveStrict bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve FILE...",
	Short: "Print the module path for each file",
	Long: `Print the module path a browser-side loader should request for each file.

Files may be absolute or relative to asset_root, and may omit the .js
extension. CoffeeScript sources resolve to their compiled .js name.
Files outside every namespace are reported as having no module path;
that is not an error unless --strict is given.

Examples:
  # Resolve a single file
  modmap resolve app/widgets/list.js

  # Extension is optional
  modmap resolve app/widgets/list

  # JSON output for scripting
  modmap resolve -f json app/main.js vendor/jquery | jq '.[].module_path'

  # Fail when any file is unmapped
  modmap resolve --strict $(git ls-files 'web/**/*.js')`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadedConfig()
		if err != nil {
			return err
		}
		format, err := presentation.ParseFormat(resolveFormat)
		if err != nil {
			return err
		}
		return runResolve(cmd.OutOrStdout(), cfg, format, resolveStrict, args)
	},
}

func init() {
	resolveCmd.Flags().StringVarP(&resolveFormat, "format", "f", "text", "Output format: text or json")
	resolveCmd.Flags().BoolVar(&resolveStrict, "strict", false, "Exit with an error if any file has no module path")
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(out io.Writer, cfg config.Config, format presentation.Format, strict bool, files []string) error {
	reg, err := cfg.NewRegistry()
	if err != nil {
		return err
	}

	results := presentation.Resolve(reg, files)
	if err := presentation.NewFormatter(out, format).FormatResolutions(results); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	missing := 0
	for _, res := range results {
		if !res.Found {
			missing++
		}
	}
	log.Debug(log.CatCLI, "Resolved files", "total", len(results), "unresolved", missing)

	if strict && missing > 0 {
		return fmt.Errorf("%w: %d of %d", errUnresolved, missing, len(results))
	}
	return nil
}
