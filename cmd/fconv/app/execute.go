package app

import (
	"os"

	"github.com/spf13/cobra"
)

// Execute runs the fconv CLI with the given arguments.
func (a *App) Execute(args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "fconv",
		Short:   "Convert files between structured formats",
		Version: a.version,
		Long: `fconv converts files between CSV, XLSX, JSON, XML, YAML, INI, plain
text, and Markdown. Source code files may be converted to plain text or
Markdown only.

Formats are detected from the file extension, or from the content when the
extension is unknown.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}
	rootCmd.SetOut(a.stdout)
	rootCmd.SetErr(a.stderr)

	addGlobalFlags(rootCmd.PersistentFlags())
	rootCmd.SetVersionTemplate("fconv {{.Version}}\n")

	rootCmd.AddCommand(
		a.NewDetectCommand(),
		a.NewPreviewCommand(),
		a.NewConvertCommand(),
		a.NewFormatsCommand(),
	)
	return rootCmd
}

// setupCommand loads configuration once flags are parsed.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	cfg, err := LoadConfig(a.viper, cmd.Flags())
	if err != nil {
		return err
	}
	return a.configure(cfg)
}

// ExitOnError prints err and exits with status 1.
func ExitOnError(err error) {
	if err != nil {
		_, _ = os.Stderr.WriteString("fconv: " + err.Error() + "\n")
		os.Exit(1)
	}
}
