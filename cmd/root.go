package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/drisen/mylib/internal/config"
	"github.com/drisen/mylib/internal/logerr"
	"github.com/drisen/mylib/internal/prompt"
	"github.com/drisen/mylib/internal/timeconv"
)

var (
	// Global configuration state
	cfg      *config.Config
	homeZone *timeconv.Zone
	logger   *logerr.Logger

	// Command line flags
	cfgPath  string
	zoneName string
	verbose  int
	version  = "1.0.0" // This will be set during build
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mylib",
	Short: "Personal credential store, histogram, and time formatting utilities",
	Long: `mylib bundles the small utilities used by the collector scripts: a local
credential store over ~/.credentials.json, a histogram bucketing helper, and
timezone-aware time format conversions.

Settings such as the home timezone and error-mail delivery come from
~/.mylib.yaml; every subcommand accepts --config, --zone, and --verbose
overrides.`,
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
}

// initConfig loads the configuration file and builds the shared zone and
// logger before any subcommand runs.
func initConfig(cmd *cobra.Command, args []string) error {
	path := cfgPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}

	c, err := config.Load(path)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("verbose") {
		c.Verbose = verbose
	} else {
		verbose = c.Verbose
	}
	if zoneName != "" {
		c.HomeZone = zoneName
	}

	z, err := c.Zone()
	if err != nil {
		return err
	}

	var mailer logerr.Mailer
	if c.MailEnabled() {
		mailer = logerr.NewSMTPMailer(c.LogConfig())
	}

	cfg = c
	homeZone = z
	logger = logerr.New(c.LogConfig(), z, cmd.OutOrStdout(), mailer)
	return nil
}

// newPrompt picks the prompt implementation for interactive commands: the
// bubbletea input on a real terminal, plain line reads otherwise.
func newPrompt() prompt.TextPrompt {
	if isInteractive() {
		return prompt.NewTUI()
	}
	return prompt.NewTerminalWith(os.Stdin, os.Stdout)
}

func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Config file (default ~/"+config.FileName+")")
	rootCmd.PersistentFlags().StringVar(&zoneName, "zone", "", "Home timezone override, e.g. America/New_York")
	rootCmd.PersistentFlags().IntVarP(&verbose, "verbose", "v", 0, "Verbosity level")

	// Add version command
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number of mylib",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "mylib v%s\n", version)
		},
	}

	rootCmd.AddCommand(versionCmd)
}
