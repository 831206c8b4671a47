package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	apppkg "github.com/s-show/tripick/internal/app"
	"github.com/s-show/tripick/internal/config"
	"github.com/s-show/tripick/internal/shellsetup"
)

// Version is the semantic version (set via -ldflags).
var Version = "dev"

var (
	cfgFile  string
	listMode bool
)

var rootCmd = &cobra.Command{
	Use:   "tripick [root]",
	Short: "Pick a file from open documents, recent files, and a directory walk",
	Long: `tripick merges three sources into one incrementally delivered list:
documents currently open in the editor, the most recently used files
reported by a helper command, and a recursive walk of the root directory.
Earlier sources win duplicates, so an open document never shows up a
second time as a walk result.

With no flags it opens a terminal picker and prints the accepted path on
stdout. With --list it skips the terminal and prints every path as soon
as its batch arrives.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		if len(args) == 1 {
			cfg.Walk.Root = args[0]
		}

		app, err := apppkg.New(&cfg)
		if err != nil {
			return err
		}
		defer app.Close()

		if listMode {
			return app.RunList(cmd.Context(), cmd.OutOrStdout())
		}

		selection, err := app.Run(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), selection)
		return nil
	},
}

var setupCmd = &cobra.Command{
	Use:   "setup [shell]",
	Short: "Print a shell function that opens the picked file in $EDITOR",
	Long: `Print a shell integration snippet. Evaluate it in your shell profile,
for example:

  eval "$(tripick setup)"        # bash, zsh
  tripick setup fish | source    # fish

The emitted function runs the picker and hands the accepted path to
$EDITOR. Arguments still pass through to the plain binary.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		shell := ""
		if len(args) == 1 {
			shell = args[0]
		}
		shellsetup.PrintSetup(cmd.OutOrStdout(), shell, shellsetup.Config{})
	},
}

func init() {
	rootCmd.Flags().StringVar(&cfgFile, "config", "", "config file (default is .tripick.toml or the user config dir)")
	rootCmd.Flags().BoolVar(&listMode, "list", false, "print all results to stdout instead of opening the picker")
	rootCmd.Version = Version
	rootCmd.AddCommand(setupCmd)
}

func main() {
	// UTF-8 fallback so unusual locales still render wide runes.
	tcell.SetEncodingFallback(tcell.EncodingFallbackUTF8)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		if errors.Is(err, apppkg.ErrAborted) {
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
