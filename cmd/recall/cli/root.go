package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/recall/internal/ui"
)

var (
	verbose      bool
	jsonLogs     bool
	homeDir      string
	interactive  bool
	outputFormat string
	editFirst    bool
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "recall",
	Short: "Capture and search memories in a Mem0 Memory Store",
	Long: `Recall stores text from your clipboard as memories in a Mem0-compatible
Memory Store and searches them again, copying the results to your clipboard.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var addCmd = &cobra.Command{
	Use:   "add [text...]",
	Short: "Store the clipboard (or the given text) as memories",
	Long: `Add sends the clipboard text to the Memory Store and lists the memories it
extracted. Arguments, when given, are used instead of the clipboard.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := ui.ParseFormat(outputFormat)
		if err != nil {
			return err
		}
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		r, err := s.runner(cmd, format)
		if err != nil {
			return err
		}
		return r.Capture(cmd.Context(), strings.Join(args, " "), len(args) > 0, editFirst)
	},
}

var searchCmd = &cobra.Command{
	Use:   "search [query...]",
	Short: "Search memories and copy the results to the clipboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := ui.ParseFormat(outputFormat)
		if err != nil {
			return err
		}
		query := strings.Join(args, " ")
		if query == "" && !interactive {
			return fmt.Errorf("search needs a query (or --interactive)")
		}
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		r, err := s.runner(cmd, format)
		if err != nil {
			return err
		}
		return r.Search(cmd.Context(), query)
	},
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := RootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	RootCmd.AddCommand(addCmd)
	RootCmd.AddCommand(searchCmd)

	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	RootCmd.PersistentFlags().BoolVar(&jsonLogs, "json", false, "Write logs as JSON")
	RootCmd.PersistentFlags().StringVar(&homeDir, "home", "", "Directory holding recall.db (default ~/.recall)")
	RootCmd.PersistentFlags().BoolVarP(&interactive, "interactive", "i", false, "Start interactive TUI")
	RootCmd.PersistentFlags().StringVar(&outputFormat, "format", string(ui.FormatText), "Output format: text, json or yaml")

	addCmd.Flags().BoolVar(&editFirst, "edit", false, "Edit the text before storing it (implies --interactive)")
}
