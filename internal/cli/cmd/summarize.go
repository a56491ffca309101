package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/strataview/strata/internal/summary"
)

var summarizeFresh bool

var summarizeCmd = &cobra.Command{
	Use:   "summarize [url]",
	Short: "Summarize a page through the local model",
	Long: `Extract the readable content of a page and stream a summary from the
configured Ollama model. Results are cached by page content; the same page
at the same content revision is served from cache.

Without a URL, the active tab's page is summarized. Ctrl-C cancels the
request; a cancelled request writes nothing to the cache.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSummarize,
}

func init() {
	rootCmd.AddCommand(summarizeCmd)
	summarizeCmd.Flags().BoolVar(&summarizeFresh, "fresh", false, "bypass the cache and regenerate")
}

func runSummarize(_ *cobra.Command, args []string) error {
	app := GetApp()

	var pageURL string
	if len(args) > 0 {
		pageURL = args[0]
	} else if tab := app.Model.ActiveTab(); tab != nil {
		pageURL = tab.URL
	}
	if pageURL == "" {
		return fmt.Errorf("no URL given and no active tab")
	}

	ctx, stop := signal.NotifyContext(app.Ctx(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	printed := 0
	onUpdate := func(u summary.Update) {
		switch u.State {
		case summary.StateExtracting:
			fmt.Fprintln(os.Stderr, "extracting content...")
		case summary.StateGenerating:
			if len(u.Text) > printed {
				fmt.Print(u.Text[printed:])
				printed = len(u.Text)
			}
		case summary.StateCancelled:
			fmt.Fprintln(os.Stderr, "\ncancelled")
		}
	}

	if summarizeFresh {
		// Recompute the content hash the service would use so the stale
		// entry can be dropped first.
		text, err := app.Summaries.ExtractText(ctx, pageURL)
		if err == nil {
			_ = app.Summaries.Invalidate(pageURL, text)
		}
	}

	result, err := app.Summaries.Summarize(ctx, pageURL, "", onUpdate)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}

	// Cache hits skip the streaming phase; print the full text then.
	if printed == 0 {
		fmt.Print(result.Text)
	}
	fmt.Println()
	return nil
}
