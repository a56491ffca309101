package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var purgeForce bool

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete all persisted session state",
	Long: `Delete every persisted blob: tabs, spaces, bookmarks, history, and
cached summaries. The next run starts from a fresh default session.`,
	RunE: runPurge,
}

func init() {
	rootCmd.AddCommand(purgeCmd)
	purgeCmd.Flags().BoolVarP(&purgeForce, "force", "f", false, "purge without prompting")
}

func runPurge(_ *cobra.Command, _ []string) error {
	app := GetApp()

	if !purgeForce {
		fmt.Print("delete all session state? [y/N] ")
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if !strings.EqualFold(strings.TrimSpace(answer), "y") {
			fmt.Println("aborted")
			return nil
		}
	}

	if err := app.Store.DeleteAll(); err != nil {
		return fmt.Errorf("purge store: %w", err)
	}
	fmt.Println("session state purged")
	return nil
}
