package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	historyJSON bool
	historyMax  int
)

const defaultHistoryShow = 50

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent history with frecency scores",
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "output as JSON")
	historyCmd.Flags().IntVar(&historyMax, "max", defaultHistoryShow, "maximum entries to show")
}

func runHistory(_ *cobra.Command, _ []string) error {
	app := GetApp()
	entries := app.Model.RecentHistory(historyMax)

	if historyJSON {
		type row struct {
			URL         string    `json:"url"`
			Title       string    `json:"title"`
			VisitCount  int64     `json:"visit_count"`
			TypedCount  int64     `json:"typed_count"`
			LastVisited time.Time `json:"last_visited"`
			Frecency    float64   `json:"frecency"`
		}
		rows := make([]row, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, row{
				URL:         e.URL,
				Title:       e.Title,
				VisitCount:  e.VisitCount,
				TypedCount:  e.TypedCount,
				LastVisited: e.LastVisited,
				Frecency:    e.Frecency(),
			})
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	if len(entries) == 0 {
		fmt.Println("no history")
		return nil
	}
	for _, e := range entries {
		fmt.Printf("%8.1f  %3dx  %-40.40s  %s\n", e.Frecency(), e.VisitCount, e.Title, e.URL)
	}
	fmt.Printf("\n%d of %d entries\n", len(entries), app.Model.HistoryCount())
	return nil
}
