package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/strataview/strata/internal/cli"
	"github.com/strataview/strata/internal/domain/entity"
)

var (
	searchJSON        bool
	searchInteractive bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Compose omnibox results for a query",
	Long: `Compose the omnibox result list for a query against the current
session: open tabs, bookmarks, recent history, remote suggestions, and the
default search-engine entry, in their fixed presentation order.

An empty query lists the active space's tabs.

With --interactive, queries are read line by line from stdin and remote
suggestion fetches are debounced across successive queries.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output as JSON")
	searchCmd.Flags().BoolVarP(&searchInteractive, "interactive", "i", false, "read queries from stdin")
}

func runSearch(_ *cobra.Command, args []string) error {
	app := GetApp()

	if searchInteractive {
		return runSearchInteractive(app)
	}

	query := ""
	if len(args) > 0 {
		query = args[0]
	}

	results := app.Composer.Compose(app.Ctx(), query, app.Model.ActiveSpaceID())

	if searchJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	printResults(results)
	return nil
}

// runSearchInteractive recomposes per input line. Remote suggestions arrive
// through the debouncer; when fresh results land for the line still being
// viewed, the result list is printed again with them included.
func runSearchInteractive(app *cli.App) error {
	composer, deb := app.InteractiveComposer()
	defer deb.Cancel()

	var mu sync.Mutex
	current := ""

	show := func(query string) {
		printResults(composer.Compose(app.Ctx(), query, app.Model.ActiveSpaceID()))
	}

	deb.SetOnUpdate(func(query string, _ []string) {
		mu.Lock()
		live := query == current
		mu.Unlock()
		if live {
			fmt.Printf("-- suggestions for %q --\n", query)
			show(query)
		}
	})

	fmt.Println("one query per line, ctrl-d to quit")
	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		query := strings.TrimSpace(sc.Text())
		mu.Lock()
		current = query
		mu.Unlock()
		show(query)
	}
	return sc.Err()
}

func printResults(results []entity.SearchResult) {
	if len(results) == 0 {
		fmt.Println("no results")
		return
	}
	for _, r := range results {
		switch r.Kind {
		case entity.ResultTab:
			fmt.Printf("%-12s %s  (%s)  [%s]\n", r.Kind, r.Title, r.URL, r.TabID)
		case entity.ResultCommand:
			fmt.Printf("%-12s %s  (%s)\n", r.Kind, r.Title, r.Subtitle)
		default:
			fmt.Printf("%-12s %s  (%s)\n", r.Kind, r.Title, r.URL)
		}
	}
}
