package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/strataview/strata/internal/domain/entity"
)

var bookmarksCmd = &cobra.Command{
	Use:   "bookmarks",
	Short: "Inspect and mutate bookmarks",
}

var bookmarksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List bookmarks",
	RunE: func(_ *cobra.Command, _ []string) error {
		app := GetApp()
		bookmarks := app.Model.Bookmarks()
		if len(bookmarks) == 0 {
			fmt.Println("no bookmarks")
			return nil
		}
		for _, b := range bookmarks {
			fmt.Printf("%-36s  %-30.30s  %s\n", b.ID, b.Title, b.URL)
		}
		return nil
	},
}

var bookmarksAddCmd = &cobra.Command{
	Use:   "add <url> [title]",
	Short: "Add a bookmark",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(_ *cobra.Command, args []string) error {
		app := GetApp()
		title := ""
		if len(args) > 1 {
			title = args[1]
		}
		b, err := app.Model.AddBookmark(app.Ctx(), args[0], title)
		if err != nil {
			return err
		}
		fmt.Printf("bookmarked %s (%s)\n", b.URL, b.ID)
		return nil
	},
}

var bookmarksRemoveCmd = &cobra.Command{
	Use:   "remove <bookmark-id>",
	Short: "Remove a bookmark",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		app := GetApp()
		return app.Model.RemoveBookmark(app.Ctx(), entity.BookmarkID(args[0]))
	},
}

func init() {
	rootCmd.AddCommand(bookmarksCmd)
	bookmarksCmd.AddCommand(bookmarksListCmd, bookmarksAddCmd, bookmarksRemoveCmd)
}
