package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/strataview/strata/internal/domain/entity"
)

var tabsSpaceID string

var tabsCmd = &cobra.Command{
	Use:   "tabs",
	Short: "Inspect and mutate tabs",
}

var tabsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tabs in a space (default: active space)",
	RunE: func(_ *cobra.Command, _ []string) error {
		app := GetApp()

		spaceID := entity.SpaceID(tabsSpaceID)
		if spaceID == "" {
			spaceID = app.Model.ActiveSpaceID()
		}

		tabs := app.Model.TabsInSpace(spaceID)
		if len(tabs) == 0 {
			fmt.Println("no tabs")
			return nil
		}
		activeID := app.Model.ActiveTabID()
		for _, tab := range tabs {
			marker := " "
			if tab.ID == activeID {
				marker = "*"
			}
			pin := ""
			if tab.IsPinned {
				pin = " [pinned]"
			}
			fmt.Printf("%s %-36s  %-30.30s  %s%s\n", marker, tab.ID, tab.DisplayTitle(), tab.URL, pin)
		}
		return nil
	},
}

var tabsOpenCmd = &cobra.Command{
	Use:   "open [url]",
	Short: "Open a new tab (default: home URL)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		app := GetApp()

		url := ""
		if len(args) > 0 {
			url = args[0]
		}
		tab, err := app.Model.CreateTab(app.Ctx(), url, entity.SpaceID(tabsSpaceID))
		if err != nil {
			return err
		}
		fmt.Printf("opened %s -> %s\n", tab.ID, tab.URL)
		return nil
	},
}

var tabsCloseCmd = &cobra.Command{
	Use:   "close <tab-id>",
	Short: "Close a tab",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		app := GetApp()
		if err := app.Model.CloseTab(app.Ctx(), entity.TabID(args[0])); err != nil {
			return err
		}
		fmt.Printf("closed %s\n", args[0])
		return nil
	},
}

var tabsSelectCmd = &cobra.Command{
	Use:   "select <tab-id>",
	Short: "Make a tab active",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		app := GetApp()
		return app.Model.SelectTab(app.Ctx(), entity.TabID(args[0]))
	},
}

var tabsPinCmd = &cobra.Command{
	Use:   "pin <tab-id>",
	Short: "Pin a tab",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		app := GetApp()
		return app.Model.PinTab(app.Ctx(), entity.TabID(args[0]), true)
	},
}

func init() {
	rootCmd.AddCommand(tabsCmd)
	tabsCmd.PersistentFlags().StringVar(&tabsSpaceID, "space", "", "space id (default: active space)")
	tabsCmd.AddCommand(tabsListCmd, tabsOpenCmd, tabsCloseCmd, tabsSelectCmd, tabsPinCmd)
}
