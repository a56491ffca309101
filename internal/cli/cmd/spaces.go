package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/strataview/strata/internal/domain/entity"
)

var spacesCmd = &cobra.Command{
	Use:   "spaces",
	Short: "Inspect and mutate spaces",
}

var spacesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List spaces",
	RunE: func(_ *cobra.Command, _ []string) error {
		app := GetApp()
		activeID := app.Model.ActiveSpaceID()
		for _, space := range app.Model.Spaces() {
			marker := " "
			if space.ID == activeID {
				marker = "*"
			}
			tabs := len(app.Model.TabsInSpace(space.ID))
			fmt.Printf("%s %-36s  %-20s  %d tabs\n", marker, space.ID, space.Name, tabs)
		}
		return nil
	},
}

var spacesCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a space and make it active",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		app := GetApp()
		space, err := app.Model.CreateSpace(app.Ctx(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("created %s (%s)\n", space.Name, space.ID)
		return nil
	},
}

var spacesSelectCmd = &cobra.Command{
	Use:   "select <space-id>",
	Short: "Make a space active",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		app := GetApp()
		return app.Model.SelectSpace(app.Ctx(), entity.SpaceID(args[0]))
	},
}

var spacesDeleteCmd = &cobra.Command{
	Use:   "delete <space-id>",
	Short: "Delete a space, reassigning its tabs",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		app := GetApp()
		if err := app.Model.DeleteSpace(app.Ctx(), entity.SpaceID(args[0])); err != nil {
			return err
		}
		fmt.Printf("deleted %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(spacesCmd)
	spacesCmd.AddCommand(spacesListCmd, spacesCreateCmd, spacesSelectCmd, spacesDeleteCmd)
}
