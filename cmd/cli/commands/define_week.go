package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/kitchen-rota/pkg/core/services"
)

// DefineWeekCmd creates the defineWeek command
func DefineWeekCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "defineWeek",
		Short: "Create a week's meals from the configured meal templates",
		Long:  "Create the meals for a week from the meal templates in the config file. Meals that already exist are kept.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			week, err := weekFlag(cmd)
			if err != nil {
				return err
			}

			result, err := services.DefineWeek(app.Ctx, app.Database, app.Cfg, app.Logger, week, app.Now())
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Week of %s defined\n\n", result.WeekStart.Format("Mon 02 Jan 2006"))
			fmt.Printf("Created:  %d meals\n", len(result.Created))
			fmt.Printf("Existing: %d meals\n\n", result.Existing)

			for _, m := range result.Created {
				fmt.Printf("  %s  %-9s  prep %s  serve %s  %s\n",
					m.Date.Format("Mon 02 Jan"), m.Type, m.PrepTime, m.ServeTime, m.ID)
			}
			if len(result.Created) > 0 {
				fmt.Println()
			}
			return nil
		},
	}

	addWeekFlag(cmd, "Any date in the week to define, YYYY-MM-DD (defaults to next week)")
	return cmd
}
