package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/kitchen-rota/pkg/core/services"
)

// ListDutiesCmd creates the listDuties command
func ListDutiesCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "listDuties",
		Short: "Show cooks and washers for a week",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			week, err := weekFlag(cmd)
			if err != nil {
				return err
			}
			if week.IsZero() {
				week = app.Now()
			}

			rows, err := services.ListDuties(app.Ctx, app.Database, app.Logger, week)
			if err != nil {
				return err
			}

			if len(rows) == 0 {
				fmt.Println("\nNo meals defined for this week. Run defineWeek first.")
				return nil
			}

			fmt.Printf("\n%-10s  %-9s  %-5s  %-20s  %-20s  %s\n", "Date", "Meal", "Prep", "Cook", "Washer", "ID")
			for _, r := range rows {
				cook, washer := r.Cook, r.Washer
				if r.NoDutyMeal {
					cook, washer = "-", "-"
				}
				fmt.Printf("%-10s  %-9s  %-5s  %-20s  %-20s  %s\n",
					r.Date.Format("Mon 02 Jan"), r.MealType, r.PrepTime, cook, washer, r.MealID)
			}
			fmt.Println()
			return nil
		},
	}

	addWeekFlag(cmd, "Any date in the week, YYYY-MM-DD (defaults to the current week)")
	return cmd
}
