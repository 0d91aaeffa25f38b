package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/kitchen-rota/pkg/core/services"
)

// ExchangeDutyCmd creates the exchangeDuty command
func ExchangeDutyCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exchangeDuty <from_meal_id> <to_meal_id> <user_id>",
		Short: "Swap a user's duty on one meal with the matching duty on another",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("force")

			app.Logger.Debug("exchangeDuty command",
				zap.String("from_meal_id", args[0]),
				zap.String("to_meal_id", args[1]),
				zap.String("user_id", args[2]))

			result, err := services.ExchangeDuty(app.Ctx, app.Database, app.Redis, app.Cfg, app.Logger,
				args[0], args[1], args[2], app.Now(), force)
			if err != nil {
				return err
			}

			if !result.Changed {
				fmt.Printf("\nUser %s has no duty on meal %s, nothing exchanged.\n\n", args[2], args[0])
				return nil
			}

			fmt.Printf("\n✓ Duty exchanged\n\n")
			for _, m := range []struct {
				label string
				cook  string
				wash  string
				date  string
			}{
				{"From", result.From.CookID, result.From.WasherID, result.From.Date.Format("Mon 02 Jan") + " " + string(result.From.Type)},
				{"To", result.To.CookID, result.To.WasherID, result.To.Date.Format("Mon 02 Jan") + " " + string(result.To.Type)},
			} {
				fmt.Printf("%-4s %-20s cook=%s washer=%s\n", m.label, m.date, orUnassigned(m.cook), orUnassigned(m.wash))
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().Bool("force", false, "Ignore the publication cutoff")
	return cmd
}

func orUnassigned(id string) string {
	if id == "" {
		return services.Unassigned
	}
	return id
}
