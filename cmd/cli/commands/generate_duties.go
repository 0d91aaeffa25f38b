package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/kitchen-rota/pkg/core/services"
)

// GenerateDutiesCmd creates the generateDuties command
func GenerateDutiesCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generateDuties",
		Short: "Assign cooks and washers to a week's meals",
		Long: `Assign a cook and a washer to every meal of the week from the eligible users.
Meals that already have a cook or washer are left alone unless --overwrite is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			week, err := weekFlag(cmd)
			if err != nil {
				return err
			}
			overwrite, _ := cmd.Flags().GetBool("overwrite")
			force, _ := cmd.Flags().GetBool("force")
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			opts := services.GenerateDutiesOptions{
				WeekStart: week,
				Overwrite: overwrite,
				Force:     force,
				DryRun:    dryRun,
				Now:       app.Now(),
			}
			if cmd.Flags().Changed("seed") {
				seed, _ := cmd.Flags().GetUint64("seed")
				opts.Seed = &seed
			}

			app.Logger.Debug("generateDuties command",
				zap.Bool("overwrite", overwrite),
				zap.Bool("force", force),
				zap.Bool("dry_run", dryRun))

			result, err := services.GenerateDuties(app.Ctx, app.Database, app.Redis, app.Cfg, app.Logger, opts)
			if err != nil {
				return fmt.Errorf("generation failed: %w", err)
			}

			outcome := result.Outcome
			fmt.Printf("\n🍳 Kitchen Duties for week of %s\n\n", result.WeekStart.Format("Mon 02 Jan 2006"))
			fmt.Printf("Seed:      %d\n", result.Seed)
			if dryRun {
				fmt.Printf("Mode:      🧪 DRY RUN (not saved)\n")
			} else {
				fmt.Printf("Status:    ✅ saved\n")
			}
			fmt.Printf("Meals:     %d (%d left untouched)\n", len(outcome.Meals), result.Untouched)
			fmt.Printf("Filled:    %d duties\n\n", outcome.Filled())

			if len(outcome.Unfilled) > 0 {
				fmt.Printf("⚠️  No eligible candidate (%d):\n", len(outcome.Unfilled))
				for _, u := range outcome.Unfilled {
					fmt.Printf("  - %s on meal %s\n", u.Duty, u.MealID)
				}
				fmt.Println()
			}

			fmt.Println("Run listDuties to see the assignments.")
			return nil
		},
	}

	addWeekFlag(cmd, "Any date in the week, YYYY-MM-DD (defaults to the current week)")
	cmd.Flags().Uint64("seed", 0, "Seed for random decisions")
	cmd.Flags().Bool("overwrite", false, "Reassign meals that already have duties")
	cmd.Flags().Bool("force", false, "Ignore the publication cutoff")
	cmd.Flags().Bool("dry-run", false, "Run without saving to database")

	return cmd
}
