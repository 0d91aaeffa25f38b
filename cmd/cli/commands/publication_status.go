package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/kitchen-rota/pkg/core/publication"
	"github.com/jakechorley/kitchen-rota/pkg/core/services"
)

// PublicationStatusCmd creates the publicationStatus command
func PublicationStatusCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "publicationStatus",
		Short: "Show whether this week's schedule is published",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := services.PublicationStatus(app.Ctx, app.Database, app.Cfg, app.Logger, app.Now())
			if err != nil {
				return err
			}

			icon := "🟢"
			if result.State == publication.StatePublished {
				icon = "🔒"
			}
			fmt.Printf("\n%s %s\n", icon, result.State)
			fmt.Printf("Now:    %s\n", result.Now.Format("Mon 02 Jan 15:04 MST"))
			fmt.Printf("Cutoff: %s\n\n", result.Cutoff.Format("Mon 02 Jan 15:04 MST"))
			return nil
		},
	}
}
