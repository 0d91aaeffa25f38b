package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jakechorley/kitchen-rota/internal/config"
	"github.com/jakechorley/kitchen-rota/pkg/core/services"
)

// SetRulesCmd creates the setRules command
func SetRulesCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "setRules <rules_file>",
		Short: "Replace the eligibility rules with the contents of a yaml file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rules, err := config.LoadRules(args[0])
			if err != nil {
				return err
			}

			if err := services.SetRules(app.Ctx, app.Database, app.Logger, rules); err != nil {
				return err
			}

			fmt.Printf("\n✓ Rules saved from %s\n\n", args[0])
			return nil
		},
	}
}

// ShowRulesCmd creates the showRules command
func ShowRulesCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "showRules",
		Short: "Print the eligibility rules in force",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rules, saved, err := services.GetRules(app.Ctx, app.Database, app.Cfg, app.Logger)
			if err != nil {
				return err
			}

			out, err := yaml.Marshal(rules)
			if err != nil {
				return fmt.Errorf("failed to format rules: %w", err)
			}

			source := "config defaults"
			if saved {
				source = "database"
			}
			fmt.Printf("\n# Source: %s\n%s\n", source, out)
			return nil
		},
	}
}
