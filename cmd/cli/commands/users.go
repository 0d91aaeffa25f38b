package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/kitchen-rota/pkg/core/model"
	"github.com/jakechorley/kitchen-rota/pkg/core/services"
)

// AddUserCmd creates the addUser command
func AddUserCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "addUser <first_name> [last_name]",
		Short: "Add a user to the roster",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lastName := ""
			if len(args) > 1 {
				lastName = args[1]
			}
			phone, _ := cmd.Flags().GetString("phone")
			roles, _ := cmd.Flags().GetStringSlice("roles")

			app.Logger.Debug("addUser command",
				zap.String("first_name", args[0]),
				zap.Strings("roles", roles))

			user, err := services.AddUser(app.Ctx, app.Database, app.Logger, args[0], lastName, phone, roles)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Added %s (%s)\n", user.DisplayName(), user.ID)
			fmt.Printf("Roles: %s\n\n", formatRoles(user.Roles))
			return nil
		},
	}

	cmd.Flags().String("phone", "", "Phone number for SMS reminders")
	cmd.Flags().StringSlice("roles", nil, "Comma separated roles, e.g. Staff,DTS")

	return cmd
}

// ListUsersCmd creates the listUsers command
func ListUsersCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listUsers",
		Short: "List all users on the roster",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := services.ListUsers(app.Ctx, app.Database, app.Logger)
			if err != nil {
				return err
			}

			fmt.Printf("\nFound %d users:\n\n", len(users))
			for _, u := range users {
				phone := u.PhoneNumber
				if phone == "" {
					phone = "no phone"
				}
				fmt.Printf("- %s (%s) - %s - %s\n", u.DisplayName(), u.ID, formatRoles(u.Roles), phone)
			}
			fmt.Println()
			return nil
		},
	}
}

func formatRoles(roles []model.Role) string {
	if len(roles) == 0 {
		return "no roles"
	}
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return strings.Join(names, ", ")
}
