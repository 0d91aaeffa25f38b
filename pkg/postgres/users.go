package postgres

import (
	"context"
	"fmt"

	"github.com/jakechorley/kitchen-rota/pkg/db"
)

// GetUsers retrieves all user records ordered by name
func (d *DB) GetUsers(ctx context.Context) ([]db.User, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, first_name, last_name, phone_number, roles
		FROM users
		ORDER BY first_name, last_name, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []db.User
	for rows.Next() {
		var u db.User
		if err := rows.Scan(&u.ID, &u.FirstName, &u.LastName, &u.PhoneNumber, &u.Roles); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

// InsertUser inserts a new user record
func (d *DB) InsertUser(ctx context.Context, user *db.User) error {
	roles := user.Roles
	if roles == nil {
		roles = []string{}
	}

	_, err := d.pool.Exec(ctx, `
		INSERT INTO users (id, first_name, last_name, phone_number, roles)
		VALUES ($1, $2, $3, $4, $5)
	`, user.ID, user.FirstName, user.LastName, user.PhoneNumber, roles)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}
