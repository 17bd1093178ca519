package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
)

// OwnerEmail returns the email address stored for owner, or "" when none is.
func (s *Store) OwnerEmail(ctx context.Context, owner string) (string, error) {
	query, args, err := s.sb.Select("email").
		From("users").
		Where(squirrel.Eq{"id": owner}).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("building query: %w", err)
	}

	var email string
	if err := s.db.GetContext(ctx, &email, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("querying user email: %w", err)
	}
	return email, nil
}

// SetOwnerEmail stores the email address automations send to.
func (s *Store) SetOwnerEmail(ctx context.Context, owner, email string) error {
	query, args, err := s.sb.Insert("users").
		Columns("id", "email").
		Values(owner, email).
		Suffix("ON CONFLICT (id) DO UPDATE SET email = excluded.email").
		ToSql()
	if err != nil {
		return fmt.Errorf("building upsert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("storing user email: %w", err)
	}
	return nil
}
