package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/groupledger/internal/models"
	"github.com/mmynk/groupledger/internal/storage"
)

// CreateGroup persists a new group with its creator as the first member.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group, creatorID string) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}

	var description interface{}
	if group.Description != "" {
		description = group.Description
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO expense_groups (id, name, description, created_at) VALUES (?, ?, ?, ?)",
		group.ID, group.Name, description, group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO group_members (group_id, user_id, joined_at) VALUES (?, ?, ?)",
		group.ID, creatorID, group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert creator membership: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetGroup retrieves a group by ID.
func (s *SQLiteStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	group := &models.Group{}
	var description sql.NullString

	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, description, created_at FROM expense_groups WHERE id = ?",
		groupID,
	).Scan(&group.ID, &group.Name, &description, &group.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	if description.Valid {
		group.Description = description.String
	}

	return group, nil
}

// ListMembers returns the users belonging to a group in join order.
func (s *SQLiteStore) ListMembers(ctx context.Context, groupID string) ([]*models.User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT u.id, u.name, u.email, u.phone, u.password_hash, u.created_at
		FROM group_members gm
		JOIN users u ON u.id = gm.user_id
		WHERE gm.group_id = ?
		ORDER BY gm.joined_at, u.id`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}

	return members, nil
}

// AddMembers inserts memberships that don't exist yet.
// Re-adding an existing member is a no-op.
func (s *SQLiteStore) AddMembers(ctx context.Context, groupID string, userIDs []string) (int, error) {
	joinedAt := time.Now().Unix()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	added := 0
	for _, userID := range userIDs {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO group_members (group_id, user_id, joined_at) VALUES (?, ?, ?)
			 ON CONFLICT (group_id, user_id) DO NOTHING`,
			groupID, userID, joinedAt,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert membership for user %s: %w", userID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to read rows affected: %w", err)
		}
		added += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return added, nil
}

// IsMember reports whether the user belongs to the group.
func (s *SQLiteStore) IsMember(ctx context.Context, groupID, userID string) (bool, error) {
	var exists int
	err := s.db.QueryRowContext(ctx,
		"SELECT 1 FROM group_members WHERE group_id = ? AND user_id = ?",
		groupID, userID,
	).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return true, nil
}
