// Package sqlite provides SQLite-backed persistence for project memberships.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/inkroom/inkroom/internal/platform/storage/sqlitemigrate"
	"github.com/inkroom/inkroom/internal/project/member"
	"github.com/inkroom/inkroom/internal/services/roles/storage"
	"github.com/inkroom/inkroom/internal/services/roles/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store provides SQLite-backed persistence implementing storage.MembershipStore.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a memberships SQLite store at the provided path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL&_pragma=foreign_keys(ON)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &Store{sqlDB: sqlDB}
	if err := sqlitemigrate.Apply(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return store, nil
}

// Close closes the underlying SQLite database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// PutMembership inserts or replaces the role assignment for (project, user).
func (s *Store) PutMembership(ctx context.Context, record storage.MembershipRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	normalized, err := normalizeRecord(record)
	if err != nil {
		return err
	}
	_, err = s.sqlDB.ExecContext(ctx, `
INSERT INTO project_memberships (project_id, user_id, role, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (project_id, user_id) DO UPDATE SET
    role = excluded.role,
    updated_at = excluded.updated_at
`,
		normalized.ProjectID,
		normalized.UserID,
		string(normalized.Role),
		toMillis(normalized.CreatedAt),
		toMillis(normalized.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("put membership: %w", err)
	}
	return nil
}

// GetMembershipRole returns the stored role for (project, user).
func (s *Store) GetMembershipRole(ctx context.Context, projectID int64, userID string) (member.Role, error) {
	if err := ctx.Err(); err != nil {
		return member.RoleNone, err
	}
	if s == nil || s.sqlDB == nil {
		return member.RoleNone, fmt.Errorf("storage is not configured")
	}
	userID = strings.TrimSpace(userID)
	if projectID <= 0 || userID == "" {
		return member.RoleNone, storage.ErrNotFound
	}

	var raw string
	err := s.sqlDB.QueryRowContext(ctx,
		"SELECT role FROM project_memberships WHERE project_id = ? AND user_id = ?",
		projectID, userID,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return member.RoleNone, storage.ErrNotFound
	}
	if err != nil {
		return member.RoleNone, fmt.Errorf("get membership role: %w", err)
	}

	role, ok := member.NormalizeRole(raw)
	if !ok {
		// Stored value outside the recognized tiers; surface it as absent
		// so callers fail closed rather than trusting the raw label.
		return member.RoleNone, storage.ErrNotFound
	}
	return role, nil
}

// DeleteMembership removes the assignment for (project, user).
func (s *Store) DeleteMembership(ctx context.Context, projectID int64, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	_, err := s.sqlDB.ExecContext(ctx,
		"DELETE FROM project_memberships WHERE project_id = ? AND user_id = ?",
		projectID, strings.TrimSpace(userID),
	)
	if err != nil {
		return fmt.Errorf("delete membership: %w", err)
	}
	return nil
}

// ListProjectMembers returns all assignments for a project ordered by user id.
func (s *Store) ListProjectMembers(ctx context.Context, projectID int64) ([]storage.MembershipRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT project_id, user_id, role, created_at, updated_at
FROM project_memberships
WHERE project_id = ?
ORDER BY user_id
`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list project members: %w", err)
	}
	defer rows.Close()

	var records []storage.MembershipRecord
	for rows.Next() {
		var (
			record    storage.MembershipRecord
			raw       string
			createdAt int64
			updatedAt int64
		)
		if err := rows.Scan(&record.ProjectID, &record.UserID, &raw, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan membership row: %w", err)
		}
		role, ok := member.NormalizeRole(raw)
		if !ok {
			continue
		}
		record.Role = role
		record.CreatedAt = fromMillis(createdAt)
		record.UpdatedAt = fromMillis(updatedAt)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate membership rows: %w", err)
	}
	return records, nil
}

func normalizeRecord(record storage.MembershipRecord) (storage.MembershipRecord, error) {
	record.UserID = strings.TrimSpace(record.UserID)
	if record.ProjectID <= 0 || record.UserID == "" {
		return storage.MembershipRecord{}, storage.ErrInvalidRecord
	}
	role, ok := member.NormalizeRole(string(record.Role))
	if !ok {
		return storage.MembershipRecord{}, storage.ErrInvalidRecord
	}
	record.Role = role

	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	if record.UpdatedAt.IsZero() {
		record.UpdatedAt = now
	}
	return record, nil
}
