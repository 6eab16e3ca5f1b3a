package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/inkroom/inkroom/internal/project/member"
	"github.com/inkroom/inkroom/internal/services/roles/storage"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "memberships.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestPutAndGetMembershipRole(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	err := store.PutMembership(ctx, storage.MembershipRecord{
		ProjectID: 42,
		UserID:    "user-1",
		Role:      member.RoleWriter,
	})
	if err != nil {
		t.Fatalf("put membership: %v", err)
	}

	role, err := store.GetMembershipRole(ctx, 42, "user-1")
	if err != nil {
		t.Fatalf("get membership role: %v", err)
	}
	if role != member.RoleWriter {
		t.Fatalf("role = %q, want %q", role, member.RoleWriter)
	}
}

func TestPutMembershipReplacesRole(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for _, role := range []member.Role{member.RoleViewer, member.RoleEditor} {
		err := store.PutMembership(ctx, storage.MembershipRecord{ProjectID: 7, UserID: "user-1", Role: role})
		if err != nil {
			t.Fatalf("put membership (%q): %v", role, err)
		}
	}

	role, err := store.GetMembershipRole(ctx, 7, "user-1")
	if err != nil {
		t.Fatalf("get membership role: %v", err)
	}
	if role != member.RoleEditor {
		t.Fatalf("role = %q, want %q", role, member.RoleEditor)
	}
}

func TestPutMembershipRejectsInvalidRecords(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		record storage.MembershipRecord
	}{
		{name: "missing project", record: storage.MembershipRecord{UserID: "user-1", Role: member.RoleOwner}},
		{name: "missing user", record: storage.MembershipRecord{ProjectID: 1, Role: member.RoleOwner}},
		{name: "unknown role", record: storage.MembershipRecord{ProjectID: 1, UserID: "user-1", Role: member.Role("superadmin")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := store.PutMembership(ctx, tt.record); !errors.Is(err, storage.ErrInvalidRecord) {
				t.Fatalf("expected ErrInvalidRecord, got %v", err)
			}
		})
	}
}

func TestGetMembershipRoleNotFound(t *testing.T) {
	store := openTestStore(t)

	_, err := store.GetMembershipRole(context.Background(), 42, "stranger")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteMembership(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	err := store.PutMembership(ctx, storage.MembershipRecord{ProjectID: 9, UserID: "user-1", Role: member.RoleOwner})
	if err != nil {
		t.Fatalf("put membership: %v", err)
	}
	if err := store.DeleteMembership(ctx, 9, "user-1"); err != nil {
		t.Fatalf("delete membership: %v", err)
	}
	if _, err := store.GetMembershipRole(ctx, 9, "user-1"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	// Deleting a missing record is not an error.
	if err := store.DeleteMembership(ctx, 9, "user-1"); err != nil {
		t.Fatalf("delete missing membership: %v", err)
	}
}

func TestListProjectMembers(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	memberships := []storage.MembershipRecord{
		{ProjectID: 3, UserID: "user-b", Role: member.RoleViewer},
		{ProjectID: 3, UserID: "user-a", Role: member.RoleOwner},
		{ProjectID: 4, UserID: "user-c", Role: member.RoleEditor},
	}
	for _, record := range memberships {
		if err := store.PutMembership(ctx, record); err != nil {
			t.Fatalf("put membership: %v", err)
		}
	}

	records, err := store.ListProjectMembers(ctx, 3)
	if err != nil {
		t.Fatalf("list project members: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 members, got %d", len(records))
	}
	if records[0].UserID != "user-a" || records[1].UserID != "user-b" {
		t.Fatalf("expected user id ordering, got %q then %q", records[0].UserID, records[1].UserID)
	}
	if records[0].Role != member.RoleOwner {
		t.Fatalf("role = %q, want %q", records[0].Role, member.RoleOwner)
	}
	if records[0].CreatedAt.IsZero() || records[0].UpdatedAt.IsZero() {
		t.Fatal("expected timestamps to be populated")
	}
}
