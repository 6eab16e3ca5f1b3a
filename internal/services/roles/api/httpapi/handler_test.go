package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/inkroom/inkroom/internal/project/member"
	"github.com/inkroom/inkroom/internal/services/roles/storage"
)

type fakeStore struct {
	roles   map[string]member.Role
	failing bool
	puts    []storage.MembershipRecord
	deletes []string
}

func membershipKey(projectID int64, userID string) string {
	return fmt.Sprintf("%d/%s", projectID, userID)
}

func (f *fakeStore) PutMembership(_ context.Context, record storage.MembershipRecord) error {
	if f.failing {
		return errors.New("store down")
	}
	f.puts = append(f.puts, record)
	if f.roles == nil {
		f.roles = map[string]member.Role{}
	}
	f.roles[membershipKey(record.ProjectID, record.UserID)] = record.Role
	return nil
}

func (f *fakeStore) GetMembershipRole(_ context.Context, projectID int64, userID string) (member.Role, error) {
	if f.failing {
		return member.RoleNone, errors.New("store down")
	}
	role, ok := f.roles[membershipKey(projectID, userID)]
	if !ok {
		return member.RoleNone, storage.ErrNotFound
	}
	return role, nil
}

func (f *fakeStore) DeleteMembership(_ context.Context, projectID int64, userID string) error {
	if f.failing {
		return errors.New("store down")
	}
	f.deletes = append(f.deletes, membershipKey(projectID, userID))
	delete(f.roles, membershipKey(projectID, userID))
	return nil
}

func (f *fakeStore) ListProjectMembers(_ context.Context, projectID int64) ([]storage.MembershipRecord, error) {
	if f.failing {
		return nil, errors.New("store down")
	}
	var records []storage.MembershipRecord
	for key, role := range f.roles {
		var keyProjectID int64
		var userID string
		if _, err := fmt.Sscanf(key, "%d/%s", &keyProjectID, &userID); err != nil {
			continue
		}
		if keyProjectID == projectID {
			records = append(records, storage.MembershipRecord{ProjectID: projectID, UserID: userID, Role: role})
		}
	}
	return records, nil
}

func newTestHandler(store *fakeStore) *Handler {
	return NewHandler(store)
}

func doRequest(t *testing.T, h *Handler, method, path, userID string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if userID != "" {
		req.Header.Set(UserHeader, userID)
	}
	recorder := httptest.NewRecorder()
	h.Mux().ServeHTTP(recorder, req)
	return recorder
}

func decodeRole(t *testing.T, recorder *httptest.ResponseRecorder) *string {
	t.Helper()
	var payload roleResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode role response: %v", err)
	}
	return payload.Role
}

func TestResolveRoleReturnsStoredRole(t *testing.T) {
	store := &fakeStore{roles: map[string]member.Role{membershipKey(42, "user-1"): member.RoleEditor}}
	recorder := doRequest(t, newTestHandler(store), http.MethodGet, "/api/projects/42/role", "user-1", "")

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", recorder.Code, http.StatusOK)
	}
	role := decodeRole(t, recorder)
	if role == nil || *role != "editor" {
		t.Fatalf("role = %v, want editor", role)
	}
}

func TestResolveRoleNullWhenNoMembership(t *testing.T) {
	recorder := doRequest(t, newTestHandler(&fakeStore{}), http.MethodGet, "/api/projects/42/role", "stranger", "")

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", recorder.Code, http.StatusOK)
	}
	if role := decodeRole(t, recorder); role != nil {
		t.Fatalf("role = %q, want null", *role)
	}
}

func TestResolveRoleNullWhenIdentityMissing(t *testing.T) {
	recorder := doRequest(t, newTestHandler(&fakeStore{}), http.MethodGet, "/api/projects/42/role", "", "")

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", recorder.Code, http.StatusOK)
	}
	if role := decodeRole(t, recorder); role != nil {
		t.Fatalf("role = %q, want null", *role)
	}
}

func TestResolveRoleRejectsInvalidProjectID(t *testing.T) {
	for _, path := range []string{"/api/projects/0/role", "/api/projects/-3/role", "/api/projects/abc/role"} {
		recorder := doRequest(t, newTestHandler(&fakeStore{}), http.MethodGet, path, "user-1", "")
		if recorder.Code != http.StatusBadRequest {
			t.Fatalf("path %s: status = %d, want %d", path, recorder.Code, http.StatusBadRequest)
		}
	}
}

func TestResolveRoleStorageFailure(t *testing.T) {
	recorder := doRequest(t, newTestHandler(&fakeStore{failing: true}), http.MethodGet, "/api/projects/42/role", "user-1", "")

	if recorder.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", recorder.Code, http.StatusInternalServerError)
	}
	if role := decodeRole(t, recorder); role != nil {
		t.Fatalf("role = %q, want null on failure", *role)
	}
}

func TestPutMemberRequiresManage(t *testing.T) {
	store := &fakeStore{roles: map[string]member.Role{
		membershipKey(1, "owner-1"):  member.RoleOwner,
		membershipKey(1, "editor-1"): member.RoleEditor,
	}}
	h := newTestHandler(store)

	denied := doRequest(t, h, http.MethodPut, "/api/projects/1/members/new-user", "editor-1", `{"role":"writer"}`)
	if denied.Code != http.StatusForbidden {
		t.Fatalf("editor mutation status = %d, want %d", denied.Code, http.StatusForbidden)
	}

	allowed := doRequest(t, h, http.MethodPut, "/api/projects/1/members/new-user", "owner-1", `{"role":"writer"}`)
	if allowed.Code != http.StatusNoContent {
		t.Fatalf("owner mutation status = %d, want %d", allowed.Code, http.StatusNoContent)
	}
	if len(store.puts) != 1 || store.puts[0].Role != member.RoleWriter {
		t.Fatalf("expected writer membership write, got %+v", store.puts)
	}
}

func TestPutMemberRejectsUnrecognizedRole(t *testing.T) {
	store := &fakeStore{roles: map[string]member.Role{membershipKey(1, "owner-1"): member.RoleOwner}}
	recorder := doRequest(t, newTestHandler(store), http.MethodPut, "/api/projects/1/members/new-user", "owner-1", `{"role":"superadmin"}`)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", recorder.Code, http.StatusBadRequest)
	}
}

func TestPutMemberRequiresIdentity(t *testing.T) {
	recorder := doRequest(t, newTestHandler(&fakeStore{}), http.MethodPut, "/api/projects/1/members/new-user", "", `{"role":"writer"}`)

	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", recorder.Code, http.StatusUnauthorized)
	}
}

func TestDeleteMember(t *testing.T) {
	store := &fakeStore{roles: map[string]member.Role{
		membershipKey(1, "owner-1"):  member.RoleOwner,
		membershipKey(1, "writer-1"): member.RoleWriter,
	}}
	recorder := doRequest(t, newTestHandler(store), http.MethodDelete, "/api/projects/1/members/writer-1", "owner-1", "")

	if recorder.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", recorder.Code, http.StatusNoContent)
	}
	if len(store.deletes) != 1 || store.deletes[0] != membershipKey(1, "writer-1") {
		t.Fatalf("expected delete of writer-1, got %v", store.deletes)
	}
}

func TestListMembersRequiresManage(t *testing.T) {
	store := &fakeStore{roles: map[string]member.Role{
		membershipKey(1, "owner-1"):  member.RoleOwner,
		membershipKey(1, "viewer-1"): member.RoleViewer,
	}}
	h := newTestHandler(store)

	denied := doRequest(t, h, http.MethodGet, "/api/projects/1/members", "viewer-1", "")
	if denied.Code != http.StatusForbidden {
		t.Fatalf("viewer listing status = %d, want %d", denied.Code, http.StatusForbidden)
	}

	allowed := doRequest(t, h, http.MethodGet, "/api/projects/1/members", "owner-1", "")
	if allowed.Code != http.StatusOK {
		t.Fatalf("owner listing status = %d, want %d", allowed.Code, http.StatusOK)
	}
	var payload membersResponse
	if err := json.Unmarshal(allowed.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode members response: %v", err)
	}
	if len(payload.Members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(payload.Members))
	}
}
