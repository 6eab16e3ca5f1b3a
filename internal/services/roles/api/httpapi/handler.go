// Package httpapi exposes the roles service over a small JSON HTTP API.
//
// The API is consumed by the web tier, which forwards the authenticated
// user id in the X-Inkroom-User header. Role resolution treats a missing
// membership as the domain value "no role" rather than an error so the
// caller can always settle to a definitive state.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/inkroom/inkroom/internal/project/authz"
	"github.com/inkroom/inkroom/internal/project/member"
	"github.com/inkroom/inkroom/internal/services/roles/storage"
)

// UserHeader carries the authenticated user id set by the web tier.
const UserHeader = "X-Inkroom-User"

// Handler serves membership role lookups and mutations.
type Handler struct {
	store  storage.MembershipStore
	tracer trace.Tracer
}

// NewHandler builds a roles API handler over the membership store.
func NewHandler(store storage.MembershipStore) *Handler {
	return &Handler{
		store:  store,
		tracer: otel.Tracer("inkroom/roles"),
	}
}

// Mux returns the route multiplexer for the roles API.
func (h *Handler) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc(http.MethodGet+" /api/projects/{projectID}/role", h.handleResolveRole)
	mux.HandleFunc(http.MethodGet+" /api/projects/{projectID}/members", h.handleListMembers)
	mux.HandleFunc(http.MethodPut+" /api/projects/{projectID}/members/{userID}", h.handlePutMember)
	mux.HandleFunc(http.MethodDelete+" /api/projects/{projectID}/members/{userID}", h.handleDeleteMember)
	return mux
}

type roleResponse struct {
	Role *string `json:"role"`
}

type memberView struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

type membersResponse struct {
	Members []memberView `json:"members"`
}

type putMemberRequest struct {
	Role string `json:"role"`
}

// handleResolveRole resolves the calling user's role on a project. Absence
// of a membership, an unknown project, or a missing identity all resolve to
// a null role; the endpoint never turns "no access" into an error.
func (h *Handler) handleResolveRole(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "roles.resolve_role")
	defer span.End()

	projectID, ok := parseProjectID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, roleResponse{})
		return
	}
	span.SetAttributes(attribute.Int64("inkroom.project_id", projectID))

	userID := strings.TrimSpace(r.Header.Get(UserHeader))
	if userID == "" {
		writeJSON(w, http.StatusOK, roleResponse{})
		return
	}

	role, err := h.lookupRole(ctx, projectID, userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, roleResponse{})
		return
	}
	writeJSON(w, http.StatusOK, roleResponseFor(role))
}

func (h *Handler) handleListMembers(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "roles.list_members")
	defer span.End()

	projectID, ok := parseProjectID(r)
	if !ok {
		http.Error(w, "invalid project id", http.StatusBadRequest)
		return
	}
	if !h.requireManage(ctx, w, r, projectID) {
		return
	}

	records, err := h.store.ListProjectMembers(ctx, projectID)
	if err != nil {
		log.Printf("list members for project %d: %v", projectID, err)
		http.Error(w, "storage failure", http.StatusInternalServerError)
		return
	}
	views := make([]memberView, 0, len(records))
	for _, record := range records {
		views = append(views, memberView{UserID: record.UserID, Role: string(record.Role)})
	}
	writeJSON(w, http.StatusOK, membersResponse{Members: views})
}

func (h *Handler) handlePutMember(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "roles.put_member")
	defer span.End()

	projectID, ok := parseProjectID(r)
	if !ok {
		http.Error(w, "invalid project id", http.StatusBadRequest)
		return
	}
	targetUserID := strings.TrimSpace(r.PathValue("userID"))
	if targetUserID == "" {
		http.Error(w, "user id is required", http.StatusBadRequest)
		return
	}
	if !h.requireManage(ctx, w, r, projectID) {
		return
	}

	var payload putMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	role, recognized := member.NormalizeRole(payload.Role)
	if !recognized {
		http.Error(w, "unrecognized role", http.StatusBadRequest)
		return
	}

	err := h.store.PutMembership(ctx, storage.MembershipRecord{
		ProjectID: projectID,
		UserID:    targetUserID,
		Role:      role,
	})
	if err != nil {
		log.Printf("put member %q on project %d: %v", targetUserID, projectID, err)
		http.Error(w, "storage failure", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleDeleteMember(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "roles.delete_member")
	defer span.End()

	projectID, ok := parseProjectID(r)
	if !ok {
		http.Error(w, "invalid project id", http.StatusBadRequest)
		return
	}
	targetUserID := strings.TrimSpace(r.PathValue("userID"))
	if targetUserID == "" {
		http.Error(w, "user id is required", http.StatusBadRequest)
		return
	}
	if !h.requireManage(ctx, w, r, projectID) {
		return
	}

	if err := h.store.DeleteMembership(ctx, projectID, targetUserID); err != nil {
		log.Printf("delete member %q on project %d: %v", targetUserID, projectID, err)
		http.Error(w, "storage failure", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// requireManage enforces that the calling user holds the manage capability
// on the project. Membership mutations are owner-only; the check goes
// through the shared capability table rather than comparing roles inline.
func (h *Handler) requireManage(ctx context.Context, w http.ResponseWriter, r *http.Request, projectID int64) bool {
	callerID := strings.TrimSpace(r.Header.Get(UserHeader))
	if callerID == "" {
		http.Error(w, "missing caller identity", http.StatusUnauthorized)
		return false
	}
	role, err := h.lookupRole(ctx, projectID, callerID)
	if err != nil {
		http.Error(w, "storage failure", http.StatusInternalServerError)
		return false
	}
	if decision := authz.Can(role, authz.CapabilityManage); !decision.Allowed {
		http.Error(w, "caller lacks manage access", http.StatusForbidden)
		return false
	}
	return true
}

// lookupRole loads the caller's role, treating a missing record as RoleNone.
func (h *Handler) lookupRole(ctx context.Context, projectID int64, userID string) (member.Role, error) {
	role, err := h.store.GetMembershipRole(ctx, projectID, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return member.RoleNone, nil
		}
		log.Printf("lookup role for project %d: %v", projectID, err)
		return member.RoleNone, err
	}
	return role, nil
}

func parseProjectID(r *http.Request) (int64, bool) {
	raw := strings.TrimSpace(r.PathValue("projectID"))
	projectID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || projectID <= 0 {
		return 0, false
	}
	return projectID, true
}

func roleResponseFor(role member.Role) roleResponse {
	if !role.Known() {
		return roleResponse{}
	}
	value := string(role)
	return roleResponse{Role: &value}
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("encode response: %v", err)
	}
}
