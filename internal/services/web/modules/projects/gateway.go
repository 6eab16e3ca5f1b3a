package projects

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/inkroom/inkroom/internal/project/member"
	"github.com/inkroom/inkroom/internal/services/roles/api/httpapi"
)

// RolesGateway is the narrow surface the web service needs from the roles
// service. Implementations return member.RoleNone, not an error, when the
// user simply has no membership.
type RolesGateway interface {
	FetchProjectRole(ctx context.Context, projectID int64, userID string) (member.Role, error)
	ListProjectMembers(ctx context.Context, projectID int64, actorID string) ([]Member, error)
	PutProjectMember(ctx context.Context, projectID int64, actorID, userID string, role member.Role) error
	RemoveProjectMember(ctx context.Context, projectID int64, actorID, userID string) error
}

// Member is one project membership as reported by the roles service.
type Member struct {
	UserID string      `json:"user_id"`
	Role   member.Role `json:"role"`
}

type roleResponse struct {
	Role *string `json:"role"`
}

type memberPayload struct {
	Role string `json:"role"`
}

type membersResponse struct {
	Members []Member `json:"members"`
}

// HTTPRolesGateway talks to the roles service JSON API.
type HTTPRolesGateway struct {
	baseURL string
	client  *http.Client
	tracer  trace.Tracer
}

// NewHTTPRolesGateway builds a gateway for the roles service at baseURL.
func NewHTTPRolesGateway(baseURL string, client *http.Client) *HTTPRolesGateway {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	return &HTTPRolesGateway{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		client:  client,
		tracer:  otel.Tracer("inkroom/web/projects"),
	}
}

// FetchProjectRole returns the user's role for a project. Missing identity
// or membership resolves to RoleNone. Transport and server failures return
// an error so callers can fail closed without caching the miss.
func (g *HTTPRolesGateway) FetchProjectRole(ctx context.Context, projectID int64, userID string) (member.Role, error) {
	ctx, span := g.tracer.Start(ctx, "roles.FetchProjectRole",
		trace.WithAttributes(attribute.Int64("project.id", projectID)))
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return member.RoleNone, nil
	}

	var payload roleResponse
	if err := g.getJSON(ctx, g.rolePath(projectID), userID, &payload); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return member.RoleNone, err
	}
	if payload.Role == nil {
		return member.RoleNone, nil
	}
	role, ok := member.NormalizeRole(*payload.Role)
	if !ok {
		log.Printf("roles gateway: unrecognized role %q for project %d", *payload.Role, projectID)
		return member.RoleNone, nil
	}
	return role, nil
}

// ListProjectMembers returns the membership list, acting as actorID.
func (g *HTTPRolesGateway) ListProjectMembers(ctx context.Context, projectID int64, actorID string) ([]Member, error) {
	ctx, span := g.tracer.Start(ctx, "roles.ListProjectMembers",
		trace.WithAttributes(attribute.Int64("project.id", projectID)))
	defer span.End()

	var payload membersResponse
	if err := g.getJSON(ctx, g.membersPath(projectID), actorID, &payload); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	filtered := payload.Members[:0]
	for _, m := range payload.Members {
		role, ok := member.NormalizeRole(string(m.Role))
		if !ok {
			log.Printf("roles gateway: unrecognized role %q for member %q", m.Role, m.UserID)
			continue
		}
		m.Role = role
		filtered = append(filtered, m)
	}
	return filtered, nil
}

// PutProjectMember upserts a membership, acting as actorID.
func (g *HTTPRolesGateway) PutProjectMember(ctx context.Context, projectID int64, actorID, userID string, role member.Role) error {
	ctx, span := g.tracer.Start(ctx, "roles.PutProjectMember",
		trace.WithAttributes(attribute.Int64("project.id", projectID)))
	defer span.End()

	body, err := json.Marshal(memberPayload{Role: string(role)})
	if err != nil {
		return fmt.Errorf("encode member payload: %w", err)
	}
	err = g.send(ctx, http.MethodPut, g.memberPath(projectID, userID), actorID, strings.NewReader(string(body)))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

// RemoveProjectMember deletes a membership, acting as actorID.
func (g *HTTPRolesGateway) RemoveProjectMember(ctx context.Context, projectID int64, actorID, userID string) error {
	ctx, span := g.tracer.Start(ctx, "roles.RemoveProjectMember",
		trace.WithAttributes(attribute.Int64("project.id", projectID)))
	defer span.End()

	err := g.send(ctx, http.MethodDelete, g.memberPath(projectID, userID), actorID, nil)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (g *HTTPRolesGateway) rolePath(projectID int64) string {
	return "/api/projects/" + strconv.FormatInt(projectID, 10) + "/role"
}

func (g *HTTPRolesGateway) membersPath(projectID int64) string {
	return "/api/projects/" + strconv.FormatInt(projectID, 10) + "/members"
}

func (g *HTTPRolesGateway) memberPath(projectID int64, userID string) string {
	return g.membersPath(projectID) + "/" + url.PathEscape(userID)
}

func (g *HTTPRolesGateway) getJSON(ctx context.Context, path, userID string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build roles request: %w", err)
	}
	if userID = strings.TrimSpace(userID); userID != "" {
		req.Header.Set(httpapi.UserHeader, userID)
	}
	res, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("roles request: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		io.Copy(io.Discard, res.Body)
		return fmt.Errorf("roles service responded %d for %s", res.StatusCode, path)
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode roles response: %w", err)
	}
	return nil
}

func (g *HTTPRolesGateway) send(ctx context.Context, method, path, actorID string, body io.Reader) error {
	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build roles request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if actorID = strings.TrimSpace(actorID); actorID != "" {
		req.Header.Set(httpapi.UserHeader, actorID)
	}
	res, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("roles request: %w", err)
	}
	defer res.Body.Close()
	io.Copy(io.Discard, res.Body)
	switch res.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusForbidden, http.StatusUnauthorized:
		return fmt.Errorf("roles service denied %s %s: %d", method, path, res.StatusCode)
	default:
		return fmt.Errorf("roles service responded %d for %s %s", res.StatusCode, method, path)
	}
}
