package projects

import (
	"context"
	"fmt"
	"strings"

	"github.com/inkroom/inkroom/internal/project/authz"
	"github.com/inkroom/inkroom/internal/project/member"
	apperrors "github.com/inkroom/inkroom/internal/services/web/platform/errors"
)

// Service wraps membership reads and mutations for web pages. Mutations
// re-check the actor's manage capability before calling the roles service
// so the denial carries a typed, localizable error instead of a bare
// upstream status.
type Service struct {
	gateway  RolesGateway
	resolver *Resolver
}

// NewService builds the membership service.
func NewService(gateway RolesGateway, resolver *Resolver) *Service {
	return &Service{gateway: gateway, resolver: resolver}
}

// Members lists project memberships for a viewing member.
func (s *Service) Members(ctx context.Context, projectID int64, actorID string) ([]Member, error) {
	if err := s.require(ctx, projectID, actorID, authz.CapabilityView); err != nil {
		return nil, err
	}
	members, err := s.gateway.ListProjectMembers(ctx, projectID, actorID)
	if err != nil {
		return nil, apperrors.EK(apperrors.KindUnavailable, "project.members.unavailable",
			fmt.Sprintf("list project members: %v", err))
	}
	return members, nil
}

// SetMemberRole grants or changes a membership. Only the owner may manage
// members; owners cannot reassign their own role, which would orphan the
// project.
func (s *Service) SetMemberRole(ctx context.Context, projectID int64, actorID, userID string, role member.Role) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return apperrors.EK(apperrors.KindInvalidInput, "project.members.missing_user", "user id is required")
	}
	if !role.Known() || role == member.RoleNone {
		return apperrors.EK(apperrors.KindInvalidInput, "project.members.invalid_role", "unrecognized role")
	}
	if err := s.require(ctx, projectID, actorID, authz.CapabilityManage); err != nil {
		return err
	}
	if userID == strings.TrimSpace(actorID) && role != member.RoleOwner {
		return apperrors.EK(apperrors.KindInvalidInput, "project.members.owner_self_demote",
			"the owner cannot change their own role")
	}
	if err := s.gateway.PutProjectMember(ctx, projectID, actorID, userID, role); err != nil {
		return apperrors.EK(apperrors.KindUnavailable, "project.members.unavailable",
			fmt.Sprintf("update project member: %v", err))
	}
	s.resolver.Invalidate(projectID, userID)
	return nil
}

// RemoveMember revokes a membership. Owners cannot remove themselves.
func (s *Service) RemoveMember(ctx context.Context, projectID int64, actorID, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return apperrors.EK(apperrors.KindInvalidInput, "project.members.missing_user", "user id is required")
	}
	if err := s.require(ctx, projectID, actorID, authz.CapabilityManage); err != nil {
		return err
	}
	if userID == strings.TrimSpace(actorID) {
		return apperrors.EK(apperrors.KindInvalidInput, "project.members.owner_self_remove",
			"the owner cannot remove themselves")
	}
	if err := s.gateway.RemoveProjectMember(ctx, projectID, actorID, userID); err != nil {
		return apperrors.EK(apperrors.KindUnavailable, "project.members.unavailable",
			fmt.Sprintf("remove project member: %v", err))
	}
	s.resolver.Invalidate(projectID, userID)
	return nil
}

// require resolves the actor's role and checks a capability against it.
func (s *Service) require(ctx context.Context, projectID int64, actorID string, capability authz.Capability) error {
	actorID = strings.TrimSpace(actorID)
	if actorID == "" {
		return apperrors.EK(apperrors.KindUnauthorized, "project.members.sign_in", "sign in to continue")
	}
	state := s.resolver.Resolve(ctx, actorID, projectID)
	decision := authz.Can(state.Role, capability)
	if !decision.Allowed {
		return apperrors.EK(apperrors.KindForbidden, "project.members.forbidden", decision.ReasonCode)
	}
	return nil
}
