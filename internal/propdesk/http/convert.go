package http

import (
	"github.com/aussiebroadwan/propdesk/internal/propdesk/access"
	"github.com/aussiebroadwan/propdesk/internal/propdesk/domain"
	"github.com/aussiebroadwan/propdesk/pkg/authsdk"
)

func toIdentityInfo(id domain.Identity) authsdk.IdentityInfo {
	return authsdk.IdentityInfo{
		ID:        id.ID,
		Name:      id.Name,
		Email:     id.Email,
		Phone:     id.Phone,
		Role:      id.Role.String(),
		IsActive:  id.IsActive,
		CreatedAt: id.CreatedAt,
		UpdatedAt: id.UpdatedAt,
	}
}

func toSessionInfo(s domain.Session) authsdk.SessionInfo {
	return authsdk.SessionInfo{
		ID:            s.ID,
		Identity:      toIdentityInfo(s.Identity),
		EstablishedAt: s.EstablishedAt,
	}
}

func permissionNames(role domain.Role) []string {
	perms := access.Permissions(role)
	out := make([]string, len(perms))
	for i, p := range perms {
		out[i] = p.String()
	}
	return out
}
