package services

import (
	"context"
	"fmt"

	"eventplanner/internal/domain"
)

// policy describes who may perform an operation: the resource owner, any
// caller holding one of the listed roles, or both.
type policy struct {
	ownerAllowed bool
	roles        []string
}

// policyTable is the single place authorization rules live. Controllers and
// services never check roles inline.
var policyTable = map[domain.Operation]policy{
	domain.OpEventCreate:    {roles: []string{domain.RoleAdmin, domain.RoleOrganizer}},
	domain.OpEventManage:    {ownerAllowed: true, roles: []string{domain.RoleAdmin}},
	domain.OpCategoryManage: {roles: []string{domain.RoleAdmin, domain.RoleOrganizer}},
	domain.OpInviteManage:   {roles: []string{domain.RoleAdmin, domain.RoleOrganizer}},
	domain.OpInviteRespond:  {ownerAllowed: true, roles: []string{domain.RoleAdmin}},
	domain.OpRSVPEdit:       {ownerAllowed: true, roles: []string{domain.RoleAdmin}},
	domain.OpRSVPDelete:     {roles: []string{domain.RoleAdmin, domain.RoleOrganizer}},
	domain.OpUserRead:       {ownerAllowed: true, roles: []string{domain.RoleAdmin, domain.RoleOrganizer}},
	domain.OpUserManage:     {ownerAllowed: true, roles: []string{domain.RoleAdmin}},
	domain.OpRoleAssign:     {roles: []string{domain.RoleAdmin}},
}

type authorizationGate struct {
	roleRepo domain.RoleRepository
}

// NewAuthorizationGate creates an AuthorizationGate that resolves the acting
// user's roles through the given repository.
func NewAuthorizationGate(roleRepo domain.RoleRepository) domain.AuthorizationGate {
	return &authorizationGate{roleRepo: roleRepo}
}

func (g *authorizationGate) Authorize(ctx context.Context, op domain.Operation, actingUserID, resourceOwnerID string) error {
	if actingUserID == "" {
		return domain.ErrForbidden
	}
	pol, ok := policyTable[op]
	if !ok {
		return domain.ErrForbidden
	}
	if pol.ownerAllowed && resourceOwnerID != "" && actingUserID == resourceOwnerID {
		return nil
	}
	if len(pol.roles) == 0 {
		return domain.ErrForbidden
	}
	roles, err := g.roleRepo.ListByUserID(ctx, actingUserID)
	if err != nil {
		return fmt.Errorf("list roles: %w", err)
	}
	for _, r := range roles {
		for _, want := range pol.roles {
			if r.Code == want {
				return nil
			}
		}
	}
	return domain.ErrForbidden
}
