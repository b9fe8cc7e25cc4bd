// Package authz holds the single access-control predicate used by every
// handler that enforces roles or ownership.
package authz

import (
	"errors"

	"github.com/iliyamo/marketplace-backend/internal/model"
)

// ErrForbidden is returned when the caller's role or ownership does not
// permit the operation.  Handlers translate it into HTTP 403.
var ErrForbidden = errors.New("forbidden")

// Principal is the authenticated caller.
type Principal struct {
	UserID uint64
	Role   model.Role
}

// IsAdmin reports whether the caller is an administrator.
func (p Principal) IsAdmin() bool { return p.Role == model.RoleAdmin }

// Resource describes ownership of the object being acted on.
type Resource struct {
	owner uint64
	owned bool
}

// Unowned is a resource without ownership constraints (e.g. a create).
var Unowned = Resource{}

// OwnedBy marks a resource owned by userID.
func OwnedBy(userID uint64) Resource { return Resource{owner: userID, owned: true} }

// Authorize decides whether p may act on r.  When roles is non-empty the
// caller's role must be one of them.  When r is owned the caller must be
// the owner or an admin.
func Authorize(p Principal, r Resource, roles ...model.Role) error {
	if len(roles) > 0 && !hasRole(p.Role, roles) {
		return ErrForbidden
	}
	if r.owned && !p.IsAdmin() && p.UserID != r.owner {
		return ErrForbidden
	}
	return nil
}

func hasRole(role model.Role, roles []model.Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
