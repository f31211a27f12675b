package auth

import "github.com/parcelhub/parcelhub/internal/models"

// Principal is the authenticated caller attached to a request.
type Principal struct {
	ID   int64
	Role models.Role
}

// IsAdmin reports whether the principal holds the admin role.
func (p Principal) IsAdmin() bool {
	return p.Role == models.RoleAdmin
}

// CanViewPayment decides whether a principal may view payments belonging
// to the given owner id set:
//   - admins always can, regardless of ownerIDs;
//   - anyone else can only when their id is in ownerIDs.
//
// Pure and deterministic; callers are responsible for resolving ownerIDs
// and for deciding whether an empty set means the check is skipped.
func CanViewPayment(p Principal, ownerIDs []int64) bool {
	if p.IsAdmin() {
		return true
	}
	for _, id := range ownerIDs {
		if id == p.ID {
			return true
		}
	}
	return false
}
