// Package workflow holds the approval rules for inventory items as plain
// predicates, independent of the HTTP layer and of the storage engine's
// query language. The repository translates the same rules into SQL for
// listing; everything else calls these functions directly.
package workflow

import "errors"

type Role string

const (
	RoleManager Role = "Manager"
	RoleOwner   Role = "Owner"
)

func (r Role) Valid() bool {
	return r == RoleManager || r == RoleOwner
}

type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

// Identity is the verified caller extracted from JWT claims.
type Identity struct {
	Username string
	Role     Role
}

var (
	ErrNotOwner       = errors.New("item belongs to another user")
	ErrApprovedLocked = errors.New("item is already approved")
)

// originByProduct maps a product name to its growing region. Unknown
// products fall back to the caller-supplied state.
var originByProduct = map[string]string{
	"Apple":       "Kashmir",
	"Banana":      "Kerala",
	"Orange":      "Nagpur",
	"Mango":       "Uttar Pradesh",
	"Grapes":      "Maharashtra",
	"Pomegranate": "Maharashtra",
}

func Origin(productName, fallback string) string {
	if origin, ok := originByProduct[productName]; ok {
		return origin
	}
	return fallback
}

// InitialStatus: Owner submissions skip the approval queue.
func InitialStatus(r Role) Status {
	if r == RoleOwner {
		return StatusApproved
	}
	return StatusPending
}

// Visible reports whether the caller may see an item. Managers see their
// own items in any state plus everyone's approved items; Owners see all.
func Visible(id Identity, addedBy string, status Status) bool {
	if id.Role == RoleOwner {
		return true
	}
	return addedBy == id.Username || status == StatusApproved
}

// CanMutate guards update and delete. Owners may mutate anything;
// Managers only their own items, and only until approval.
func CanMutate(id Identity, addedBy string, status Status) error {
	if id.Role == RoleOwner {
		return nil
	}
	if addedBy != id.Username {
		return ErrNotOwner
	}
	if status == StatusApproved {
		return ErrApprovedLocked
	}
	return nil
}
