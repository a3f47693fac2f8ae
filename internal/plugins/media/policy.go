package media

import (
	"github.com/curiocms/curio/internal/plugins/auth"
)

// Permission actions understood by the policy.
const (
	ActionAdd    = "add"
	ActionChange = "change"
	ActionDelete = "delete"
)

// PermissionPolicy decides what a requester may do with media assets. The
// chooser never raises on missing change/delete rights; it narrows the
// visible set instead. Only the upload endpoint guards "add" explicitly.
type PermissionPolicy interface {
	// UserHasPermission reports whether the session's user may perform the
	// action on media assets at all.
	UserHasPermission(session *auth.Session, action string) bool

	// ScopeToUserPermissions narrows a chooser query to the assets the user
	// holds any of the given permissions for.
	ScopeToUserPermissions(q ChooserQuery, session *auth.Session, actions []string) ChooserQuery
}

// ownerPolicy is the default policy: admins hold every permission on every
// asset; regular users hold add globally plus change/delete on their own
// uploads; anonymous requesters hold nothing.
type ownerPolicy struct{}

// NewOwnerPolicy creates the default ownership-based permission policy.
func NewOwnerPolicy() PermissionPolicy {
	return ownerPolicy{}
}

func (ownerPolicy) UserHasPermission(session *auth.Session, action string) bool {
	if session == nil {
		return false
	}
	if session.IsAdmin {
		return true
	}
	switch action {
	case ActionAdd, ActionChange, ActionDelete:
		// Regular users can add assets and manage their own; per-asset
		// narrowing happens in ScopeToUserPermissions.
		return true
	}
	return false
}

func (ownerPolicy) ScopeToUserPermissions(q ChooserQuery, session *auth.Session, actions []string) ChooserQuery {
	if session == nil {
		q.None = true
		return q
	}
	if session.IsAdmin {
		return q
	}
	q.UploaderID = session.UserID
	return q
}
