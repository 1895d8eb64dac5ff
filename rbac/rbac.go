package rbac

import "github.com/craftingshard/tour-website-sub000/models"

// Role is the closed set of staff directory roles.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleStaff   Role = "staff"
	RolePartner Role = "partner"
)

// Action is the closed set of permission verbs.
type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Resource tags used across the admin surface. The matrix also accepts the
// empty string, meaning "no specific resource".
const (
	ResourceBookings     = "bookings"
	ResourceTours        = "TOURS"
	ResourceToursLower   = "tours"
	ResourcePosts        = "POSTS"
	ResourceComments     = "comments"
	ResourceReviews      = "reviews"
	ResourcePostComments = "post_comments"
	ResourceDashboard    = "dashboard"
)

// HasPermission is the pure decision table gating every staff mutation.
// It is total: every (role, action, resource) combination yields a boolean,
// and an inactive or missing directory record yields false for everything.
func HasPermission(user *models.AdminUser, action Action, resource string) bool {
	if user == nil || !user.Active {
		return false
	}

	switch Role(user.Role) {
	case RoleAdmin:
		return true

	case RoleManager:
		if action == ActionDelete {
			return isCommentKind(resource)
		}
		return true

	case RoleStaff:
		if action == ActionDelete {
			return false
		}
		if action == ActionRead && resource == ResourceDashboard {
			return false
		}
		if resource == "" {
			return crudish(action)
		}
		switch resource {
		case ResourcePosts, ResourceTours, ResourceBookings:
			return crudish(action)
		}
		return false

	case RolePartner:
		if action == ActionDelete {
			return false
		}
		switch resource {
		case "", ResourceTours, ResourceToursLower:
			return crudish(action)
		}
		return false

	default:
		return false
	}
}

func crudish(action Action) bool {
	return action == ActionCreate || action == ActionUpdate || action == ActionRead
}

func isCommentKind(resource string) bool {
	switch resource {
	case ResourceComments, ResourceReviews, ResourcePostComments:
		return true
	}
	return false
}
