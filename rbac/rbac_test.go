package rbac

import (
	"testing"

	"github.com/craftingshard/tour-website-sub000/models"
)

func active(role string) *models.AdminUser {
	return &models.AdminUser{UID: "u1", Role: role, Active: true}
}

func TestMatrix(t *testing.T) {
	cases := []struct {
		name     string
		user     *models.AdminUser
		action   Action
		resource string
		want     bool
	}{
		{"nil user", nil, ActionRead, "", false},
		{"inactive admin", &models.AdminUser{UID: "u", Role: "admin", Active: false}, ActionRead, "", false},

		{"admin delete anything", active("admin"), ActionDelete, ResourceBookings, true},
		{"admin read dashboard", active("admin"), ActionRead, ResourceDashboard, true},

		{"manager update bookings", active("manager"), ActionUpdate, ResourceBookings, true},
		{"manager delete tours", active("manager"), ActionDelete, ResourceTours, false},
		{"manager delete reviews", active("manager"), ActionDelete, ResourceReviews, true},
		{"manager delete comments", active("manager"), ActionDelete, ResourceComments, true},
		{"manager delete post comments", active("manager"), ActionDelete, ResourcePostComments, true},
		{"manager read dashboard", active("manager"), ActionRead, ResourceDashboard, true},

		{"staff delete tours", active("staff"), ActionDelete, ResourceTours, false},
		{"staff delete reviews", active("staff"), ActionDelete, ResourceReviews, false},
		{"staff read dashboard", active("staff"), ActionRead, ResourceDashboard, false},
		{"staff update bookings", active("staff"), ActionUpdate, ResourceBookings, true},
		{"staff create posts", active("staff"), ActionCreate, ResourcePosts, true},
		{"staff read tours", active("staff"), ActionRead, ResourceTours, true},
		{"staff read lowercase tours", active("staff"), ActionRead, ResourceToursLower, false},
		{"staff read no resource", active("staff"), ActionRead, "", true},

		{"partner read no resource", active("partner"), ActionRead, "", true},
		{"partner update tours upper", active("partner"), ActionUpdate, ResourceTours, true},
		{"partner update tours lower", active("partner"), ActionUpdate, ResourceToursLower, true},
		{"partner delete tours", active("partner"), ActionDelete, ResourceTours, false},
		{"partner read bookings tagged", active("partner"), ActionRead, ResourceBookings, false},
		{"partner create posts", active("partner"), ActionCreate, ResourcePosts, false},

		{"unknown role", active("intern"), ActionRead, "", false},
	}

	for _, tc := range cases {
		if got := HasPermission(tc.user, tc.action, tc.resource); got != tc.want {
			t.Errorf("%s: HasPermission = %v, want %v", tc.name, got, tc.want)
		}
	}
}

// Every role x action x resource combination must be defined and stable.
func TestMatrixTotality(t *testing.T) {
	roles := []string{"admin", "manager", "staff", "partner", "ghost", ""}
	actions := []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete}
	resources := []string{"", ResourceBookings, ResourceTours, ResourceToursLower,
		ResourcePosts, ResourceComments, ResourceReviews, ResourcePostComments, ResourceDashboard}

	for _, role := range roles {
		for _, action := range actions {
			for _, resource := range resources {
				u := active(role)
				first := HasPermission(u, action, resource)
				second := HasPermission(u, action, resource)
				if first != second {
					t.Fatalf("non-deterministic result for (%s,%s,%s)", role, action, resource)
				}
				if role == "ghost" || role == "" {
					if first {
						t.Fatalf("unknown role %q allowed (%s,%s)", role, action, resource)
					}
				}
			}
		}
	}
}
