// Package routing decides which dashboard subtree a signed-in identity may
// navigate to, and where to send it otherwise.
//
// This is UX gating only, never a security boundary: every API handler checks
// the authenticated role on its own, and the guard's answers are advisory
// hints for the frontend router.
package routing

import (
	"strings"

	"github.com/coachwave/backend/internal/models"
)

const (
	LoginRoute      = "/login"
	OnboardingRoute = "/onboarding"
)

// dashboardRoots is the canonical landing page per role. Adding a role to
// models without extending this table redirects it to the client dashboard,
// which Resolve guards against via Role.Valid.
var dashboardRoots = map[models.Role]string{
	models.RoleClient: "/client/dashboard",
	models.RoleCoach:  "/coach/dashboard",
	models.RoleAdmin:  "/admin/dashboard",
}

var publicRoutes = map[string]struct{}{
	"/":       {},
	"/login":  {},
	"/signup": {},
}

// publicPrefixes covers the public coach landing and booking pages.
var publicPrefixes = []string{"/coaches"}

type Input struct {
	Authenticated bool
	ProfileLoaded bool
	Role          models.Role
	// ActingRole is an admin's persisted view-as preference
	// (the coachwave_last_role key on the client). Ignored for other roles.
	ActingRole models.Role
	Path       string
}

type Decision struct {
	Allowed  bool   `json:"allowed"`
	Redirect string `json:"redirect,omitempty"`
}

func allow() Decision {
	return Decision{Allowed: true}
}

func redirect(target string) Decision {
	return Decision{Redirect: target}
}

// Resolve computes the navigation decision for one (identity, path) pair.
func Resolve(in Input) Decision {
	path := normalizePath(in.Path)

	if !in.Authenticated {
		if isPublic(path) {
			return allow()
		}
		return redirect(LoginRoute)
	}

	// A missing profile is an incomplete signup, not an error.
	if !in.ProfileLoaded {
		if path == OnboardingRoute {
			return allow()
		}
		return redirect(OnboardingRoute)
	}

	role := in.Role
	if !role.Valid() {
		role = models.RoleClient
	}

	// Admin view-as: a persisted acting role wins over the admin default
	// whenever the path is not already inside some role subtree.
	if role == models.RoleAdmin && in.ActingRole.Valid() && !underAnySubtree(path) {
		return redirect(dashboardRoots[in.ActingRole])
	}

	if role == models.RoleAdmin {
		if underAnySubtree(path) {
			return allow()
		}
		return redirect(dashboardRoots[role])
	}

	if underSubtree(path, role) {
		return allow()
	}
	return redirect(dashboardRoots[role])
}

func normalizePath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	return path
}

func isPublic(path string) bool {
	if _, ok := publicRoutes[path]; ok {
		return true
	}
	for _, prefix := range publicPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

func underSubtree(path string, role models.Role) bool {
	root := "/" + string(role)
	return path == root || strings.HasPrefix(path, root+"/")
}

func underAnySubtree(path string) bool {
	for role := range dashboardRoots {
		if underSubtree(path, role) {
			return true
		}
	}
	return false
}
