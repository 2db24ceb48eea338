// Package permissions holds the role policy as pure functions. Every check
// takes the principal explicitly; a nil principal is an anonymous request.
// Callers translate a denial into 401 (anonymous) or 403 (insufficient role).
package permissions

import "reviewhub/internal/models"

// CanReadCatalog: list/retrieve on categories, genres, titles, reviews and
// comments is open to everyone, anonymous included.
func CanReadCatalog(principal *models.User) bool {
	return true
}

// CanWriteCatalog: create/update/delete on categories, genres and titles is
// restricted to admins.
func CanWriteCatalog(principal *models.User) bool {
	return principal != nil && principal.IsAdmin()
}

// CanCreateContent: posting a review or comment requires authentication only.
func CanCreateContent(principal *models.User) bool {
	return principal != nil
}

// CanModifyContent: update/delete on a specific review or comment requires
// the author, a moderator or an admin.
func CanModifyContent(principal *models.User, authorID string) bool {
	if principal == nil {
		return false
	}
	return principal.ID == authorID || principal.IsModerator() || principal.IsAdmin()
}

// CanAdministerUsers: the arbitrary users surface is for admins, superusers
// and staff.
func CanAdministerUsers(principal *models.User) bool {
	if principal == nil {
		return false
	}
	return principal.IsAdmin() || principal.IsSuperuser || principal.IsStaff
}

// CanAccessProfile: the "me" endpoint only needs an authenticated principal;
// it always operates on the principal's own row.
func CanAccessProfile(principal *models.User) bool {
	return principal != nil
}
