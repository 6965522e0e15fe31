package auth

// RoleForUserCount decides the role assigned to a newly registered account:
// the first account in an empty store becomes the administrator, everyone
// after that is a regular user.
func RoleForUserCount(count int64) string {
	if count == 0 {
		return RoleAdmin
	}
	return RoleUser
}
