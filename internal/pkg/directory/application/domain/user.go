package directory

import (
	"errors"
	"strings"
)

// ErrUserNotFound is returned when a username has no directory entry.
var ErrUserNotFound = errors.New("directory: user not found")

// User is a directory entry. Username is the stable identifier.
type User struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Avatar      string `json:"avatar"`
}

// SearchText is the text a user is listed under: display name followed by the
// @handle.
func (u User) SearchText() string {
	return u.DisplayName + " @" + u.Username
}

// Matches reports whether term occurs in the user's search text, ignoring
// case. A blank term matches everyone.
func Matches(u User, term string) bool {
	term = strings.TrimSpace(term)
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(u.SearchText()), strings.ToLower(term))
}

// Filter returns the users matching term, keeping their order.
func Filter(users []User, term string) []User {
	out := make([]User, 0, len(users))
	for _, u := range users {
		if Matches(u, term) {
			out = append(out, u)
		}
	}
	return out
}

// Without returns users minus the entry for username.
func Without(users []User, username string) []User {
	out := make([]User, 0, len(users))
	for _, u := range users {
		if u.Username != username {
			out = append(out, u)
		}
	}
	return out
}
