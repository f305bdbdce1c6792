package chat

import directory "go-convo/internal/pkg/directory/application/domain"

// GroupDraft is the member selection of an open "create group" dialog.
// Entries are unique by username and keep selection order. The zero value is
// an empty draft. Methods return new values and never modify the receiver.
type GroupDraft struct {
	members []directory.User
}

// NewGroupDraft builds a draft from users, dropping repeated usernames.
func NewGroupDraft(users ...directory.User) GroupDraft {
	var d GroupDraft
	for _, u := range users {
		d = d.With(u)
	}
	return d
}

// With adds u unless a member with the same username is already selected.
func (d GroupDraft) With(u directory.User) GroupDraft {
	if d.Contains(u.Username) {
		return d
	}
	members := make([]directory.User, len(d.members), len(d.members)+1)
	copy(members, d.members)
	return GroupDraft{members: append(members, u)}
}

// Without drops the member with username, if any.
func (d GroupDraft) Without(username string) GroupDraft {
	members := make([]directory.User, 0, len(d.members))
	for _, m := range d.members {
		if m.Username != username {
			members = append(members, m)
		}
	}
	return GroupDraft{members: members}
}

func (d GroupDraft) Contains(username string) bool {
	for _, m := range d.members {
		if m.Username == username {
			return true
		}
	}
	return false
}

func (d GroupDraft) Len() int { return len(d.members) }

// Members returns a copy of the selected users.
func (d GroupDraft) Members() []directory.User {
	return append([]directory.User(nil), d.members...)
}

func (d GroupDraft) Usernames() []string {
	names := make([]string, 0, len(d.members))
	for _, m := range d.members {
		names = append(names, m.Username)
	}
	return names
}
