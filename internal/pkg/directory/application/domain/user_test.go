package directory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatches(t *testing.T) {
	bob := User{Username: "bob", DisplayName: "Bob Lee"}

	tests := []struct {
		term string
		want bool
	}{
		{"", true},
		{"   ", true},
		{"bo", true},
		{"BOB", true},
		{"lee", true},
		{"@bob", true},
		{"b lee", false},
		{"carol", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Matches(bob, tt.term), "term %q", tt.term)
	}
}

func TestFilter_KeepsOrder(t *testing.T) {
	users := []User{
		{Username: "bob", DisplayName: "Bob Lee"},
		{Username: "carol", DisplayName: "Carol Diaz"},
		{Username: "rob", DisplayName: "Robert"},
	}

	got := Filter(users, "bo")
	assert.Equal(t, []User{users[0]}, got)

	got = Filter(users, "o")
	assert.Len(t, got, 3)
	assert.Equal(t, "bob", got[0].Username)
	assert.Equal(t, "rob", got[2].Username)

	assert.Empty(t, Filter(users, "zzz"))
}

func TestWithout(t *testing.T) {
	users := []User{{Username: "alice"}, {Username: "bob"}}
	assert.Equal(t, []User{{Username: "bob"}}, Without(users, "alice"))
	assert.Len(t, Without(users, "nobody"), 2)
}
