package chat

import (
	"net/url"
	"sort"
	"strings"
	"time"

	directory "go-convo/internal/pkg/directory/application/domain"
)

// ConversationType tells one-to-one threads from groups.
type ConversationType string

const (
	ConversationTypeDirect ConversationType = "direct"
	ConversationTypeGroup  ConversationType = "group"
)

const groupAvatarBase = "https://ui-avatars.com/api/"

// Conversation is the stored thread record. Participants keeps insertion
// order: the creator first.
type Conversation struct {
	ID           string
	Type         ConversationType
	DirectKey    string
	Participants []string
	Admins       []string
	Name         string
	Description  string
	Avatar       string
	CreatedBy    string
	CreatedAt    time.Time
	LastActivity time.Time
	LastMessage  *string
	UnreadCount  int
}

// Descriptor is what a client needs to open a conversation view.
type Descriptor struct {
	ID           string           `json:"id"`
	Type         ConversationType `json:"type"`
	Participants []string         `json:"participants"`
	Name         string           `json:"name"`
	Avatar       string           `json:"avatar"`
}

// DirectKey is the order-independent identity of the pair a, b.
func DirectKey(a, b string) string {
	pair := []string{a, b}
	sort.Strings(pair)
	return pair[0] + ":" + pair[1]
}

// NewDirectConversation builds the record for a new thread between creator
// and target, named after the target.
func NewDirectConversation(creator string, target directory.User) Conversation {
	return Conversation{
		Type:         ConversationTypeDirect,
		DirectKey:    DirectKey(creator, target.Username),
		Participants: []string{creator, target.Username},
		Name:         target.DisplayName,
		Avatar:       target.Avatar,
		CreatedBy:    creator,
	}
}

// NewGroupConversation validates the dialog input and builds the group
// record. The creator is the only admin.
func NewGroupConversation(creator, name, description string, draft GroupDraft) (Conversation, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Conversation{}, ErrGroupNameRequired
	}
	if draft.Len() == 0 {
		return Conversation{}, ErrGroupMembersRequired
	}

	participants := make([]string, 0, draft.Len()+1)
	participants = append(participants, creator)
	for _, username := range draft.Usernames() {
		if username != creator {
			participants = append(participants, username)
		}
	}

	return Conversation{
		Type:         ConversationTypeGroup,
		Participants: participants,
		Admins:       []string{creator},
		Name:         name,
		Description:  strings.TrimSpace(description),
		Avatar:       GroupAvatarURL(name),
		CreatedBy:    creator,
	}, nil
}

// GroupAvatarURL returns the generated placeholder image for a group name.
func GroupAvatarURL(name string) string {
	q := url.Values{}
	q.Set("name", name)
	q.Set("background", "764ba2")
	q.Set("color", "fff")
	return groupAvatarBase + "?" + q.Encode()
}

// HasParticipant reports whether username takes part in the conversation.
func (c Conversation) HasParticipant(username string) bool {
	for _, p := range c.Participants {
		if p == username {
			return true
		}
	}
	return false
}

// Descriptor returns the open-view summary of the conversation.
func (c Conversation) Descriptor() Descriptor {
	return Descriptor{
		ID:           c.ID,
		Type:         c.Type,
		Participants: append([]string(nil), c.Participants...),
		Name:         c.Name,
		Avatar:       c.Avatar,
	}
}

// ParticipantRows expands the conversation into its membership rows.
func (c Conversation) ParticipantRows() []Participant {
	admins := make(map[string]struct{}, len(c.Admins))
	for _, a := range c.Admins {
		admins[a] = struct{}{}
	}
	rows := make([]Participant, 0, len(c.Participants))
	for i, username := range c.Participants {
		role := ParticipantRoleMember
		if _, ok := admins[username]; ok {
			role = ParticipantRoleAdmin
		}
		rows = append(rows, Participant{
			ConversationID: c.ID,
			Username:       username,
			Position:       i,
			Role:           role,
		})
	}
	return rows
}
