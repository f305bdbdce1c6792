package chat

// ParticipantRole expresses the role within a conversation
// 0 = member (default), 1 = group admin
type ParticipantRole int16

const (
	ParticipantRoleMember ParticipantRole = 0
	ParticipantRoleAdmin  ParticipantRole = 1
)

// Participant is one membership row.
// Primary key: (ConversationID, Username)
type Participant struct {
	ConversationID string          `db:"conversation_id"`
	Username       string          `db:"username"`
	Position       int             `db:"position"`
	Role           ParticipantRole `db:"role"`
}
