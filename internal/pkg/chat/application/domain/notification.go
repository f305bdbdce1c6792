package chat

// Severity styles a user-facing notification.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityInfo    Severity = "info"
)

// Notification is a transient message shown to one user.
type Notification struct {
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

const (
	MsgGroupNameRequired    = "Group name is required!"
	MsgGroupMembersRequired = "Select at least 1 group member!"
	MsgDirectFailed         = "Failed to create conversation"
	MsgGroupFailed          = "Failed to create group"
	MsgGroupCreated         = "Group created successfully!"
)
