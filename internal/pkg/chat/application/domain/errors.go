package chat

import "errors"

var (
	ErrGroupNameRequired    = errors.New("group name is required")
	ErrGroupMembersRequired = errors.New("at least one group member is required")
	ErrUsernameRequired     = errors.New("username is required")
	ErrSelfConversation     = errors.New("cannot start a conversation with yourself")
	ErrSelfMember           = errors.New("you are already in the group")
	ErrNotParticipant       = errors.New("user is not a participant in this conversation")
)
