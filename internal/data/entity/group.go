package entity

import "github.com/google/uuid"

type GroupMemberRole string

const (
	GroupRoleHost   GroupMemberRole = "host"
	GroupRoleMember GroupMemberRole = "member"
)

// Group is the event's community space, created together with the event.
type Group struct {
	BaseNoDelete
	EventID uuid.UUID `db:"event_id"`
	Name    string    `db:"name"`
}

type GroupMember struct {
	BaseSimple
	GroupID uuid.UUID       `db:"group_id"`
	UserID  uuid.UUID       `db:"user_id"`
	Role    GroupMemberRole `db:"role"`
}
