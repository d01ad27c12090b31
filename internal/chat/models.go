package chat

import "time"

// Role is the closed set of message kinds a session may contain.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	// RoleFunction records a tool invocation and its serialized arguments.
	RoleFunction Role = "function"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem, RoleFunction:
		return true
	}
	return false
}

const defaultSessionTitle = "New conversation"

type Session struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"-"`
	SessionID string    `gorm:"type:varchar(26);uniqueIndex;not null" json:"sessionId"`
	UserID    string    `gorm:"type:varchar(64);index" json:"userId,omitempty"`
	Title     string    `gorm:"type:varchar(255);not null" json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Messages live in their own table; loaded explicitly by GetSession.
	Messages []Message `gorm:"-" json:"messages,omitempty"`
}

func (Session) TableName() string { return "chat_sessions" }

type Message struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"-"`
	SessionID string    `gorm:"type:varchar(26);index;not null" json:"sessionId"`
	UserID    string    `gorm:"type:varchar(64)" json:"userId,omitempty"`
	Role      Role      `gorm:"type:varchar(16);not null" json:"role"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"timestamp"`
}

func (Message) TableName() string { return "chat_messages" }
