package models

// Sender is the partial user record attached to each message. Flags are
// plain booleans; only the id needs normalization.
type Sender struct {
	ID          FlexID `json:"id"`
	Username    string `json:"username,omitempty"`
	Email       string `json:"email,omitempty"`
	IsStaff     bool   `json:"is_staff,omitempty"`
	IsSuperuser bool   `json:"is_superuser,omitempty"`
	IsSeller    bool   `json:"is_seller,omitempty"`
}

type Message struct {
	ID        FlexID  `json:"id"`
	Sender    *Sender `json:"sender,omitempty"`
	Content   string  `json:"content"`
	CreatedAt string  `json:"created_at,omitempty"`
	IsRead    bool    `json:"is_read,omitempty"`
}

type LastMessage struct {
	Content        string `json:"content"`
	CreatedAt      string `json:"created_at,omitempty"`
	SenderUsername string `json:"sender_username,omitempty"`
}

type Discussion struct {
	ID               FlexID       `json:"id"`
	Title            string       `json:"title,omitempty"`
	DiscussionType   string       `json:"discussion_type,omitempty"`
	OtherParticipant *Sender      `json:"other_participant,omitempty"`
	IsActive         bool         `json:"is_active,omitempty"`
	CreatedAt        string       `json:"created_at,omitempty"`
	UpdatedAt        string       `json:"updated_at,omitempty"`
	Messages         []Message    `json:"messages,omitempty"`
	UnreadCount      int          `json:"unread_count,omitempty"`
	LastMessage      *LastMessage `json:"last_message,omitempty"`
}
