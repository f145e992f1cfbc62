package dto

type SendMessageRequest struct {
	DiscussionID *int64 `json:"discussion_id,omitempty"`
	RecipientID  *int64 `json:"recipient_id,omitempty"`
	Title        string `json:"title,omitempty"`
	Content      string `json:"content"`
}
