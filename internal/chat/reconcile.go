package chat

import "github.com/Confidence90/merchant-maple/internal/models"

// Identity is the per-message authorship classification driving alignment
// and author styling. Always derived, never stored.
type Identity struct {
	IsCurrentUser bool `json:"is_current_user"`
	IsSeller      bool `json:"is_seller"`
	IsStaff       bool `json:"is_staff"`
}

// Reconcile matches a message's sender against the session user. Both ids
// went through FlexID normalization at decode time, so a sender stored as
// "2" still matches a session user stored as 2. A missing sender is
// nobody: not mine, not staff, not a seller.
func Reconcile(msg models.Message, current *models.User) Identity {
	if msg.Sender == nil {
		return Identity{}
	}

	identity := Identity{
		IsSeller: msg.Sender.IsSeller,
		IsStaff:  msg.Sender.IsStaff || msg.Sender.IsSuperuser,
	}

	if current != nil {
		identity.IsCurrentUser = msg.Sender.ID.Equal(current.ID)
	}
	return identity
}

// AnnotatedMessage pairs a proxied message with its derived identity.
type AnnotatedMessage struct {
	models.Message
	Identity Identity `json:"identity"`
}

// AnnotatedDiscussion mirrors the upstream discussion with every message
// classified against the current user.
type AnnotatedDiscussion struct {
	models.Discussion
	Messages []AnnotatedMessage `json:"messages"`
}

func Annotate(d models.Discussion, current *models.User) AnnotatedDiscussion {
	annotated := AnnotatedDiscussion{Discussion: d}
	annotated.Discussion.Messages = nil
	annotated.Messages = make([]AnnotatedMessage, 0, len(d.Messages))
	for _, msg := range d.Messages {
		annotated.Messages = append(annotated.Messages, AnnotatedMessage{
			Message:  msg,
			Identity: Reconcile(msg, current),
		})
	}
	return annotated
}
