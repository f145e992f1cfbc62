package dto

import "github.com/Confidence90/merchant-maple/internal/models"

type SessionResponse struct {
	Authenticated bool         `json:"authenticated"`
	User          *models.User `json:"user,omitempty"`
}
