package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Confidence90/merchant-maple/internal/models"
)

type SendMessageRequest struct {
	DiscussionID *int64 `json:"discussion_id,omitempty"`
	RecipientID  *int64 `json:"recipient_id,omitempty"`
	Title        string `json:"title,omitempty"`
	Content      string `json:"content"`
}

func (c *Client) Discussions(ctx context.Context, accessToken string) ([]models.Discussion, error) {
	var result struct {
		Results []models.Discussion `json:"results"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/discussion/discussions/", accessToken, nil, &result); err != nil {
		return nil, err
	}
	return result.Results, nil
}

func (c *Client) Discussion(ctx context.Context, accessToken string, id int64) (*models.Discussion, error) {
	var discussion models.Discussion
	path := "/api/discussion/discussions/" + strconv.FormatInt(id, 10) + "/"
	if err := c.do(ctx, http.MethodGet, path, accessToken, nil, &discussion); err != nil {
		return nil, err
	}
	return &discussion, nil
}

func (c *Client) SendMessage(ctx context.Context, accessToken string, req SendMessageRequest) (json.RawMessage, error) {
	var result json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/api/discussion/send-message/", accessToken, req, &result); err != nil {
		return nil, err
	}
	return result, nil
}
