package handlers

import (
	"net/http"
	"strconv"

	"github.com/Confidence90/merchant-maple/internal/chat"
	"github.com/Confidence90/merchant-maple/internal/middleware"
	"github.com/Confidence90/merchant-maple/internal/upstream"
	"github.com/Confidence90/merchant-maple/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
)

// DiscussionHandler proxies the messaging feature and annotates each
// message with its identity classification against the session user.
type DiscussionHandler struct {
	resolver ResolverInterface
	api      UpstreamInterface
}

func NewDiscussionHandler(resolver ResolverInterface, api UpstreamInterface) *DiscussionHandler {
	return &DiscussionHandler{resolver: resolver, api: api}
}

func (h *DiscussionHandler) List(c *drift.Context) {
	token, ok := h.token(c)
	if !ok {
		return
	}

	discussions, err := h.api.Discussions(c.Request.Context(), token)
	if err != nil {
		respondUpstreamError(c, err)
		return
	}

	current := middleware.GetSessionUser(c)
	annotated := make([]chat.AnnotatedDiscussion, 0, len(discussions))
	for _, d := range discussions {
		annotated = append(annotated, chat.Annotate(d, current))
	}

	_ = c.JSON(http.StatusOK, map[string]any{"results": annotated})
}

func (h *DiscussionHandler) Get(c *drift.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.BadRequest("invalid discussion id")
		return
	}

	token, ok := h.token(c)
	if !ok {
		return
	}

	discussion, err := h.api.Discussion(c.Request.Context(), token, id)
	if err != nil {
		respondUpstreamError(c, err)
		return
	}

	_ = c.JSON(http.StatusOK, chat.Annotate(*discussion, middleware.GetSessionUser(c)))
}

func (h *DiscussionHandler) Send(c *drift.Context) {
	var req dto.SendMessageRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.Content == "" {
		c.BadRequest("content is required")
		return
	}
	if req.DiscussionID == nil && req.RecipientID == nil {
		c.BadRequest("discussion_id or recipient_id is required")
		return
	}

	token, ok := h.token(c)
	if !ok {
		return
	}

	result, err := h.api.SendMessage(c.Request.Context(), token, upstream.SendMessageRequest{
		DiscussionID: req.DiscussionID,
		RecipientID:  req.RecipientID,
		Title:        req.Title,
		Content:      req.Content,
	})
	if err != nil {
		respondUpstreamError(c, err)
		return
	}

	_ = c.JSON(http.StatusOK, result)
}

func (h *DiscussionHandler) token(c *drift.Context) (string, bool) {
	token, err := h.resolver.AccessToken(c.Request.Context(), middleware.GetSessionID(c), middleware.GetScope(c))
	if err != nil {
		c.InternalServerError("failed to read session")
		return "", false
	}
	if token == "" {
		c.Unauthorized("session expired")
		return "", false
	}
	return token, true
}
