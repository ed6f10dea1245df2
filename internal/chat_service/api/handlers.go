package api

import (
	"errors"
	"net/http"

	"hestia/internal/chat_service/service"
	"hestia/internal/knowledge"

	"github.com/gin-gonic/gin"
)

// Handler exposes the chat service over HTTP.
type Handler struct {
	service *service.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{service: svc}
}

// sendRequest is the wire shape of POST /api/send.
type sendRequest struct {
	Message    string `json:"message"`
	Role       string `json:"role"`
	UserID     string `json:"user_id"`
	PropertyID string `json:"property_id,omitempty"`
}

// Send handles one chat message from either role.
func (h *Handler) Send(c *gin.Context) {
	var req sendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.HandleMessage(c.Request.Context(), service.Message{
		Message:    req.Message,
		Role:       req.Role,
		UserID:     req.UserID,
		PropertyID: req.PropertyID,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := gin.H{
		"status":  "ok",
		"history": result.History,
	}

	if outcome := result.Consolidation; outcome != nil {
		resp["result"] = outcome.Status
		resp["saved"] = outcome.Stored()
		if outcome.FactID != "" {
			resp["fact_id"] = outcome.FactID
		}
		if outcome.Reason != "" {
			resp["reason"] = outcome.Reason
		}
	}

	if answer := result.Answer; answer != nil {
		resp["result"] = answer.Status
		switch answer.Status {
		case knowledge.StatusAnswered:
			resp["assistant"] = answer.Text
		case knowledge.StatusNoInformation, knowledge.StatusNotRelevant:
			resp["status"] = "ignored"
			resp["reason"] = answer.Reason
		}
	}

	c.JSON(http.StatusOK, resp)
}

// History returns the stored transcript for a user.
func (h *Handler) History(c *gin.Context) {
	history, err := h.service.History(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": history})
}
