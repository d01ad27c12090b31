package handlers

import (
	"net/http"

	"github.com/anhtu-vn/gochat/internal/ai"
	"github.com/gin-gonic/gin"
)

type chatCompletionReq struct {
	SessionID string       `json:"sessionId"`
	Messages  []ai.Message `json:"messages"`
	Config    ai.Config    `json:"config"`
}

// ChatCompletion runs one completion round trip, resolving at most one tool
// call. With a sessionId (and saveHistory not disabled) the turn is driven
// through the conversation service so both sides of the exchange persist;
// otherwise the call is stateless.
func (h *Handler) ChatCompletion(c *gin.Context) {
	var req chatCompletionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if len(req.Messages) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "messages required"})
		return
	}

	ctx := c.Request.Context()

	if req.SessionID != "" && req.Config.SaveHistoryEnabled() {
		last := req.Messages[len(req.Messages)-1]
		reply, sessionID, err := h.Svc.SendMessage(ctx, req.SessionID, last.Content, "", req.Config)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"response": reply, "sessionId": sessionID})
		return
	}

	reply, toolCall, err := h.Svc.Complete(ctx, req.Messages, req.Config)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := gin.H{"response": reply}
	if toolCall != nil {
		resp["functionCall"] = toolCall
	}
	c.JSON(http.StatusOK, resp)
}
