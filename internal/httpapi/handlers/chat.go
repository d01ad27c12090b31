package handlers

import (
	"net/http"

	"github.com/anhtu-vn/gochat/internal/chat"
	"github.com/gin-gonic/gin"
)

type postChatReq struct {
	SessionID string    `json:"sessionId"`
	Role      chat.Role `json:"role"`
	Content   string    `json:"content"`
	UserID    string    `json:"userId"`
}

// PostChat creates a session (persisting the seed message when one is
// given) or appends a message to an existing session.
func (h *Handler) PostChat(c *gin.Context) {
	var req postChatReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	ctx := c.Request.Context()

	if req.SessionID == "" {
		seed := req.Role != "" && req.Content != ""
		if seed && !req.Role.Valid() {
			// reject before creating anything so a bad seed leaves no
			// empty session behind
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown role " + string(req.Role)})
			return
		}
		sess, err := h.Store.CreateSession(ctx, req.UserID)
		if err != nil {
			writeError(c, err)
			return
		}
		if seed {
			if _, err := h.Store.AppendMessage(ctx, sess.SessionID, req.Role, req.Content, req.UserID); err != nil {
				writeError(c, err)
				return
			}
		}
		saved, err := h.Store.GetSession(ctx, sess.SessionID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, saved)
		return
	}

	if _, err := h.Store.AppendMessage(ctx, req.SessionID, req.Role, req.Content, req.UserID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "sessionId": req.SessionID})
}

// GetChat lists either one session's messages (?sessionId=) or all sessions
// (optionally filtered by ?userId=).
func (h *Handler) GetChat(c *gin.Context) {
	ctx := c.Request.Context()

	if sessionID := c.Query("sessionId"); sessionID != "" {
		msgs, err := h.Store.ListMessages(ctx, sessionID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"messages": msgs})
		return
	}

	sessions, err := h.Store.ListSessions(ctx, c.Query("userId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

func (h *Handler) GetSession(c *gin.Context) {
	sess, err := h.Store.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (h *Handler) DeleteSession(c *gin.Context) {
	removed, err := h.Store.DeleteSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type renameSessionReq struct {
	Title string `json:"title" binding:"required"`
}

func (h *Handler) RenameSession(c *gin.Context) {
	var req renameSessionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title required"})
		return
	}

	if err := h.Store.UpdateTitle(c.Request.Context(), c.Param("id"), req.Title); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
