package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anhtu-vn/gochat/internal/common"
	"gorm.io/gorm"
)

// Store owns the persisted representation of sessions and their messages.
// Sessions and messages are two tables joined by session_id; delete keeps
// both sides consistent.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CreateSession(ctx context.Context, userID string) (*Session, error) {
	sid, err := common.NewULID()
	if err != nil {
		return nil, err
	}

	sess := &Session{
		SessionID: sid,
		UserID:    userID,
		Title:     defaultSessionTitle,
	}
	if err := s.db.WithContext(ctx).Create(sess).Error; err != nil {
		return nil, fmt.Errorf("%w: create session: %v", common.ErrStorage, err)
	}
	return sess, nil
}

// GetSession returns the session with its messages in append order.
func (s *Store) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	var sess Session
	if err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		First(&sess).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: session %s", common.ErrNotFound, sessionID)
		}
		return nil, fmt.Errorf("%w: get session: %v", common.ErrStorage, err)
	}

	msgs, err := s.ListMessages(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	sess.Messages = msgs
	return &sess, nil
}

// ListSessions returns sessions ordered by most recent activity first.
// Message bodies are not loaded. An empty userID returns every session.
func (s *Store) ListSessions(ctx context.Context, userID string) ([]Session, error) {
	q := s.db.WithContext(ctx).Order("updated_at DESC")
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}

	sessions := []Session{}
	if err := q.Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("%w: list sessions: %v", common.ErrStorage, err)
	}
	return sessions, nil
}

// ListMessages returns the session's messages in append order. A session
// with no messages (or an unknown session) yields a non-nil empty slice so
// handlers serialize it as [] rather than null.
func (s *Store) ListMessages(ctx context.Context, sessionID string) ([]Message, error) {
	msgs := []Message{}
	if err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("id ASC").
		Find(&msgs).Error; err != nil {
		return nil, fmt.Errorf("%w: list messages: %v", common.ErrStorage, err)
	}
	return msgs, nil
}

// ListRecentMessages returns up to limit of the newest messages, newest
// first. Callers that need conversation order reverse the slice.
func (s *Store) ListRecentMessages(ctx context.Context, sessionID string, limit int) ([]Message, error) {
	if limit <= 0 {
		limit = 20
	}
	var msgs []Message
	if err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("id DESC").
		Limit(limit).
		Find(&msgs).Error; err != nil {
		return nil, fmt.Errorf("%w: list recent messages: %v", common.ErrStorage, err)
	}
	return msgs, nil
}

// AppendMessage stores one message and refreshes the session's updated_at.
// Appending to an unknown session fails loudly with a not-found error.
func (s *Store) AppendMessage(ctx context.Context, sessionID string, role Role, content, userID string) (*Message, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", common.ErrValidation, role)
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&Session{}).
		Where("session_id = ?", sessionID).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("%w: check session: %v", common.ErrStorage, err)
	}
	if count == 0 {
		return nil, fmt.Errorf("%w: session %s", common.ErrNotFound, sessionID)
	}

	msg := &Message{
		SessionID: sessionID,
		UserID:    userID,
		Role:      role,
		Content:   content,
	}
	if err := s.db.WithContext(ctx).Create(msg).Error; err != nil {
		return nil, fmt.Errorf("%w: insert message: %v", common.ErrStorage, err)
	}

	if err := s.db.WithContext(ctx).Model(&Session{}).
		Where("session_id = ?", sessionID).
		Update("updated_at", time.Now()).Error; err != nil {
		return nil, fmt.Errorf("%w: touch session: %v", common.ErrStorage, err)
	}
	return msg, nil
}

func (s *Store) UpdateTitle(ctx context.Context, sessionID, title string) error {
	res := s.db.WithContext(ctx).Model(&Session{}).
		Where("session_id = ?", sessionID).
		Updates(map[string]any{
			"title":      title,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return fmt.Errorf("%w: update title: %v", common.ErrStorage, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: session %s", common.ErrNotFound, sessionID)
	}
	return nil
}

// DeleteSession removes the session row and every message referencing it.
// The two deletes are independent operations; a missing session is reported
// via the boolean, not an error.
func (s *Store) DeleteSession(ctx context.Context, sessionID string) (bool, error) {
	res := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Delete(&Session{})
	if res.Error != nil {
		return false, fmt.Errorf("%w: delete session: %v", common.ErrStorage, res.Error)
	}

	if err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Delete(&Message{}).Error; err != nil {
		return false, fmt.Errorf("%w: delete messages: %v", common.ErrStorage, err)
	}

	return res.RowsAffected > 0, nil
}
