package service

import (
	"context"
	"errors"

	"wellnest/core-backend/internal/domain"
	"wellnest/core-backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrInvalidSenderRole = errors.New("sender role must be CLIENT or TRAINER")
	ErrEmptyMessage      = errors.New("message text cannot be empty")
)

// ChatService is the relationship-scoped messaging channel with per-message
// unread tracking.
type ChatService interface {
	Send(ctx context.Context, relationshipID, senderID primitive.ObjectID, senderRole domain.SenderRole, senderName, text string) (*domain.Message, error)
	History(ctx context.Context, relationshipID primitive.ObjectID) ([]domain.Message, error)
	UnreadCount(ctx context.Context, relationshipID primitive.ObjectID, forRole domain.SenderRole) (int64, error)
	UnreadCountForClient(ctx context.Context, clientID primitive.ObjectID) (int64, error)
	UnreadCountsForTrainer(ctx context.Context, trainerID primitive.ObjectID) (map[primitive.ObjectID]int64, error)
	MarkRead(ctx context.Context, relationshipID primitive.ObjectID, readerRole domain.SenderRole) error
}

type chatService struct {
	messageRepo      repository.MessageRepository
	relationshipRepo repository.RelationshipRepository
}

// NewChatService creates a new instance of chatService.
func NewChatService(messageRepo repository.MessageRepository, relationshipRepo repository.RelationshipRepository) ChatService {
	return &chatService{
		messageRepo:      messageRepo,
		relationshipRepo: relationshipRepo,
	}
}

// Send stores a new message on the relationship's channel. The relationship
// must exist; its status is not checked, so history can continue on a
// cancelled engagement.
func (s *chatService) Send(ctx context.Context, relationshipID, senderID primitive.ObjectID, senderRole domain.SenderRole, senderName, text string) (*domain.Message, error) {
	if !senderRole.IsValid() {
		return nil, ErrInvalidSenderRole
	}
	if text == "" {
		return nil, ErrEmptyMessage
	}

	if _, err := s.relationshipRepo.GetByID(ctx, relationshipID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRelationshipNotFound
		}
		return nil, err
	}

	msg := &domain.Message{
		RelationshipID: relationshipID,
		SenderID:       senderID,
		SenderRole:     senderRole,
		SenderName:     senderName,
		Text:           text,
	}
	msgID, err := s.messageRepo.Create(ctx, msg)
	if err != nil {
		return nil, err
	}
	msg.ID = msgID
	return msg, nil
}

// History returns the channel's messages oldest first. An unknown
// relationship yields an empty history, not an error.
func (s *chatService) History(ctx context.Context, relationshipID primitive.ObjectID) ([]domain.Message, error) {
	if _, err := s.relationshipRepo.GetByID(ctx, relationshipID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return []domain.Message{}, nil
		}
		return nil, err
	}
	return s.messageRepo.GetByRelationshipID(ctx, relationshipID)
}

// UnreadCount counts the messages waiting for the given role: those sent by
// the opposite party and not yet read.
func (s *chatService) UnreadCount(ctx context.Context, relationshipID primitive.ObjectID, forRole domain.SenderRole) (int64, error) {
	if !forRole.IsValid() {
		return 0, ErrInvalidSenderRole
	}
	return s.messageRepo.CountUnread(ctx, relationshipID, forRole.Opposite())
}

// UnreadCountForClient resolves the client's ACTIVE relationship and counts
// unread trainer messages on it. No active relationship means zero.
func (s *chatService) UnreadCountForClient(ctx context.Context, clientID primitive.ObjectID) (int64, error) {
	rel, err := s.relationshipRepo.GetByClientIDAndStatus(ctx, clientID, domain.StatusActive)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return s.messageRepo.CountUnread(ctx, rel.ID, domain.SenderTrainer)
}

// UnreadCountsForTrainer returns unread client-message counts per ACTIVE
// relationship of the trainer, skipping relationships with nothing unread.
// One grouped query covers the whole client list.
func (s *chatService) UnreadCountsForTrainer(ctx context.Context, trainerID primitive.ObjectID) (map[primitive.ObjectID]int64, error) {
	rels, err := s.relationshipRepo.GetByTrainerIDAndStatus(ctx, trainerID, domain.StatusActive)
	if err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, len(rels))
	for i, rel := range rels {
		ids[i] = rel.ID
	}
	return s.messageRepo.UnreadCountsByRelationship(ctx, ids, domain.SenderClient)
}

// MarkRead flags every unread message from the reader's counterpart as read.
// Nothing to mark is not an error.
func (s *chatService) MarkRead(ctx context.Context, relationshipID primitive.ObjectID, readerRole domain.SenderRole) error {
	if !readerRole.IsValid() {
		return ErrInvalidSenderRole
	}
	if _, err := s.relationshipRepo.GetByID(ctx, relationshipID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRelationshipNotFound
		}
		return err
	}
	_, err := s.messageRepo.MarkRead(ctx, relationshipID, readerRole.Opposite())
	return err
}
