package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wellnest/core-backend/internal/domain"
	"wellnest/core-backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrTrainerNotFound      = errors.New("trainer not found")
	ErrNotATrainer          = errors.New("user found but is not a trainer")
	ErrNotAClient           = errors.New("user found but is not a client")
	ErrRelationshipNotFound = errors.New("relationship not found")
	ErrInvalidDecision      = errors.New("decision must be ACCEPT or REJECT")
)

// EngagementConflictError reports a booking or direct-add blocked by an
// existing non-terminal relationship. The blocking status is kept so the
// caller can show why ("already PENDING" vs "already ACTIVE").
type EngagementConflictError struct {
	BlockingStatus domain.RelationshipStatus
}

func (e *EngagementConflictError) Error() string {
	return fmt.Sprintf("client already has a trainer relationship in %s status", e.BlockingStatus)
}

// TransitionError reports a status change the lifecycle does not allow.
type TransitionError struct {
	From domain.RelationshipStatus
	To   domain.RelationshipStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("relationship in %s status cannot move to %s", e.From, e.To)
}

// EngagementService owns the trainer-client relationship lifecycle.
type EngagementService interface {
	RequestEngagement(ctx context.Context, clientID, trainerID primitive.ObjectID) (*domain.Relationship, error)
	Respond(ctx context.Context, relationshipID primitive.ObjectID, decision domain.ResponseDecision) (*domain.Relationship, error)
	Cancel(ctx context.Context, relationshipID primitive.ObjectID) (*domain.Relationship, error)
	DirectAdd(ctx context.Context, trainerID primitive.ObjectID, clientEmail string) (*domain.Relationship, error)

	PendingRequests(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Relationship, error)
	ActiveClients(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Relationship, error)
	PastClients(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Relationship, error)
	MyTrainer(ctx context.Context, clientID primitive.ObjectID) (*domain.Relationship, error)
	History(ctx context.Context, clientID primitive.ObjectID) ([]domain.Relationship, error)
}

type engagementService struct {
	relationshipRepo repository.RelationshipRepository
	userRepo         repository.UserRepository
}

// NewEngagementService creates a new instance of engagementService.
func NewEngagementService(relationshipRepo repository.RelationshipRepository, userRepo repository.UserRepository) EngagementService {
	return &engagementService{
		relationshipRepo: relationshipRepo,
		userRepo:         userRepo,
	}
}

// RequestEngagement books a trainer for a client, creating a PENDING
// relationship. Fails with EngagementConflictError when the client already
// has a PENDING or ACTIVE relationship.
func (s *engagementService) RequestEngagement(ctx context.Context, clientID, trainerID primitive.ObjectID) (*domain.Relationship, error) {
	if clientID == primitive.NilObjectID || trainerID == primitive.NilObjectID {
		return nil, errors.New("client ID and trainer ID are required")
	}

	client, err := s.userRepo.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !client.IsClient() {
		return nil, ErrNotAClient
	}

	trainer, err := s.userRepo.GetByID(ctx, trainerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTrainerNotFound
		}
		return nil, err
	}
	if !trainer.IsTrainer() {
		return nil, ErrNotATrainer
	}

	// Readable pre-check so the conflict message can name the blocking
	// status. The partial unique index remains the authoritative guard.
	if existing, err := s.relationshipRepo.GetNonTerminalByClientID(ctx, clientID); err == nil {
		return nil, &EngagementConflictError{BlockingStatus: existing.Status}
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	rel := &domain.Relationship{
		ClientID:   clientID,
		TrainerID:  trainerID,
		Status:     domain.StatusPending,
		EnrolledAt: time.Now().UTC(),
	}
	relID, err := s.relationshipRepo.Create(ctx, rel)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			// Lost the race to a concurrent booking.
			return nil, &EngagementConflictError{BlockingStatus: domain.StatusPending}
		}
		return nil, err
	}
	rel.ID = relID
	return rel, nil
}

// Respond applies a trainer's ACCEPT or REJECT decision to a pending
// request. Replaying the same decision is a no-op that leaves respondedAt
// untouched; any other transition out of a non-PENDING state is refused.
func (s *engagementService) Respond(ctx context.Context, relationshipID primitive.ObjectID, decision domain.ResponseDecision) (*domain.Relationship, error) {
	var target domain.RelationshipStatus
	switch decision {
	case domain.DecisionAccept:
		target = domain.StatusActive
	case domain.DecisionReject:
		target = domain.StatusRejected
	default:
		return nil, ErrInvalidDecision
	}

	rel, err := s.relationshipRepo.GetByID(ctx, relationshipID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRelationshipNotFound
		}
		return nil, err
	}

	if rel.Status == target {
		return rel, nil
	}
	if !rel.Status.CanTransitionTo(target) {
		return nil, &TransitionError{From: rel.Status, To: target}
	}

	now := time.Now().UTC()
	rel.Status = target
	rel.RespondedAt = &now
	if err := s.relationshipRepo.UpdateStatus(ctx, rel); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRelationshipNotFound
		}
		return nil, err
	}
	return rel, nil
}

// Cancel terminates a PENDING or ACTIVE relationship. Cancelling an already
// terminal relationship is an idempotent no-op.
func (s *engagementService) Cancel(ctx context.Context, relationshipID primitive.ObjectID) (*domain.Relationship, error) {
	rel, err := s.relationshipRepo.GetByID(ctx, relationshipID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRelationshipNotFound
		}
		return nil, err
	}

	if rel.Status.IsTerminal() {
		return rel, nil
	}

	now := time.Now().UTC()
	rel.Status = domain.StatusCancelled
	rel.CancelledAt = &now
	if err := s.relationshipRepo.UpdateStatus(ctx, rel); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRelationshipNotFound
		}
		return nil, err
	}
	return rel, nil
}

// DirectAdd lets a trainer add a client by email without the booking
// round-trip. A request already PENDING with this trainer is promoted to
// ACTIVE; any other non-terminal relationship blocks the add.
func (s *engagementService) DirectAdd(ctx context.Context, trainerID primitive.ObjectID, clientEmail string) (*domain.Relationship, error) {
	if trainerID == primitive.NilObjectID || clientEmail == "" {
		return nil, errors.New("trainer ID and client email are required")
	}

	trainer, err := s.userRepo.GetByID(ctx, trainerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTrainerNotFound
		}
		return nil, err
	}
	if !trainer.IsTrainer() {
		return nil, ErrNotATrainer
	}

	client, err := s.userRepo.GetByEmail(ctx, clientEmail)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !client.IsClient() {
		return nil, ErrNotAClient
	}

	existing, err := s.relationshipRepo.GetNonTerminalByClientID(ctx, client.ID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		if existing.Status == domain.StatusPending && existing.TrainerID == trainerID {
			// The client already asked for this trainer; merge instead of
			// creating a duplicate.
			now := time.Now().UTC()
			existing.Status = domain.StatusActive
			existing.RespondedAt = &now
			if err := s.relationshipRepo.UpdateStatus(ctx, existing); err != nil {
				return nil, err
			}
			return existing, nil
		}
		return nil, &EngagementConflictError{BlockingStatus: existing.Status}
	}

	rel := &domain.Relationship{
		ClientID:   client.ID,
		TrainerID:  trainerID,
		Status:     domain.StatusActive,
		EnrolledAt: time.Now().UTC(),
	}
	relID, err := s.relationshipRepo.Create(ctx, rel)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, &EngagementConflictError{BlockingStatus: domain.StatusActive}
		}
		return nil, err
	}
	rel.ID = relID
	return rel, nil
}

// PendingRequests lists a trainer's open booking requests.
func (s *engagementService) PendingRequests(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Relationship, error) {
	return s.relationshipRepo.GetByTrainerIDAndStatus(ctx, trainerID, domain.StatusPending)
}

// ActiveClients lists a trainer's current clients.
func (s *engagementService) ActiveClients(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Relationship, error) {
	return s.relationshipRepo.GetByTrainerIDAndStatus(ctx, trainerID, domain.StatusActive)
}

// PastClients lists a trainer's terminated relationships (rejected,
// cancelled or inactive). History is retained, never deleted.
func (s *engagementService) PastClients(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Relationship, error) {
	all, err := s.relationshipRepo.GetByTrainerID(ctx, trainerID)
	if err != nil {
		return nil, err
	}
	past := make([]domain.Relationship, 0, len(all))
	for _, rel := range all {
		if rel.Status.IsTerminal() {
			past = append(past, rel)
		}
	}
	return past, nil
}

// MyTrainer returns the client's ACTIVE relationship, or the PENDING one if
// no active engagement exists, or nil when the client has neither.
// ErrUserNotFound when the client id is unknown.
func (s *engagementService) MyTrainer(ctx context.Context, clientID primitive.ObjectID) (*domain.Relationship, error) {
	if _, err := s.userRepo.GetByID(ctx, clientID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	rel, err := s.relationshipRepo.GetNonTerminalByClientID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return rel, nil
}

// History lists every relationship the client has ever had.
func (s *engagementService) History(ctx context.Context, clientID primitive.ObjectID) ([]domain.Relationship, error) {
	return s.relationshipRepo.GetByClientID(ctx, clientID)
}
