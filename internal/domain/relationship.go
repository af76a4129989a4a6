package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RelationshipStatus type for the trainer-client engagement lifecycle
type RelationshipStatus string

const (
	StatusPending   RelationshipStatus = "PENDING"
	StatusActive    RelationshipStatus = "ACTIVE"
	StatusRejected  RelationshipStatus = "REJECTED"
	StatusCancelled RelationshipStatus = "CANCELLED"
	StatusInactive  RelationshipStatus = "INACTIVE"
)

// NonTerminalStatuses are the statuses that block a client from entering
// another engagement. At most one relationship per client may hold one of
// these at any time.
var NonTerminalStatuses = []RelationshipStatus{StatusPending, StatusActive}

// IsTerminal reports whether no further transitions are defined for the status.
func (s RelationshipStatus) IsTerminal() bool {
	switch s {
	case StatusRejected, StatusCancelled, StatusInactive:
		return true
	}
	return false
}

// CanTransitionTo encodes the lifecycle state machine:
// PENDING -> ACTIVE | REJECTED | CANCELLED, ACTIVE -> CANCELLED.
func (s RelationshipStatus) CanTransitionTo(next RelationshipStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusActive || next == StatusRejected || next == StatusCancelled
	case StatusActive:
		return next == StatusCancelled
	}
	return false
}

// ResponseDecision is a trainer's answer to a pending engagement request.
type ResponseDecision string

const (
	DecisionAccept ResponseDecision = "ACCEPT"
	DecisionReject ResponseDecision = "REJECT"
)

// Relationship is the engagement record pairing one client and one trainer.
// It is the addressing key for chat messages and assigned plans. Records are
// never deleted; terminated engagements stay around with a terminal status.
type Relationship struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID    primitive.ObjectID `bson:"clientId" json:"clientId"`
	TrainerID   primitive.ObjectID `bson:"trainerId" json:"trainerId"`
	Status      RelationshipStatus `bson:"status" json:"status"`
	EnrolledAt  time.Time          `bson:"enrolledAt" json:"enrolledAt"`
	RespondedAt *time.Time         `bson:"respondedAt,omitempty" json:"respondedAt,omitempty"`
	CancelledAt *time.Time         `bson:"cancelledAt,omitempty" json:"cancelledAt,omitempty"`
}
