package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SenderRole identifies which party of a relationship authored a message.
type SenderRole string

const (
	SenderClient  SenderRole = "CLIENT"
	SenderTrainer SenderRole = "TRAINER"
)

func (r SenderRole) IsValid() bool {
	return r == SenderClient || r == SenderTrainer
}

// Opposite returns the counterpart role. A trainer reads what the client
// sent and vice versa, so unread queries always target the opposite role.
func (r SenderRole) Opposite() SenderRole {
	if r == SenderTrainer {
		return SenderClient
	}
	return SenderTrainer
}

// Message is a chat message scoped to one relationship. The read flag is the
// only field that changes after creation.
type Message struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RelationshipID primitive.ObjectID `bson:"relationshipId" json:"relationshipId"`
	SenderID       primitive.ObjectID `bson:"senderId" json:"senderId"`
	SenderRole     SenderRole         `bson:"senderRole" json:"senderRole"`
	SenderName     string             `bson:"senderName" json:"senderName"`
	Text           string             `bson:"text" json:"text"`
	Read           bool               `bson:"read" json:"read"`
	SentAt         time.Time          `bson:"sentAt" json:"sentAt"`
}
