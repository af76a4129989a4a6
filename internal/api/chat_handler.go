package api

import (
	"errors"
	"log"
	"net/http"
	"time"

	"wellnest/core-backend/internal/domain"
	"wellnest/core-backend/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChatHandler exposes the relationship-scoped messaging channel.
type ChatHandler struct {
	chatService service.ChatService
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// --- DTOs ---

type SendMessageRequest struct {
	RelationshipID string `json:"relationshipId" binding:"required"`
	SenderRole     string `json:"senderRole" binding:"required,oneof=CLIENT TRAINER"`
	SenderName     string `json:"senderName" binding:"required"`
	Text           string `json:"text" binding:"required"`
}

// MessageResponse is the DTO for returning chat messages.
type MessageResponse struct {
	ID             string            `json:"id"`
	RelationshipID string            `json:"relationshipId"`
	SenderID       string            `json:"senderId"`
	SenderRole     domain.SenderRole `json:"senderRole"`
	SenderName     string            `json:"senderName"`
	Text           string            `json:"text"`
	Read           bool              `json:"read"`
	SentAt         time.Time         `json:"sentAt"`
}

// MapMessageToResponse converts a domain.Message to its DTO.
func MapMessageToResponse(msg *domain.Message) MessageResponse {
	if msg == nil {
		return MessageResponse{}
	}
	return MessageResponse{
		ID:             msg.ID.Hex(),
		RelationshipID: msg.RelationshipID.Hex(),
		SenderID:       msg.SenderID.Hex(),
		SenderRole:     msg.SenderRole,
		SenderName:     msg.SenderName,
		Text:           msg.Text,
		Read:           msg.Read,
		SentAt:         msg.SentAt,
	}
}

// MapMessagesToResponse converts a slice of messages.
func MapMessagesToResponse(messages []domain.Message) []MessageResponse {
	responses := make([]MessageResponse, len(messages))
	for i, msg := range messages {
		responses[i] = MapMessageToResponse(&msg)
	}
	return responses
}

// --- Handler Methods ---

// Send stores a new message on a relationship's channel. The sender id
// comes from the token, the role from the request.
func (h *ChatHandler) Send(c *gin.Context) {
	senderIDStr, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify sender.")
		return
	}
	senderID, err := primitive.ObjectIDFromHex(senderIDStr)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid sender ID format in token.")
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	relID, err := primitive.ObjectIDFromHex(req.RelationshipID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid relationship ID format.")
		return
	}

	msg, err := h.chatService.Send(c.Request.Context(), relID, senderID, domain.SenderRole(req.SenderRole), req.SenderName, req.Text)
	if err != nil {
		if errors.Is(err, service.ErrRelationshipNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else if errors.Is(err, service.ErrInvalidSenderRole) || errors.Is(err, service.ErrEmptyMessage) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			log.Printf("ERROR: failed to send message: %v", err)
			abortWithError(c, http.StatusInternalServerError, "Failed to send message.")
		}
		return
	}
	c.JSON(http.StatusCreated, MapMessageToResponse(msg))
}

// History returns the full message history for a relationship, oldest
// first. Unknown relationships yield an empty list.
func (h *ChatHandler) History(c *gin.Context) {
	relID, err := primitive.ObjectIDFromHex(c.Param("relationshipId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid relationship ID format.")
		return
	}

	messages, err := h.chatService.History(c.Request.Context(), relID)
	if err != nil {
		log.Printf("ERROR: failed to fetch chat history: %v", err)
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve chat history.")
		return
	}
	c.JSON(http.StatusOK, MapMessagesToResponse(messages))
}

// UnreadForTrainer returns a map of relationship id to unread client-message
// count across the trainer's active clients. Zero counts are omitted.
func (h *ChatHandler) UnreadForTrainer(c *gin.Context) {
	trainerID, err := primitive.ObjectIDFromHex(c.Param("trainerId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid trainer ID format.")
		return
	}

	counts, err := h.chatService.UnreadCountsForTrainer(c.Request.Context(), trainerID)
	if err != nil {
		log.Printf("ERROR: failed to count unread messages: %v", err)
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve unread counts.")
		return
	}

	response := make(map[string]int64, len(counts))
	for relID, count := range counts {
		response[relID.Hex()] = count
	}
	c.JSON(http.StatusOK, response)
}

// UnreadForUser returns the unread trainer-message count on the client's
// active relationship, zero when there is none.
func (h *ChatHandler) UnreadForUser(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format.")
		return
	}

	count, err := h.chatService.UnreadCountForClient(c.Request.Context(), userID)
	if err != nil {
		log.Printf("ERROR: failed to count unread messages: %v", err)
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve unread count.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

// MarkRead flags every message awaiting the reader as read.
func (h *ChatHandler) MarkRead(c *gin.Context) {
	relID, err := primitive.ObjectIDFromHex(c.Param("relationshipId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid relationship ID format.")
		return
	}

	readerRole := domain.SenderRole(c.Query("readerRole"))
	if !readerRole.IsValid() {
		abortWithError(c, http.StatusBadRequest, "readerRole must be CLIENT or TRAINER.")
		return
	}

	err = h.chatService.MarkRead(c.Request.Context(), relID, readerRole)
	if err != nil {
		if errors.Is(err, service.ErrRelationshipNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			log.Printf("ERROR: failed to mark messages read: %v", err)
			abortWithError(c, http.StatusInternalServerError, "Failed to mark messages read.")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Messages marked as read"})
}
