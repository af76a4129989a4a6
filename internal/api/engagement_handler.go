package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"wellnest/core-backend/internal/domain"
	"wellnest/core-backend/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EngagementHandler exposes the trainer-client relationship lifecycle.
type EngagementHandler struct {
	engagementService service.EngagementService
}

// NewEngagementHandler creates a new EngagementHandler.
func NewEngagementHandler(engagementService service.EngagementService) *EngagementHandler {
	return &EngagementHandler{engagementService: engagementService}
}

// --- DTOs ---

type BookEngagementRequest struct {
	TrainerID string `json:"trainerId" binding:"required"`
}

type RespondRequest struct {
	RelationshipID string `json:"relationshipId" binding:"required"`
	Decision       string `json:"decision" binding:"required"`
}

type DirectAddRequest struct {
	ClientEmail string `json:"clientEmail" binding:"required,email"`
}

// RelationshipResponse is the DTO for returning relationship details.
type RelationshipResponse struct {
	ID          string                    `json:"id"`
	ClientID    string                    `json:"clientId"`
	TrainerID   string                    `json:"trainerId"`
	Status      domain.RelationshipStatus `json:"status"`
	EnrolledAt  time.Time                 `json:"enrolledAt"`
	RespondedAt *time.Time                `json:"respondedAt,omitempty"`
	CancelledAt *time.Time                `json:"cancelledAt,omitempty"`
}

// MapRelationshipToResponse converts a domain.Relationship to its DTO.
func MapRelationshipToResponse(rel *domain.Relationship) RelationshipResponse {
	if rel == nil {
		return RelationshipResponse{}
	}
	return RelationshipResponse{
		ID:          rel.ID.Hex(),
		ClientID:    rel.ClientID.Hex(),
		TrainerID:   rel.TrainerID.Hex(),
		Status:      rel.Status,
		EnrolledAt:  rel.EnrolledAt,
		RespondedAt: rel.RespondedAt,
		CancelledAt: rel.CancelledAt,
	}
}

// MapRelationshipsToResponse converts a slice of relationships.
func MapRelationshipsToResponse(rels []domain.Relationship) []RelationshipResponse {
	responses := make([]RelationshipResponse, len(rels))
	for i, rel := range rels {
		responses[i] = MapRelationshipToResponse(&rel)
	}
	return responses
}

// mapEngagementError translates service errors into HTTP responses. The
// conflict branch keeps the blocking status in the message so the client can
// show why the booking was refused.
func mapEngagementError(c *gin.Context, err error, fallback string) {
	var conflictErr *service.EngagementConflictError
	var transitionErr *service.TransitionError
	switch {
	case errors.Is(err, service.ErrRelationshipNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrTrainerNotFound),
		errors.Is(err, service.ErrNotATrainer),
		errors.Is(err, service.ErrNotAClient),
		errors.Is(err, service.ErrInvalidDecision):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.As(err, &conflictErr), errors.As(err, &transitionErr):
		abortWithError(c, http.StatusConflict, err.Error())
	default:
		log.Printf("ERROR: %s: %v", fallback, err)
		abortWithError(c, http.StatusInternalServerError, fallback)
	}
}

// --- Handler Methods ---

// Book creates a PENDING engagement request from the authenticated client to
// the given trainer.
func (h *EngagementHandler) Book(c *gin.Context) {
	clientIDStr, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify client.")
		return
	}
	clientID, err := primitive.ObjectIDFromHex(clientIDStr)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid client ID format in token.")
		return
	}

	var req BookEngagementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	trainerID, err := primitive.ObjectIDFromHex(req.TrainerID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid trainer ID format.")
		return
	}

	rel, err := h.engagementService.RequestEngagement(c.Request.Context(), clientID, trainerID)
	if err != nil {
		mapEngagementError(c, err, "Failed to book trainer.")
		return
	}
	c.JSON(http.StatusCreated, MapRelationshipToResponse(rel))
}

// PendingRequests lists a trainer's open booking requests.
func (h *EngagementHandler) PendingRequests(c *gin.Context) {
	h.listForTrainer(c, h.engagementService.PendingRequests)
}

// ActiveClients lists a trainer's current clients.
func (h *EngagementHandler) ActiveClients(c *gin.Context) {
	h.listForTrainer(c, h.engagementService.ActiveClients)
}

// PastClients lists a trainer's terminated relationships.
func (h *EngagementHandler) PastClients(c *gin.Context) {
	h.listForTrainer(c, h.engagementService.PastClients)
}

func (h *EngagementHandler) listForTrainer(c *gin.Context, list func(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Relationship, error)) {
	trainerID, err := primitive.ObjectIDFromHex(c.Param("trainerId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid trainer ID format.")
		return
	}

	rels, err := list(c.Request.Context(), trainerID)
	if err != nil {
		mapEngagementError(c, err, "Failed to list relationships.")
		return
	}
	c.JSON(http.StatusOK, MapRelationshipsToResponse(rels))
}

// Respond applies the trainer's ACCEPT/REJECT decision to a request.
func (h *EngagementHandler) Respond(c *gin.Context) {
	var req RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	relID, err := primitive.ObjectIDFromHex(req.RelationshipID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid relationship ID format.")
		return
	}

	rel, err := h.engagementService.Respond(c.Request.Context(), relID, domain.ResponseDecision(req.Decision))
	if err != nil {
		mapEngagementError(c, err, "Failed to respond to request.")
		return
	}
	c.JSON(http.StatusOK, MapRelationshipToResponse(rel))
}

// MyTrainer returns the client's current (active or pending) relationship,
// or {"status": "NONE"} when there is neither.
func (h *EngagementHandler) MyTrainer(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format.")
		return
	}

	rel, err := h.engagementService.MyTrainer(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
			return
		}
		mapEngagementError(c, err, "Failed to look up trainer.")
		return
	}
	if rel == nil {
		c.JSON(http.StatusOK, gin.H{"status": "NONE"})
		return
	}
	c.JSON(http.StatusOK, MapRelationshipToResponse(rel))
}

// Cancel terminates a relationship; cancelling one that is already terminal
// succeeds without changing anything.
func (h *EngagementHandler) Cancel(c *gin.Context) {
	relID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid relationship ID format.")
		return
	}

	rel, err := h.engagementService.Cancel(c.Request.Context(), relID)
	if err != nil {
		mapEngagementError(c, err, "Failed to cancel request.")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":      "Request cancelled successfully",
		"relationship": MapRelationshipToResponse(rel),
	})
}

// History lists every relationship a client has ever had.
func (h *EngagementHandler) History(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format.")
		return
	}

	rels, err := h.engagementService.History(c.Request.Context(), userID)
	if err != nil {
		mapEngagementError(c, err, "Failed to list history.")
		return
	}
	c.JSON(http.StatusOK, MapRelationshipsToResponse(rels))
}

// DirectAdd lets the authenticated trainer add a client by email, either
// promoting the client's pending request or creating an ACTIVE relationship
// outright.
func (h *EngagementHandler) DirectAdd(c *gin.Context) {
	trainerIDStr, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify trainer.")
		return
	}
	trainerID, err := primitive.ObjectIDFromHex(trainerIDStr)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid trainer ID format in token.")
		return
	}

	var req DirectAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	rel, err := h.engagementService.DirectAdd(c.Request.Context(), trainerID, req.ClientEmail)
	if err != nil {
		mapEngagementError(c, err, "Failed to add client.")
		return
	}
	c.JSON(http.StatusOK, MapRelationshipToResponse(rel))
}
