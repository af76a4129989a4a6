package service

import (
	"context"
	"testing"

	"wellnest/core-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type engagementFixture struct {
	svc      EngagementService
	userRepo *fakeUserRepo
	relRepo  *fakeRelationshipRepo
	trainer  *domain.User
	client   *domain.User
}

func newEngagementFixture(t *testing.T) *engagementFixture {
	t.Helper()
	userRepo := newFakeUserRepo()
	relRepo := newFakeRelationshipRepo()
	return &engagementFixture{
		svc:      NewEngagementService(relRepo, userRepo),
		userRepo: userRepo,
		relRepo:  relRepo,
		trainer:  userRepo.addUser("Tara Trainer", "tara@example.com", domain.RoleTrainer),
		client:   userRepo.addUser("Cleo Client", "cleo@example.com", domain.RoleClient),
	}
}

func TestRequestEngagement_CreatesPending(t *testing.T) {
	f := newEngagementFixture(t)
	ctx := context.Background()

	rel, err := f.svc.RequestEngagement(ctx, f.client.ID, f.trainer.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, rel.Status)
	assert.Equal(t, f.client.ID, rel.ClientID)
	assert.Equal(t, f.trainer.ID, rel.TrainerID)
	assert.False(t, rel.EnrolledAt.IsZero())
	assert.Nil(t, rel.RespondedAt)
}

func TestRequestEngagement_ConflictOnSecondBooking(t *testing.T) {
	f := newEngagementFixture(t)
	ctx := context.Background()
	otherTrainer := f.userRepo.addUser("Tom Trainer", "tom@example.com", domain.RoleTrainer)

	_, err := f.svc.RequestEngagement(ctx, f.client.ID, f.trainer.ID)
	require.NoError(t, err)

	_, err = f.svc.RequestEngagement(ctx, f.client.ID, otherTrainer.ID)
	var conflict *EngagementConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, domain.StatusPending, conflict.BlockingStatus)
}

func TestRequestEngagement_AllowedAfterCancellation(t *testing.T) {
	f := newEngagementFixture(t)
	ctx := context.Background()

	rel, err := f.svc.RequestEngagement(ctx, f.client.ID, f.trainer.ID)
	require.NoError(t, err)
	_, err = f.svc.Cancel(ctx, rel.ID)
	require.NoError(t, err)

	again, err := f.svc.RequestEngagement(ctx, f.client.ID, f.trainer.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, again.Status)
	assert.NotEqual(t, rel.ID, again.ID)
}

func TestRequestEngagement_ValidatesParties(t *testing.T) {
	f := newEngagementFixture(t)
	ctx := context.Background()
	unknown := primitive.NewObjectID()

	_, err := f.svc.RequestEngagement(ctx, unknown, f.trainer.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = f.svc.RequestEngagement(ctx, f.client.ID, unknown)
	assert.ErrorIs(t, err, ErrTrainerNotFound)

	_, err = f.svc.RequestEngagement(ctx, f.trainer.ID, f.trainer.ID)
	assert.ErrorIs(t, err, ErrNotAClient)

	_, err = f.svc.RequestEngagement(ctx, f.client.ID, f.client.ID)
	assert.ErrorIs(t, err, ErrNotATrainer)
}

func TestRespond_AcceptActivates(t *testing.T) {
	f := newEngagementFixture(t)
	ctx := context.Background()
	rel, err := f.svc.RequestEngagement(ctx, f.client.ID, f.trainer.ID)
	require.NoError(t, err)

	accepted, err := f.svc.Respond(ctx, rel.ID, domain.DecisionAccept)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, accepted.Status)
	require.NotNil(t, accepted.RespondedAt)
}

func TestRespond_RejectTerminates(t *testing.T) {
	f := newEngagementFixture(t)
	ctx := context.Background()
	rel, err := f.svc.RequestEngagement(ctx, f.client.ID, f.trainer.ID)
	require.NoError(t, err)

	rejected, err := f.svc.Respond(ctx, rel.ID, domain.DecisionReject)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, rejected.Status)
	require.NotNil(t, rejected.RespondedAt)

	// Terminal relationship no longer blocks a fresh booking.
	again, err := f.svc.RequestEngagement(ctx, f.client.ID, f.trainer.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, again.Status)
}

func TestRespond_AcceptReplayIsIdempotent(t *testing.T) {
	f := newEngagementFixture(t)
	ctx := context.Background()
	rel, err := f.svc.RequestEngagement(ctx, f.client.ID, f.trainer.ID)
	require.NoError(t, err)

	first, err := f.svc.Respond(ctx, rel.ID, domain.DecisionAccept)
	require.NoError(t, err)
	second, err := f.svc.Respond(ctx, rel.ID, domain.DecisionAccept)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusActive, second.Status)
	require.NotNil(t, second.RespondedAt)
	assert.Equal(t, *first.RespondedAt, *second.RespondedAt)
}

func TestRespond_RejectAfterAcceptRefused(t *testing.T) {
	f := newEngagementFixture(t)
	ctx := context.Background()
	rel, err := f.svc.RequestEngagement(ctx, f.client.ID, f.trainer.ID)
	require.NoError(t, err)
	_, err = f.svc.Respond(ctx, rel.ID, domain.DecisionAccept)
	require.NoError(t, err)

	_, err = f.svc.Respond(ctx, rel.ID, domain.DecisionReject)
	var transition *TransitionError
	require.ErrorAs(t, err, &transition)
	assert.Equal(t, domain.StatusActive, transition.From)
	assert.Equal(t, domain.StatusRejected, transition.To)
}

func TestRespond_InvalidDecision(t *testing.T) {
	f := newEngagementFixture(t)
	ctx := context.Background()
	rel, err := f.svc.RequestEngagement(ctx, f.client.ID, f.trainer.ID)
	require.NoError(t, err)

	_, err = f.svc.Respond(ctx, rel.ID, domain.ResponseDecision("MAYBE"))
	assert.ErrorIs(t, err, ErrInvalidDecision)
}

func TestCancel_FromPendingAndActive(t *testing.T) {
	f := newEngagementFixture(t)
	ctx := context.Background()

	pending, err := f.svc.RequestEngagement(ctx, f.client.ID, f.trainer.ID)
	require.NoError(t, err)
	cancelled, err := f.svc.Cancel(ctx, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelledAt)

	rel, err := f.svc.RequestEngagement(ctx, f.client.ID, f.trainer.ID)
	require.NoError(t, err)
	_, err = f.svc.Respond(ctx, rel.ID, domain.DecisionAccept)
	require.NoError(t, err)
	cancelled, err = f.svc.Cancel(ctx, rel.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, cancelled.Status)
}

func TestCancel_TerminalIsNoOp(t *testing.T) {
	f := newEngagementFixture(t)
	ctx := context.Background()
	rel, err := f.svc.RequestEngagement(ctx, f.client.ID, f.trainer.ID)
	require.NoError(t, err)
	_, err = f.svc.Respond(ctx, rel.ID, domain.DecisionReject)
	require.NoError(t, err)

	got, err := f.svc.Cancel(ctx, rel.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, got.Status)
	assert.Nil(t, got.CancelledAt)
}

func TestCancel_UnknownRelationship(t *testing.T) {
	f := newEngagementFixture(t)
	_, err := f.svc.Cancel(context.Background(), f.client.ID)
	assert.ErrorIs(t, err, ErrRelationshipNotFound)
}

func TestDirectAdd_CreatesActive(t *testing.T) {
	f := newEngagementFixture(t)
	ctx := context.Background()

	rel, err := f.svc.DirectAdd(ctx, f.trainer.ID, f.client.Email)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, rel.Status)
	assert.Equal(t, f.client.ID, rel.ClientID)
	assert.Equal(t, f.trainer.ID, rel.TrainerID)
}

func TestDirectAdd_PromotesOwnPendingRequest(t *testing.T) {
	f := newEngagementFixture(t)
	ctx := context.Background()
	pending, err := f.svc.RequestEngagement(ctx, f.client.ID, f.trainer.ID)
	require.NoError(t, err)

	rel, err := f.svc.DirectAdd(ctx, f.trainer.ID, f.client.Email)
	require.NoError(t, err)
	assert.Equal(t, pending.ID, rel.ID, "should merge with the existing request, not create a new one")
	assert.Equal(t, domain.StatusActive, rel.Status)
	require.NotNil(t, rel.RespondedAt)
}

func TestDirectAdd_BlockedByPendingWithOtherTrainer(t *testing.T) {
	f := newEngagementFixture(t)
	ctx := context.Background()
	otherTrainer := f.userRepo.addUser("Tom Trainer", "tom@example.com", domain.RoleTrainer)
	_, err := f.svc.RequestEngagement(ctx, f.client.ID, otherTrainer.ID)
	require.NoError(t, err)

	_, err = f.svc.DirectAdd(ctx, f.trainer.ID, f.client.Email)
	var conflict *EngagementConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, domain.StatusPending, conflict.BlockingStatus)
}

func TestDirectAdd_BlockedByActiveRelationship(t *testing.T) {
	f := newEngagementFixture(t)
	ctx := context.Background()
	rel, err := f.svc.RequestEngagement(ctx, f.client.ID, f.trainer.ID)
	require.NoError(t, err)
	_, err = f.svc.Respond(ctx, rel.ID, domain.DecisionAccept)
	require.NoError(t, err)

	// Even the same trainer cannot add again once active.
	_, err = f.svc.DirectAdd(ctx, f.trainer.ID, f.client.Email)
	var conflict *EngagementConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, domain.StatusActive, conflict.BlockingStatus)
}

func TestDirectAdd_UnknownClientEmail(t *testing.T) {
	f := newEngagementFixture(t)
	_, err := f.svc.DirectAdd(context.Background(), f.trainer.ID, "nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestMyTrainer_Lifecycle(t *testing.T) {
	f := newEngagementFixture(t)
	ctx := context.Background()

	// No relationship yet.
	rel, err := f.svc.MyTrainer(ctx, f.client.ID)
	require.NoError(t, err)
	assert.Nil(t, rel)

	// Pending shows up.
	pending, err := f.svc.RequestEngagement(ctx, f.client.ID, f.trainer.ID)
	require.NoError(t, err)
	rel, err = f.svc.MyTrainer(ctx, f.client.ID)
	require.NoError(t, err)
	require.NotNil(t, rel)
	assert.Equal(t, domain.StatusPending, rel.Status)

	// Active after acceptance.
	_, err = f.svc.Respond(ctx, pending.ID, domain.DecisionAccept)
	require.NoError(t, err)
	rel, err = f.svc.MyTrainer(ctx, f.client.ID)
	require.NoError(t, err)
	require.NotNil(t, rel)
	assert.Equal(t, domain.StatusActive, rel.Status)

	// Gone again after cancellation.
	_, err = f.svc.Cancel(ctx, pending.ID)
	require.NoError(t, err)
	rel, err = f.svc.MyTrainer(ctx, f.client.ID)
	require.NoError(t, err)
	assert.Nil(t, rel)
}

func TestMyTrainer_UnknownUser(t *testing.T) {
	f := newEngagementFixture(t)
	unknown := primitive.NewObjectID()

	_, err := f.svc.MyTrainer(context.Background(), unknown)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestTrainerListings_SplitByStatus(t *testing.T) {
	f := newEngagementFixture(t)
	ctx := context.Background()
	clientB := f.userRepo.addUser("Ben Client", "ben@example.com", domain.RoleClient)
	clientC := f.userRepo.addUser("Cara Client", "cara@example.com", domain.RoleClient)

	// One pending, one active, one rejected.
	_, err := f.svc.RequestEngagement(ctx, f.client.ID, f.trainer.ID)
	require.NoError(t, err)
	relB, err := f.svc.RequestEngagement(ctx, clientB.ID, f.trainer.ID)
	require.NoError(t, err)
	_, err = f.svc.Respond(ctx, relB.ID, domain.DecisionAccept)
	require.NoError(t, err)
	relC, err := f.svc.RequestEngagement(ctx, clientC.ID, f.trainer.ID)
	require.NoError(t, err)
	_, err = f.svc.Respond(ctx, relC.ID, domain.DecisionReject)
	require.NoError(t, err)

	pending, err := f.svc.PendingRequests(ctx, f.trainer.ID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, f.client.ID, pending[0].ClientID)

	active, err := f.svc.ActiveClients(ctx, f.trainer.ID)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, clientB.ID, active[0].ClientID)

	past, err := f.svc.PastClients(ctx, f.trainer.ID)
	require.NoError(t, err)
	require.Len(t, past, 1)
	assert.Equal(t, clientC.ID, past[0].ClientID)
}

func TestHistory_RetainsTerminatedRelationships(t *testing.T) {
	f := newEngagementFixture(t)
	ctx := context.Background()

	first, err := f.svc.RequestEngagement(ctx, f.client.ID, f.trainer.ID)
	require.NoError(t, err)
	_, err = f.svc.Cancel(ctx, first.ID)
	require.NoError(t, err)
	_, err = f.svc.RequestEngagement(ctx, f.client.ID, f.trainer.ID)
	require.NoError(t, err)

	history, err := f.svc.History(ctx, f.client.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, domain.StatusCancelled, history[0].Status)
	assert.Equal(t, domain.StatusPending, history[1].Status)
}
