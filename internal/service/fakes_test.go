package service

import (
	"context"
	"sort"
	"time"

	"wellnest/core-backend/internal/domain"
	"wellnest/core-backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes shared by the service tests. They mirror the
// Mongo implementations' observable behavior, including the partial unique
// guard on non-terminal relationships.

// --- Users ---

type fakeUserRepo struct {
	users map[primitive.ObjectID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*domain.User)}
}

func (r *fakeUserRepo) addUser(name, email string, role domain.Role) *domain.User {
	user := &domain.User{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Email:     email,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	r.users[user.ID] = user
	return user
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return primitive.NilObjectID, repository.ErrConflict
		}
	}
	user.ID = primitive.NewObjectID()
	r.users[user.ID] = user
	return user.ID, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

// --- Relationships ---

type fakeRelationshipRepo struct {
	rels  map[primitive.ObjectID]*domain.Relationship
	order []primitive.ObjectID
}

func newFakeRelationshipRepo() *fakeRelationshipRepo {
	return &fakeRelationshipRepo{rels: make(map[primitive.ObjectID]*domain.Relationship)}
}

// addRelationship seeds a relationship directly, bypassing the uniqueness
// guard, for tests that need a particular starting state.
func (r *fakeRelationshipRepo) addRelationship(clientID, trainerID primitive.ObjectID, status domain.RelationshipStatus) *domain.Relationship {
	rel := &domain.Relationship{
		ID:         primitive.NewObjectID(),
		ClientID:   clientID,
		TrainerID:  trainerID,
		Status:     status,
		EnrolledAt: time.Now().UTC(),
	}
	r.rels[rel.ID] = rel
	r.order = append(r.order, rel.ID)
	return rel
}

func (r *fakeRelationshipRepo) Create(ctx context.Context, rel *domain.Relationship) (primitive.ObjectID, error) {
	// Same guard as the partial unique index on clientId.
	for _, existing := range r.rels {
		if existing.ClientID == rel.ClientID && !existing.Status.IsTerminal() {
			return primitive.NilObjectID, repository.ErrConflict
		}
	}
	stored := *rel
	stored.ID = primitive.NewObjectID()
	r.rels[stored.ID] = &stored
	r.order = append(r.order, stored.ID)
	return stored.ID, nil
}

func (r *fakeRelationshipRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Relationship, error) {
	rel, ok := r.rels[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *rel
	return &copied, nil
}

func (r *fakeRelationshipRepo) UpdateStatus(ctx context.Context, rel *domain.Relationship) error {
	stored, ok := r.rels[rel.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Status = rel.Status
	stored.RespondedAt = rel.RespondedAt
	stored.CancelledAt = rel.CancelledAt
	return nil
}

func (r *fakeRelationshipRepo) GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.Relationship, error) {
	var out []domain.Relationship
	for _, id := range r.order {
		if rel := r.rels[id]; rel.ClientID == clientID {
			out = append(out, *rel)
		}
	}
	return out, nil
}

func (r *fakeRelationshipRepo) GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Relationship, error) {
	var out []domain.Relationship
	for _, id := range r.order {
		if rel := r.rels[id]; rel.TrainerID == trainerID {
			out = append(out, *rel)
		}
	}
	return out, nil
}

func (r *fakeRelationshipRepo) GetByTrainerIDAndStatus(ctx context.Context, trainerID primitive.ObjectID, status domain.RelationshipStatus) ([]domain.Relationship, error) {
	var out []domain.Relationship
	for _, id := range r.order {
		if rel := r.rels[id]; rel.TrainerID == trainerID && rel.Status == status {
			out = append(out, *rel)
		}
	}
	return out, nil
}

func (r *fakeRelationshipRepo) GetNonTerminalByClientID(ctx context.Context, clientID primitive.ObjectID) (*domain.Relationship, error) {
	for _, id := range r.order {
		if rel := r.rels[id]; rel.ClientID == clientID && !rel.Status.IsTerminal() {
			copied := *rel
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeRelationshipRepo) GetByClientIDAndStatus(ctx context.Context, clientID primitive.ObjectID, status domain.RelationshipStatus) (*domain.Relationship, error) {
	for _, id := range r.order {
		if rel := r.rels[id]; rel.ClientID == clientID && rel.Status == status {
			copied := *rel
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

// --- Messages ---

type fakeMessageRepo struct {
	msgs []domain.Message
	seq  int
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{}
}

func (r *fakeMessageRepo) Create(ctx context.Context, msg *domain.Message) (primitive.ObjectID, error) {
	msg.ID = primitive.NewObjectID()
	msg.Read = false
	r.seq++
	msg.SentAt = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(r.seq) * time.Second)
	r.msgs = append(r.msgs, *msg)
	return msg.ID, nil
}

func (r *fakeMessageRepo) GetByRelationshipID(ctx context.Context, relationshipID primitive.ObjectID) ([]domain.Message, error) {
	var out []domain.Message
	for _, m := range r.msgs {
		if m.RelationshipID == relationshipID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SentAt.Before(out[j].SentAt) })
	return out, nil
}

func (r *fakeMessageRepo) CountUnread(ctx context.Context, relationshipID primitive.ObjectID, senderRole domain.SenderRole) (int64, error) {
	var count int64
	for _, m := range r.msgs {
		if m.RelationshipID == relationshipID && m.SenderRole == senderRole && !m.Read {
			count++
		}
	}
	return count, nil
}

func (r *fakeMessageRepo) UnreadCountsByRelationship(ctx context.Context, relationshipIDs []primitive.ObjectID, senderRole domain.SenderRole) (map[primitive.ObjectID]int64, error) {
	counts := make(map[primitive.ObjectID]int64)
	for _, relID := range relationshipIDs {
		n, _ := r.CountUnread(ctx, relID, senderRole)
		if n > 0 {
			counts[relID] = n
		}
	}
	return counts, nil
}

func (r *fakeMessageRepo) MarkRead(ctx context.Context, relationshipID primitive.ObjectID, senderRole domain.SenderRole) (int64, error) {
	var updated int64
	for i := range r.msgs {
		m := &r.msgs[i]
		if m.RelationshipID == relationshipID && m.SenderRole == senderRole && !m.Read {
			m.Read = true
			updated++
		}
	}
	return updated, nil
}

// --- Plans ---

type fakeWorkoutPlanRepo struct {
	plans []domain.WorkoutPlan
	seq   int
}

func newFakeWorkoutPlanRepo() *fakeWorkoutPlanRepo {
	return &fakeWorkoutPlanRepo{}
}

func (r *fakeWorkoutPlanRepo) Create(ctx context.Context, plan *domain.WorkoutPlan) (primitive.ObjectID, error) {
	plan.ID = primitive.NewObjectID()
	r.seq++
	plan.AssignedAt = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(r.seq) * time.Minute)
	r.plans = append(r.plans, *plan)
	return plan.ID, nil
}

func (r *fakeWorkoutPlanRepo) GetByRelationshipID(ctx context.Context, relationshipID primitive.ObjectID) ([]domain.WorkoutPlan, error) {
	var out []domain.WorkoutPlan
	for _, p := range r.plans {
		if p.RelationshipID == relationshipID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AssignedAt.After(out[j].AssignedAt) })
	return out, nil
}

type fakeMealPlanRepo struct {
	plans []domain.MealPlan
	seq   int
}

func newFakeMealPlanRepo() *fakeMealPlanRepo {
	return &fakeMealPlanRepo{}
}

func (r *fakeMealPlanRepo) Create(ctx context.Context, plan *domain.MealPlan) (primitive.ObjectID, error) {
	plan.ID = primitive.NewObjectID()
	r.seq++
	plan.AssignedAt = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(r.seq) * time.Minute)
	r.plans = append(r.plans, *plan)
	return plan.ID, nil
}

func (r *fakeMealPlanRepo) GetByRelationshipID(ctx context.Context, relationshipID primitive.ObjectID) ([]domain.MealPlan, error) {
	var out []domain.MealPlan
	for _, p := range r.plans {
		if p.RelationshipID == relationshipID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AssignedAt.After(out[j].AssignedAt) })
	return out, nil
}

// --- Activity logs ---

type fakeWorkoutLogRepo struct {
	entries []domain.WorkoutLog
}

func newFakeWorkoutLogRepo() *fakeWorkoutLogRepo {
	return &fakeWorkoutLogRepo{}
}

func (r *fakeWorkoutLogRepo) Create(ctx context.Context, entry *domain.WorkoutLog) (primitive.ObjectID, error) {
	entry.ID = primitive.NewObjectID()
	r.entries = append(r.entries, *entry)
	return entry.ID, nil
}

func (r *fakeWorkoutLogRepo) GetByUserAndDate(ctx context.Context, userID primitive.ObjectID, date time.Time) ([]domain.WorkoutLog, error) {
	var out []domain.WorkoutLog
	for _, e := range r.entries {
		if e.UserID == userID && e.LogDate.Equal(date) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeWorkoutLogRepo) GetByUserAndDateRange(ctx context.Context, userID primitive.ObjectID, from, to time.Time) ([]domain.WorkoutLog, error) {
	var out []domain.WorkoutLog
	for _, e := range r.entries {
		if e.UserID == userID && !e.LogDate.Before(from) && !e.LogDate.After(to) {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeMealLogRepo struct {
	entries []domain.MealLog
}

func newFakeMealLogRepo() *fakeMealLogRepo {
	return &fakeMealLogRepo{}
}

func (r *fakeMealLogRepo) Create(ctx context.Context, entry *domain.MealLog) (primitive.ObjectID, error) {
	entry.ID = primitive.NewObjectID()
	r.entries = append(r.entries, *entry)
	return entry.ID, nil
}

func (r *fakeMealLogRepo) GetByUserAndDate(ctx context.Context, userID primitive.ObjectID, date time.Time) ([]domain.MealLog, error) {
	var out []domain.MealLog
	for _, e := range r.entries {
		if e.UserID == userID && e.LogDate.Equal(date) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MealTime.Before(out[j].MealTime) })
	return out, nil
}

func (r *fakeMealLogRepo) GetByUserAndDateRange(ctx context.Context, userID primitive.ObjectID, from, to time.Time) ([]domain.MealLog, error) {
	var out []domain.MealLog
	for _, e := range r.entries {
		if e.UserID == userID && !e.LogDate.Before(from) && !e.LogDate.After(to) {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeWaterSleepLogRepo struct {
	entries []domain.WaterSleepLog
}

func newFakeWaterSleepLogRepo() *fakeWaterSleepLogRepo {
	return &fakeWaterSleepLogRepo{}
}

func (r *fakeWaterSleepLogRepo) Create(ctx context.Context, entry *domain.WaterSleepLog) (primitive.ObjectID, error) {
	entry.ID = primitive.NewObjectID()
	r.entries = append(r.entries, *entry)
	return entry.ID, nil
}

func (r *fakeWaterSleepLogRepo) GetByUserAndDate(ctx context.Context, userID primitive.ObjectID, date time.Time) ([]domain.WaterSleepLog, error) {
	var out []domain.WaterSleepLog
	for _, e := range r.entries {
		if e.UserID == userID && e.LogDate.Equal(date) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeWaterSleepLogRepo) GetByUserAndDateRange(ctx context.Context, userID primitive.ObjectID, from, to time.Time) ([]domain.WaterSleepLog, error) {
	var out []domain.WaterSleepLog
	for _, e := range r.entries {
		if e.UserID == userID && !e.LogDate.Before(from) && !e.LogDate.After(to) {
			out = append(out, e)
		}
	}
	return out, nil
}
