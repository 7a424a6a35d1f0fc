package services

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/rojgarsetu/backend/internal/apperrors"
	"github.com/rojgarsetu/backend/internal/mailer"
	"github.com/rojgarsetu/backend/internal/models"
)

// fakeUserStore is an in-memory UserStore. Patches are applied through
// bson round-tripping so the same field names the real store uses are
// exercised here.
type fakeUserStore struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[primitive.ObjectID]models.User)}
}

func (f *fakeUserStore) add(user models.User) models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	f.users[user.ID] = user
	return user
}

func (f *fakeUserStore) FindByID(_ context.Context, id primitive.ObjectID) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return models.User{}, apperrors.NotFound("user not found")
	}
	return user, nil
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, apperrors.NotFound("user not found")
}

func (f *fakeUserStore) EmailExists(_ context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserStore) Insert(_ context.Context, user models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return apperrors.Duplicate("email already in use")
		}
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserStore) ApplyPatch(_ context.Context, id primitive.ObjectID, set bson.M, unset []string) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return models.User{}, apperrors.NotFound("user not found")
	}

	raw, err := bson.Marshal(user)
	if err != nil {
		return models.User{}, err
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return models.User{}, err
	}
	for key, value := range set {
		doc[key] = value
	}
	for _, key := range unset {
		delete(doc, key)
	}

	raw, err = bson.Marshal(doc)
	if err != nil {
		return models.User{}, err
	}
	var updated models.User
	if err := bson.Unmarshal(raw, &updated); err != nil {
		return models.User{}, err
	}
	f.users[id] = updated
	return updated, nil
}

func (f *fakeUserStore) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return apperrors.NotFound("user not found")
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserStore) List(_ context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	users := make([]models.User, 0, len(f.users))
	for _, user := range f.users {
		users = append(users, user)
	}
	return users, nil
}

// fakeSender records every delivery attempt, optionally failing them.
type fakeSender struct {
	mu   sync.Mutex
	sent []mailer.Email
	err  error
}

func (f *fakeSender) Send(_ context.Context, email mailer.Email) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, email)
	return f.err
}

func (f *fakeSender) sentEmails() []mailer.Email {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]mailer.Email, len(f.sent))
	copy(out, f.sent)
	return out
}

// fakeReferralStore is an in-memory ReferralStore.
type fakeReferralStore struct {
	mu    sync.Mutex
	codes map[string]models.ReferralCode
}

func newFakeReferralStore() *fakeReferralStore {
	return &fakeReferralStore{codes: make(map[string]models.ReferralCode)}
}

func (f *fakeReferralStore) Insert(_ context.Context, code models.ReferralCode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.codes[code.Code] = code
	return nil
}

func (f *fakeReferralStore) FindByCode(_ context.Context, code string) (models.ReferralCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	referral, ok := f.codes[code]
	if !ok {
		return models.ReferralCode{}, apperrors.NotFound("referral code not found")
	}
	return referral, nil
}

func (f *fakeReferralStore) MarkUsed(_ context.Context, code string, usedAt time.Time) (models.ReferralCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	referral, ok := f.codes[code]
	if !ok || referral.IsUsed {
		return models.ReferralCode{}, apperrors.NotFound("referral code not found")
	}
	referral.IsUsed = true
	referral.UsedAt = usedAt
	f.codes[code] = referral
	return referral, nil
}

func (f *fakeReferralStore) List(_ context.Context) ([]models.ReferralCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	codes := make([]models.ReferralCode, 0, len(f.codes))
	for _, code := range f.codes {
		codes = append(codes, code)
	}
	return codes, nil
}

// fakeJobStore is an in-memory JobStore.
type fakeJobStore struct {
	mu           sync.Mutex
	jobs         map[primitive.ObjectID]models.Job
	applications map[primitive.ObjectID]models.Application
}

func newFakeJobStore() *fakeJobStore {
	return &fakeJobStore{
		jobs:         make(map[primitive.ObjectID]models.Job),
		applications: make(map[primitive.ObjectID]models.Application),
	}
}

func (f *fakeJobStore) Insert(_ context.Context, job models.Job) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs[job.ID] = job
	return nil
}

func (f *fakeJobStore) FindByID(_ context.Context, id primitive.ObjectID) (models.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	job, ok := f.jobs[id]
	if !ok {
		return models.Job{}, apperrors.NotFound("job not found")
	}
	return job, nil
}

func (f *fakeJobStore) Update(_ context.Context, id primitive.ObjectID, set bson.M) (models.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	job, ok := f.jobs[id]
	if !ok {
		return models.Job{}, apperrors.NotFound("job not found")
	}
	if status, ok := set["status"].(string); ok {
		job.Status = status
	}
	if title, ok := set["title"].(string); ok {
		job.Title = title
	}
	if description, ok := set["description"].(string); ok {
		job.Description = description
	}
	f.jobs[id] = job
	return job, nil
}

func (f *fakeJobStore) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.jobs[id]; !ok {
		return apperrors.NotFound("job not found")
	}
	delete(f.jobs, id)
	return nil
}

func (f *fakeJobStore) List(_ context.Context, filter bson.M) ([]models.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	jobs := make([]models.Job, 0, len(f.jobs))
	for _, job := range f.jobs {
		if status, ok := filter["status"].(string); ok && job.Status != status {
			continue
		}
		if posterID, ok := filter["posted_by"].(primitive.ObjectID); ok && job.PostedBy != posterID {
			continue
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func (f *fakeJobStore) InsertApplication(_ context.Context, application models.Application) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.applications[application.ID] = application
	return nil
}

func (f *fakeJobStore) HasApplied(_ context.Context, jobID, seekerID primitive.ObjectID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, application := range f.applications {
		if application.JobID == jobID && application.SeekerID == seekerID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeJobStore) ListApplications(_ context.Context, jobID primitive.ObjectID) ([]models.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	applications := make([]models.Application, 0)
	for _, application := range f.applications {
		if application.JobID == jobID {
			applications = append(applications, application)
		}
	}
	return applications, nil
}

func (f *fakeJobStore) FindApplication(_ context.Context, id primitive.ObjectID) (models.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	application, ok := f.applications[id]
	if !ok {
		return models.Application{}, apperrors.NotFound("application not found")
	}
	return application, nil
}

func (f *fakeJobStore) UpdateApplicationStatus(_ context.Context, id primitive.ObjectID, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	application, ok := f.applications[id]
	if !ok {
		return apperrors.NotFound("application not found")
	}
	application.Status = status
	f.applications[id] = application
	return nil
}
