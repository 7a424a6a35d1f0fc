package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/rojgarsetu/backend/internal/apperrors"
	"github.com/rojgarsetu/backend/internal/models"
)

func newJobService(jobs *fakeJobStore, users *fakeUserStore) *JobService {
	return NewJobService(jobs, users, zap.NewNop())
}

func addPoster(store *fakeUserStore, company string) models.User {
	return store.add(models.User{
		Email:            "poster@example.com",
		Role:             models.RoleJobPoster,
		JobPosterDetails: &models.JobPosterDetails{CompanyName: company},
	})
}

func addSeekerWithResume(store *fakeUserStore) models.User {
	return store.add(models.User{
		Email:            "seeker@example.com",
		Username:         "seeker",
		Role:             models.RoleJobSeeker,
		ResumeFileID:     primitive.NewObjectID(),
		CandidateDetails: &models.CandidateDetails{FullName: "Asha K"},
	})
}

func TestJobCreate(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserStore()
	poster := addPoster(users, "Acme")
	svc := newJobService(newFakeJobStore(), users)

	job, err := svc.Create(ctx, poster.ID, JobInput{
		Title:       "Backend Engineer",
		Description: "Build services",
		Skills:      "Go, MongoDB",
	})
	require.NoError(t, err)
	require.Equal(t, models.JobOpen, job.Status)
	require.Equal(t, []string{"Go", "MongoDB"}, job.SkillsRequired)
	// Company name falls back to the poster's own details.
	require.Equal(t, "Acme", job.CompanyName)
}

func TestJobCreateRequiresPosterRole(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserStore()
	seeker := addSeekerWithResume(users)
	svc := newJobService(newFakeJobStore(), users)

	_, err := svc.Create(ctx, seeker.ID, JobInput{Title: "x", Description: "y"})
	require.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestJobUpdateOwnershipEnforced(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserStore()
	poster := addPoster(users, "Acme")
	svc := newJobService(newFakeJobStore(), users)

	job, err := svc.Create(ctx, poster.ID, JobInput{Title: "x", Description: "y"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, primitive.NewObjectID(), job.ID, JobInput{Title: "hijacked"})
	require.ErrorIs(t, err, apperrors.ErrForbidden)

	updated, err := svc.Update(ctx, poster.ID, job.ID, JobInput{Title: "Senior Backend Engineer"})
	require.NoError(t, err)
	require.Equal(t, "Senior Backend Engineer", updated.Title)
}

func TestJobApply(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserStore()
	poster := addPoster(users, "Acme")
	seeker := addSeekerWithResume(users)
	svc := newJobService(newFakeJobStore(), users)

	job, err := svc.Create(ctx, poster.ID, JobInput{Title: "x", Description: "y"})
	require.NoError(t, err)

	application, err := svc.Apply(ctx, seeker.ID, job.ID)
	require.NoError(t, err)
	require.Equal(t, models.ApplicationApplied, application.Status)
	require.Equal(t, "Asha K", application.SeekerName)
	require.Equal(t, seeker.ResumeFileID, application.ResumeFileID)

	// Applying twice to the same job is rejected.
	_, err = svc.Apply(ctx, seeker.ID, job.ID)
	require.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestJobApplyRequiresResume(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserStore()
	poster := addPoster(users, "Acme")
	seeker := users.add(models.User{
		Email: "noresume@example.com",
		Role:  models.RoleJobSeeker,
	})
	svc := newJobService(newFakeJobStore(), users)

	job, err := svc.Create(ctx, poster.ID, JobInput{Title: "x", Description: "y"})
	require.NoError(t, err)

	_, err = svc.Apply(ctx, seeker.ID, job.ID)
	require.ErrorIs(t, err, apperrors.ErrValidation)
	require.Contains(t, err.Error(), "resume")
}

func TestJobApplyClosedJob(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserStore()
	poster := addPoster(users, "Acme")
	seeker := addSeekerWithResume(users)
	svc := newJobService(newFakeJobStore(), users)

	job, err := svc.Create(ctx, poster.ID, JobInput{Title: "x", Description: "y"})
	require.NoError(t, err)
	_, err = svc.Close(ctx, poster.ID, job.ID)
	require.NoError(t, err)

	_, err = svc.Apply(ctx, seeker.ID, job.ID)
	require.ErrorIs(t, err, apperrors.ErrValidation)

	open, err := svc.ListOpen(ctx)
	require.NoError(t, err)
	require.Empty(t, open)
}

func TestJobDeleteAuthorization(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserStore()
	poster := addPoster(users, "Acme")
	svc := newJobService(newFakeJobStore(), users)

	job, err := svc.Create(ctx, poster.ID, JobInput{Title: "x", Description: "y"})
	require.NoError(t, err)

	stranger := primitive.NewObjectID()
	err = svc.Delete(ctx, stranger, models.RoleJobPoster, job.ID)
	require.ErrorIs(t, err, apperrors.ErrForbidden)

	// Admins may delete anyone's posting.
	require.NoError(t, svc.Delete(ctx, stranger, models.RoleAdmin, job.ID))
	_, err = svc.Get(ctx, job.ID)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSetApplicationStatus(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserStore()
	poster := addPoster(users, "Acme")
	seeker := addSeekerWithResume(users)
	jobs := newFakeJobStore()
	svc := newJobService(jobs, users)

	job, err := svc.Create(ctx, poster.ID, JobInput{Title: "x", Description: "y"})
	require.NoError(t, err)
	application, err := svc.Apply(ctx, seeker.ID, job.ID)
	require.NoError(t, err)

	err = svc.SetApplicationStatus(ctx, poster.ID, application.ID, "promoted")
	require.ErrorIs(t, err, apperrors.ErrValidation)

	err = svc.SetApplicationStatus(ctx, primitive.NewObjectID(), application.ID, models.ApplicationShortlisted)
	require.ErrorIs(t, err, apperrors.ErrForbidden)

	require.NoError(t, svc.SetApplicationStatus(ctx, poster.ID, application.ID, models.ApplicationShortlisted))
	listed, err := svc.ListApplicants(ctx, poster.ID, job.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, models.ApplicationShortlisted, listed[0].Status)
}
