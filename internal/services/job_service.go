package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/rojgarsetu/backend/internal/apperrors"
	"github.com/rojgarsetu/backend/internal/models"
	"github.com/rojgarsetu/backend/internal/validation"
)

// JobService owns the posting and application workflows.
type JobService struct {
	jobs   JobStore
	users  UserStore
	logger *zap.Logger
}

func NewJobService(jobs JobStore, users UserStore, logger *zap.Logger) *JobService {
	return &JobService{jobs: jobs, users: users, logger: logger}
}

type JobInput struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	CompanyName string `json:"companyName"`
	Location    string `json:"location"`
	SalaryRange string `json:"salaryRange"`
	// Skills arrive comma-separated, same normalization as candidate skills.
	Skills string `json:"skills"`
}

// Create stores a new open posting for the given poster. The company
// name falls back to the poster's own sub-document when omitted.
func (s *JobService) Create(ctx context.Context, posterID primitive.ObjectID, in JobInput) (models.Job, error) {
	poster, err := s.users.FindByID(ctx, posterID)
	if err != nil {
		return models.Job{}, err
	}
	if poster.Role != models.RoleJobPoster {
		return models.Job{}, apperrors.Forbidden("only job posters can create jobs")
	}
	if err := validation.Validate(in); err != nil {
		return models.Job{}, apperrors.Validation(err.Error())
	}

	company := in.CompanyName
	if company == "" && poster.JobPosterDetails != nil {
		company = poster.JobPosterDetails.CompanyName
	}

	now := time.Now()
	job := models.Job{
		ID:             primitive.NewObjectID(),
		Title:          in.Title,
		CompanyName:    company,
		Location:       in.Location,
		Description:    in.Description,
		SalaryRange:    in.SalaryRange,
		SkillsRequired: SplitSkills(in.Skills),
		PostedBy:       posterID,
		Status:         models.JobOpen,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.jobs.Insert(ctx, job); err != nil {
		return models.Job{}, apperrors.Internal(err)
	}
	return job, nil
}

// Update edits a posting; only its owner may do so.
func (s *JobService) Update(ctx context.Context, posterID, jobID primitive.ObjectID, in JobInput) (models.Job, error) {
	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		return models.Job{}, err
	}
	if job.PostedBy != posterID {
		return models.Job{}, apperrors.Forbidden("you can only edit your own jobs")
	}

	set := bson.M{"updated_at": time.Now()}
	if in.Title != "" {
		set["title"] = in.Title
	}
	if in.Description != "" {
		set["description"] = in.Description
	}
	if in.CompanyName != "" {
		set["company_name"] = in.CompanyName
	}
	if in.Location != "" {
		set["location"] = in.Location
	}
	if in.SalaryRange != "" {
		set["salary_range"] = in.SalaryRange
	}
	if in.Skills != "" {
		set["skills_required"] = SplitSkills(in.Skills)
	}
	return s.jobs.Update(ctx, jobID, set)
}

// Close marks a posting closed; applications stop being accepted.
func (s *JobService) Close(ctx context.Context, posterID, jobID primitive.ObjectID) (models.Job, error) {
	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		return models.Job{}, err
	}
	if job.PostedBy != posterID {
		return models.Job{}, apperrors.Forbidden("you can only close your own jobs")
	}
	return s.jobs.Update(ctx, jobID, bson.M{"status": models.JobClosed, "updated_at": time.Now()})
}

// Delete removes a posting. Admins may delete any posting, posters only
// their own.
func (s *JobService) Delete(ctx context.Context, requesterID primitive.ObjectID, requesterRole string, jobID primitive.ObjectID) error {
	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		return err
	}
	if requesterRole != models.RoleAdmin && job.PostedBy != requesterID {
		return apperrors.Forbidden("you can only delete your own jobs")
	}
	return s.jobs.Delete(ctx, jobID)
}

func (s *JobService) Get(ctx context.Context, jobID primitive.ObjectID) (models.Job, error) {
	return s.jobs.FindByID(ctx, jobID)
}

// ListOpen returns all postings currently accepting applications.
func (s *JobService) ListOpen(ctx context.Context) ([]models.Job, error) {
	jobs, err := s.jobs.List(ctx, bson.M{"status": models.JobOpen})
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return jobs, nil
}

// ListByPoster returns everything a poster has published.
func (s *JobService) ListByPoster(ctx context.Context, posterID primitive.ObjectID) ([]models.Job, error) {
	jobs, err := s.jobs.List(ctx, bson.M{"posted_by": posterID})
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return jobs, nil
}

// Apply records a seeker's application to an open posting. The seeker
// must have a stored resume and may apply to a job only once.
func (s *JobService) Apply(ctx context.Context, seekerID, jobID primitive.ObjectID) (models.Application, error) {
	seeker, err := s.users.FindByID(ctx, seekerID)
	if err != nil {
		return models.Application{}, err
	}
	if seeker.Role != models.RoleJobSeeker {
		return models.Application{}, apperrors.Forbidden("only job seekers can apply to jobs")
	}

	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		return models.Application{}, err
	}
	if job.Status != models.JobOpen {
		return models.Application{}, apperrors.Validation("job is not open for applications")
	}
	if seeker.ResumeFileID.IsZero() {
		return models.Application{}, apperrors.Validation("upload a resume before applying")
	}

	applied, err := s.jobs.HasApplied(ctx, jobID, seekerID)
	if err != nil {
		return models.Application{}, apperrors.Internal(err)
	}
	if applied {
		return models.Application{}, apperrors.Validation("you have already applied to this job")
	}

	name := seeker.Username
	if seeker.CandidateDetails != nil && seeker.CandidateDetails.FullName != "" {
		name = seeker.CandidateDetails.FullName
	}

	application := models.Application{
		ID:           primitive.NewObjectID(),
		JobID:        jobID,
		SeekerID:     seekerID,
		SeekerName:   name,
		SeekerEmail:  seeker.Email,
		ResumeFileID: seeker.ResumeFileID,
		Status:       models.ApplicationApplied,
		AppliedAt:    time.Now(),
	}
	if err := s.jobs.InsertApplication(ctx, application); err != nil {
		return models.Application{}, apperrors.Internal(err)
	}
	return application, nil
}

// ListApplicants returns the applications for a poster's own job.
func (s *JobService) ListApplicants(ctx context.Context, posterID, jobID primitive.ObjectID) ([]models.Application, error) {
	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.PostedBy != posterID {
		return nil, apperrors.Forbidden("you can only view applicants for your own jobs")
	}

	applications, err := s.jobs.ListApplications(ctx, jobID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return applications, nil
}

// SetApplicationStatus moves an application through the review states.
func (s *JobService) SetApplicationStatus(ctx context.Context, posterID, applicationID primitive.ObjectID, status string) error {
	if !models.ValidApplicationStatus(status) {
		return apperrors.Validation("unknown application status: " + status)
	}

	application, err := s.jobs.FindApplication(ctx, applicationID)
	if err != nil {
		return err
	}
	job, err := s.jobs.FindByID(ctx, application.JobID)
	if err != nil {
		return err
	}
	if job.PostedBy != posterID {
		return apperrors.Forbidden("you can only review applicants for your own jobs")
	}
	return s.jobs.UpdateApplicationStatus(ctx, applicationID, status)
}
