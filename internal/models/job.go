package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Job posting status.
const (
	JobOpen   = "open"
	JobClosed = "closed"
)

// Application status values.
const (
	ApplicationApplied     = "applied"
	ApplicationShortlisted = "shortlisted"
	ApplicationRejected    = "rejected"
)

type Job struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title          string             `bson:"title" json:"title"`
	CompanyName    string             `bson:"company_name" json:"companyName"`
	Location       string             `bson:"location,omitempty" json:"location,omitempty"`
	Description    string             `bson:"description" json:"description"`
	SalaryRange    string             `bson:"salary_range,omitempty" json:"salaryRange,omitempty"`
	SkillsRequired []string           `bson:"skills_required,omitempty" json:"skillsRequired,omitempty"`
	PostedBy       primitive.ObjectID `bson:"posted_by" json:"postedBy"`
	Status         string             `bson:"status" json:"status"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
}

// Application records a seeker applying to a job. Seeker name and email
// are snapshotted so poster-facing listings need no extra lookups.
type Application struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	JobID        primitive.ObjectID `bson:"job_id" json:"jobId"`
	SeekerID     primitive.ObjectID `bson:"seeker_id" json:"seekerId"`
	SeekerName   string             `bson:"seeker_name" json:"seekerName"`
	SeekerEmail  string             `bson:"seeker_email" json:"seekerEmail"`
	ResumeFileID primitive.ObjectID `bson:"resume_file_id,omitempty" json:"resumeFileId,omitempty"`
	Status       string             `bson:"status" json:"status"`
	AppliedAt    time.Time          `bson:"applied_at" json:"appliedAt"`
}

// ValidApplicationStatus reports whether s is a known application status.
func ValidApplicationStatus(s string) bool {
	switch s {
	case ApplicationApplied, ApplicationShortlisted, ApplicationRejected:
		return true
	}
	return false
}
