package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles a user record can hold.
const (
	RoleJobSeeker   = "job_seeker"
	RoleJobPoster   = "job_poster"
	RoleJobReferrer = "job_referrer"
	RoleAdmin       = "admin"
)

// Account status values.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Onboarding progress, meaningful for job seekers and referrers only.
const (
	OnboardingNotStarted = "not_started"
	OnboardingInProgress = "in_progress"
	OnboardingCompleted  = "completed"
)

// ValidRole reports whether role is one of the four known roles.
func ValidRole(role string) bool {
	switch role {
	case RoleJobSeeker, RoleJobPoster, RoleJobReferrer, RoleAdmin:
		return true
	}
	return false
}

// CandidateDetails is the job_seeker sub-document.
type CandidateDetails struct {
	FullName   string   `bson:"full_name" json:"fullName"`
	Phone      string   `bson:"phone" json:"phone"`
	Skills     []string `bson:"skills" json:"skills"`
	Experience string   `bson:"experience" json:"experience"`
}

// JobPosterDetails is the job_poster sub-document.
type JobPosterDetails struct {
	CompanyName string `bson:"company_name" json:"companyName"`
}

// ReferrerDetails is the job_referrer sub-document.
type ReferrerDetails struct {
	Organization string `bson:"organization" json:"organization"`
	Designation  string `bson:"designation" json:"designation"`
}

// User is the account record shared by all roles. At most one of the
// role sub-documents is set at any time; changing role clears the one
// belonging to the previous role.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Email        string             `bson:"email" json:"email"`
	Username     string             `bson:"username" json:"username"`
	Password     string             `bson:"password,omitempty" json:"-"`
	Role         string             `bson:"role" json:"role"`
	Status       string             `bson:"status" json:"status"`
	IsSuperAdmin bool               `bson:"is_super_admin" json:"isSuperAdmin"`

	// FirstLogin stays true until the user changes the generated password.
	FirstLogin       bool   `bson:"first_login" json:"firstLogin"`
	OnboardingStatus string `bson:"onboarding_status,omitempty" json:"onboardingStatus,omitempty"`

	// Organizational hierarchy. Milan, valaya and khanda are required for
	// admin and job_referrer accounts; ghata is always optional.
	Milan    string `bson:"milan,omitempty" json:"milan,omitempty"`
	Valaya   string `bson:"valaya,omitempty" json:"valaya,omitempty"`
	Khanda   string `bson:"khanda,omitempty" json:"khanda,omitempty"`
	Vibhaaga string `bson:"vibhaaga,omitempty" json:"vibhaaga,omitempty"`
	Ghata    string `bson:"ghata,omitempty" json:"ghata,omitempty"`

	CandidateDetails *CandidateDetails `bson:"candidate_details,omitempty" json:"candidateDetails,omitempty"`
	JobPosterDetails *JobPosterDetails `bson:"job_poster_details,omitempty" json:"jobPosterDetails,omitempty"`
	ReferrerDetails  *ReferrerDetails  `bson:"referrer_details,omitempty" json:"referrerDetails,omitempty"`

	// ResumeFileID points at the GridFS file holding the seeker's resume.
	// It is only mutated through the resume upload flow.
	ResumeFileID   primitive.ObjectID `bson:"resume_file_id,omitempty" json:"resumeFileId,omitempty"`
	ResumeFilename string             `bson:"resume_filename,omitempty" json:"resumeFilename,omitempty"`

	// LogoObject is the object-store key of the poster's company logo.
	LogoObject string `bson:"logo_object,omitempty" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// UsernameFromEmail derives the default username from the email local part.
func UsernameFromEmail(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}

// NeedsHierarchy reports whether the role requires milan/valaya/khanda.
func NeedsHierarchy(role string) bool {
	return role == RoleAdmin || role == RoleJobReferrer
}
