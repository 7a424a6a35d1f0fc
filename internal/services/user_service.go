package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/rojgarsetu/backend/internal/apperrors"
	"github.com/rojgarsetu/backend/internal/mailer"
	"github.com/rojgarsetu/backend/internal/models"
	"github.com/rojgarsetu/backend/internal/validation"
)

// UserService validates and applies create/update/delete operations on
// user records across all four roles.
type UserService struct {
	users    UserStore
	mail     mailer.Sender
	logger   *zap.Logger
	siteName string
	loginURL string
}

func NewUserService(users UserStore, mail mailer.Sender, logger *zap.Logger, siteName, loginURL string) *UserService {
	return &UserService{
		users:    users,
		mail:     mail,
		logger:   logger,
		siteName: siteName,
		loginURL: loginURL,
	}
}

// HierarchyInput carries the organizational hierarchy fields.
type HierarchyInput struct {
	Milan    string `json:"milan"`
	Valaya   string `json:"valaya"`
	Khanda   string `json:"khanda"`
	Vibhaaga string `json:"vibhaaga"`
	Ghata    string `json:"ghata"`
}

type CreateUserInput struct {
	Email        string `json:"email" validate:"required,email"`
	Username     string `json:"username"`
	Role         string `json:"role" validate:"required,oneof=job_seeker job_poster job_referrer admin"`
	IsSuperAdmin bool   `json:"isSuperAdmin"`
	HierarchyInput
	// ReferrerData is an alternate nested carrier of the hierarchy used
	// by the referrer creation form; direct fields take priority.
	ReferrerData *HierarchyInput `json:"referrerData"`
}

// Create validates the payload against the requester's privileges,
// stores the record with a generated temporary password and sends a
// welcome email. Email delivery is best-effort: its failure is logged
// and never fails the create.
func (s *UserService) Create(ctx context.Context, requesterRole string, requesterIsSuperAdmin bool, in CreateUserInput) (models.User, error) {
	// Route middleware gates this too; the check lives here as well so
	// the service enforces its own rules.
	if requesterRole != models.RoleAdmin {
		return models.User{}, apperrors.Forbidden("only admins can create accounts")
	}

	if err := validation.Validate(in); err != nil {
		return models.User{}, apperrors.Validation(err.Error())
	}

	if (in.Role == models.RoleAdmin || in.IsSuperAdmin) && !requesterIsSuperAdmin {
		return models.User{}, apperrors.Forbidden("only a super admin can create admin accounts")
	}

	hierarchy := resolveCreateHierarchy(in)
	if models.NeedsHierarchy(in.Role) {
		if hierarchy.Milan == "" || hierarchy.Valaya == "" || hierarchy.Khanda == "" {
			return models.User{}, apperrors.Validation(fmt.Sprintf("milan, valaya and khanda are required for %s accounts", in.Role))
		}
	}

	exists, err := s.users.EmailExists(ctx, in.Email)
	if err != nil {
		return models.User{}, apperrors.Internal(err)
	}
	if exists {
		return models.User{}, apperrors.Duplicate("email already in use")
	}

	tempPassword, err := generateTempPassword()
	if err != nil {
		return models.User{}, apperrors.Internal(err)
	}
	hashed, err := HashPassword(tempPassword)
	if err != nil {
		return models.User{}, apperrors.Internal(err)
	}

	username := in.Username
	if username == "" {
		username = models.UsernameFromEmail(in.Email)
	}

	onboarding := models.OnboardingCompleted
	if in.Role == models.RoleJobSeeker {
		onboarding = models.OnboardingNotStarted
	}

	now := time.Now()
	user := models.User{
		ID:               primitive.NewObjectID(),
		Email:            in.Email,
		Username:         username,
		Password:         hashed,
		Role:             in.Role,
		Status:           models.StatusActive,
		IsSuperAdmin:     in.IsSuperAdmin,
		FirstLogin:       true,
		OnboardingStatus: onboarding,
		Milan:            hierarchy.Milan,
		Valaya:           hierarchy.Valaya,
		Khanda:           hierarchy.Khanda,
		Vibhaaga:         hierarchy.Vibhaaga,
		Ghata:            hierarchy.Ghata,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.users.Insert(ctx, user); err != nil {
		if _, ok := err.(*apperrors.AppError); ok {
			return models.User{}, err
		}
		return models.User{}, apperrors.Internal(err)
	}

	// Welcome email carries the temporary password; a delivery failure
	// must not roll back the created record.
	welcome := mailer.BuildWelcomeEmail(mailer.WelcomeEmailData{
		SiteName:     s.siteName,
		Username:     user.Username,
		Email:        user.Email,
		TempPassword: tempPassword,
		LoginURL:     s.loginURL,
	})
	if err := s.mail.Send(ctx, welcome); err != nil {
		s.logger.Warn("failed to send welcome email",
			zap.String("email", user.Email),
			zap.Error(err))
	}

	user.Password = ""
	return user, nil
}

// resolveCreateHierarchy picks each hierarchy field from the direct
// payload fields first, falling back to the nested referrerData object.
func resolveCreateHierarchy(in CreateUserInput) HierarchyInput {
	resolved := in.HierarchyInput
	if in.Role != models.RoleJobReferrer || in.ReferrerData == nil {
		return resolved
	}
	if resolved.Milan == "" {
		resolved.Milan = in.ReferrerData.Milan
	}
	if resolved.Valaya == "" {
		resolved.Valaya = in.ReferrerData.Valaya
	}
	if resolved.Khanda == "" {
		resolved.Khanda = in.ReferrerData.Khanda
	}
	if resolved.Vibhaaga == "" {
		resolved.Vibhaaga = in.ReferrerData.Vibhaaga
	}
	if resolved.Ghata == "" {
		resolved.Ghata = in.ReferrerData.Ghata
	}
	return resolved
}

type UpdateUserInput struct {
	// Email is immutable after creation; any value here is ignored.
	Email    string `json:"email"`
	Username string `json:"username"`
	Role     string `json:"role"`
	HierarchyInput
	// Legacy clients still send the old field names for the hierarchy.
	MilanShakaBhaga string `json:"milanShakaBhaga"`
	ValayaNagar     string `json:"valayaNagar"`
	KhandaBhaga     string `json:"khandaBhaga"`

	// job_seeker fields; skills arrive as a comma-separated string.
	FullName   string `json:"fullName"`
	Phone      string `json:"phone"`
	Skills     string `json:"skills"`
	Experience string `json:"experience"`

	// job_poster field.
	CompanyName string `json:"companyName"`

	// job_referrer work details.
	Organization string `json:"organization"`
	Designation  string `json:"designation"`

	// Resume changes go through the upload flow; this is ignored too.
	ResumeFileID string `json:"resumeFileId"`
}

// UpdatePatch is the set map plus unset field list the storage layer
// applies in one atomic update.
type UpdatePatch struct {
	Set   bson.M
	Unset []string
}

// BuildUpdatePatch validates an update against the existing record and
// computes the patch, reconciling role sub-documents so at most one
// survives. It is pure: no storage access, no side effects.
func BuildUpdatePatch(existing models.User, in UpdateUserInput) (UpdatePatch, error) {
	normalizeLegacyHierarchy(&in)

	if in.Role != "" && !models.ValidRole(in.Role) {
		return UpdatePatch{}, apperrors.Validation("unknown role: " + in.Role)
	}

	targetRole := existing.Role
	if in.Role != "" {
		targetRole = in.Role
	}

	if models.NeedsHierarchy(in.Role) {
		milan := firstNonEmpty(in.Milan, existing.Milan)
		valaya := firstNonEmpty(in.Valaya, existing.Valaya)
		khanda := firstNonEmpty(in.Khanda, existing.Khanda)
		if milan == "" || valaya == "" || khanda == "" {
			return UpdatePatch{}, apperrors.Validation(fmt.Sprintf("milan, valaya and khanda are required for %s accounts", in.Role))
		}
	}

	patch := UpdatePatch{Set: bson.M{"updated_at": time.Now()}}

	if in.Username != "" {
		patch.Set["username"] = in.Username
	}
	setHierarchyFields(patch.Set, in.HierarchyInput)

	roleChanged := in.Role != "" && in.Role != existing.Role
	if roleChanged {
		patch.Set["role"] = in.Role

		// Clear the sub-document belonging to the previous role. The
		// target role's own sub-document is written below, never unset.
		switch existing.Role {
		case models.RoleJobSeeker:
			if targetRole != models.RoleJobSeeker {
				patch.Unset = append(patch.Unset, "candidate_details")
			}
		case models.RoleJobPoster:
			if targetRole != models.RoleJobPoster {
				patch.Unset = append(patch.Unset, "job_poster_details")
			}
		case models.RoleJobReferrer:
			if targetRole != models.RoleJobReferrer {
				patch.Unset = append(patch.Unset, "referrer_details")
			}
		}
	}

	switch targetRole {
	case models.RoleJobSeeker:
		if roleChanged || in.FullName != "" || in.Phone != "" || in.Skills != "" || in.Experience != "" {
			patch.Set["candidate_details"] = models.CandidateDetails{
				FullName:   in.FullName,
				Phone:      in.Phone,
				Skills:     SplitSkills(in.Skills),
				Experience: in.Experience,
			}
		}
	case models.RoleJobPoster:
		if roleChanged || in.CompanyName != "" {
			patch.Set["job_poster_details"] = models.JobPosterDetails{
				CompanyName: in.CompanyName,
			}
		}
	case models.RoleJobReferrer:
		if in.Organization != "" || in.Designation != "" {
			patch.Set["referrer_details"] = models.ReferrerDetails{
				Organization: in.Organization,
				Designation:  in.Designation,
			}
		}
	}

	return patch, nil
}

// Update applies an admin update to a user record.
func (s *UserService) Update(ctx context.Context, id primitive.ObjectID, in UpdateUserInput) (models.User, error) {
	existing, err := s.users.FindByID(ctx, id)
	if err != nil {
		return models.User{}, err
	}

	patch, err := BuildUpdatePatch(existing, in)
	if err != nil {
		return models.User{}, err
	}

	updated, err := s.users.ApplyPatch(ctx, id, patch.Set, patch.Unset)
	if err != nil {
		return models.User{}, err
	}
	updated.Password = ""
	return updated, nil
}

// ProfileInput is the self-service subset: username and hierarchy only.
type ProfileInput struct {
	Username string `json:"username"`
	HierarchyInput
	MilanShakaBhaga string `json:"milanShakaBhaga"`
	ValayaNagar     string `json:"valayaNagar"`
	KhandaBhaga     string `json:"khandaBhaga"`
}

// UpdateProfile applies a self-service profile edit. Role, email and
// privilege flags are never touched here.
func (s *UserService) UpdateProfile(ctx context.Context, id primitive.ObjectID, in ProfileInput) (models.User, error) {
	legacy := UpdateUserInput{
		HierarchyInput:  in.HierarchyInput,
		MilanShakaBhaga: in.MilanShakaBhaga,
		ValayaNagar:     in.ValayaNagar,
		KhandaBhaga:     in.KhandaBhaga,
	}
	normalizeLegacyHierarchy(&legacy)

	set := bson.M{"updated_at": time.Now()}
	if in.Username != "" {
		set["username"] = in.Username
	}
	setHierarchyFields(set, legacy.HierarchyInput)

	updated, err := s.users.ApplyPatch(ctx, id, set, nil)
	if err != nil {
		return models.User{}, err
	}
	updated.Password = ""
	return updated, nil
}

// Delete removes a user record. The only blocked case is an admin
// deleting their own account; deleting other admins is allowed.
func (s *UserService) Delete(ctx context.Context, requesterID string, targetID primitive.ObjectID) error {
	if requesterID == targetID.Hex() {
		return apperrors.SelfDeletion()
	}
	return s.users.Delete(ctx, targetID)
}

func (s *UserService) Get(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return models.User{}, err
	}
	user.Password = ""
	return user, nil
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	for i := range users {
		users[i].Password = ""
	}
	return users, nil
}

// SplitSkills normalizes a comma-separated skills string into a trimmed
// list, preserving order and dropping empty entries.
func SplitSkills(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	skills := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			skills = append(skills, trimmed)
		}
	}
	if len(skills) == 0 {
		return nil
	}
	return skills
}

// normalizeLegacyHierarchy maps the old update-form field names onto the
// canonical ones. Canonical fields win when both are present.
func normalizeLegacyHierarchy(in *UpdateUserInput) {
	if in.Milan == "" {
		in.Milan = in.MilanShakaBhaga
	}
	if in.Valaya == "" {
		in.Valaya = in.ValayaNagar
	}
	if in.Khanda == "" {
		in.Khanda = in.KhandaBhaga
	}
}

func setHierarchyFields(set bson.M, h HierarchyInput) {
	if h.Milan != "" {
		set["milan"] = h.Milan
	}
	if h.Valaya != "" {
		set["valaya"] = h.Valaya
	}
	if h.Khanda != "" {
		set["khanda"] = h.Khanda
	}
	if h.Vibhaaga != "" {
		set["vibhaaga"] = h.Vibhaaga
	}
	if h.Ghata != "" {
		set["ghata"] = h.Ghata
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func generateTempPassword() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate temporary password: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
