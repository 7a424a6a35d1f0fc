package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/rojgarsetu/backend/internal/apperrors"
	"github.com/rojgarsetu/backend/internal/mailer"
	"github.com/rojgarsetu/backend/internal/models"
	"github.com/rojgarsetu/backend/internal/utils"
	"github.com/rojgarsetu/backend/internal/validation"
)

const defaultReferralValidityDays = 7

// ReferralService issues and redeems admin-generated referral codes.
type ReferralService struct {
	codes    ReferralStore
	mail     mailer.Sender
	logger   *zap.Logger
	siteName string
}

func NewReferralService(codes ReferralStore, mail mailer.Sender, logger *zap.Logger, siteName string) *ReferralService {
	return &ReferralService{codes: codes, mail: mail, logger: logger, siteName: siteName}
}

// ReferralCodeView is a code plus its derived four-way status.
type ReferralCodeView struct {
	models.ReferralCode
	Status string `json:"status"`
}

type issueInput struct {
	Email string `json:"candidateEmail" validate:"required,email"`
}

// Issue creates a code for the candidate email and mails it out. The
// email is best-effort; a delivery failure never voids the code.
func (s *ReferralService) Issue(ctx context.Context, issuedBy primitive.ObjectID, candidateEmail string, validDays int) (models.ReferralCode, error) {
	if err := validation.Validate(issueInput{Email: candidateEmail}); err != nil {
		return models.ReferralCode{}, apperrors.Validation(err.Error())
	}
	if validDays <= 0 {
		validDays = defaultReferralValidityDays
	}

	now := time.Now()
	code := models.ReferralCode{
		ID:             primitive.NewObjectID(),
		Code:           uuid.NewString(),
		CandidateEmail: candidateEmail,
		IssuedBy:       issuedBy,
		ExpiresAt:      now.AddDate(0, 0, validDays),
		CreatedAt:      now,
	}
	if err := s.codes.Insert(ctx, code); err != nil {
		return models.ReferralCode{}, apperrors.Internal(err)
	}

	email := mailer.BuildReferralEmail(mailer.ReferralEmailData{
		SiteName:  s.siteName,
		Email:     candidateEmail,
		Code:      code.Code,
		ExpiresOn: code.ExpiresAt.Format("2 Jan 2006"),
	})
	if err := s.mail.Send(ctx, email); err != nil {
		s.logger.Warn("failed to send referral email",
			zap.String("email", candidateEmail),
			zap.Error(err))
	}

	return code, nil
}

// IssueBatch issues codes for several candidates in parallel. Results
// are returned per email; errors keep their position.
func (s *ReferralService) IssueBatch(ctx context.Context, issuedBy primitive.ObjectID, emails []string, validDays int) ([]models.ReferralCode, []error) {
	tasks := make([]utils.ParallelTask, len(emails))
	for i, email := range emails {
		candidate := email
		tasks[i] = func() (interface{}, error) {
			code, err := s.Issue(ctx, issuedBy, candidate, validDays)
			if err != nil {
				return nil, fmt.Errorf("error for %s: %w", candidate, err)
			}
			return code, nil
		}
	}

	results, errs := utils.RunParallelTasks(tasks)

	codes := make([]models.ReferralCode, 0, len(results))
	failures := make([]error, 0)
	for i, result := range results {
		if errs[i] != nil {
			failures = append(failures, errs[i])
			continue
		}
		codes = append(codes, result.(models.ReferralCode))
	}
	return codes, failures
}

// List returns all codes with their status derived at call time.
func (s *ReferralService) List(ctx context.Context) ([]ReferralCodeView, error) {
	codes, err := s.codes.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	now := time.Now()
	views := make([]ReferralCodeView, len(codes))
	for i, code := range codes {
		views[i] = ReferralCodeView{ReferralCode: code, Status: code.StatusAt(now)}
	}
	return views, nil
}

// Redeem marks an unused, unexpired code as used. The flip is atomic at
// the storage layer, so a concurrent second redemption loses.
func (s *ReferralService) Redeem(ctx context.Context, code string) (models.ReferralCode, error) {
	existing, err := s.codes.FindByCode(ctx, code)
	if err != nil {
		return models.ReferralCode{}, err
	}
	if existing.IsUsed {
		return models.ReferralCode{}, apperrors.Validation("referral code has already been used")
	}
	if time.Now().After(existing.ExpiresAt) {
		return models.ReferralCode{}, apperrors.Validation("referral code has expired")
	}

	used, err := s.codes.MarkUsed(ctx, code, time.Now())
	if err != nil {
		// Lost the race to a concurrent redemption.
		if _, ok := err.(*apperrors.AppError); ok {
			return models.ReferralCode{}, apperrors.Validation("referral code has already been used")
		}
		return models.ReferralCode{}, apperrors.Internal(err)
	}
	return used, nil
}
