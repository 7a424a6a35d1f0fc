package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rojgarsetu/backend/internal/services"
)

type ReferralHandler struct {
	referrals *services.ReferralService
}

func NewReferralHandler(referrals *services.ReferralService) *ReferralHandler {
	return &ReferralHandler{referrals: referrals}
}

func (h *ReferralHandler) Issue(c *fiber.Ctx) error {
	issuerID, ok := requesterID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token payload"})
	}

	var request struct {
		CandidateEmail string `json:"candidateEmail"`
		ValidDays      int    `json:"validDays"`
	}
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	code, err := h.referrals.Issue(c.Context(), issuerID, request.CandidateEmail, request.ValidDays)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Referral code issued",
		"code":    code,
	})
}

func (h *ReferralHandler) IssueBatch(c *fiber.Ctx) error {
	issuerID, ok := requesterID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token payload"})
	}

	var request struct {
		CandidateEmails []string `json:"candidateEmails"`
		ValidDays       int      `json:"validDays"`
	}
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if len(request.CandidateEmails) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "candidateEmails must not be empty"})
	}

	codes, errs := h.referrals.IssueBatch(c.Context(), issuerID, request.CandidateEmails, request.ValidDays)
	failures := make([]string, len(errs))
	for i, err := range errs {
		failures[i] = err.Error()
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"codes":  codes,
		"errors": failures,
	})
}

func (h *ReferralHandler) List(c *fiber.Ctx) error {
	codes, err := h.referrals.List(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(codes)
}

func (h *ReferralHandler) Redeem(c *fiber.Ctx) error {
	var request struct {
		Code string `json:"code"`
	}
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	code, err := h.referrals.Redeem(c.Context(), request.Code)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Referral code redeemed",
		"code":    code,
	})
}
