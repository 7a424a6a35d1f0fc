package handlers

import (
	"bytes"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/rojgarsetu/backend/internal/middleware"
	"github.com/rojgarsetu/backend/internal/services"
)

type ResumeHandler struct {
	resumes *services.ResumeService
}

func NewResumeHandler(resumes *services.ResumeService) *ResumeHandler {
	return &ResumeHandler{resumes: resumes}
}

// Upload stores the multipart "resume" file for the authenticated seeker.
func (h *ResumeHandler) Upload(c *fiber.Ctx) error {
	seekerID, ok := requesterID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token payload"})
	}

	fileHeader, err := c.FormFile("resume")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "failed to retrieve file"})
	}
	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "failed to open file"})
	}
	defer file.Close()

	user, err := h.resumes.Upload(c.Context(), seekerID, fileHeader.Filename, file)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Resume uploaded successfully",
		"user":    user,
	})
}

// Download streams a stored resume back to its owner or an admin.
func (h *ResumeHandler) Download(c *fiber.Ctx) error {
	userID, err := parseObjectID(c, "userid")
	if err != nil {
		return respondError(c, err)
	}

	claims := middleware.CurrentClaims(c)
	var buf bytes.Buffer
	filename, err := h.resumes.Download(c.Context(), claims.UserID, claims.Role, userID, &buf)
	if err != nil {
		return respondError(c, err)
	}

	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	c.Set(fiber.HeaderContentType, fiber.MIMEOctetStream)
	return c.Send(buf.Bytes())
}
