package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rojgarsetu/backend/internal/services"
)

type LogoHandler struct {
	logos *services.LogoService
}

func NewLogoHandler(logos *services.LogoService) *LogoHandler {
	return &LogoHandler{logos: logos}
}

// Upload replaces the authenticated poster's company logo.
func (h *LogoHandler) Upload(c *fiber.Ctx) error {
	posterID, ok := requesterID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token payload"})
	}

	fileHeader, err := c.FormFile("logo")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "failed to retrieve file"})
	}
	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "failed to open file"})
	}
	defer file.Close()

	user, err := h.logos.Upload(c.Context(), posterID, fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"), fileHeader.Size, file)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Logo uploaded successfully",
		"user":    user,
	})
}

// URL returns a presigned download link for a poster's logo.
func (h *LogoHandler) URL(c *fiber.Ctx) error {
	userID, err := parseObjectID(c, "userid")
	if err != nil {
		return respondError(c, err)
	}

	url, err := h.logos.URL(c.Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"url": url})
}
