package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/rojgarsetu/backend/internal/middleware"
	"github.com/rojgarsetu/backend/internal/services"
)

type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// Create handles admin creation of accounts for any role.
func (h *UserHandler) Create(c *fiber.Ctx) error {
	var request services.CreateUserInput
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	claims := middleware.CurrentClaims(c)
	user, err := h.users.Create(c.Context(), claims.Role, claims.IsSuperAdmin, request)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User created successfully",
		"user":    user,
	})
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := h.users.List(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(users)
}

func (h *UserHandler) Get(c *fiber.Ctx) error {
	id, err := parseObjectID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	user, err := h.users.Get(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

func (h *UserHandler) Update(c *fiber.Ctx) error {
	id, err := parseObjectID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var request services.UpdateUserInput
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	user, err := h.users.Update(c.Context(), id, request)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "User updated successfully",
		"user":    user,
	})
}

func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, err := parseObjectID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	claims := middleware.CurrentClaims(c)
	if err := h.users.Delete(c.Context(), claims.UserID, id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "User deleted successfully"})
}

// GetProfile returns the authenticated user's own record.
func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	claims := middleware.CurrentClaims(c)
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token payload"})
	}

	user, err := h.users.Get(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// UpdateProfile applies the self-service subset of edits.
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	claims := middleware.CurrentClaims(c)
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token payload"})
	}

	var request services.ProfileInput
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	user, err := h.users.UpdateProfile(c.Context(), id, request)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Profile updated successfully",
		"user":    user,
	})
}
