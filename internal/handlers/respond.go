package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/rojgarsetu/backend/internal/apperrors"
)

// respondError maps an application error onto its HTTP status.
func respondError(c *fiber.Ctx, err error) error {
	status, message := apperrors.Status(err)
	return c.Status(status).JSON(fiber.Map{"error": message})
}

func parseObjectID(c *fiber.Ctx, param string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Params(param))
	if err != nil {
		return primitive.NilObjectID, apperrors.Validation("invalid id format")
	}
	return id, nil
}
