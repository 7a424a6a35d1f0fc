package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/rojgarsetu/backend/internal/middleware"
	"github.com/rojgarsetu/backend/internal/services"
)

type JobHandler struct {
	jobs *services.JobService
}

func NewJobHandler(jobs *services.JobService) *JobHandler {
	return &JobHandler{jobs: jobs}
}

func requesterID(c *fiber.Ctx) (primitive.ObjectID, bool) {
	claims := middleware.CurrentClaims(c)
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	return id, err == nil
}

func (h *JobHandler) Create(c *fiber.Ctx) error {
	posterID, ok := requesterID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token payload"})
	}

	var request services.JobInput
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	job, err := h.jobs.Create(c.Context(), posterID, request)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Job posted successfully",
		"job":     job,
	})
}

func (h *JobHandler) ListOpen(c *fiber.Ctx) error {
	jobs, err := h.jobs.ListOpen(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(jobs)
}

func (h *JobHandler) ListMine(c *fiber.Ctx) error {
	posterID, ok := requesterID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token payload"})
	}

	jobs, err := h.jobs.ListByPoster(c.Context(), posterID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(jobs)
}

func (h *JobHandler) Get(c *fiber.Ctx) error {
	jobID, err := parseObjectID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	job, err := h.jobs.Get(c.Context(), jobID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(job)
}

func (h *JobHandler) Update(c *fiber.Ctx) error {
	jobID, err := parseObjectID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	posterID, ok := requesterID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token payload"})
	}

	var request services.JobInput
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	job, err := h.jobs.Update(c.Context(), posterID, jobID, request)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Job updated successfully",
		"job":     job,
	})
}

func (h *JobHandler) Close(c *fiber.Ctx) error {
	jobID, err := parseObjectID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	posterID, ok := requesterID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token payload"})
	}

	job, err := h.jobs.Close(c.Context(), posterID, jobID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Job closed successfully",
		"job":     job,
	})
}

func (h *JobHandler) Delete(c *fiber.Ctx) error {
	jobID, err := parseObjectID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	id, ok := requesterID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token payload"})
	}

	claims := middleware.CurrentClaims(c)
	if err := h.jobs.Delete(c.Context(), id, claims.Role, jobID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Job deleted successfully"})
}

func (h *JobHandler) Apply(c *fiber.Ctx) error {
	jobID, err := parseObjectID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	seekerID, ok := requesterID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token payload"})
	}

	application, err := h.jobs.Apply(c.Context(), seekerID, jobID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":     "Application submitted successfully",
		"application": application,
	})
}

func (h *JobHandler) ListApplicants(c *fiber.Ctx) error {
	jobID, err := parseObjectID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	posterID, ok := requesterID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token payload"})
	}

	applications, err := h.jobs.ListApplicants(c.Context(), posterID, jobID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(applications)
}

func (h *JobHandler) UpdateApplication(c *fiber.Ctx) error {
	applicationID, err := parseObjectID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	posterID, ok := requesterID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token payload"})
	}

	var request struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := h.jobs.SetApplicationStatus(c.Context(), posterID, applicationID, request.Status); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Application updated successfully"})
}
