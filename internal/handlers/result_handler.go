package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/cv-screener/internal/models"
	"alfredoptarigan/cv-screener/internal/services"
)

const defaultResultLimit = 50

type ResultHandler struct {
	screeningService services.ScreeningService
}

func NewResultHandler(screeningService services.ScreeningService) *ResultHandler {
	return &ResultHandler{
		screeningService: screeningService,
	}
}

// HandleGetResults handles GET /results/:job_id
func (h *ResultHandler) HandleGetResults(c *fiber.Ctx) error {
	jobID := c.Params("job_id")
	if jobID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "job_id is required",
		})
	}

	limit := c.QueryInt("limit", defaultResultLimit)
	if limit <= 0 {
		limit = defaultResultLimit
	}

	records, err := h.screeningService.Results(c.UserContext(), jobID, limit)
	if err != nil {
		if errors.Is(err, services.ErrResultsDisabled) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "Result store is not enabled",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load results",
		})
	}

	return c.JSON(models.ResultsResponse{
		JobID:   jobID,
		Results: records,
	})
}

// HandleGetBatch handles GET /batches/:batch_id
func (h *ResultHandler) HandleGetBatch(c *fiber.Ctx) error {
	batchID, err := uuid.Parse(c.Params("batch_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid batch ID",
		})
	}

	records, err := h.screeningService.BatchResults(c.UserContext(), batchID)
	if err != nil {
		if errors.Is(err, services.ErrResultsDisabled) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "Result store is not enabled",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load results",
		})
	}
	if len(records) == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Batch not found",
		})
	}

	return c.JSON(models.BatchResultsResponse{
		BatchID: batchID.String(),
		Results: records,
	})
}

// HandleListJobs handles GET /jobs
func (h *ResultHandler) HandleListJobs(c *fiber.Ctx) error {
	jobs := h.screeningService.Jobs()

	response := make([]models.JobResponse, 0, len(jobs))
	for _, job := range jobs {
		response = append(response, models.JobResponse{
			JobID:          job.JobID,
			RequiredSkills: job.RequiredSkills,
		})
	}
	return c.JSON(response)
}
