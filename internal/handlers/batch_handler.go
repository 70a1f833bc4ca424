package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/cv-screener/internal/models"
	"alfredoptarigan/cv-screener/internal/services"
)

type BatchHandler struct {
	screeningService services.ScreeningService
}

func NewBatchHandler(screeningService services.ScreeningService) *BatchHandler {
	return &BatchHandler{
		screeningService: screeningService,
	}
}

// HandleProcessCVs handles POST /process_cvs
func (h *BatchHandler) HandleProcessCVs(c *fiber.Ctx) error {
	outcome, err := h.screeningService.RunBatch(c.UserContext())
	switch {
	case errors.Is(err, services.ErrNoSubmissions):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No candidates found in sheet",
		})
	case errors.Is(err, services.ErrSourceUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Submission sheet is not configured",
		})
	case err != nil:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	excluded := make([]string, 0, len(outcome.Shortlist.Excluded()))
	for _, r := range outcome.Shortlist.Excluded() {
		excluded = append(excluded, r.CandidateName)
	}

	return c.JSON(models.BatchResponse{
		BatchID:   outcome.BatchID.String(),
		Records:   outcome.Records,
		Shortlist: outcome.Shortlist.All(),
		Excluded:  excluded,
	})
}
