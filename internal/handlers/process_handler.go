package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/cv-screener/internal/models"
	"alfredoptarigan/cv-screener/internal/services"
)

type ProcessHandler struct {
	screeningService services.ScreeningService
	storageService   services.StorageService
	maxFileSize      int64
}

func NewProcessHandler(
	screeningService services.ScreeningService,
	storageService services.StorageService,
	maxFileSize int64,
) *ProcessHandler {
	return &ProcessHandler{
		screeningService: screeningService,
		storageService:   storageService,
		maxFileSize:      maxFileSize,
	}
}

// HandleProcess handles POST /process
func (h *ProcessHandler) HandleProcess(c *fiber.Ctx) error {
	jobID := c.FormValue("job_id")
	cvFile, err := c.FormFile("cv_file")
	if err != nil || jobID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing job ID or CV file",
		})
	}

	if h.maxFileSize > 0 && cvFile.Size > h.maxFileSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("CV file too large. Max size: %d bytes", h.maxFileSize),
		})
	}

	filename, filePath, err := h.storageService.SaveFile(cvFile, "upload")
	if err != nil {
		if errors.Is(err, services.ErrUnsupportedFileType) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Unsupported file type. Please upload a PDF, DOCX or TXT file.",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to save CV file: %v", err),
		})
	}
	// The upload is a working copy; shortlisted files are placed separately.
	defer h.storageService.DeleteFile(filename)

	outcome, err := h.screeningService.ScoreFile(c.UserContext(), services.FileRequest{
		Name:     c.FormValue("name"),
		JobID:    jobID,
		Path:     filePath,
		Filename: cvFile.Filename,
	})
	switch {
	case errors.Is(err, services.ErrMissingField):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	case err != nil:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to score CV: %v", err),
		})
	}

	status := "success"
	if outcome.Result.Failed() {
		status = "failed"
	}

	return c.JSON(models.ProcessResponse{
		Record:        outcome.Record,
		Status:        status,
		ShortlistFile: outcome.ShortlistFile,
	})
}
