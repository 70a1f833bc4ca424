package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Routes are the handlers mounted under /api/v1. Metrics may be nil.
type Routes struct {
	Process *ProcessHandler
	Batch   *BatchHandler
	Result  *ResultHandler
	Metrics http.Handler
}

// NewApp builds the fiber app with the shared middleware stack.
func NewApp(bodyLimit int64, requestLog bool) *fiber.App {
	cfg := fiber.Config{
		AppName:      "CV Screener API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
		ErrorHandler: ErrorHandler,
	}
	if bodyLimit > 0 {
		// leave room for the other multipart fields
		cfg.BodyLimit = int(bodyLimit) + 1<<20
	}
	app := fiber.New(cfg)

	app.Use(recover.New())
	if requestLog {
		app.Use(logger.New(logger.Config{
			Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
			TimeFormat: "2006-01-02 15:04:05",
		}))
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	return app
}

func (r Routes) Register(app *fiber.App) {
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	api.Post("/process", r.Process.HandleProcess)
	api.Post("/process_cvs", r.Batch.HandleProcessCVs)
	api.Get("/results/:job_id", r.Result.HandleGetResults)
	api.Get("/batches/:batch_id", r.Result.HandleGetBatch)
	api.Get("/jobs", r.Result.HandleListJobs)

	if r.Metrics != nil {
		api.Get("/metrics", adaptor.HTTPHandler(r.Metrics))
	}

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "CV Screener API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/process",
				"POST /api/v1/process_cvs",
				"GET /api/v1/results/:job_id",
				"GET /api/v1/batches/:batch_id",
				"GET /api/v1/jobs",
				"GET /api/v1/metrics",
			},
		})
	})
}

func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
