package main

import (
	"errors"
	"log"
	"os"
	"syscall"
	"time"

	cal "github.com/dali/life-analytics-srv/calendar"
	h "github.com/dali/life-analytics-srv/handlers"
	"github.com/dali/life-analytics-srv/pkg/config"
	"github.com/dali/life-analytics-srv/store"
	"github.com/gofiber/contrib/fiberzap/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var cfg *config.Config

var serverCmd = &cobra.Command{
	Use:   "life-srv",
	Short: "Run the life analytics calendar server",
	Run: func(cmd *cobra.Command, args []string) {
		app := fiber.New()
		logger, _ := zap.NewProduction()
		if cfg.Debug {
			logger, _ = zap.NewDevelopment()
		}
		fiberLogger := fiberzap.New(fiberzap.Config{
			Logger: logger,
		})
		fiberLimiter := limiter.New(limiter.Config{
			Next: func(c *fiber.Ctx) bool {
				return c.IP() == "127.0.0.1"
			},
			Max:        20,
			Expiration: 30 * time.Second,
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.Get("x-forwarded-for")
			},
			LimitReached: func(c *fiber.Ctx) error {
				return c.JSON(fiber.Map{
					"error": "Too many requests",
				})
			},
		})

		app.Use(fiberLimiter)
		app.Use(fiberLogger)

		mem := store.NewMemory()
		calendarSvc := &cal.Service{
			Logger: logger,
			Events: mem,
			Exams:  mem,
		}
		importer := &cal.Importer{
			Logger: logger,
			Events: mem,
		}
		handlers := h.Handlers{
			Logger:   logger,
			Events:   mem,
			Exams:    mem,
			Courses:  mem,
			Calendar: calendarSvc,
			Importer: importer,
		}

		app.Get("/", handlers.RootHandler)

		events := app.Group("/api/events")
		events.Post("/", handlers.CreateEvent)
		events.Get("/", handlers.ListEvents)
		events.Get("/today", handlers.TodayEvents)
		events.Get("/upcoming", handlers.UpcomingEvents)
		events.Get("/range", handlers.EventsByRange)
		events.Get("/search", handlers.SearchEvents)
		events.Get("/export", handlers.ExportCalendar)
		events.Post("/check-conflicts", handlers.CheckConflicts)
		events.Post("/safe", handlers.SafeCreateEvent)
		events.Post("/import", handlers.ImportFeed)
		events.Get("/category/:category", handlers.EventsByCategory)
		events.Get("/:id", handlers.GetEvent)
		events.Put("/:id", handlers.UpdateEvent)
		events.Delete("/:id", handlers.DeleteEvent)
		events.Post("/:id/complete", handlers.CompleteEvent)

		app.Post("/api/courses", handlers.CreateCourse)
		app.Get("/api/courses", handlers.ListCourses)
		app.Post("/api/courses/:id/exams", handlers.CreateExam)
		app.Get("/api/exams/range", handlers.ExamsByRange)
		app.Get("/api/exams/upcoming", handlers.UpcomingExams)

		defer func() {
			err := logger.Sync()
			if err != nil && !errors.Is(err, syscall.ENOTTY) {
				logger.Fatal(err.Error())
			}
		}()

		log.Fatal(app.Listen(":" + appConfig.Port))
	},
}

func init() {
	cfg = config.New(&config.Settings{ENVPrefix: "LIFE_SRV"})

	serverCmd.Flags().StringVarP(&appConfig.Port, "port", "p", appConfig.Port, "app server port")
	serverCmd.Flags().BoolVarP(&cfg.Debug, "debug", "d", cfg.Debug, "Debug Mode")
}

func main() {
	if err := cfg.Load(&appConfig, "config.yml"); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(-1)
	}

	if err := serverCmd.Execute(); err != nil {
		os.Stderr.WriteString(err.Error())
		os.Exit(-1)
	}
}
