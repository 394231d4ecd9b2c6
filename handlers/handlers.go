package handlers

import (
	"time"

	"github.com/dali/life-analytics-srv/calendar"
	"github.com/dali/life-analytics-srv/store"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Timestamps on the wire are zone-naive, matching the non-timezone-qualified
// feed export. RFC 3339 input is also accepted.
const timeLayout = "2006-01-02T15:04:05"

type Handlers struct {
	Logger   *zap.Logger
	Events   store.EventStore
	Exams    store.ExamStore
	Courses  store.CourseStore
	Calendar *calendar.Service
	Importer *calendar.Importer
}

func parseTimestamp(value string) (time.Time, error) {
	if t, err := time.ParseInLocation(timeLayout, value, time.Local); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

// queryTime parses a required timestamp query parameter.
func queryTime(c *fiber.Ctx, name string) (time.Time, error) {
	value := c.Query(name)
	if value == "" {
		return time.Time{}, fiber.NewError(fiber.StatusBadRequest, name+" is required")
	}
	t, err := parseTimestamp(value)
	if err != nil {
		return time.Time{}, fiber.NewError(fiber.StatusBadRequest, "invalid "+name+": "+value)
	}
	return t, nil
}

// storeErr maps store errors onto HTTP responses.
func storeErr(c *fiber.Ctx, err error) error {
	if store.IsNotFound(err) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}
