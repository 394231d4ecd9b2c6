package handlers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dali/life-analytics-srv/types"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type eventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Location    string `json:"location"`
	AllDay      bool   `json:"allDay"`
	Notes       string `json:"notes"`
}

func (r *eventRequest) toEvent() (*types.CalendarEvent, error) {
	if strings.TrimSpace(r.Title) == "" {
		return nil, errors.New("title is required")
	}
	if r.StartTime == "" {
		return nil, errors.New("startTime is required")
	}
	start, err := parseTimestamp(r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("invalid startTime: %s", r.StartTime)
	}

	event := &types.CalendarEvent{
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		StartTime:   start,
		Location:    r.Location,
		AllDay:      r.AllDay,
		Notes:       r.Notes,
	}
	if r.EndTime != "" {
		end, err := parseTimestamp(r.EndTime)
		if err != nil {
			return nil, fmt.Errorf("invalid endTime: %s", r.EndTime)
		}
		event.EndTime = &end
	}
	return event, nil
}

func (h Handlers) CreateEvent(c *fiber.Ctx) error {
	var req eventRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err.Error())
	}
	event, err := req.toEvent()
	if err != nil {
		return badRequest(c, err.Error())
	}

	created, err := h.Events.CreateEvent(event)
	if err != nil {
		return storeErr(c, err)
	}
	h.Logger.Info("CreateEvent", zap.Int64("id", created.ID), zap.String("title", created.Title))
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h Handlers) ListEvents(c *fiber.Ctx) error {
	events, err := h.Events.FindAllEvents()
	if err != nil {
		return storeErr(c, err)
	}
	return c.JSON(events)
}

func (h Handlers) GetEvent(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "invalid event id")
	}
	event, err := h.Events.FindEventByID(int64(id))
	if err != nil {
		return storeErr(c, err)
	}
	return c.JSON(event)
}

func (h Handlers) UpdateEvent(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "invalid event id")
	}
	var req eventRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err.Error())
	}
	event, err := req.toEvent()
	if err != nil {
		return badRequest(c, err.Error())
	}

	updated, err := h.Events.UpdateEvent(int64(id), event)
	if err != nil {
		return storeErr(c, err)
	}
	return c.JSON(updated)
}

func (h Handlers) DeleteEvent(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "invalid event id")
	}
	if err := h.Events.DeleteEvent(int64(id)); err != nil {
		return storeErr(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h Handlers) CompleteEvent(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "invalid event id")
	}
	event, err := h.Events.CompleteEvent(int64(id))
	if err != nil {
		return storeErr(c, err)
	}
	return c.JSON(event)
}

func (h Handlers) TodayEvents(c *fiber.Ctx) error {
	events, err := h.Events.FindEventsToday()
	if err != nil {
		return storeErr(c, err)
	}
	return c.JSON(events)
}

func (h Handlers) UpcomingEvents(c *fiber.Ctx) error {
	days := c.QueryInt("days", 7)
	if days < 1 {
		return badRequest(c, "days must be positive")
	}
	now := time.Now()
	events, err := h.Events.FindUpcomingEvents(now, now.AddDate(0, 0, days))
	if err != nil {
		return storeErr(c, err)
	}
	return c.JSON(events)
}

func (h Handlers) EventsByRange(c *fiber.Ctx) error {
	start, err := queryTime(c, "start")
	if err != nil {
		return err
	}
	end, err := queryTime(c, "end")
	if err != nil {
		return err
	}
	events, err := h.Events.FindEventsByRange(start, end)
	if err != nil {
		return storeErr(c, err)
	}
	return c.JSON(events)
}

func (h Handlers) EventsByCategory(c *fiber.Ctx) error {
	events, err := h.Events.FindEventsByCategory(c.Params("category"))
	if err != nil {
		return storeErr(c, err)
	}
	return c.JSON(events)
}

func (h Handlers) SearchEvents(c *fiber.Ctx) error {
	q := c.Query("q")
	if q == "" {
		return badRequest(c, "q is required")
	}
	events, err := h.Events.SearchEvents(q)
	if err != nil {
		return storeErr(c, err)
	}
	return c.JSON(events)
}

// ExportCalendar serves the merged event/exam feed as a downloadable ICS
// document.
func (h Handlers) ExportCalendar(c *fiber.Ctx) error {
	start, err := queryTime(c, "start")
	if err != nil {
		return err
	}
	end, err := queryTime(c, "end")
	if err != nil {
		return err
	}
	includeExams := c.QueryBool("includeExams", true)

	feed, err := h.Calendar.ExportFeed(start, end, includeExams)
	if err != nil {
		return storeErr(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/calendar; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename=life-analytics-events.ics`)
	return c.SendString(feed)
}

// CheckConflicts returns 409 with the structured result when the requested
// window collides with stored events, 200 otherwise.
func (h Handlers) CheckConflicts(c *fiber.Ctx) error {
	start, err := queryTime(c, "startTime")
	if err != nil {
		return err
	}
	end, err := queryTime(c, "endTime")
	if err != nil {
		return err
	}

	result, err := h.Calendar.CheckConflicts(start, end)
	if err != nil {
		return storeErr(c, err)
	}
	if result.HasConflict {
		return c.Status(fiber.StatusConflict).JSON(result)
	}
	return c.JSON(result)
}

// SafeCreateEvent creates the event only when its window is conflict-free;
// otherwise the ConflictResult is returned with 409.
func (h Handlers) SafeCreateEvent(c *fiber.Ctx) error {
	var req eventRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err.Error())
	}
	event, err := req.toEvent()
	if err != nil {
		return badRequest(c, err.Error())
	}

	created, conflicts, err := h.Calendar.CreateIfFree(event)
	if err != nil {
		return storeErr(c, err)
	}
	if conflicts != nil {
		return c.Status(fiber.StatusConflict).JSON(conflicts)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// ImportFeed ingests an external ICS feed into the event store.
func (h Handlers) ImportFeed(c *fiber.Ctx) error {
	var req types.ImportRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err.Error())
	}
	if req.ICSUrl == "" {
		return badRequest(c, "icsUrl is required")
	}

	h.Logger.Info("ImportFeed", zap.String("url", req.ICSUrl))

	created, err := h.Importer.Import(req.ICSUrl, time.Time{}, time.Time{})
	if err != nil {
		return badRequest(c, err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}
