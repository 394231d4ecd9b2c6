package handlers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dali/life-analytics-srv/types"
	"github.com/gofiber/fiber/v2"
)

type courseRequest struct {
	Name        string `json:"name"`
	Code        string `json:"code"`
	Description string `json:"description"`
	Credits     *int   `json:"credits"`
	Instructor  string `json:"instructor"`
	Semester    string `json:"semester"`
}

type examRequest struct {
	Title           string   `json:"title"`
	DateTime        string   `json:"dateTime"`
	Location        string   `json:"location"`
	Description     string   `json:"description"`
	Weight          *float64 `json:"weight"`
	DurationMinutes *int     `json:"durationMinutes"`
}

func (r *examRequest) toExam() (*types.Exam, error) {
	if strings.TrimSpace(r.Title) == "" {
		return nil, errors.New("title is required")
	}
	if r.DateTime == "" {
		return nil, errors.New("dateTime is required")
	}
	dateTime, err := parseTimestamp(r.DateTime)
	if err != nil {
		return nil, fmt.Errorf("invalid dateTime: %s", r.DateTime)
	}
	return &types.Exam{
		Title:           r.Title,
		DateTime:        dateTime,
		Location:        r.Location,
		Description:     r.Description,
		Weight:          r.Weight,
		DurationMinutes: r.DurationMinutes,
	}, nil
}

func (h Handlers) CreateCourse(c *fiber.Ctx) error {
	var req courseRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err.Error())
	}
	if strings.TrimSpace(req.Name) == "" {
		return badRequest(c, "name is required")
	}

	created, err := h.Courses.CreateCourse(&types.Course{
		Name:        req.Name,
		Code:        req.Code,
		Description: req.Description,
		Credits:     req.Credits,
		Instructor:  req.Instructor,
		Semester:    req.Semester,
	})
	if err != nil {
		return storeErr(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h Handlers) ListCourses(c *fiber.Ctx) error {
	courses, err := h.Courses.FindAllCourses()
	if err != nil {
		return storeErr(c, err)
	}
	return c.JSON(courses)
}

func (h Handlers) CreateExam(c *fiber.Ctx) error {
	courseID, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "invalid course id")
	}
	var req examRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err.Error())
	}
	exam, err := req.toExam()
	if err != nil {
		return badRequest(c, err.Error())
	}

	created, err := h.Exams.CreateExam(int64(courseID), exam)
	if err != nil {
		return storeErr(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h Handlers) ExamsByRange(c *fiber.Ctx) error {
	start, err := queryTime(c, "start")
	if err != nil {
		return err
	}
	end, err := queryTime(c, "end")
	if err != nil {
		return err
	}
	exams, err := h.Exams.FindExamsByRange(start, end)
	if err != nil {
		return storeErr(c, err)
	}
	return c.JSON(exams)
}

func (h Handlers) UpcomingExams(c *fiber.Ctx) error {
	exams, err := h.Exams.FindUpcomingExams(time.Now())
	if err != nil {
		return storeErr(c, err)
	}
	return c.JSON(exams)
}
