// Package api exposes message previews and schedule management over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"club-notifier/storage"
	"club-notifier/summary"
	"club-notifier/template"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Store interface {
	ListSchedules(ctx context.Context) ([]*storage.Schedule, error)
	SaveSchedule(ctx context.Context, sched *storage.Schedule) error
	DeleteSchedule(ctx context.Context, id string) error
}

type Controller struct {
	Store         Store
	DefaultOffset int
}

// NewApp builds the fiber app with all routes registered.
func NewApp(store Store, defaultOffset int) *fiber.App {
	ctrl := &Controller{Store: store, DefaultOffset: defaultOffset}

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Post("/preview", ctrl.Preview)

	schedules := app.Group("/schedules")
	schedules.Get("/", ctrl.ListSchedules)
	schedules.Post("/", ctrl.CreateSchedule)
	schedules.Delete("/:id", ctrl.DeleteSchedule)

	return app
}

type PreviewRequest struct {
	Category       summary.Category `json:"category"`
	Variant        string           `json:"variant"`
	Target         summary.Target   `json:"target"`
	Timezone       string           `json:"timezone"`
	OffsetMinutes  *int             `json:"offset_minutes"`
	EventID        string           `json:"event_id"`
	Template       string           `json:"template"`
	MessageContent string           `json:"message_content"`
	ClubName       string           `json:"club_name"`
	Sport          string           `json:"sport"`
	Date           string           `json:"date"` // YYYY-MM-DD, optional
	Data           json.RawMessage  `json:"data"`
}

type PreviewResponse struct {
	Summary string `json:"summary"`
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// Preview summarizes the posted payload and compiles the template. Nothing
// is fetched or stored.
func (ctrl *Controller) Preview(c *fiber.Ctx) error {
	var req PreviewRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid payload: "+err.Error())
	}

	var date time.Time
	if req.Date != "" {
		d, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return fail(c, fiber.StatusBadRequest, "date must be YYYY-MM-DD")
		}
		date = d
	}

	if req.Category == summary.CategoryUnknown {
		return fail(c, fiber.StatusBadRequest, "category is required")
	}

	offset := ctrl.DefaultOffset
	if req.OffsetMinutes != nil {
		offset = *req.OffsetMinutes
	}

	res := summary.Build(summary.Request{
		Category:      req.Category,
		Data:          req.Data,
		Variant:       req.Variant,
		Target:        req.Target,
		Timezone:      req.Timezone,
		OffsetMinutes: offset,
		EventID:       req.EventID,
	})

	message := res.Summary
	if req.Template != "" {
		tctx := template.Context{
			Summary:  res.Summary,
			ClubName: req.ClubName,
			Date:     date,
			Sport:    req.Sport,
			Count:    res.Count,
		}
		tctx.MessageContent = template.Compile(req.MessageContent, tctx.Tokens())
		message = template.Compile(req.Template, tctx.Tokens())
	}

	return c.JSON(PreviewResponse{Summary: res.Summary, Message: message, Count: res.Count})
}

func (ctrl *Controller) ListSchedules(c *fiber.Ctx) error {
	scheds, err := ctrl.Store.ListSchedules(c.UserContext())
	if err != nil {
		log.Printf("⚠️ Error fetching schedules: %v", err)
		return fail(c, fiber.StatusInternalServerError, "Could not load schedules")
	}
	return success(c, fiber.StatusOK, "ok", scheds)
}

// CreateSchedule stores a new schedule under a fresh uuid.
func (ctrl *Controller) CreateSchedule(c *fiber.Ctx) error {
	var sched storage.Schedule
	if err := c.BodyParser(&sched); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid payload: "+err.Error())
	}
	sched.ID = uuid.NewString()

	if err := sched.Validate(); err != nil {
		return validationError(c, err)
	}
	if err := ctrl.Store.SaveSchedule(c.UserContext(), &sched); err != nil {
		log.Printf("⚠️ Error saving schedule: %v", err)
		return fail(c, fiber.StatusInternalServerError, "Could not save schedule")
	}

	log.Printf("✅ Schedule %s created (%s, %s at %s)", sched.ID, sched.Category, sched.ClubName, sched.SendAt)
	return success(c, fiber.StatusCreated, "Schedule created", sched)
}

func (ctrl *Controller) DeleteSchedule(c *fiber.Ctx) error {
	id := c.Params("id")
	err := ctrl.Store.DeleteSchedule(c.UserContext(), id)
	if errors.Is(err, storage.ErrNotFound) {
		return fail(c, fiber.StatusNotFound, "Schedule not found")
	}
	if err != nil {
		log.Printf("⚠️ Error deleting schedule %s: %v", id, err)
		return fail(c, fiber.StatusInternalServerError, "Could not delete schedule")
	}
	return success(c, fiber.StatusOK, "Schedule deleted", fiber.Map{"id": id})
}
