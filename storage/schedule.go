package storage

import (
	"slices"
	"time"

	"club-notifier/summary"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Schedule is one recurring WhatsApp send configured by an organization.
type Schedule struct {
	ID             string           `json:"id" validate:"required"`
	OrgID          string           `json:"org_id" validate:"required"`
	ClubName       string           `json:"club_name" validate:"required_without=ClubURL"`
	ClubURL        string           `json:"club_url" validate:"omitempty,url"`
	TenantID       string           `json:"tenant_id" validate:"required"`
	Sport          string           `json:"sport" validate:"omitempty,oneof=PADEL TENNIS PICKLEBALL"`
	Category       summary.Category `json:"category" validate:"required"`
	Variant        string           `json:"variant"`
	Target         summary.Target   `json:"target" validate:"omitempty,oneof=whatsapp image"`
	EventID        string           `json:"event_id"`
	Template       string           `json:"template" validate:"required"`
	MessageContent string           `json:"message_content"`
	Phone          string           `json:"phone" validate:"required"`
	SendAt         string           `json:"send_at" validate:"required,datetime=15:04"`
	Days           []string         `json:"days" validate:"required,min=1,dive,oneof=Mon Tue Wed Thu Fri Sat Sun"`
	OffsetMinutes  *int             `json:"offset_minutes,omitempty"` // nil: service default
	DayOffset      int              `json:"day_offset" validate:"min=0,max=7"`
	Timezone       string           `json:"timezone" validate:"omitempty,timezone"`
	Enabled        bool             `json:"enabled"`
}

func (s *Schedule) Validate() error {
	return validate.Struct(s)
}

// Offset returns the schedule's own offset, or def when it has none.
func (s *Schedule) Offset(def int) int {
	if s.OffsetMinutes != nil {
		return *s.OffsetMinutes
	}
	return def
}

// RunsOn reports whether the schedule's weekdays include t's weekday.
func (s *Schedule) RunsOn(t time.Time) bool {
	return slices.Contains(s.Days, t.Weekday().String()[:3])
}

// DueAt reports whether an enabled schedule should have fired by t
// (t already in the club's location).
func (s *Schedule) DueAt(t time.Time) bool {
	if !s.Enabled || !s.RunsOn(t) {
		return false
	}
	at, err := time.Parse("15:04", s.SendAt)
	if err != nil {
		return false
	}
	return t.Hour()*60+t.Minute() >= at.Hour()*60+at.Minute()
}
