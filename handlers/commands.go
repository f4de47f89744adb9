package handlers

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"club-notifier/scheduler"
	"club-notifier/storage"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// telegramLimit is Telegram's maximum message length.
const telegramLimit = 4096

// BotAPI is the subset of *tgbotapi.BotAPI the handlers use.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type ScheduleStore interface {
	ListSchedules(ctx context.Context) ([]*storage.Schedule, error)
	GetSchedule(ctx context.Context, id string) (*storage.Schedule, error)
	SaveSchedule(ctx context.Context, sched *storage.Schedule) error
}

// Renderer previews and sends schedules; *scheduler.Scheduler satisfies it.
type Renderer interface {
	Render(ctx context.Context, sched *storage.Schedule, now time.Time) (scheduler.Rendered, error)
	SendNow(ctx context.Context, sched *storage.Schedule) error
}

type Handler struct {
	Bot      BotAPI
	Store    ScheduleStore
	Renderer Renderer
	admins   map[int64]bool
}

func New(bot BotAPI, store ScheduleStore, renderer Renderer, adminIDs []int64) *Handler {
	admins := make(map[int64]bool, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = true
	}
	return &Handler{
		Bot:      bot,
		Store:    store,
		Renderer: renderer,
		admins:   admins,
	}
}

// IsAdmin reports whether chatID may use the bot. With no admins configured
// nobody may.
func (h *Handler) IsAdmin(chatID int64) bool {
	return h.admins[chatID]
}

func (h *Handler) reply(chatID int64, text string) {
	if _, err := h.Bot.Send(tgbotapi.NewMessage(chatID, truncate(text))); err != nil {
		log.Printf("⚠️ Failed to reply to chat %d: %v", chatID, err)
	}
}

// truncate cuts text to Telegram's limit, counted in characters.
func truncate(text string) string {
	if utf8.RuneCountInString(text) <= telegramLimit {
		return text
	}
	r := []rune(text)
	return string(r[:telegramLimit-3]) + "..."
}

// HandleMessage routes a command message.
func (h *Handler) HandleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg == nil || msg.Chat == nil {
		return
	}
	if !h.IsAdmin(msg.Chat.ID) {
		h.reply(msg.Chat.ID, "⛔ This bot is for club administrators only.")
		return
	}

	arg := strings.TrimSpace(msg.CommandArguments())
	switch msg.Command() {
	case "start", "help":
		h.HandleStart(msg.Chat.ID)
	case "schedules":
		h.HandleSchedules(ctx, msg.Chat.ID)
	case "preview":
		h.HandlePreview(ctx, msg.Chat.ID, arg)
	case "send":
		h.HandleSend(ctx, msg.Chat.ID, arg)
	case "cancel":
		h.HandleToggle(ctx, msg.Chat.ID, arg, false)
	case "enable":
		h.HandleToggle(ctx, msg.Chat.ID, arg, true)
	default:
		h.reply(msg.Chat.ID, "Unknown command. Try /start")
	}
}

// HandleCallback routes inline keyboard presses ("preview:<id>", ...).
func (h *Handler) HandleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	if cq == nil || cq.Message == nil || cq.Message.Chat == nil {
		return
	}
	chatID := cq.Message.Chat.ID
	if !h.IsAdmin(chatID) {
		h.Bot.Request(tgbotapi.NewCallback(cq.ID, "⛔"))
		return
	}

	action, id, _ := strings.Cut(cq.Data, ":")
	switch action {
	case "preview":
		h.HandlePreview(ctx, chatID, id)
	case "send":
		h.HandleSend(ctx, chatID, id)
	case "disable":
		h.HandleToggle(ctx, chatID, id, false)
	case "enable":
		h.HandleToggle(ctx, chatID, id, true)
	default:
		h.Bot.Request(tgbotapi.NewCallback(cq.ID, "Unknown action"))
		return
	}
	h.Bot.Request(tgbotapi.NewCallback(cq.ID, "✅"))
}

func (h *Handler) HandleStart(chatID int64) {
	text := "👋 Hi! I manage the club's scheduled WhatsApp messages.\n\n" +
		"Commands:\n" +
		"/schedules — list schedules\n" +
		"/preview <id> — render a message without sending it\n" +
		"/send <id> — send a message right now\n" +
		"/cancel <id> — pause a schedule\n" +
		"/enable <id> — resume a schedule"
	h.reply(chatID, text)
}

var weekDays = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

func formatDays(days []string) string {
	if len(days) == 0 {
		return "none"
	}
	if len(days) == 7 {
		return "every day"
	}
	selected := make(map[string]bool, len(days))
	for _, d := range days {
		selected[d] = true
	}
	result := make([]string, 0, len(days))
	for _, d := range weekDays {
		if selected[d] {
			result = append(result, d)
		}
	}
	return strings.Join(result, ", ")
}

func formatSchedule(s *storage.Schedule) string {
	status := "▶️ active"
	if !s.Enabled {
		status = "⏸ paused"
	}
	club := s.ClubName
	if club == "" {
		club = s.ClubURL
	}
	return fmt.Sprintf("🆔 %s\n🏟 %s\n📂 %s %s\n📅 %s at %s\n📱 %s\n%s",
		s.ID, club, s.Category, s.Variant, formatDays(s.Days), s.SendAt, s.Phone, status)
}
