package handlers

import (
	"context"
	"errors"
	"log"
	"sort"
	"time"

	"club-notifier/storage"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (h *Handler) HandleSchedules(ctx context.Context, chatID int64) {
	scheds, err := h.Store.ListSchedules(ctx)
	if err != nil {
		log.Printf("⚠️ Error fetching schedules: %v", err)
		h.reply(chatID, "⚠️ Could not load schedules.")
		return
	}
	if len(scheds) == 0 {
		h.reply(chatID, "No schedules yet.")
		return
	}

	sort.Slice(scheds, func(i, j int) bool { return scheds[i].SendAt < scheds[j].SendAt })
	for _, s := range scheds {
		msg := tgbotapi.NewMessage(chatID, formatSchedule(s))
		msg.ReplyMarkup = scheduleKeyboard(s)
		h.Bot.Send(msg)
	}
}

func scheduleKeyboard(s *storage.Schedule) tgbotapi.InlineKeyboardMarkup {
	toggle := tgbotapi.NewInlineKeyboardButtonData("⏸ Pause", "disable:"+s.ID)
	if !s.Enabled {
		toggle = tgbotapi.NewInlineKeyboardButtonData("▶️ Resume", "enable:"+s.ID)
	}
	return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("👁 Preview", "preview:"+s.ID),
		tgbotapi.NewInlineKeyboardButtonData("📤 Send", "send:"+s.ID),
		toggle,
	))
}

// load fetches a schedule and reports problems to the chat itself.
func (h *Handler) load(ctx context.Context, chatID int64, id string) *storage.Schedule {
	if id == "" {
		h.reply(chatID, "Please give a schedule id, e.g. /preview 1234")
		return nil
	}
	sched, err := h.Store.GetSchedule(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		h.reply(chatID, "⚠️ Schedule "+id+" not found.")
		return nil
	}
	if err != nil {
		log.Printf("⚠️ Error loading schedule %s: %v", id, err)
		h.reply(chatID, "⚠️ Could not load the schedule.")
		return nil
	}
	return sched
}

func (h *Handler) HandlePreview(ctx context.Context, chatID int64, id string) {
	sched := h.load(ctx, chatID, id)
	if sched == nil {
		return
	}
	r, err := h.Renderer.Render(ctx, sched, time.Now())
	if err != nil {
		log.Printf("⚠️ Preview of %s failed: %v", id, err)
		h.reply(chatID, "⚠️ Could not render the message: "+err.Error())
		return
	}
	h.reply(chatID, r.Message)
}

func (h *Handler) HandleSend(ctx context.Context, chatID int64, id string) {
	sched := h.load(ctx, chatID, id)
	if sched == nil {
		return
	}
	if err := h.Renderer.SendNow(ctx, sched); err != nil {
		log.Printf("⚠️ Manual send of %s failed: %v", id, err)
		h.reply(chatID, "⚠️ Sending failed: "+err.Error())
		return
	}
	h.reply(chatID, "✅ Message sent to "+sched.Phone)
}

func (h *Handler) HandleToggle(ctx context.Context, chatID int64, id string, enabled bool) {
	sched := h.load(ctx, chatID, id)
	if sched == nil {
		return
	}
	sched.Enabled = enabled
	if err := h.Store.SaveSchedule(ctx, sched); err != nil {
		log.Printf("⚠️ Error saving schedule %s: %v", id, err)
		h.reply(chatID, "⚠️ Could not update the schedule.")
		return
	}
	if enabled {
		h.reply(chatID, "▶️ Schedule "+id+" resumed.")
	} else {
		h.reply(chatID, "⏸ Schedule "+id+" paused.")
	}
}
