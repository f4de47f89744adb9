package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"club-notifier/api"
	"club-notifier/config"
	"club-notifier/delivery"
	"club-notifier/handlers"
	"club-notifier/playtomic"
	"club-notifier/scheduler"
	"club-notifier/storage"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Config: %v", err)
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Printf("⚠️ Failed to load timezone %s: %v (using UTC)", cfg.Timezone, err)
		loc = time.UTC
	} else {
		log.Printf("🌍 Timezone set to %s (current time: %s)", cfg.Timezone, time.Now().In(loc).Format("2006-01-02 15:04:05 MST"))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := storage.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer store.Close()
	if err := store.Ping(ctx); err != nil {
		log.Fatalf("❌ Redis connection failed: %v", err)
	}

	client := playtomic.New(cfg.PlaytomicBaseURL, nil, store)
	sender := delivery.NewWhatsApp(cfg.WhatsAppURL, cfg.WhatsAppAPIKey)
	if cfg.WhatsAppURL == "" {
		log.Println("⚠️ WHATSAPP_EMULATOR_URL not set, sends will fail")
	}

	sched := scheduler.New(store, client, sender, loc, cfg.OffsetMinutes)
	go sched.Start(ctx, cfg.CheckInterval)

	app := api.NewApp(store, cfg.OffsetMinutes)
	go func() {
		log.Printf("🌐 HTTP API listening on %s", cfg.HTTPAddr)
		if err := app.Listen(cfg.HTTPAddr); err != nil {
			log.Printf("⚠️ HTTP server stopped: %v", err)
		}
	}()

	if cfg.TelegramToken != "" {
		go runBot(ctx, cfg, store, sched)
	} else {
		log.Println("⚠️ TELEGRAM_BOT_TOKEN not set, admin bot disabled")
	}

	log.Println("✅ Notifier is running...")
	<-ctx.Done()

	log.Println("🛑 Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("⚠️ HTTP shutdown: %v", err)
	}
}

func runBot(ctx context.Context, cfg *config.Config, store *storage.Storage, sched *scheduler.Scheduler) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		log.Printf("⚠️ Telegram bot disabled: %v", err)
		return
	}
	bot.Debug = cfg.Environment != "production"
	log.Printf("🤖 Authorized on account %s", bot.Self.UserName)

	handler := handlers.New(bot, store, sched, cfg.TelegramAdminIDs)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			bot.StopReceivingUpdates()
			return
		case update := <-updates:
			if update.Message != nil && update.Message.IsCommand() {
				handler.HandleMessage(ctx, update.Message)
			} else if update.CallbackQuery != nil {
				handler.HandleCallback(ctx, update.CallbackQuery)
			}
		}
	}
}
