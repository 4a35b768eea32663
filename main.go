package main

import (
	"context"
	"log"
	"time"

	"content-bot/config"
	"content-bot/internal/ai"
	"content-bot/internal/bot"
	"content-bot/internal/photos"
	"content-bot/internal/scheduler"
	"content-bot/internal/server"
	"content-bot/internal/storage"
)

func main() {
	ctx := context.Background()
	cfg := config.LoadConfig()

	store, err := storage.NewStorage(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer store.Close()

	generator, err := ai.NewGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.PostLanguage)
	if err != nil {
		log.Fatalf("Failed to initialize AI generator: %v", err)
	}
	if cfg.GeminiAPIKey == "" {
		log.Println("GEMINI_API_KEY is empty, drafts will be built without generated text")
	}
	if cfg.UnsplashAccessKey == "" {
		log.Println("UNSPLASH_ACCESS_KEY is empty, drafts will use the placeholder image")
	}
	resolver := photos.NewResolver(cfg.UnsplashAccessKey)

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Fatalf("Unknown timezone %q: %v", cfg.Timezone, err)
	}
	sched, err := scheduler.NewScheduler(location)
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	go server.Start(cfg.HTTPPort)

	contentBot, err := bot.NewBot(ctx, &cfg, generator, resolver, sched, store)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	log.Println("Content assistant is starting...")
	contentBot.Start()
}
