package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	TelegramBotToken  string `envconfig:"BOT_TOKEN"           required:"true"`
	DatabaseURL       string `envconfig:"DATABASE_URL"        required:"true"`
	DestinationChatID int64  `envconfig:"CHANNEL_ID"          required:"true"`
	OperatorID        int64  `envconfig:"ADMIN_ID"            required:"true"`
	GeminiAPIKey      string `envconfig:"GEMINI_API_KEY"`
	GeminiModel       string `envconfig:"GEMINI_MODEL"        default:"gemini-1.5-flash"`
	UnsplashAccessKey string `envconfig:"UNSPLASH_ACCESS_KEY"`
	HTTPPort          int    `envconfig:"PORT"                default:"8080"`
	PostLanguage      string `envconfig:"POST_LANGUAGE"       default:"Ukrainian"`
	TelegramPostTime  string `envconfig:"TELEGRAM_POST_TIME"  default:"09:00"`
	InstagramPostTime string `envconfig:"INSTAGRAM_POST_TIME" default:"09:10"`
	Timezone          string `envconfig:"TIMEZONE"            default:"Europe/Kyiv"`
	AnnounceEmptyPlan bool   `envconfig:"ANNOUNCE_EMPTY_PLAN" default:"false"`
	ReuseCachedText   bool   `envconfig:"REUSE_CACHED_TEXT"   default:"true"`
}

func LoadConfig() Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, reading from environment variables")
	}

	var cfg Config
	err = envconfig.Process("", &cfg)
	if err != nil {
		log.Fatalf("Failed to process configuration: %v", err)
	}

	return cfg
}
