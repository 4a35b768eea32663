package bot

import (
	"context"
	"fmt"
	"log"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"content-bot/config"
	"content-bot/internal/channel"
	"content-bot/internal/photos"
	"content-bot/internal/scheduler"
	"content-bot/internal/storage"
)

// telegramAPI is the slice of the bot API the handlers need; tests
// substitute a recording fake.
type telegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type planStore interface {
	GetPlanEntry(ch channel.Channel, day int) (*storage.PlanEntry, error)
	SaveGeneratedText(ch channel.Channel, day int, text string) error
	SaveQuiz(ch channel.Channel, day int, quiz *storage.Quiz) error
	MarkDone(ch channel.Channel, day int) error
}

type textGenerator interface {
	GeneratePost(ctx context.Context, topic, hint string, policy channel.Policy, hasPhoto bool) (string, error)
	GenerateQuiz(ctx context.Context, topic, hint string) (*storage.Quiz, error)
}

type photoResolver interface {
	Resolve(ctx context.Context, primaryQuery string) photos.ResolvedPhoto
}

type ContentBot struct {
	tg        *tgbotapi.BotAPI
	api       telegramAPI
	cfg       *config.Config
	generator textGenerator
	resolver  photoResolver
	scheduler *scheduler.Scheduler
	store     planStore
	ctx       context.Context
}

func NewBot(
	ctx context.Context,
	cfg *config.Config,
	generator textGenerator,
	resolver photoResolver,
	scheduler *scheduler.Scheduler,
	store planStore,
) (*ContentBot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, err
	}
	return &ContentBot{
		tg:        api,
		api:       api,
		cfg:       cfg,
		generator: generator,
		resolver:  resolver,
		scheduler: scheduler,
		store:     store,
		ctx:       ctx,
	}, nil
}

func (b *ContentBot) Start() {
	b.tg.Debug = false
	log.Printf("Authorized on account %s", b.tg.Self.UserName)
	b.scheduleDailyRuns()
	b.scheduler.Start()
	b.listenForUpdates()
}

func (b *ContentBot) scheduleDailyRuns() {
	runs := []struct {
		ch channel.Channel
		at string
	}{
		{channel.Telegram, b.cfg.TelegramPostTime},
		{channel.Instagram, b.cfg.InstagramPostTime},
	}
	for _, run := range runs {
		run := run
		hour, minute, err := parseClock(run.at)
		if err != nil {
			log.Printf("Invalid post time %q for %s, skipping schedule: %v", run.at, run.ch, err)
			continue
		}
		log.Printf("Scheduling daily %s draft at %02d:%02d", run.ch.Policy().Platform, hour, minute)
		b.scheduler.AddDailyJob(hour, minute, func() {
			log.Printf("Scheduler fired: building %s draft", run.ch.Policy().Platform)
			b.BuildDraft(context.Background(), run.ch, time.Now().Day(), b.cfg.AnnounceEmptyPlan)
		})
	}
}

func parseClock(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, err
	}
	return t.Hour(), t.Minute(), nil
}

func (b *ContentBot) listenForUpdates() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.tg.GetUpdatesChan(u)
	for update := range updates {
		if update.CallbackQuery != nil {
			// A single operator owns every draft; everyone else is ignored.
			if update.CallbackQuery.From.ID != b.cfg.OperatorID {
				continue
			}
			go b.handleCallbackQuery(update.CallbackQuery)
			continue
		}
		if update.Message == nil || update.Message.From == nil {
			continue
		}
		if update.Message.From.ID != b.cfg.OperatorID {
			continue
		}
		if update.Message.IsCommand() {
			go b.handleCommand(update.Message)
		}
	}
}

func (b *ContentBot) notifyOperator(text string) {
	msg := tgbotapi.NewMessage(b.cfg.OperatorID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Failed to notify operator: %v", err)
	}
}

// reportError surfaces a handler failure to the operator. Nothing past
// startup is allowed to kill the long-running process.
func (b *ContentBot) reportError(err error) {
	log.Printf("Handler error: %v", err)
	b.notifyOperator(fmt.Sprintf("🆘 Error: %v", err))
}
