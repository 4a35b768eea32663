package bot

import (
	"context"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"content-bot/internal/channel"
	"content-bot/internal/photos"
	"content-bot/internal/storage"
)

func photoEntry(day int) *storage.PlanEntry {
	return &storage.PlanEntry{
		Channel:    channel.Telegram,
		Day:        day,
		Topic:      "Goroutines in practice",
		PromptHint: "show a worker-pool example",
		PhotoQuery: "laptop gopher",
		Status:     storage.StatusPending,
	}
}

func TestBuildDraftPhoto(t *testing.T) {
	api := &fakeAPI{}
	store := newFakeStore(photoEntry(5))
	gen := &fakeGenerator{texts: []string{"Fresh copy about goroutines."}}
	res := &fakeResolver{result: photos.ResolvedPhoto{
		URL: "https://images.example/goroutines.jpg", Query: "laptop gopher", Source: photos.SourcePrimary,
	}}
	b := newTestBot(api, store, gen, res)

	b.BuildDraft(context.Background(), channel.Telegram, 5, false)

	require.Len(t, api.sent, 1)
	photo, ok := api.sent[0].(tgbotapi.PhotoConfig)
	require.True(t, ok, "expected a photo draft, got %T", api.sent[0])
	assert.Equal(t, testOperatorID, photo.ChatID)
	assert.Equal(t, tgbotapi.FileURL("https://images.example/goroutines.jpg"), photo.File)
	assert.Equal(t, "Fresh copy about goroutines.", photo.Caption)

	markup, ok := photo.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, markup.InlineKeyboard, 1)
	require.Len(t, markup.InlineKeyboard[0], 3)
	assert.Equal(t, "✅ Publish", markup.InlineKeyboard[0][0].Text)
	assert.Equal(t, "v1:pub:tg:5", *markup.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "v1:pic:tg:5", *markup.InlineKeyboard[0][1].CallbackData)
	assert.Equal(t, "v1:txt:tg:5", *markup.InlineKeyboard[0][2].CallbackData)

	assert.Equal(t, 1, gen.postCalls)
	assert.Equal(t, "Fresh copy about goroutines.", store.entries[planKey(channel.Telegram, 5)].CachedText)
}

func TestBuildDraftPlaceholderNoticeKeepsCaptionClean(t *testing.T) {
	api := &fakeAPI{}
	store := newFakeStore(photoEntry(5))
	gen := &fakeGenerator{texts: []string{"Caption text."}}
	res := &fakeResolver{result: photos.ResolvedPhoto{
		URL: photos.PlaceholderURL(), Source: photos.SourcePlaceholder,
	}}
	b := newTestBot(api, store, gen, res)

	b.BuildDraft(context.Background(), channel.Telegram, 5, false)

	require.Len(t, api.sent, 2)
	photo := api.sent[0].(tgbotapi.PhotoConfig)
	assert.Equal(t, tgbotapi.FileURL(photos.PlaceholderURL()), photo.File)
	assert.Equal(t, "Caption text.", photo.Caption)

	notice, ok := api.sent[1].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Contains(t, notice.Text, "placeholder")
}

func TestBuildDraftReusesCachedText(t *testing.T) {
	api := &fakeAPI{}
	store := newFakeStore(photoEntry(5))
	gen := &fakeGenerator{texts: []string{"Generated once."}}
	res := &fakeResolver{result: photos.ResolvedPhoto{URL: "https://images.example/a.jpg", Source: photos.SourcePrimary}}
	b := newTestBot(api, store, gen, res)

	b.BuildDraft(context.Background(), channel.Telegram, 5, false)
	b.BuildDraft(context.Background(), channel.Telegram, 5, false)

	assert.Equal(t, 1, gen.postCalls)
	require.Len(t, api.sent, 2)
	second := api.sent[1].(tgbotapi.PhotoConfig)
	assert.Equal(t, "Generated once.", second.Caption)
}

func TestBuildDraftTextOnly(t *testing.T) {
	api := &fakeAPI{}
	entry := photoEntry(9)
	entry.PhotoQuery = ""
	store := newFakeStore(entry)
	gen := &fakeGenerator{texts: []string{"Long-form text about goroutines."}}
	b := newTestBot(api, store, gen, &fakeResolver{})

	b.BuildDraft(context.Background(), channel.Telegram, 9, false)

	require.Len(t, api.sent, 1)
	msg, ok := api.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, "Long-form text about goroutines.", msg.Text)

	markup := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.Len(t, markup.InlineKeyboard[0], 2, "text-only drafts get no photo button")
}

func TestBuildDraftQuiz(t *testing.T) {
	api := &fakeAPI{}
	entry := photoEntry(12)
	entry.PhotoQuery = ""
	entry.Topic = "Quiz: slices and capacity"
	store := newFakeStore(entry)
	gen := &fakeGenerator{
		texts: []string{"Try to predict the output before answering."},
		quiz: &storage.Quiz{
			Question: "What does cap() return?",
			Options:  []string{"Capacity", "Length", "Pointer"},
			Correct:  0,
		},
	}
	b := newTestBot(api, store, gen, &fakeResolver{})

	b.BuildDraft(context.Background(), channel.Telegram, 12, false)

	require.Len(t, api.sent, 2)
	task := api.sent[0].(tgbotapi.MessageConfig)
	assert.True(t, strings.HasPrefix(task.Text, "🧠 Task:\n"))

	poll, ok := api.sent[1].(tgbotapi.SendPollConfig)
	require.True(t, ok)
	assert.Equal(t, "quiz", poll.Type)
	assert.Equal(t, "What does cap() return?", poll.Question)
	assert.Equal(t, int64(0), poll.CorrectOptionID)
	assert.True(t, poll.IsAnonymous)

	assert.Equal(t, 1, gen.quizCalls)
	require.NotNil(t, store.entries[planKey(channel.Telegram, 12)].Quiz)
}

func TestBuildDraftQuizReusesStoredQuiz(t *testing.T) {
	api := &fakeAPI{}
	entry := photoEntry(12)
	entry.PhotoQuery = ""
	entry.Topic = "Квіз про мапи"
	entry.Quiz = &storage.Quiz{Question: "Q?", Options: []string{"a", "b", "c"}, Correct: 1}
	store := newFakeStore(entry)
	gen := &fakeGenerator{texts: []string{"Task text."}}
	b := newTestBot(api, store, gen, &fakeResolver{})

	b.BuildDraft(context.Background(), channel.Telegram, 12, false)

	assert.Equal(t, 0, gen.quizCalls)
	require.Len(t, api.sent, 2)
	poll := api.sent[1].(tgbotapi.SendPollConfig)
	assert.Equal(t, int64(1), poll.CorrectOptionID)
}

func TestBuildDraftMissingPlanSilentByDefault(t *testing.T) {
	api := &fakeAPI{}
	b := newTestBot(api, newFakeStore(), &fakeGenerator{texts: []string{"x"}}, &fakeResolver{})

	b.BuildDraft(context.Background(), channel.Telegram, 28, false)
	assert.Empty(t, api.sent)

	b.BuildDraft(context.Background(), channel.Telegram, 28, true)
	require.Len(t, api.sent, 1)
	msg := api.sent[0].(tgbotapi.MessageConfig)
	assert.Contains(t, msg.Text, "No Telegram plan entry")
}

func TestBuildDraftGenerationFailureStillDelivers(t *testing.T) {
	api := &fakeAPI{}
	entry := photoEntry(3)
	entry.PhotoQuery = ""
	store := newFakeStore(entry)
	gen := &fakeGenerator{err: assert.AnError}
	b := newTestBot(api, store, gen, &fakeResolver{})

	b.BuildDraft(context.Background(), channel.Telegram, 3, false)

	require.Len(t, api.sent, 1)
	msg := api.sent[0].(tgbotapi.MessageConfig)
	assert.Contains(t, msg.Text, "Text generation failed")
	markup := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	assert.Len(t, markup.InlineKeyboard[0], 2, "the rewrite button must survive a failed generation")
	assert.Empty(t, store.entries[planKey(channel.Telegram, 3)].CachedText)
}
