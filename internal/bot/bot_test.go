package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"content-bot/config"
	"content-bot/internal/channel"
	"content-bot/internal/photos"
	"content-bot/internal/storage"
)

const (
	testOperatorID    = int64(42)
	testDestinationID = int64(-1001234567890)
)

type fakeAPI struct {
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
	sendErr  error
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if f.sendErr != nil {
		return tgbotapi.Message{}, f.sendErr
	}
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func (f *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

type fakeStore struct {
	entries map[string]*storage.PlanEntry
	done    []string
}

func newFakeStore(entries ...*storage.PlanEntry) *fakeStore {
	s := &fakeStore{entries: make(map[string]*storage.PlanEntry)}
	for _, e := range entries {
		s.entries[planKey(e.Channel, e.Day)] = e
	}
	return s
}

func planKey(ch channel.Channel, day int) string {
	return fmt.Sprintf("%s/%d", ch, day)
}

func (s *fakeStore) GetPlanEntry(ch channel.Channel, day int) (*storage.PlanEntry, error) {
	entry, ok := s.entries[planKey(ch, day)]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copied := *entry
	return &copied, nil
}

func (s *fakeStore) SaveGeneratedText(ch channel.Channel, day int, text string) error {
	entry, ok := s.entries[planKey(ch, day)]
	if !ok {
		return storage.ErrNotFound
	}
	entry.CachedText = text
	return nil
}

func (s *fakeStore) SaveQuiz(ch channel.Channel, day int, quiz *storage.Quiz) error {
	entry, ok := s.entries[planKey(ch, day)]
	if !ok {
		return storage.ErrNotFound
	}
	entry.Quiz = quiz
	return nil
}

func (s *fakeStore) MarkDone(ch channel.Channel, day int) error {
	s.done = append(s.done, planKey(ch, day))
	return nil
}

type fakeGenerator struct {
	postCalls int
	quizCalls int
	texts     []string
	quiz      *storage.Quiz
	err       error
}

func (g *fakeGenerator) GeneratePost(_ context.Context, _, _ string, _ channel.Policy, _ bool) (string, error) {
	g.postCalls++
	if g.err != nil {
		return "", g.err
	}
	if len(g.texts) >= g.postCalls {
		return g.texts[g.postCalls-1], nil
	}
	return g.texts[len(g.texts)-1], nil
}

func (g *fakeGenerator) GenerateQuiz(_ context.Context, _, _ string) (*storage.Quiz, error) {
	g.quizCalls++
	if g.err != nil {
		return nil, g.err
	}
	return g.quiz, nil
}

type fakeResolver struct {
	calls  int
	result photos.ResolvedPhoto
}

func (r *fakeResolver) Resolve(_ context.Context, _ string) photos.ResolvedPhoto {
	r.calls++
	return r.result
}

func newTestBot(api *fakeAPI, store planStore, gen textGenerator, res photoResolver) *ContentBot {
	return &ContentBot{
		api: api,
		cfg: &config.Config{
			OperatorID:        testOperatorID,
			DestinationChatID: testDestinationID,
			ReuseCachedText:   true,
		},
		generator: gen,
		resolver:  res,
		store:     store,
		ctx:       context.Background(),
	}
}
