package bot

import (
	"context"
	"errors"
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"content-bot/internal/ai"
	"content-bot/internal/channel"
	"content-bot/internal/photos"
	"content-bot/internal/storage"
)

type DraftKind int

const (
	KindText DraftKind = iota
	KindPhoto
	KindQuiz
)

// quizTaskHeader prefixes the companion text of a quiz draft. It is for
// the operator's eyes only and is stripped before publishing.
const quizTaskHeader = "🧠 Task:\n"

// Draft is a fully prepared piece of content waiting for operator review.
type Draft struct {
	Channel  channel.Channel
	Day      int
	Kind     DraftKind
	Text     string
	Photo    *photos.ResolvedPhoto
	Quiz     *storage.Quiz
	Keyboard tgbotapi.InlineKeyboardMarkup
}

// BuildDraft prepares the content for the given channel and day and
// delivers it to the operator for review. announceEmpty controls whether
// a missing plan row produces a notice or stays silent; scheduled runs
// default to silent, manual commands always announce.
func (b *ContentBot) BuildDraft(ctx context.Context, ch channel.Channel, day int, announceEmpty bool) {
	policy := ch.Policy()

	entry, err := b.store.GetPlanEntry(ch, day)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Printf("No %s plan entry for day %d", policy.Platform, day)
			if announceEmpty {
				b.notifyOperator(fmt.Sprintf("🤷 No %s plan entry for day %d.", policy.Platform, day))
			}
			return
		}
		b.reportError(fmt.Errorf("loading %s plan for day %d: %w", policy.Platform, day, err))
		return
	}

	if announceEmpty {
		b.notifyOperator(fmt.Sprintf("👩‍💻 Preparing the %s draft for day %d: %s", policy.Platform, day, entry.Topic))
	}

	draft, err := b.prepareDraft(ctx, entry)
	if err != nil {
		b.reportError(err)
		return
	}
	b.deliverDraft(draft)
}

// prepareDraft turns a plan entry into a reviewable draft: it picks the
// content kind, fills the text (from cache or the generator), resolves
// the photo and attaches the review keyboard.
func (b *ContentBot) prepareDraft(ctx context.Context, entry *storage.PlanEntry) (*Draft, error) {
	policy := entry.Channel.Policy()

	draft := &Draft{
		Channel:  entry.Channel,
		Day:      entry.Day,
		Kind:     KindText,
		Keyboard: b.draftKeyboard(entry),
	}
	switch {
	case policy.AllowQuiz && !entry.HasPhoto() && entry.IsQuizTopic():
		draft.Kind = KindQuiz
	case entry.HasPhoto():
		draft.Kind = KindPhoto
	}

	if entry.CachedText != "" && b.cfg.ReuseCachedText {
		draft.Text = entry.CachedText
	} else {
		text, err := b.generator.GeneratePost(ctx, entry.Topic, entry.PromptHint, policy, draft.Kind == KindPhoto)
		switch {
		case errors.Is(err, ai.ErrNotConfigured):
			draft.Text = fmt.Sprintf("⚙️ Text generation is not configured. Topic for day %d: %s", entry.Day, entry.Topic)
		case err != nil:
			log.Printf("Text generation for %s day %d failed: %v", entry.Channel, entry.Day, err)
			draft.Text = fmt.Sprintf("⚠️ Text generation failed: %v\nUse the rewrite button to try again.", err)
		default:
			draft.Text = text
			if err := b.store.SaveGeneratedText(entry.Channel, entry.Day, text); err != nil {
				return nil, fmt.Errorf("caching generated text for day %d: %w", entry.Day, err)
			}
		}
	}

	if draft.Kind == KindQuiz {
		quiz := entry.Quiz
		if quiz == nil {
			generated, err := b.generator.GenerateQuiz(ctx, entry.Topic, entry.PromptHint)
			if err != nil {
				return nil, fmt.Errorf("generating quiz for day %d: %w", entry.Day, err)
			}
			if err := b.store.SaveQuiz(entry.Channel, entry.Day, generated); err != nil {
				return nil, fmt.Errorf("caching quiz for day %d: %w", entry.Day, err)
			}
			quiz = generated
		}
		draft.Quiz = quiz
	}

	if draft.Kind == KindPhoto {
		resolved := b.resolver.Resolve(ctx, entry.PhotoQuery)
		draft.Photo = &resolved
	}

	return draft, nil
}

// deliverDraft sends the prepared draft to the operator with the review
// keyboard attached.
func (b *ContentBot) deliverDraft(draft *Draft) {
	policy := draft.Channel.Policy()

	switch draft.Kind {
	case KindQuiz:
		task := tgbotapi.NewMessage(b.cfg.OperatorID, ai.TruncateToLimit(quizTaskHeader+draft.Text, policy.TextMax))
		task.ReplyMarkup = draft.Keyboard
		if _, err := b.api.Send(task); err != nil {
			b.reportError(fmt.Errorf("sending quiz task draft: %w", err))
			return
		}
		poll := tgbotapi.NewPoll(b.cfg.OperatorID, draft.Quiz.Question, draft.Quiz.Options...)
		poll.Type = "quiz"
		poll.IsAnonymous = true
		poll.CorrectOptionID = int64(draft.Quiz.Correct)
		if _, err := b.api.Send(poll); err != nil {
			b.reportError(fmt.Errorf("sending quiz poll preview: %w", err))
		}

	case KindPhoto:
		photo := tgbotapi.NewPhoto(b.cfg.OperatorID, tgbotapi.FileURL(draft.Photo.URL))
		photo.Caption = ai.TruncateToLimit(draft.Text, policy.CaptionMax)
		photo.ReplyMarkup = draft.Keyboard
		if _, err := b.api.Send(photo); err != nil {
			b.reportError(fmt.Errorf("sending photo draft: %w", err))
			return
		}
		if draft.Photo.Source != photos.SourcePrimary {
			b.notifyOperator(photoSourceNotice(draft.Photo))
		}

	default:
		msg := tgbotapi.NewMessage(b.cfg.OperatorID, ai.TruncateToLimit(draft.Text, policy.TextMax))
		msg.ReplyMarkup = draft.Keyboard
		if _, err := b.api.Send(msg); err != nil {
			b.reportError(fmt.Errorf("sending text draft: %w", err))
		}
	}
}

// photoSourceNotice tells the operator the photo did not come from the
// planned query. Sent separately so the approved caption stays clean.
func photoSourceNotice(photo *photos.ResolvedPhoto) string {
	if photo.Source == photos.SourcePlaceholder {
		return "ℹ️ Photo search failed, the draft uses the placeholder image."
	}
	return fmt.Sprintf("ℹ️ Planned photo query had no match, the draft uses a fallback query: %s", photo.Query)
}

func (b *ContentBot) draftKeyboard(entry *storage.PlanEntry) tgbotapi.InlineKeyboardMarkup {
	policy := entry.Channel.Policy()

	row := []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData(
			policy.PublishLabel,
			Payload{Action: ActionPublish, Channel: entry.Channel, Day: entry.Day}.Encode()),
	}
	if entry.HasPhoto() {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(
			"🖼 New photo",
			Payload{Action: ActionNewPhoto, Channel: entry.Channel, Day: entry.Day}.Encode()))
	}
	row = append(row, tgbotapi.NewInlineKeyboardButtonData(
		"✍️ Rewrite",
		Payload{Action: ActionNewText, Channel: entry.Channel, Day: entry.Day}.Encode()))

	return tgbotapi.NewInlineKeyboardMarkup(row)
}
