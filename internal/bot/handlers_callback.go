package bot

import (
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"content-bot/internal/ai"
	"content-bot/internal/photos"
)

func (b *ContentBot) handleCallbackQuery(cb *tgbotapi.CallbackQuery) {
	payload, err := ParsePayload(cb.Data)
	if err != nil {
		log.Printf("Ignoring callback: %v", err)
		b.answerCallback(cb.ID, "This button is no longer valid.")
		return
	}

	switch payload.Action {
	case ActionPublish:
		b.handlePublish(cb, payload)
	case ActionNewPhoto:
		b.handleNewPhoto(cb, payload)
	case ActionNewText:
		b.handleNewText(cb, payload)
	}
}

// handlePublish forwards the reviewed draft to the destination channel
// (or just approves it for channels published by hand), marks the plan
// entry done and retires the review keyboard. The content that goes out
// is exactly what the operator saw on screen, not a regenerated copy.
func (b *ContentBot) handlePublish(cb *tgbotapi.CallbackQuery, payload Payload) {
	policy := payload.Channel.Policy()

	entry, err := b.store.GetPlanEntry(payload.Channel, payload.Day)
	if err != nil {
		b.answerCallback(cb.ID, "Could not load the plan entry.")
		b.reportError(fmt.Errorf("publish %s day %d: %w", payload.Channel, payload.Day, err))
		return
	}

	displayed := cb.Message.Text
	if cb.Message.Caption != "" {
		displayed = cb.Message.Caption
	}
	isQuiz := strings.HasPrefix(displayed, quizTaskHeader)
	displayed = strings.TrimPrefix(displayed, quizTaskHeader)

	if policy.AutoPublish {
		if len(cb.Message.Photo) > 0 {
			// The largest PhotoSize is last; reusing its file ID ships the
			// exact image from the draft without re-downloading it.
			fileID := cb.Message.Photo[len(cb.Message.Photo)-1].FileID
			post := tgbotapi.NewPhoto(b.cfg.DestinationChatID, tgbotapi.FileID(fileID))
			post.Caption = ai.TruncateToLimit(displayed, policy.CaptionMax)
			if _, err := b.api.Send(post); err != nil {
				b.answerCallback(cb.ID, "Publishing failed.")
				b.reportError(fmt.Errorf("publishing photo for day %d: %w", payload.Day, err))
				return
			}
		} else {
			post := tgbotapi.NewMessage(b.cfg.DestinationChatID, ai.TruncateToLimit(displayed, policy.TextMax))
			if _, err := b.api.Send(post); err != nil {
				b.answerCallback(cb.ID, "Publishing failed.")
				b.reportError(fmt.Errorf("publishing text for day %d: %w", payload.Day, err))
				return
			}
		}
		if isQuiz && entry.Quiz != nil {
			poll := tgbotapi.NewPoll(b.cfg.DestinationChatID, entry.Quiz.Question, entry.Quiz.Options...)
			poll.Type = "quiz"
			poll.IsAnonymous = true
			poll.CorrectOptionID = int64(entry.Quiz.Correct)
			if _, err := b.api.Send(poll); err != nil {
				b.answerCallback(cb.ID, "Publishing the quiz failed.")
				b.reportError(fmt.Errorf("publishing quiz for day %d: %w", payload.Day, err))
				return
			}
		}
	}

	if err := b.store.MarkDone(payload.Channel, payload.Day); err != nil {
		b.answerCallback(cb.ID, "Published, but the status update failed.")
		b.reportError(fmt.Errorf("marking %s day %d done: %w", payload.Channel, payload.Day, err))
		return
	}

	b.clearKeyboard(cb)
	b.answerCallback(cb.ID, "Done")
	if policy.AutoPublish {
		b.notifyOperator("✅ Published to the channel.")
	} else {
		b.notifyOperator("✅ Approved. Post it on Instagram manually.")
	}
}

// handleNewPhoto swaps the draft's image in place for a fresh resolver
// result, keeping the caption and the review keyboard untouched.
func (b *ContentBot) handleNewPhoto(cb *tgbotapi.CallbackQuery, payload Payload) {
	entry, err := b.store.GetPlanEntry(payload.Channel, payload.Day)
	if err != nil {
		b.answerCallback(cb.ID, "Could not load the plan entry.")
		b.reportError(fmt.Errorf("new photo for %s day %d: %w", payload.Channel, payload.Day, err))
		return
	}
	if !entry.HasPhoto() {
		b.answerCallback(cb.ID, "This entry has no photo query.")
		return
	}

	resolved := b.resolver.Resolve(b.ctx, entry.PhotoQuery)
	media := tgbotapi.NewInputMediaPhoto(tgbotapi.FileURL(resolved.URL))
	media.Caption = cb.Message.Caption

	edit := tgbotapi.EditMessageMediaConfig{
		BaseEdit: tgbotapi.BaseEdit{
			ChatID:      cb.Message.Chat.ID,
			MessageID:   cb.Message.MessageID,
			ReplyMarkup: cb.Message.ReplyMarkup,
		},
		Media: media,
	}
	if _, err := b.api.Send(edit); err != nil {
		b.answerCallback(cb.ID, "Swapping the photo failed.")
		b.reportError(fmt.Errorf("editing photo for day %d: %w", payload.Day, err))
		return
	}

	switch resolved.Source {
	case photos.SourcePrimary:
		b.answerCallback(cb.ID, "New photo: "+resolved.Query)
	case photos.SourceFallback:
		b.answerCallback(cb.ID, "New photo (fallback query): "+resolved.Query)
	default:
		b.answerCallback(cb.ID, "Photo search failed, using the placeholder.")
	}
}

// handleNewText regenerates the copy, persists it over the cache and
// rewrites the draft message in place.
func (b *ContentBot) handleNewText(cb *tgbotapi.CallbackQuery, payload Payload) {
	policy := payload.Channel.Policy()

	entry, err := b.store.GetPlanEntry(payload.Channel, payload.Day)
	if err != nil {
		b.answerCallback(cb.ID, "Could not load the plan entry.")
		b.reportError(fmt.Errorf("rewrite for %s day %d: %w", payload.Channel, payload.Day, err))
		return
	}

	hasPhoto := len(cb.Message.Photo) > 0
	text, err := b.generator.GeneratePost(b.ctx, entry.Topic, entry.PromptHint, policy, hasPhoto)
	if err != nil {
		b.answerCallback(cb.ID, "Rewriting failed.")
		b.reportError(fmt.Errorf("regenerating text for day %d: %w", payload.Day, err))
		return
	}
	if err := b.store.SaveGeneratedText(payload.Channel, payload.Day, text); err != nil {
		b.answerCallback(cb.ID, "Rewriting failed.")
		b.reportError(fmt.Errorf("caching rewritten text for day %d: %w", payload.Day, err))
		return
	}

	if hasPhoto {
		edit := tgbotapi.NewEditMessageCaption(cb.Message.Chat.ID, cb.Message.MessageID,
			ai.TruncateToLimit(text, policy.CaptionMax))
		edit.ReplyMarkup = cb.Message.ReplyMarkup
		if _, err := b.api.Send(edit); err != nil {
			b.answerCallback(cb.ID, "Updating the draft failed.")
			b.reportError(fmt.Errorf("editing caption for day %d: %w", payload.Day, err))
			return
		}
	} else {
		if strings.HasPrefix(cb.Message.Text, quizTaskHeader) {
			text = quizTaskHeader + text
		}
		edit := tgbotapi.NewEditMessageText(cb.Message.Chat.ID, cb.Message.MessageID,
			ai.TruncateToLimit(text, policy.TextMax))
		edit.ReplyMarkup = cb.Message.ReplyMarkup
		if _, err := b.api.Send(edit); err != nil {
			b.answerCallback(cb.ID, "Updating the draft failed.")
			b.reportError(fmt.Errorf("editing text for day %d: %w", payload.Day, err))
			return
		}
	}

	b.answerCallback(cb.ID, "Rewritten")
}

// clearKeyboard retires the review buttons once the draft reaches a
// terminal state, so stale taps cannot re-fire actions.
func (b *ContentBot) clearKeyboard(cb *tgbotapi.CallbackQuery) {
	empty := tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow())
	edit := tgbotapi.NewEditMessageReplyMarkup(cb.Message.Chat.ID, cb.Message.MessageID, empty)
	if _, err := b.api.Send(edit); err != nil {
		log.Printf("Failed to clear review keyboard: %v", err)
	}
}

func (b *ContentBot) answerCallback(id, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(id, text)); err != nil {
		log.Printf("Failed to answer callback query: %v", err)
	}
}
