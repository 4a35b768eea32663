package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"content-bot/internal/channel"
)

func (b *ContentBot) handleCommand(message *tgbotapi.Message) {
	switch message.Command() {
	case "start":
		b.notifyOperator("🤖 Content assistant is online. Use /generate_tg or /generate_inst to build a draft on demand.")
	case "generate_tg":
		b.handleGenerate(message, channel.Telegram)
	case "generate_inst":
		b.handleGenerate(message, channel.Instagram)
	}
}

// handleGenerate builds a draft on demand. An optional argument picks the
// day of month; without one the draft is built for today.
func (b *ContentBot) handleGenerate(message *tgbotapi.Message, ch channel.Channel) {
	day := time.Now().Day()
	if arg := strings.TrimSpace(message.CommandArguments()); arg != "" {
		parsed, err := strconv.Atoi(arg)
		if err != nil || parsed < 1 || parsed > 31 {
			b.notifyOperator(fmt.Sprintf("Day must be a number between 1 and 31, got %q.", arg))
			return
		}
		day = parsed
	}
	b.BuildDraft(context.Background(), ch, day, true)
}
