package ai

import (
	"fmt"
	"strconv"
	"strings"

	"content-bot/internal/storage"
)

// markupStripper removes the markup tokens the model keeps emitting
// despite the plain-text instruction. One declarative pass, kept here
// so no other package grows its own cleanup variant.
var markupStripper = strings.NewReplacer(
	"**", "",
	"__", "",
	"```", "",
	"##", "",
	"`", "",
)

func SanitizeMarkup(s string) string {
	return strings.TrimSpace(markupStripper.Replace(s))
}

// TruncateToLimit enforces a hard character ceiling, preferring to cut
// at the last sentence boundary before the limit over a mid-word chop.
func TruncateToLimit(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	cut := string(runes[:limit])
	if idx := strings.LastIndex(cut, "."); idx > 0 {
		return cut[:idx+1]
	}
	return cut
}

// ParseQuizPayload parses the generator's pipe-delimited quiz line:
// Question?|Answer1|Answer2|Answer3|CorrectIndex(0-2).
func ParseQuizPayload(raw string) (*storage.Quiz, error) {
	parts := strings.Split(strings.TrimSpace(raw), "|")
	if len(parts) != 5 {
		return nil, fmt.Errorf("expected 5 fields, got %d", len(parts))
	}
	correct, err := strconv.Atoi(strings.TrimSpace(parts[4]))
	if err != nil {
		return nil, fmt.Errorf("correct-option index %q is not a number", parts[4])
	}
	if correct < 0 || correct > 2 {
		return nil, fmt.Errorf("correct-option index %d out of range", correct)
	}
	quiz := &storage.Quiz{
		Question: strings.TrimSpace(parts[0]),
		Options:  []string{strings.TrimSpace(parts[1]), strings.TrimSpace(parts[2]), strings.TrimSpace(parts[3])},
		Correct:  correct,
	}
	if quiz.Question == "" {
		return nil, fmt.Errorf("quiz question is empty")
	}
	for i, opt := range quiz.Options {
		if opt == "" {
			return nil, fmt.Errorf("quiz option %d is empty", i)
		}
	}
	return quiz, nil
}
