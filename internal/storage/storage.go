package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	_ "github.com/lib/pq"

	"content-bot/internal/channel"
)

var ErrNotFound = errors.New("storage: plan entry not found")

const (
	StatusPending = "pending"
	StatusDone    = "done"
)

// Quiz is the structured payload persisted for quiz-type plan entries.
type Quiz struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Correct  int      `json:"correct"`
}

// PlanEntry is one schedulable content item, keyed by channel and
// day of month. Rows are created out-of-band when the content calendar
// is populated; this process only fills caches and flips the status.
type PlanEntry struct {
	Channel    channel.Channel
	Day        int
	Topic      string
	PromptHint string
	PhotoQuery string // empty means text-only content
	CachedText string
	Quiz       *Quiz
	Status     string
}

func (e *PlanEntry) HasPhoto() bool {
	return e.PhotoQuery != ""
}

// IsQuizTopic reports whether the calendar marked this entry as a quiz.
// The calendar is operator-written text, so both spellings are accepted.
func (e *PlanEntry) IsQuizTopic() bool {
	topic := strings.ToLower(e.Topic)
	return strings.Contains(topic, "quiz") || strings.Contains(topic, "квіз")
}

type Storage struct {
	db *sql.DB
}

func NewStorage(databaseURL string) (*Storage, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("could not connect to database: %w", err)
	}
	s := &Storage{db: db}
	if err = s.initSchema(); err != nil {
		return nil, fmt.Errorf("could not initialize database schema: %w", err)
	}
	log.Println("Database connection successful and schema initialized.")
	return s, nil
}

func (s *Storage) initSchema() error {
	for _, ch := range channel.All() {
		query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			day INTEGER PRIMARY KEY,
			topic TEXT NOT NULL,
			ai_prompt TEXT NOT NULL,
			photo_query TEXT,
			cached_text TEXT,
			quiz_data TEXT,
			status TEXT NOT NULL DEFAULT 'pending'
		);`, ch.Policy().PlanTable)
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("schema execution failed for %s: %w", ch.Policy().PlanTable, err)
		}
	}
	return nil
}

func (s *Storage) GetPlanEntry(ch channel.Channel, day int) (*PlanEntry, error) {
	query := fmt.Sprintf(
		`SELECT topic, ai_prompt, photo_query, cached_text, quiz_data, status FROM %s WHERE day = $1`,
		ch.Policy().PlanTable)

	entry := PlanEntry{Channel: ch, Day: day}
	var photoQuery, cachedText, quizData sql.NullString
	err := s.db.QueryRow(query, day).Scan(
		&entry.Topic,
		&entry.PromptHint,
		&photoQuery,
		&cachedText,
		&quizData,
		&entry.Status,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	entry.PhotoQuery = photoQuery.String
	entry.CachedText = cachedText.String
	if quizData.Valid && quizData.String != "" {
		var quiz Quiz
		if err := json.Unmarshal([]byte(quizData.String), &quiz); err != nil {
			return nil, fmt.Errorf("corrupt quiz payload for %s day %d: %w", ch, day, err)
		}
		entry.Quiz = &quiz
	}
	return &entry, nil
}

// SaveGeneratedText memoizes generated copy so later runs (and restarts)
// do not re-call the generator. Regeneration overwrites unconditionally.
func (s *Storage) SaveGeneratedText(ch channel.Channel, day int, text string) error {
	query := fmt.Sprintf(`UPDATE %s SET cached_text = $1 WHERE day = $2`, ch.Policy().PlanTable)
	_, err := s.db.Exec(query, text, day)
	return err
}

func (s *Storage) SaveQuiz(ch channel.Channel, day int, quiz *Quiz) error {
	payload, err := json.Marshal(quiz)
	if err != nil {
		return fmt.Errorf("could not encode quiz payload: %w", err)
	}
	query := fmt.Sprintf(`UPDATE %s SET quiz_data = $1 WHERE day = $2`, ch.Policy().PlanTable)
	_, err = s.db.Exec(query, string(payload), day)
	return err
}

// MarkDone flips the entry to done. The pending guard keeps the
// transition one-way even if a stale callback fires again.
func (s *Storage) MarkDone(ch channel.Channel, day int) error {
	query := fmt.Sprintf(`UPDATE %s SET status = $1 WHERE day = $2 AND status = $3`, ch.Policy().PlanTable)
	_, err := s.db.Exec(query, StatusDone, day, StatusPending)
	return err
}

func (s *Storage) Close() {
	s.db.Close()
}
