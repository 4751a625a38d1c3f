package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hearthside/companion/internal/cache"
	"github.com/hearthside/companion/internal/providers/llm"
)

const wordCacheKeyPrefix = "word_of_day:"

// WordOfDay is one generated daily word with its friendly explanation.
type WordOfDay struct {
	Date string `json:"date"` // YYYY-MM-DD
	Text string `json:"text"`
}

type WordService interface {
	// Today returns the cached word for the current date, generating and
	// caching a fresh one on the first request of the day.
	Today(ctx context.Context) (WordOfDay, error)
}

type wordService struct {
	llm   llm.Provider
	cache cache.Cache
	log   *logrus.Logger
	now   func() time.Time
}

func NewWordService(provider llm.Provider, c cache.Cache, log *logrus.Logger) WordService {
	if c == nil {
		c = cache.Noop()
	}
	return &wordService{llm: provider, cache: c, log: log, now: time.Now}
}

func (s *wordService) Today(ctx context.Context) (WordOfDay, error) {
	now := s.now()
	date := now.Format("2006-01-02")
	key := wordCacheKeyPrefix + date

	var cached WordOfDay
	if ok, err := s.cache.GetJSON(ctx, key, &cached); err != nil {
		s.log.WithError(err).Warn("word of day cache read failed")
	} else if ok {
		return cached, nil
	}

	text, err := s.llm.Generate(ctx, llm.Request{
		UserText:  "Please share today's word of the day.",
		Sentiment: "neutral",
		State:     "word_of_day",
	})
	if err != nil {
		return WordOfDay{}, err
	}

	word := WordOfDay{Date: date, Text: text}

	// Expire at local midnight so tomorrow gets a new word.
	midnight := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
	if err := s.cache.SetJSON(ctx, key, word, midnight.Sub(now)); err != nil {
		s.log.WithError(err).Warn("word of day cache write failed")
	}
	return word, nil
}
