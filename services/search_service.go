package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cardtavern/storefront/common/debounce"
	"github.com/cardtavern/storefront/models"
	"github.com/cardtavern/storefront/repository"
)

// ErrSuperseded reports that a newer suggestion request from the same
// client arrived before this one's debounce window elapsed.
var ErrSuperseded = errors.New("suggestion request superseded")

type suggestResult struct {
	cards []models.Card
	err   error
}

type pendingSuggest struct {
	cancel chan struct{}
}

// SearchService debounces search-as-you-type lookups. Each client key
// owns a single pending timer: a new query resets it and supersedes
// the previous caller, so only the last query within the window hits
// the catalog.
type SearchService struct {
	cards  repository.CardRepository
	window time.Duration
	log    *zap.Logger

	mu         sync.Mutex
	debouncers map[string]*debounce.Debouncer
	pending    map[string]*pendingSuggest
}

func NewSearchService(cards repository.CardRepository, window time.Duration, log *zap.Logger) *SearchService {
	return &SearchService{
		cards:      cards,
		window:     window,
		log:        log,
		debouncers: make(map[string]*debounce.Debouncer),
		pending:    make(map[string]*pendingSuggest),
	}
}

// Suggest schedules a name lookup for q after the debounce window. It
// blocks until the lookup runs, the request is superseded by a newer
// one from the same client, or ctx is done.
func (s *SearchService) Suggest(ctx context.Context, clientKey, q string, limit int) ([]models.Card, error) {
	s.mu.Lock()
	d, ok := s.debouncers[clientKey]
	if !ok {
		d = debounce.New(s.window)
		s.debouncers[clientKey] = d
	}
	if prev, ok := s.pending[clientKey]; ok {
		close(prev.cancel)
	}
	mine := &pendingSuggest{cancel: make(chan struct{})}
	s.pending[clientKey] = mine
	s.mu.Unlock()

	results := make(chan suggestResult, 1)
	d.Schedule(func() {
		cards, err := s.cards.SearchByName(ctx, q, limit)
		results <- suggestResult{cards: cards, err: err}

		s.mu.Lock()
		if s.pending[clientKey] == mine {
			delete(s.pending, clientKey)
		}
		s.mu.Unlock()
	})

	select {
	case res := <-results:
		return res.cards, res.err
	case <-mine.cancel:
		return nil, ErrSuperseded
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
