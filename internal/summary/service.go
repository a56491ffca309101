package summary

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/strataview/strata/internal/application/port"
	"github.com/strataview/strata/internal/logging"
)

// State is the phase of one summarization request.
type State string

const (
	StateIdle          State = "idle"
	StateExtracting    State = "extracting"
	StateCheckingCache State = "checking_cache"
	StateGenerating    State = "generating"
	StateComplete      State = "complete"
	StateFailed        State = "failed"
	StateCancelled     State = "cancelled"
)

// ErrEmptyContent means extraction produced no readable text. Terminal,
// never retried.
var ErrEmptyContent = errors.New("no readable content on page")

// Update is a progress notification for one request. During generation Text
// carries the accumulated partial output, so consumers can render the
// summary as it streams.
type Update struct {
	State State
	Text  string
	Err   error
}

// Options configures a summarization service.
type Options struct {
	// MaxChars truncates extracted text before hashing and generation.
	MaxChars int
}

const defaultMaxChars = 8000

// Service runs the summarization pipeline: extract readable text, check the
// content-addressed cache, and stream from the generator on a miss.
// Concurrent requests for the same URL and content share one generation via
// singleflight.
type Service struct {
	extractor port.ContentExtractor
	generator port.SummaryGenerator
	cache     *Cache
	opts      Options

	group singleflight.Group
}

// NewService creates a summarization service. cache may be nil to disable
// caching.
func NewService(extractor port.ContentExtractor, generator port.SummaryGenerator, cache *Cache, opts Options) *Service {
	if opts.MaxChars <= 0 {
		opts.MaxChars = defaultMaxChars
	}
	return &Service{
		extractor: extractor,
		generator: generator,
		cache:     cache,
		opts:      opts,
	}
}

// Summarize runs one request to completion. Cancellation is cooperative
// through ctx: it is checked after extraction, after the cache lookup, after
// each streamed chunk, and before the cache write, so a cancelled request
// never writes to the cache. onUpdate may be nil; when set it receives every
// state transition and each partial accumulation.
func (s *Service) Summarize(ctx context.Context, pageURL, rawHTML string, onUpdate func(Update)) (*Summary, error) {
	emit := func(u Update) {
		if onUpdate != nil {
			onUpdate(u)
		}
	}

	emit(Update{State: StateExtracting})
	text, err := s.extractor.Extract(ctx, pageURL, rawHTML)
	if err != nil {
		return s.fail(emit, fmt.Errorf("content extraction failed: %w", err))
	}
	if err := ctx.Err(); err != nil {
		return s.cancelled(emit, err)
	}

	normalized, hash := s.prepare(text)
	if normalized == "" {
		return s.fail(emit, ErrEmptyContent)
	}

	emit(Update{State: StateCheckingCache})
	if cached, ok := s.cache.Get(pageURL, hash); ok {
		logging.FromContext(ctx).Debug().Str("url", pageURL).Msg("summary cache hit")
		emit(Update{State: StateComplete, Text: cached.Text})
		return cached, nil
	}
	if err := ctx.Err(); err != nil {
		return s.cancelled(emit, err)
	}

	emit(Update{State: StateGenerating})
	v, err, _ := s.group.Do(cacheKey(pageURL, hash), func() (any, error) {
		return s.generate(ctx, pageURL, normalized, hash, emit)
	})
	if err != nil {
		// Only this caller's own cancellation counts as cancelled. A shared
		// flight whose leader cancelled ends with context.Canceled too, but a
		// caller whose ctx is still live sees that as a failed generation.
		if ctx.Err() != nil {
			return s.cancelled(emit, err)
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return s.fail(emit, fmt.Errorf("summary generation failed: %w", err))
		}
		return s.fail(emit, err)
	}

	result := v.(*Summary)
	emit(Update{State: StateComplete, Text: result.Text})
	return result, nil
}

// generate streams chunks from the generator, accumulating the full text,
// and writes the cache entry exactly once after the stream completes without
// cancellation.
func (s *Service) generate(ctx context.Context, pageURL, text, hash string, emit func(Update)) (*Summary, error) {
	log := logging.FromContext(ctx)

	chunks, err := s.generator.Stream(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("summary generation failed: %w", err)
	}

	var accumulated strings.Builder
	for chunk := range chunks {
		if chunk.Err != nil {
			return nil, fmt.Errorf("summary generation failed: %w", chunk.Err)
		}
		accumulated.WriteString(chunk.Text)
		emit(Update{State: StateGenerating, Text: accumulated.String()})
		if err := ctx.Err(); err != nil {
			// Ceasing to consume the stream is the cancellation signal to
			// the generator.
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &Summary{
		URL:         pageURL,
		ContentHash: hash,
		Text:        accumulated.String(),
		CreatedAt:   time.Now(),
	}
	if err := s.cache.Put(result); err != nil {
		// A failed cache write does not fail the request; the summary was
		// already produced.
		log.Warn().Err(err).Str("url", pageURL).Msg("failed to cache summary")
	}
	return result, nil
}

// prepare normalizes and truncates extracted text, returning it with its
// content hash. Both generation and invalidation go through here so they
// agree on the hash.
func (s *Service) prepare(text string) (normalized, hash string) {
	normalized = NormalizeWhitespace(text)
	if len(normalized) > s.opts.MaxChars {
		normalized = strings.TrimSpace(normalized[:s.opts.MaxChars])
	}
	return normalized, ContentHash(normalized)
}

// ExtractText runs only the extraction step, for callers that need the page
// text independently of a full request.
func (s *Service) ExtractText(ctx context.Context, pageURL string) (string, error) {
	return s.extractor.Extract(ctx, pageURL, "")
}

// Invalidate drops the cached summary for the page at this content revision.
func (s *Service) Invalidate(pageURL, text string) error {
	_, hash := s.prepare(text)
	return s.cache.Delete(pageURL, hash)
}

func (s *Service) fail(emit func(Update), err error) (*Summary, error) {
	emit(Update{State: StateFailed, Err: err})
	return nil, err
}

func (s *Service) cancelled(emit func(Update), err error) (*Summary, error) {
	emit(Update{State: StateCancelled})
	return nil, err
}
