// Package workflow drives a single waste-log draft from image selection
// through classification to submission. The draft is a small state machine;
// every transition happens under one mutex and classification runs
// asynchronously, tagged with a generation counter so a stale result can
// never clobber a newer image.
package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/verdantlabs/ecocycle/internal/common"
	"github.com/verdantlabs/ecocycle/internal/model"
	"github.com/verdantlabs/ecocycle/internal/service"
	"github.com/verdantlabs/ecocycle/internal/vision"
)

// State names one phase of the draft lifecycle.
type State string

const (
	StateEmpty          State = "empty"
	StateImageSelected  State = "image_selected"
	StateAnalyzing      State = "analyzing"
	StateSuggested      State = "suggested"
	StateAnalysisFailed State = "analysis_failed"
	StateAccepted       State = "accepted"
	StateOverridden     State = "overridden"
	StateSubmitting     State = "submitting"
)

// Classifier is the slice of the vision gateway the workflow needs.
type Classifier interface {
	Classify(ctx context.Context, img vision.Image, credential string) (model.ClassificationSuggestion, error)
}

// Snapshot is a read-only copy of the draft for rendering.
type Snapshot struct {
	State       State
	Suggestion  model.ClassificationSuggestion
	Category    model.WasteCategory
	Method      model.DisposalMethod
	AnalysisErr error
	HasImage    bool
	// Accepted records that the user took the classifier's suggestion at some
	// point in this draft's life. It survives a later manual override; the
	// effective category is always Category, not the suggestion.
	Accepted bool
	Quantity float64
}

// Result is what a successful submission hands back.
type Result struct {
	Log    *model.WasteLog
	Points int64
}

// Workflow holds the in-flight draft for one user.
type Workflow struct {
	classifier Classifier
	store      service.Store
	logger     *slog.Logger
	owner      string

	mu          sync.Mutex
	state       State
	generation  uint64
	img         vision.Image
	hasImage    bool
	suggestion  model.ClassificationSuggestion
	category    model.WasteCategory
	method      model.DisposalMethod
	quantity    float64
	accepted    bool
	analysisErr error
	done        chan struct{}

	analysisTimeout time.Duration
}

// New creates an empty draft for the given owner principal.
func New(classifier Classifier, store service.Store, owner string, logger *slog.Logger) *Workflow {
	if logger == nil {
		logger = slog.Default()
	}
	return &Workflow{
		classifier:      classifier,
		store:           store,
		logger:          logger,
		owner:           owner,
		state:           StateEmpty,
		analysisTimeout: 30 * time.Second,
	}
}

// Snapshot returns the current draft state for display.
func (w *Workflow) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return Snapshot{
		State:       w.state,
		HasImage:    w.hasImage,
		Suggestion:  w.suggestion,
		Category:    w.category,
		Method:      w.method,
		Quantity:    w.quantity,
		Accepted:    w.accepted,
		AnalysisErr: w.analysisErr,
	}
}

// SelectImage attaches a photo to the draft. Any in-flight analysis for a
// previous image is superseded; its result will be discarded on arrival.
// Not valid while a submission is in flight.
func (w *Workflow) SelectImage(img vision.Image) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state == StateSubmitting {
		return fmt.Errorf("%w: draft is busy", common.ErrValidationFailed)
	}

	w.generation++
	w.img = img
	w.hasImage = true
	w.suggestion = model.ClassificationSuggestion{}
	w.category = ""
	w.accepted = false
	w.analysisErr = nil
	w.done = nil
	w.state = StateImageSelected
	return nil
}

// ClearImage drops the photo and any suggestion derived from it. Disposal
// method and quantity are kept; they describe the act, not the photo.
// Not valid while a submission is in flight.
func (w *Workflow) ClearImage() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state == StateSubmitting {
		return fmt.Errorf("%w: draft is busy", common.ErrValidationFailed)
	}

	w.generation++
	w.img = vision.Image{}
	w.hasImage = false
	w.suggestion = model.ClassificationSuggestion{}
	w.category = ""
	w.accepted = false
	w.analysisErr = nil
	w.done = nil
	w.state = StateEmpty
	return nil
}

// Analyze starts classification of the selected image. It returns immediately;
// use AwaitAnalysis to block for the outcome. Calling it again while an
// analysis is in flight supersedes the earlier one.
func (w *Workflow) Analyze(ctx context.Context, credential string) error {
	w.mu.Lock()

	if w.state == StateSubmitting {
		w.mu.Unlock()
		return fmt.Errorf("%w: draft is busy", common.ErrValidationFailed)
	}
	if !w.hasImage {
		w.mu.Unlock()
		return fmt.Errorf("%w: no image selected", common.ErrValidationFailed)
	}

	w.generation++
	gen := w.generation
	img := w.img
	done := make(chan struct{})
	w.done = done
	w.accepted = false
	w.analysisErr = nil
	w.state = StateAnalyzing
	w.mu.Unlock()

	go func() {
		analyzeCtx, cancel := context.WithTimeout(ctx, w.analysisTimeout)
		defer cancel()

		suggestion, err := w.classifier.Classify(analyzeCtx, img, credential)
		w.apply(gen, suggestion, err, done)
	}()

	return nil
}

// apply installs an analysis outcome if, and only if, the draft still belongs
// to the generation that started it.
func (w *Workflow) apply(gen uint64, suggestion model.ClassificationSuggestion, err error, done chan struct{}) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if gen != w.generation {
		w.logger.Debug("discarding stale classification result",
			"result_generation", gen,
			"current_generation", w.generation)
		close(done)
		return
	}

	if err != nil {
		w.analysisErr = err
		w.state = StateAnalysisFailed
		w.logger.Warn("classification failed", "error", err)
	} else {
		w.suggestion = suggestion
		w.state = StateSuggested
		w.logger.Info("classification suggested",
			"category", suggestion.Category,
			"confidence", suggestion.Confidence)
	}
	close(done)
}

// AwaitAnalysis blocks until the in-flight analysis resolves or the context
// ends. Returns the suggestion, or the analysis error if it failed.
func (w *Workflow) AwaitAnalysis(ctx context.Context) (model.ClassificationSuggestion, error) {
	w.mu.Lock()
	done := w.done
	w.mu.Unlock()

	if done == nil {
		return model.ClassificationSuggestion{}, fmt.Errorf("%w: no analysis in flight", common.ErrValidationFailed)
	}

	select {
	case <-ctx.Done():
		return model.ClassificationSuggestion{}, ctx.Err()
	case <-done:
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state == StateAnalysisFailed {
		return model.ClassificationSuggestion{}, w.analysisErr
	}
	return w.suggestion, nil
}

// AcceptSuggestion adopts the classifier's category as the draft's category
// and marks the draft as suggestion-accepted.
func (w *Workflow) AcceptSuggestion() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateSuggested {
		return fmt.Errorf("%w: no suggestion to accept", common.ErrValidationFailed)
	}
	w.category = w.suggestion.Category
	w.accepted = true
	w.state = StateAccepted
	return nil
}

// Override sets the category directly. It works with or without a suggestion;
// the user always has the final word. A prior acceptance stays recorded: the
// flag means "the suggestion was taken at some point", while the submitted
// category is whatever the draft holds at submit time.
func (w *Workflow) Override(category model.WasteCategory) error {
	if !category.Valid() {
		return fmt.Errorf("%w: unknown category %q", common.ErrValidationFailed, category)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state == StateAnalyzing || w.state == StateSubmitting {
		return fmt.Errorf("%w: draft is busy", common.ErrValidationFailed)
	}
	w.category = category
	w.state = StateOverridden
	return nil
}

// SetMethod records the disposal method.
func (w *Workflow) SetMethod(method model.DisposalMethod) error {
	if !method.Valid() {
		return fmt.Errorf("%w: unknown disposal method %q", common.ErrValidationFailed, method)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.method = method
	return nil
}

// SetQuantity records the weight in kilograms.
func (w *Workflow) SetQuantity(kg float64) error {
	if kg <= 0 {
		return fmt.Errorf("%w: quantity must be positive, got %v", common.ErrValidationFailed, kg)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.quantity = kg
	return nil
}

// Submit validates the draft and persists it. Validation failures happen
// before any remote call. On success the draft resets to empty; on failure it
// is left exactly as it was so the user can retry.
func (w *Workflow) Submit(ctx context.Context) (*Result, error) {
	w.mu.Lock()

	if w.state == StateSubmitting {
		w.mu.Unlock()
		return nil, fmt.Errorf("%w: submission already in progress", common.ErrSubmissionFailed)
	}
	if err := w.validateLocked(); err != nil {
		w.mu.Unlock()
		return nil, err
	}

	prevState := w.state
	w.state = StateSubmitting
	category := w.category
	method := w.method
	quantity := w.quantity
	w.mu.Unlock()

	log, points, err := w.store.LogWaste(ctx, w.owner, category, method, quantity)

	w.mu.Lock()
	defer w.mu.Unlock()

	if err != nil {
		w.state = prevState
		return nil, fmt.Errorf("%w: %v", common.ErrSubmissionFailed, err)
	}

	w.generation++
	w.img = vision.Image{}
	w.hasImage = false
	w.suggestion = model.ClassificationSuggestion{}
	w.category = ""
	w.method = ""
	w.quantity = 0
	w.accepted = false
	w.analysisErr = nil
	w.done = nil
	w.state = StateEmpty

	w.logger.Info("waste log submitted",
		"log_id", log.ID,
		"category", log.Category,
		"points", points)

	return &Result{Log: log, Points: points}, nil
}

func (w *Workflow) validateLocked() error {
	if w.category == "" {
		return fmt.Errorf("%w: no category chosen", common.ErrValidationFailed)
	}
	if !w.category.Valid() {
		return fmt.Errorf("%w: unknown category %q", common.ErrValidationFailed, w.category)
	}
	if !w.method.Valid() {
		return fmt.Errorf("%w: no disposal method chosen", common.ErrValidationFailed)
	}
	if w.quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", common.ErrValidationFailed)
	}
	return nil
}
