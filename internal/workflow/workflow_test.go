package workflow

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdantlabs/ecocycle/internal/common"
	"github.com/verdantlabs/ecocycle/internal/model"
	"github.com/verdantlabs/ecocycle/internal/vision"
)

type stubClassifier struct {
	mu      sync.Mutex
	results map[string]model.ClassificationSuggestion
	err     error
	block   map[string]chan struct{}
	calls   int
}

func newStubClassifier() *stubClassifier {
	return &stubClassifier{
		results: make(map[string]model.ClassificationSuggestion),
		block:   make(map[string]chan struct{}),
	}
}

func (s *stubClassifier) Classify(ctx context.Context, img vision.Image, _ string) (model.ClassificationSuggestion, error) {
	s.mu.Lock()
	s.calls++
	gate := s.block[string(img.Data)]
	result := s.results[string(img.Data)]
	err := s.err
	s.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return model.ClassificationSuggestion{}, ctx.Err()
		}
	}
	return result, err
}

type stubStore struct {
	fakeStore
	mu     sync.Mutex
	logs   []model.WasteLog
	nextID int64
	err    error
	gate   chan struct{} // when set, LogWaste blocks until closed
}

func (s *stubStore) LogWaste(_ context.Context, owner string, category model.WasteCategory, method model.DisposalMethod, quantity float64) (*model.WasteLog, int64, error) {
	s.mu.Lock()
	gate := s.gate
	s.mu.Unlock()
	if gate != nil {
		<-gate
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return nil, 0, s.err
	}
	s.nextID++
	log := model.WasteLog{
		ID:        s.nextID,
		Owner:     owner,
		Category:  category,
		Method:    method,
		Quantity:  quantity,
		Timestamp: time.Now(),
	}
	s.logs = append(s.logs, log)
	return &log, 42, nil
}

func image(name string) vision.Image {
	return vision.Image{MIMEType: "image/jpeg", Data: []byte(name)}
}

func TestWorkflowHappyPath(t *testing.T) {
	classifier := newStubClassifier()
	classifier.results["photo"] = model.ClassificationSuggestion{
		Category:    model.CategoryRecyclables,
		Description: "plastic bottle",
		Confidence:  0.9,
	}
	store := &stubStore{}
	wf := New(classifier, store, "alice", nil)

	require.NoError(t, wf.SelectImage(image("photo")))
	assert.Equal(t, StateImageSelected, wf.Snapshot().State)

	require.NoError(t, wf.Analyze(context.Background(), "key"))

	suggestion, err := wf.AwaitAnalysis(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.CategoryRecyclables, suggestion.Category)
	assert.Equal(t, StateSuggested, wf.Snapshot().State)

	require.NoError(t, wf.AcceptSuggestion())
	require.NoError(t, wf.SetMethod(model.MethodRecycling))
	require.NoError(t, wf.SetQuantity(2.5))

	result, err := wf.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(42), result.Points)
	assert.Equal(t, model.CategoryRecyclables, result.Log.Category)
	assert.Equal(t, "alice", result.Log.Owner)

	snap := wf.Snapshot()
	assert.Equal(t, StateEmpty, snap.State)
	assert.False(t, snap.HasImage)
	assert.Zero(t, snap.Quantity)
}

func TestWorkflowStaleResultDiscarded(t *testing.T) {
	classifier := newStubClassifier()
	gateA := make(chan struct{})
	classifier.block["imageA"] = gateA
	classifier.results["imageA"] = model.ClassificationSuggestion{Category: model.CategoryHazardous}
	classifier.results["imageB"] = model.ClassificationSuggestion{Category: model.CategoryCompostables}

	wf := New(classifier, &stubStore{}, "alice", nil)

	require.NoError(t, wf.SelectImage(image("imageA")))
	require.NoError(t, wf.Analyze(context.Background(), "key"))

	// Replace the image while A's analysis is still in flight.
	require.NoError(t, wf.SelectImage(image("imageB")))
	require.NoError(t, wf.Analyze(context.Background(), "key"))

	suggestion, err := wf.AwaitAnalysis(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.CategoryCompostables, suggestion.Category)

	// Let A's classification resolve late; it must not overwrite B's.
	close(gateA)
	time.Sleep(50 * time.Millisecond)

	snap := wf.Snapshot()
	assert.Equal(t, StateSuggested, snap.State)
	assert.Equal(t, model.CategoryCompostables, snap.Suggestion.Category)
}

func TestWorkflowAnalysisFailure(t *testing.T) {
	classifier := newStubClassifier()
	classifier.err = vision.ErrEmptyResponse
	wf := New(classifier, &stubStore{}, "alice", nil)

	require.NoError(t, wf.SelectImage(image("photo")))
	require.NoError(t, wf.Analyze(context.Background(), "key"))

	_, err := wf.AwaitAnalysis(context.Background())
	assert.ErrorIs(t, err, vision.ErrEmptyResponse)
	assert.Equal(t, StateAnalysisFailed, wf.Snapshot().State)

	// Manual override still works after a failed analysis.
	require.NoError(t, wf.Override(model.CategoryGeneralWaste))
	require.NoError(t, wf.SetMethod(model.MethodLandfill))
	require.NoError(t, wf.SetQuantity(1.0))

	_, err = wf.Submit(context.Background())
	require.NoError(t, err)
}

func TestWorkflowOverrideWithoutSuggestion(t *testing.T) {
	wf := New(newStubClassifier(), &stubStore{}, "alice", nil)

	require.NoError(t, wf.Override(model.CategoryElectronics))
	assert.Equal(t, StateOverridden, wf.Snapshot().State)

	err := wf.Override(model.WasteCategory("nonsense"))
	assert.ErrorIs(t, err, common.ErrValidationFailed)
}

func TestWorkflowAnalyzeWithoutImage(t *testing.T) {
	wf := New(newStubClassifier(), &stubStore{}, "alice", nil)

	err := wf.Analyze(context.Background(), "key")
	assert.ErrorIs(t, err, common.ErrValidationFailed)
}

func TestWorkflowSubmitValidation(t *testing.T) {
	tests := []struct {
		name  string
		setup func(wf *Workflow)
	}{
		{
			name:  "no category",
			setup: func(wf *Workflow) {},
		},
		{
			name: "no method",
			setup: func(wf *Workflow) {
				_ = wf.Override(model.CategoryRecyclables)
				_ = wf.SetQuantity(1)
			},
		},
		{
			name: "no quantity",
			setup: func(wf *Workflow) {
				_ = wf.Override(model.CategoryRecyclables)
				_ = wf.SetMethod(model.MethodRecycling)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &stubStore{}
			wf := New(newStubClassifier(), store, "alice", nil)
			tt.setup(wf)

			_, err := wf.Submit(context.Background())
			assert.ErrorIs(t, err, common.ErrValidationFailed)
			assert.Empty(t, store.logs, "validation failure must not reach the store")
		})
	}
}

func TestWorkflowSubmitFailureRestoresDraft(t *testing.T) {
	store := &stubStore{err: errors.New("disk full")}
	wf := New(newStubClassifier(), store, "alice", nil)

	require.NoError(t, wf.Override(model.CategoryCompostables))
	require.NoError(t, wf.SetMethod(model.MethodComposting))
	require.NoError(t, wf.SetQuantity(0.75))

	_, err := wf.Submit(context.Background())
	assert.ErrorIs(t, err, common.ErrSubmissionFailed)

	snap := wf.Snapshot()
	assert.Equal(t, StateOverridden, snap.State)
	assert.Equal(t, model.CategoryCompostables, snap.Category)
	assert.Equal(t, 0.75, snap.Quantity)

	// Clearing the error lets the same draft submit.
	store.mu.Lock()
	store.err = nil
	store.mu.Unlock()

	result, err := wf.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.CategoryCompostables, result.Log.Category)
}

func TestWorkflowClearImageDropsSuggestion(t *testing.T) {
	classifier := newStubClassifier()
	classifier.results["photo"] = model.ClassificationSuggestion{Category: model.CategoryRecyclables}
	wf := New(classifier, &stubStore{}, "alice", nil)

	require.NoError(t, wf.SelectImage(image("photo")))
	require.NoError(t, wf.Analyze(context.Background(), "key"))
	_, err := wf.AwaitAnalysis(context.Background())
	require.NoError(t, err)
	require.NoError(t, wf.SetMethod(model.MethodRecycling))
	require.NoError(t, wf.SetQuantity(1))

	require.NoError(t, wf.ClearImage())

	snap := wf.Snapshot()
	assert.Equal(t, StateEmpty, snap.State)
	assert.Empty(t, snap.Suggestion.Category)
	assert.False(t, snap.Accepted)
	// Method and quantity describe the disposal, not the photo.
	assert.Equal(t, model.MethodRecycling, snap.Method)
	assert.Equal(t, 1.0, snap.Quantity)
}

func TestWorkflowAcceptanceSurvivesOverride(t *testing.T) {
	classifier := newStubClassifier()
	classifier.results["photo"] = model.ClassificationSuggestion{Category: model.CategoryRecyclables}
	store := &stubStore{}
	wf := New(classifier, store, "alice", nil)

	require.NoError(t, wf.SelectImage(image("photo")))
	require.NoError(t, wf.Analyze(context.Background(), "key"))
	_, err := wf.AwaitAnalysis(context.Background())
	require.NoError(t, err)

	require.NoError(t, wf.AcceptSuggestion())
	snap := wf.Snapshot()
	assert.Equal(t, StateAccepted, snap.State)
	assert.True(t, snap.Accepted)

	// Changing one's mind keeps the record that the suggestion was taken,
	// but the overriding category is what gets submitted.
	require.NoError(t, wf.Override(model.CategoryHazardous))
	snap = wf.Snapshot()
	assert.Equal(t, StateOverridden, snap.State)
	assert.True(t, snap.Accepted)
	assert.Equal(t, model.CategoryHazardous, snap.Category)

	require.NoError(t, wf.SetMethod(model.MethodIncineration))
	require.NoError(t, wf.SetQuantity(1))
	result, err := wf.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.CategoryHazardous, result.Log.Category)

	// A fresh draft starts with no acceptance history.
	assert.False(t, wf.Snapshot().Accepted)
}

func TestWorkflowDraftLockedWhileSubmitting(t *testing.T) {
	gate := make(chan struct{})
	store := &stubStore{gate: gate}
	wf := New(newStubClassifier(), store, "alice", nil)

	require.NoError(t, wf.Override(model.CategoryRecyclables))
	require.NoError(t, wf.SetMethod(model.MethodRecycling))
	require.NoError(t, wf.SetQuantity(1))

	submitErr := make(chan error, 1)
	go func() {
		_, err := wf.Submit(context.Background())
		submitErr <- err
	}()

	require.Eventually(t, func() bool {
		return wf.Snapshot().State == StateSubmitting
	}, time.Second, 5*time.Millisecond)

	assert.ErrorIs(t, wf.ClearImage(), common.ErrValidationFailed)
	assert.ErrorIs(t, wf.SelectImage(image("photo")), common.ErrValidationFailed)
	assert.ErrorIs(t, wf.Analyze(context.Background(), "key"), common.ErrValidationFailed)

	close(gate)
	require.NoError(t, <-submitErr)
	assert.Equal(t, StateEmpty, wf.Snapshot().State)
}
