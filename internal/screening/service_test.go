package screening

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aescanero/scheme-screener/internal/eligibility"
	"github.com/aescanero/scheme-screener/internal/events"
	"github.com/aescanero/scheme-screener/internal/metrics"
	"github.com/aescanero/scheme-screener/internal/scheme"
	"github.com/aescanero/scheme-screener/internal/session"
)

const testCatalog = `[
  {"id": 1, "name": "Widow Pension", "eligibility": {"age_range": [18, 60], "gender": ["female"], "income_limit": 50000},
   "step2_question": {"question": "Are you a widow?", "expected_answer": "yes"}},
  {"id": 2, "name": "Farmer Support", "eligibility": {"occupation": ["farmer"]}},
  {"id": 3, "name": "Open Scheme"}
]`

type staticCatalog struct {
	schemes []scheme.Scheme
	err     error
}

func (c *staticCatalog) Load(context.Context) ([]scheme.Scheme, error) {
	return c.schemes, c.err
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

type fixture struct {
	svc       *Service
	sessions  *session.MemoryStore
	publisher *recordingPublisher
	metrics   *metrics.Metrics
	catalog   *staticCatalog
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	schemes, err := scheme.Parse([]byte(testCatalog))
	require.NoError(t, err)

	f := &fixture{
		sessions:  session.NewMemoryStore(time.Minute),
		publisher: &recordingPublisher{},
		metrics:   metrics.New(prometheus.NewRegistry()),
		catalog:   &staticCatalog{schemes: schemes},
	}
	f.svc = NewService(
		f.catalog,
		eligibility.NewFilter(nil, zap.NewNop()),
		f.sessions,
		f.publisher,
		f.metrics,
		zap.NewNop(),
	)
	f.svc.now = func() time.Time { return time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC) }
	return f
}

func form() eligibility.Form {
	return eligibility.Form{
		eligibility.FieldAge:        "35",
		eligibility.FieldGender:     "female",
		eligibility.FieldCaste:      "general",
		eligibility.FieldDistrict:   "bidar",
		eligibility.FieldIncome:     "40000",
		eligibility.FieldOccupation: "weaver",
		eligibility.FieldLocation:   "rural",
	}
}

func ids(schemes []scheme.Scheme) []string {
	out := make([]string, len(schemes))
	for i, s := range schemes {
		out[i] = s.ID.String()
	}
	return out
}

func TestScreenStoresMatches(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := session.NewID()

	matched, err := f.svc.Screen(ctx, id, "kn", form())
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "3"}, ids(matched))

	state, err := f.sessions.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "kn", state.Language)
	assert.Equal(t, []string{"1", "3"}, ids(state.Matched))

	require.Len(t, f.publisher.events, 1)
	event := f.publisher.events[0]
	assert.Equal(t, events.TypeMatched, event.Type)
	assert.Equal(t, id, event.SessionID)
	assert.Equal(t, []string{"1", "3"}, event.SchemeIDs)
	assert.False(t, event.Timestamp.IsZero())

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Screenings.WithLabelValues(metrics.OutcomeMatched)))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.SchemeMatches.WithLabelValues("3")))
}

func TestScreenNoMatch(t *testing.T) {
	f := newFixture(t)
	f.catalog.schemes = f.catalog.schemes[:2]
	input := form()
	input[eligibility.FieldGender] = "male"

	matched, err := f.svc.Screen(context.Background(), session.NewID(), "en", input)
	require.NoError(t, err)
	assert.Empty(t, matched)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Screenings.WithLabelValues(metrics.OutcomeNoMatch)))
}

func TestScreenValidationError(t *testing.T) {
	f := newFixture(t)
	id := session.NewID()
	input := form()
	input[eligibility.FieldAge] = "abc"

	_, err := f.svc.Screen(context.Background(), id, "en", input)
	var verr *eligibility.ValidationError
	require.ErrorAs(t, err, &verr)

	_, err = f.sessions.Get(context.Background(), id)
	assert.ErrorIs(t, err, session.ErrNotFound, "rejected screenings do not create a session")

	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, events.TypeRejected, f.publisher.events[0].Type)
	assert.Equal(t, eligibility.FieldAge, f.publisher.events[0].Reason)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Screenings.WithLabelValues(metrics.OutcomeValidationError)))
}

func TestScreenCatalogError(t *testing.T) {
	f := newFixture(t)
	f.catalog.err = scheme.ErrCatalogNotFound

	_, err := f.svc.Screen(context.Background(), session.NewID(), "en", form())
	assert.ErrorIs(t, err, scheme.ErrCatalogNotFound)
	assert.Empty(t, f.publisher.events)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Screenings.WithLabelValues(metrics.OutcomeCatalogError)))
}

func TestScreenIgnoresPublishFailure(t *testing.T) {
	f := newFixture(t)
	f.publisher.err = errors.New("stream unavailable")

	matched, err := f.svc.Screen(context.Background(), session.NewID(), "en", form())
	require.NoError(t, err)
	assert.Len(t, matched, 2)
}

func TestFinalize(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := session.NewID()

	_, err := f.svc.Screen(ctx, id, "hi", form())
	require.NoError(t, err)

	final, err := f.svc.Finalize(ctx, id, map[string]string{"1": "No", "age": "35"})
	require.NoError(t, err)
	assert.Equal(t, "hi", final.Language)
	require.Len(t, final.Results, 2)
	assert.False(t, final.Results[0].FinalEligible)
	assert.True(t, final.Results[1].FinalEligible)
	assert.Equal(t, []string{"3"}, ids(final.Eligible))

	final, err = f.svc.Finalize(ctx, id, map[string]string{"1": "YES"})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "3"}, ids(final.Eligible), "answers can be resubmitted")

	last := f.publisher.events[len(f.publisher.events)-1]
	assert.Equal(t, events.TypeFinalized, last.Type)
	assert.Equal(t, "hi", last.Language)
	assert.Equal(t, []string{"1", "3"}, last.SchemeIDs)

	assert.Equal(t, 2.0, testutil.ToFloat64(f.metrics.Finalizations.WithLabelValues(metrics.OutcomeFinalized)))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.SchemeConfirmations.WithLabelValues("1")))
	assert.Equal(t, 2.0, testutil.ToFloat64(f.metrics.SchemeConfirmations.WithLabelValues("3")))
}

func TestFinalizeMissingSession(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Finalize(context.Background(), session.NewID(), nil)
	assert.ErrorIs(t, err, session.ErrNotFound)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Finalizations.WithLabelValues(metrics.OutcomeSessionMissing)))
}

func TestFinalizeEmptyMatches(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := session.NewID()
	require.NoError(t, f.sessions.Put(ctx, id, &session.State{Language: "en"}))

	_, err := f.svc.Finalize(ctx, id, nil)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestNewServiceDefaultsPublisher(t *testing.T) {
	svc := NewService(&staticCatalog{}, eligibility.NewFilter(nil, zap.NewNop()), session.NewMemoryStore(time.Minute), nil, nil, zap.NewNop())
	_, err := svc.Screen(context.Background(), session.NewID(), "en", form())
	assert.NoError(t, err)
}
