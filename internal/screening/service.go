package screening

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/aescanero/scheme-screener/internal/eligibility"
	"github.com/aescanero/scheme-screener/internal/events"
	"github.com/aescanero/scheme-screener/internal/metrics"
	"github.com/aescanero/scheme-screener/internal/scheme"
	"github.com/aescanero/scheme-screener/internal/session"
)

// Catalog loads the full scheme list
type Catalog interface {
	Load(ctx context.Context) ([]scheme.Scheme, error)
}

// Finalized is the outcome of the step-2 evaluation
type Finalized struct {
	Language string
	Results  []eligibility.Result
	Eligible []scheme.Scheme
}

// Service orchestrates screening sessions
type Service struct {
	catalog  Catalog
	filter   *eligibility.Filter
	sessions session.Store
	events   events.Publisher
	metrics  *metrics.Metrics
	logger   *zap.Logger
	now      func() time.Time
}

// NewService creates a new screening service
func NewService(
	catalog Catalog,
	filter *eligibility.Filter,
	sessions session.Store,
	publisher events.Publisher,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}

	return &Service{
		catalog:  catalog,
		filter:   filter,
		sessions: sessions,
		events:   publisher,
		metrics:  m,
		logger:   logger,
		now:      time.Now,
	}
}

// Screen runs stage one for a submitted form and stores the matches under sessionID.
// Validation failures are returned as *eligibility.ValidationError.
func (s *Service) Screen(ctx context.Context, sessionID, language string, form eligibility.Form) ([]scheme.Scheme, error) {
	start := s.now()
	schemes, err := s.catalog.Load(ctx)
	s.metrics.ObserveCatalogLoad(s.now().Sub(start))
	if err != nil {
		s.metrics.IncrementScreening(metrics.OutcomeCatalogError)
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	s.logger.Debug("loaded scheme catalog", zap.Int("schemes", len(schemes)))

	matched, err := s.filter.Filter(ctx, schemes, form)
	if err != nil {
		var verr *eligibility.ValidationError
		if errors.As(err, &verr) {
			s.metrics.IncrementScreening(metrics.OutcomeValidationError)
			s.logger.Info("screening rejected by validation",
				zap.String("session_id", sessionID),
				zap.String("field", verr.Field),
				zap.String("reason", verr.Message),
			)
			s.publish(ctx, events.Event{
				Type:      events.TypeRejected,
				SessionID: sessionID,
				Language:  language,
				Reason:    verr.Field,
			})
		}
		return nil, err
	}

	state := &session.State{
		Language:  language,
		Matched:   matched,
		CreatedAt: s.now().UTC(),
	}
	if err := s.sessions.Put(ctx, sessionID, state); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	outcome := metrics.OutcomeMatched
	if len(matched) == 0 {
		outcome = metrics.OutcomeNoMatch
	}
	s.metrics.IncrementScreening(outcome)

	ids := schemeIDs(matched)
	for _, id := range ids {
		s.metrics.IncrementSchemeMatch(id)
	}

	s.logger.Info("screening matched schemes",
		zap.String("session_id", sessionID),
		zap.String("language", language),
		zap.Int("candidates", len(schemes)),
		zap.Int("matched", len(matched)),
	)

	s.publish(ctx, events.Event{
		Type:      events.TypeMatched,
		SessionID: sessionID,
		Language:  language,
		SchemeIDs: ids,
	})

	return matched, nil
}

// Finalize applies step-2 answers to the matches stored under sessionID.
// A missing or expired session returns an error wrapping session.ErrNotFound.
func (s *Service) Finalize(ctx context.Context, sessionID string, answers map[string]string) (*Finalized, error) {
	state, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			s.metrics.IncrementFinalization(metrics.OutcomeSessionMissing)
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if len(state.Matched) == 0 {
		s.metrics.IncrementFinalization(metrics.OutcomeSessionMissing)
		return nil, fmt.Errorf("session has no matched schemes: %w", session.ErrNotFound)
	}

	results := eligibility.EvaluateStep2(state.Matched, answers)
	eligible := eligibility.FinalSchemes(results)

	s.metrics.IncrementFinalization(metrics.OutcomeFinalized)
	ids := schemeIDs(eligible)
	for _, id := range ids {
		s.metrics.IncrementSchemeConfirmation(id)
	}

	s.logger.Info("screening finalized",
		zap.String("session_id", sessionID),
		zap.Int("matched", len(state.Matched)),
		zap.Int("eligible", len(eligible)),
	)

	s.publish(ctx, events.Event{
		Type:      events.TypeFinalized,
		SessionID: sessionID,
		Language:  state.Language,
		SchemeIDs: ids,
	})

	return &Finalized{
		Language: state.Language,
		Results:  results,
		Eligible: eligible,
	}, nil
}

// publish sends an event, logging failures
func (s *Service) publish(ctx context.Context, event events.Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now().UTC()
	}

	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish screening event",
			zap.String("type", event.Type),
			zap.String("session_id", event.SessionID),
			zap.Error(err),
		)
	}
}

func schemeIDs(schemes []scheme.Scheme) []string {
	ids := make([]string, len(schemes))
	for i, s := range schemes {
		ids[i] = s.ID.String()
	}
	return ids
}
