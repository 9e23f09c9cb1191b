package weather

import (
	"context"
	"time"

	"github.com/google/uuid"

	"weather-cli/internal/models"
	"weather-cli/internal/repositories"
	"weather-cli/pkg/logger"
)

const lastLocationLookback = 20

// WeatherService fetches and persists reports on behalf of one CLI session.
type WeatherService struct {
	repo      repositories.WeatherRepository
	snapshots *repositories.SnapshotRepository
	history   repositories.HistoryRepository // nil when disabled
	sessionID string
	l         *logger.Logger
	now       func() time.Time
}

func NewWeatherService(
	repo repositories.WeatherRepository,
	snapshots *repositories.SnapshotRepository,
	history repositories.HistoryRepository,
	l *logger.Logger,
) *WeatherService {
	sessionID := uuid.NewString()
	return &WeatherService{
		repo:      repo,
		snapshots: snapshots,
		history:   history,
		sessionID: sessionID,
		l:         l.With(map[string]any{"session_id": sessionID}),
		now:       time.Now,
	}
}

func (s *WeatherService) SessionID() string {
	return s.sessionID
}

// Fetch returns the current report for q, or a *models.Error describing why not.
func (s *WeatherService) Fetch(ctx context.Context, q models.Query) (models.Report, error) {
	requestID := uuid.NewString()
	s.l.Debug("starting fetch", map[string]any{
		"request_id": requestID,
		"repo":       s.repo.Name(),
		"params":     q.RequestParams(),
	})

	report, err := s.repo.FetchCurrent(ctx, q)
	s.record(ctx, q, report, err)
	if err != nil {
		s.logFailure(requestID, q, err)
		return models.Report{}, err
	}

	s.l.Info("successfully fetched report", map[string]any{
		"request_id": requestID,
		"location":   q.Location,
		"name":       report.Name,
	})

	return report, nil
}

// Save persists the raw report and returns the written path.
func (s *WeatherService) Save(ctx context.Context, report models.Report) (string, error) {
	path, err := s.snapshots.Save(report, s.now())
	if err != nil {
		s.l.Warning("failed to save report", map[string]any{
			"name": report.Name,
			"err":  err.Error(),
		})
		return "", err
	}

	s.l.Info("saved report", map[string]any{"path": path})
	return path, nil
}

// LastLocation returns the most recent location that produced a report.
func (s *WeatherService) LastLocation(ctx context.Context) (string, bool) {
	if s.history == nil {
		return "", false
	}
	lookups, err := s.history.Recent(ctx, lastLocationLookback)
	if err != nil {
		s.l.Warning("failed to read lookup history", map[string]any{"err": err.Error()})
		return "", false
	}
	for _, lookup := range lookups {
		if lookup.Succeeded() {
			return lookup.Location, true
		}
	}
	return "", false
}

func (s *WeatherService) record(ctx context.Context, q models.Query, report models.Report, fetchErr error) {
	if s.history == nil {
		return
	}

	lookup := models.Lookup{
		SessionID: s.sessionID,
		Location:  q.Location,
		Outcome:   models.OutcomeOK,
		CreatedAt: s.now(),
	}
	if fetchErr != nil {
		lookup.Outcome = models.KindOf(fetchErr).String()
	} else {
		lookup.ResolvedName = report.Name
		if report.Main != nil {
			lookup.Temp = report.Main.Temp
		}
	}

	if err := s.history.Record(ctx, lookup); err != nil {
		s.l.Warning("failed to record lookup", map[string]any{"err": err.Error()})
	}
}

// logFailure keeps expected user-side failures below the default level.
func (s *WeatherService) logFailure(requestID string, q models.Query, err error) {
	kind := models.KindOf(err)
	fields := map[string]any{
		"request_id": requestID,
		"location":   q.Location,
		"kind":       kind.String(),
	}

	switch kind {
	case models.KindMissingInput, models.KindLocationNotFound, models.KindInvalidCredential:
		s.l.Info("fetch rejected", fields)
	case models.KindConnectivity, models.KindRemote, models.KindMalformedResponse:
		fields["err"] = err.Error()
		s.l.Warning("failed to fetch report", fields)
	default:
		s.l.Error(err, fields)
	}
}
