package weather_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weather-cli/internal/models"
	"weather-cli/internal/repositories"
	"weather-cli/internal/services/weather"
	"weather-cli/pkg/logger"
)

// MockRepository implements WeatherRepository for testing
type MockRepository struct {
	report    models.Report
	err       error
	callCount int
	lastQuery models.Query
}

func (m *MockRepository) Name() string {
	return "mock"
}

func (m *MockRepository) FetchCurrent(ctx context.Context, q models.Query) (models.Report, error) {
	m.callCount++
	m.lastQuery = q
	if m.err != nil {
		return models.Report{}, m.err
	}
	return m.report, nil
}

// MockHistory implements HistoryRepository for testing
type MockHistory struct {
	lookups   []models.Lookup
	recordErr error
	recentErr error
}

func (m *MockHistory) Record(ctx context.Context, lookup models.Lookup) error {
	if m.recordErr != nil {
		return m.recordErr
	}
	m.lookups = append(m.lookups, lookup)
	return nil
}

func (m *MockHistory) Recent(ctx context.Context, limit int) ([]models.Lookup, error) {
	if m.recentErr != nil {
		return nil, m.recentErr
	}
	out := make([]models.Lookup, 0, len(m.lookups))
	for i := len(m.lookups) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.lookups[i])
	}
	return out, nil
}

func (m *MockHistory) Close() error { return nil }

func londonReport() models.Report {
	temp := 12.5
	return models.Report{
		Name:       "London",
		Main:       &models.MainReading{Temp: &temp},
		Conditions: []models.Condition{{Group: "Clouds", Description: "broken clouds"}},
		Raw:        []byte(`{"name":"London","main":{"temp":12.5},"weather":[{"main":"Clouds","description":"broken clouds"}]}`),
	}
}

func TestNewWeatherService(t *testing.T) {
	service := weather.NewWeatherService(&MockRepository{}, repositories.NewSnapshotRepository(t.TempDir()), nil, logger.NewNop())

	assert.NotNil(t, service)
	assert.Len(t, service.SessionID(), 36)
}

func TestWeatherService_Fetch_Success(t *testing.T) {
	repo := &MockRepository{report: londonReport()}
	history := &MockHistory{}
	service := weather.NewWeatherService(repo, repositories.NewSnapshotRepository(t.TempDir()), history, logger.NewNop())

	report, err := service.Fetch(context.Background(), models.NewQuery("key", "london"))

	require.NoError(t, err)
	assert.Equal(t, "London", report.Name)
	assert.Equal(t, 1, repo.callCount)
	assert.Equal(t, "london", repo.lastQuery.Location)

	require.Len(t, history.lookups, 1)
	assert.Equal(t, models.OutcomeOK, history.lookups[0].Outcome)
	assert.Equal(t, "London", history.lookups[0].ResolvedName)
	assert.Equal(t, service.SessionID(), history.lookups[0].SessionID)
	require.NotNil(t, history.lookups[0].Temp)
	assert.Equal(t, 12.5, *history.lookups[0].Temp)
}

func TestWeatherService_Fetch_Failure(t *testing.T) {
	repo := &MockRepository{err: models.LocationNotFound("Nowhereville")}
	history := &MockHistory{}
	service := weather.NewWeatherService(repo, repositories.NewSnapshotRepository(t.TempDir()), history, logger.NewNop())

	report, err := service.Fetch(context.Background(), models.NewQuery("key", "Nowhereville"))

	require.Error(t, err)
	assert.Equal(t, models.KindLocationNotFound, models.KindOf(err))
	assert.Nil(t, report.Main)

	require.Len(t, history.lookups, 1)
	assert.Equal(t, "location_not_found", history.lookups[0].Outcome)
	assert.Nil(t, history.lookups[0].Temp)
}

func TestWeatherService_Fetch_HistoryFailureIsNotFatal(t *testing.T) {
	repo := &MockRepository{report: londonReport()}
	history := &MockHistory{recordErr: errors.New("disk full")}
	service := weather.NewWeatherService(repo, repositories.NewSnapshotRepository(t.TempDir()), history, logger.NewNop())

	_, err := service.Fetch(context.Background(), models.NewQuery("key", "London"))
	assert.NoError(t, err)
}

func TestWeatherService_Fetch_UnexpectedError(t *testing.T) {
	repo := &MockRepository{err: errors.New("mock repository error")}
	service := weather.NewWeatherService(repo, repositories.NewSnapshotRepository(t.TempDir()), nil, logger.NewNop())

	_, err := service.Fetch(context.Background(), models.NewQuery("key", "London"))
	require.Error(t, err)
	assert.Equal(t, models.KindUnknown, models.KindOf(err))
}

func TestWeatherService_Save(t *testing.T) {
	dir := t.TempDir()
	service := weather.NewWeatherService(&MockRepository{}, repositories.NewSnapshotRepository(dir), nil, logger.NewNop())

	path, err := service.Save(context.Background(), londonReport())
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.Contains(t, filepath.Base(path), "weather_London_")

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestWeatherService_Save_Failure(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")
	service := weather.NewWeatherService(&MockRepository{}, repositories.NewSnapshotRepository(missing), nil, logger.NewNop())

	_, err := service.Save(context.Background(), londonReport())
	assert.Equal(t, models.KindPersistence, models.KindOf(err))
}

func TestWeatherService_LastLocation(t *testing.T) {
	ctx := context.Background()

	disabled := weather.NewWeatherService(&MockRepository{}, repositories.NewSnapshotRepository(t.TempDir()), nil, logger.NewNop())
	_, ok := disabled.LastLocation(ctx)
	assert.False(t, ok)

	history := &MockHistory{lookups: []models.Lookup{
		{Location: "Paris", Outcome: models.OutcomeOK, CreatedAt: time.Now()},
		{Location: "Nowhereville", Outcome: "location_not_found", CreatedAt: time.Now()},
	}}
	service := weather.NewWeatherService(&MockRepository{}, repositories.NewSnapshotRepository(t.TempDir()), history, logger.NewNop())

	location, ok := service.LastLocation(ctx)
	assert.True(t, ok)
	assert.Equal(t, "Paris", location)

	broken := weather.NewWeatherService(&MockRepository{}, repositories.NewSnapshotRepository(t.TempDir()), &MockHistory{recentErr: errors.New("locked")}, logger.NewNop())
	_, ok = broken.LastLocation(ctx)
	assert.False(t, ok)
}
