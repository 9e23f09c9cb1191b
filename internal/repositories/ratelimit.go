package repositories

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"

	"weather-cli/internal/models"
)

// RateLimitedRepository wraps a WeatherRepository with a token bucket.
type RateLimitedRepository struct {
	repo    WeatherRepository
	limiter *rate.Limiter
	name    string
}

// NewRateLimitedRepository allows rps requests per second (may be fractional)
// with the given burst.
func NewRateLimitedRepository(repo WeatherRepository, rps float64, burst int) *RateLimitedRepository {
	return &RateLimitedRepository{
		repo:    repo,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		name:    fmt.Sprintf("%s [rate limited]", repo.Name()),
	}
}

func (r *RateLimitedRepository) Name() string {
	return r.name
}

func (r *RateLimitedRepository) FetchCurrent(ctx context.Context, q models.Query) (models.Report, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return models.Report{}, errors.Wrap(err, "rate limit wait canceled")
	}
	return r.repo.FetchCurrent(ctx, q)
}
