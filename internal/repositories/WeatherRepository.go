package repositories

import (
	"context"
	"net/http"

	"weather-cli/internal/models"
)

// HTTPClient is satisfied by *http.Client.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type WeatherRepository interface {
	Name() string
	FetchCurrent(ctx context.Context, q models.Query) (models.Report, error)
}
