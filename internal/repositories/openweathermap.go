package repositories

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"

	"weather-cli/internal/models"
	"weather-cli/pkg/logger"
)

const (
	OpenWeatherMapBaseURL = "http://api.openweathermap.org/data/2.5/weather"
	metricUnits           = "metric"
)

type OpenWeatherMapRepository struct {
	BaseURL    string
	httpClient HTTPClient
	l          *logger.Logger
}

func NewOpenWeatherMapRepository(baseURL string, l *logger.Logger, httpClient HTTPClient) *OpenWeatherMapRepository {
	if baseURL == "" {
		baseURL = OpenWeatherMapBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &OpenWeatherMapRepository{
		BaseURL:    baseURL,
		httpClient: httpClient,
		l:          l,
	}
}

func (o *OpenWeatherMapRepository) Name() string {
	return "openweathermap"
}

// openWeatherMapResponse mirrors the provider's payload. Every field is a
// pointer so absent keys can be told apart from zero values.
type openWeatherMapResponse struct {
	Name *string `json:"name"`
	Sys  *struct {
		Country *string `json:"country"`
		Sunrise *int64  `json:"sunrise"`
		Sunset  *int64  `json:"sunset"`
	} `json:"sys"`
	Main *struct {
		Temp      *float64 `json:"temp"`
		FeelsLike *float64 `json:"feels_like"`
		TempMin   *float64 `json:"temp_min"`
		TempMax   *float64 `json:"temp_max"`
		Humidity  *float64 `json:"humidity"`
		Pressure  *float64 `json:"pressure"`
	} `json:"main"`
	Wind *struct {
		Speed *float64 `json:"speed"`
		Deg   *float64 `json:"deg"`
	} `json:"wind"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Timezone *int `json:"timezone"`
}

// openWeatherMapError is the provider's error body. cod is a string or a number.
type openWeatherMapError struct {
	Cod     any    `json:"cod"`
	Message string `json:"message"`
}

func (o *OpenWeatherMapRepository) FetchCurrent(ctx context.Context, q models.Query) (models.Report, error) {
	if err := q.Validate(); err != nil {
		return models.Report{}, err
	}

	u, err := url.Parse(o.BaseURL)
	if err != nil {
		return models.Report{}, errors.Wrap(err, "parse base url")
	}
	params := u.Query()
	params.Set("q", q.Location)
	params.Set("appid", q.APIKey)
	params.Set("units", metricUnits)
	u.RawQuery = params.Encode()

	o.l.Info("making openweathermap API request", map[string]any{
		"params": q.RequestParams(),
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return models.Report{}, errors.Wrap(err, "failed to create request")
	}

	resp, err := o.httpClient.Do(req)
	if err != nil {
		// url.Error carries the full URL, key included.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return models.Report{}, models.ConnectivityError(err)
	}
	defer resp.Body.Close()

	o.l.Info("received openweathermap API response", map[string]any{
		"status":     resp.StatusCode,
		"statusText": resp.Status,
	})

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.Report{}, models.ConnectivityError(errors.Wrap(err, "failed to read response body"))
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return models.Report{}, models.LocationNotFound(q.Location)
	case resp.StatusCode == http.StatusUnauthorized:
		return models.Report{}, models.InvalidCredential()
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		var apiErr openWeatherMapError
		_ = json.Unmarshal(body, &apiErr)
		return models.Report{}, models.RemoteError(resp.StatusCode, apiErr.Message)
	}

	report, err := ParseReport(body)
	if err != nil {
		return models.Report{}, err
	}

	o.l.Info("parsed API response", map[string]any{
		"name":    report.Name,
		"country": report.Country,
	})

	return report, nil
}

// ParseReport decodes a current-weather body. The returned report keeps the
// body untouched in Raw.
func ParseReport(body []byte) (models.Report, error) {
	var response openWeatherMapResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return models.Report{}, models.MalformedResponse("body", err)
	}

	report := models.Report{
		Raw: json.RawMessage(body),
	}
	if response.Name != nil {
		report.Name = *response.Name
	}
	if response.Timezone != nil {
		report.TimezoneOffset = *response.Timezone
	}
	if response.Main != nil {
		report.Main = &models.MainReading{
			Temp:      response.Main.Temp,
			FeelsLike: response.Main.FeelsLike,
			TempMin:   response.Main.TempMin,
			TempMax:   response.Main.TempMax,
			Humidity:  response.Main.Humidity,
			Pressure:  response.Main.Pressure,
		}
	}
	for _, w := range response.Weather {
		report.Conditions = append(report.Conditions, models.Condition{
			Group:       w.Main,
			Description: w.Description,
		})
	}
	if response.Wind != nil {
		report.Wind = &models.WindReading{
			Speed: response.Wind.Speed,
			Deg:   response.Wind.Deg,
		}
	}
	if response.Sys != nil {
		if response.Sys.Country != nil {
			report.Country = *response.Sys.Country
		}
		report.Sunrise = unixTime(response.Sys.Sunrise)
		report.Sunset = unixTime(response.Sys.Sunset)
	}

	if err := report.Validate(); err != nil {
		return models.Report{}, err
	}

	return report, nil
}

func unixTime(sec *int64) *time.Time {
	if sec == nil || *sec == 0 {
		return nil
	}
	t := time.Unix(*sec, 0).UTC()
	return &t
}
