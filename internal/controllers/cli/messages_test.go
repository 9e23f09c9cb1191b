package cli

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"weather-cli/internal/models"
)

func TestMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{models.MissingInput(), "Error: Both API key and city name are required."},
		{models.ConnectivityError(errors.New("dial tcp: connection refused")), "Error: Connection failed. Check your internet."},
		{models.LocationNotFound("Nowhereville"), "Error: City 'Nowhereville' not found."},
		{models.InvalidCredential(), "Error: Invalid API key."},
		{models.RemoteError(502, "Bad Gateway"), "HTTP error: 502 Bad Gateway"},
		{models.MalformedResponse("main", nil), "Error: Missing data in API response: main"},
		{models.PersistenceError("weather_x.json", os.ErrPermission), "Error: Could not save weather data: permission denied"},
		{errors.New("boom"), "Unexpected error: boom"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Message(tt.err))
	}
}
