package cli

import (
	"fmt"

	"github.com/pkg/errors"

	"weather-cli/internal/models"
)

// Message turns any error from the service into the line shown to the user.
func Message(err error) string {
	var e *models.Error
	if !errors.As(err, &e) {
		return fmt.Sprintf("Unexpected error: %v", err)
	}

	switch e.Kind {
	case models.KindMissingInput:
		return "Error: Both API key and city name are required."
	case models.KindConnectivity:
		return "Error: Connection failed. Check your internet."
	case models.KindLocationNotFound:
		return fmt.Sprintf("Error: City '%s' not found.", e.Location)
	case models.KindInvalidCredential:
		return "Error: Invalid API key."
	case models.KindRemote:
		return fmt.Sprintf("HTTP error: %d %s", e.Status, e.Message)
	case models.KindMalformedResponse:
		return fmt.Sprintf("Error: Missing data in API response: %s", e.Field)
	case models.KindPersistence:
		return fmt.Sprintf("Error: Could not save weather data: %v", e.Err)
	}
	return fmt.Sprintf("Unexpected error: %v", err)
}
