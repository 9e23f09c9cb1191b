package models

import (
	"encoding/json"
	"time"
)

// Report is the parsed current-weather payload for one query. Pointer fields
// are optional in the provider's response; nil means the key was absent.
type Report struct {
	Name           string
	Country        string
	Main           *MainReading
	Conditions     []Condition
	Wind           *WindReading
	Sunrise        *time.Time
	Sunset         *time.Time
	TimezoneOffset int // seconds east of UTC
	Raw            json.RawMessage
}

type MainReading struct {
	Temp      *float64
	FeelsLike *float64
	TempMin   *float64
	TempMax   *float64
	Humidity  *float64
	Pressure  *float64
}

type Condition struct {
	Group       string
	Description string
}

type WindReading struct {
	Speed *float64
	Deg   *float64
}

// Validate checks the fields a report cannot be displayed without.
func (r Report) Validate() error {
	switch {
	case r.Main == nil:
		return MalformedResponse("main", nil)
	case r.Main.Temp == nil:
		return MalformedResponse("main.temp", nil)
	case len(r.Conditions) == 0:
		return MalformedResponse("weather", nil)
	case r.Conditions[0].Description == "":
		return MalformedResponse("weather[0].description", nil)
	case r.Name == "":
		return MalformedResponse("name", nil)
	}
	return nil
}

// Condition returns the primary condition. Callers must Validate first.
func (r Report) Condition() Condition {
	return r.Conditions[0]
}

// Location is the fixed zone of the queried place, used for sunrise/sunset.
func (r Report) Location() *time.Location {
	return time.FixedZone("", r.TimezoneOffset)
}
