package cli

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"
	"time"

	"weather-cli/internal/models"
)

const (
	notAvailable  = "n/a"
	unknownMarker = "unknown"
)

var compassPoints = [...]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// Render writes a human-readable report. A report missing a required field
// yields a MalformedResponse error and nothing is written.
func Render(w io.Writer, r models.Report) error {
	if err := r.Validate(); err != nil {
		return err
	}

	header := r.Name
	if r.Country != "" {
		header = fmt.Sprintf("%s, %s", r.Name, r.Country)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "\nWeather in %s\n", header)
	fmt.Fprintln(&buf, strings.Repeat("─", 33))

	m := r.Main
	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Condition:\t%s\n", conditionText(r.Condition()))
	fmt.Fprintf(tw, "Temperature:\t%s\n", celsius(m.Temp))
	fmt.Fprintf(tw, "Feels like:\t%s\n", celsius(m.FeelsLike))
	fmt.Fprintf(tw, "Min / Max:\t%s / %s\n", celsius(m.TempMin), celsius(m.TempMax))
	fmt.Fprintf(tw, "Humidity:\t%s\n", withUnit(m.Humidity, "%.0f%%"))
	fmt.Fprintf(tw, "Pressure:\t%s\n", withUnit(m.Pressure, "%.0f hPa"))
	fmt.Fprintf(tw, "Wind:\t%s\n", windText(r.Wind))
	fmt.Fprintf(tw, "Sunrise:\t%s\n", clock(r.Sunrise, r.Location()))
	fmt.Fprintf(tw, "Sunset:\t%s\n", clock(r.Sunset, r.Location()))
	tw.Flush()
	buf.WriteByte('\n')

	_, err := w.Write(buf.Bytes())
	return err
}

func conditionText(c models.Condition) string {
	if c.Group == "" {
		return c.Description
	}
	return fmt.Sprintf("%s (%s)", c.Description, c.Group)
}

func celsius(v *float64) string {
	return withUnit(v, "%.1f °C")
}

func withUnit(v *float64, format string) string {
	if v == nil {
		return notAvailable
	}
	return fmt.Sprintf(format, *v)
}

func windText(wind *models.WindReading) string {
	if wind == nil {
		return fmt.Sprintf("%s, direction %s", notAvailable, unknownMarker)
	}
	return fmt.Sprintf("%s, direction %s", withUnit(wind.Speed, "%.1f m/s"), windDirection(wind.Deg))
}

// windDirection defaults to "unknown" when the provider omits wind.deg.
func windDirection(deg *float64) string {
	if deg == nil {
		return unknownMarker
	}
	d := math.Mod(*deg, 360)
	if d < 0 {
		d += 360
	}
	point := compassPoints[int(math.Floor(d/22.5+0.5))%len(compassPoints)]
	return fmt.Sprintf("%.0f° (%s)", *deg, point)
}

func clock(t *time.Time, loc *time.Location) string {
	if t == nil {
		return unknownMarker
	}
	return t.In(loc).Format("15:04")
}
