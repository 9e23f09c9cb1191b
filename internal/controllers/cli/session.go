package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"weather-cli/internal/models"
	"weather-cli/pkg/logger"
)

// WeatherService is what a session needs from the service layer.
type WeatherService interface {
	Fetch(ctx context.Context, q models.Query) (models.Report, error)
	Save(ctx context.Context, report models.Report) (string, error)
	LastLocation(ctx context.Context) (string, bool)
}

type Options struct {
	// DefaultAPIKey is used when the key prompt is left empty.
	DefaultAPIKey string
	// SaveEnabled offers to persist each displayed report.
	SaveEnabled bool
}

type state int

const (
	stateCollectingInput state = iota
	stateFetching
	stateDisplaying
	stateReportingError
	stateAskRepeat
	stateTerminated
)

func (s state) String() string {
	return [...]string{"collecting_input", "fetching", "displaying", "reporting_error", "ask_repeat", "terminated"}[s]
}

// Session drives the interactive loop. A failed fetch is never retried with
// the same query; the user is asked whether to continue and input is
// collected again.
type Session struct {
	in      *bufio.Reader
	out     io.Writer
	service WeatherService
	opts    Options
	l       *logger.Logger
}

func NewSession(in io.Reader, out io.Writer, service WeatherService, opts Options, l *logger.Logger) *Session {
	return &Session{
		in:      bufio.NewReader(in),
		out:     out,
		service: service,
		opts:    opts,
		l:       l,
	}
}

// loop is the state carried between transitions of one Run.
type loop struct {
	query      models.Query
	report     models.Report
	failure    error
	iterations int
}

// Run loops until the user declines to continue or input ends. It returns the
// number of completed iterations. Only a failure to read input is returned as
// an error.
func (s *Session) Run(ctx context.Context) (int, error) {
	var lp loop

	for current := stateCollectingInput; current != stateTerminated; {
		next, err := s.step(ctx, current, &lp)

		s.l.Debug("session transition", map[string]any{
			"from": current.String(),
			"to":   next.String(),
		})

		if err == io.EOF {
			err = nil
		}
		if err != nil {
			return lp.iterations, err
		}
		current = next
	}

	fmt.Fprintln(s.out, "Goodbye!")
	s.l.Info("session finished", map[string]any{"iterations": lp.iterations})
	return lp.iterations, nil
}

func (s *Session) step(ctx context.Context, current state, lp *loop) (state, error) {
	switch current {
	case stateCollectingInput:
		q, err := s.collect(ctx)
		if err != nil {
			return stateTerminated, err
		}
		lp.iterations++
		lp.query = q
		if lp.failure = q.Validate(); lp.failure != nil {
			return stateReportingError, nil
		}
		return stateFetching, nil

	case stateFetching:
		lp.report, lp.failure = s.service.Fetch(ctx, lp.query)
		if lp.failure != nil {
			return stateReportingError, nil
		}
		return stateDisplaying, nil

	case stateDisplaying:
		if lp.failure = Render(s.out, lp.report); lp.failure != nil {
			return stateReportingError, nil
		}
		if !s.opts.SaveEnabled {
			return stateAskRepeat, nil
		}
		yes, err := s.confirm("Save raw response to a file? (y/n): ")
		if err != nil {
			return stateTerminated, err
		}
		if yes {
			path, err := s.service.Save(ctx, lp.report)
			if err != nil {
				lp.failure = err
				return stateReportingError, nil
			}
			fmt.Fprintf(s.out, "Weather data saved to %s\n", path)
		}
		return stateAskRepeat, nil

	case stateReportingError:
		fmt.Fprintln(s.out, Message(lp.failure))
		return stateAskRepeat, nil

	case stateAskRepeat:
		yes, err := s.confirm("\nCheck another city? (y/n): ")
		if err != nil || !yes {
			return stateTerminated, err
		}
		return stateCollectingInput, nil
	}
	return stateTerminated, nil
}

func (s *Session) collect(ctx context.Context) (models.Query, error) {
	keyPrompt := "Enter your OpenWeatherMap API key: "
	if s.opts.DefaultAPIKey != "" {
		keyPrompt = "Enter your OpenWeatherMap API key [press Enter to use OPENWEATHER_API_KEY]: "
	}
	apiKey, err := s.prompt(keyPrompt)
	if err != nil {
		return models.Query{}, err
	}
	if strings.TrimSpace(apiKey) == "" {
		apiKey = s.opts.DefaultAPIKey
	}

	lastLocation, hasLast := s.service.LastLocation(ctx)
	locationPrompt := "Enter city name (e.g., London, New York, Tokyo): "
	if hasLast {
		locationPrompt = fmt.Sprintf("Enter city name [%s]: ", lastLocation)
	}
	location, err := s.prompt(locationPrompt)
	if err != nil {
		return models.Query{}, err
	}
	if strings.TrimSpace(location) == "" && hasLast {
		location = lastLocation
	}

	return models.NewQuery(apiKey, location), nil
}

// confirm reports whether the answer is y or yes, in any case.
func (s *Session) confirm(question string) (bool, error) {
	answer, err := s.prompt(question)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// prompt returns io.EOF only when input ended before any text was read.
func (s *Session) prompt(question string) (string, error) {
	fmt.Fprint(s.out, question)
	line, err := s.in.ReadString('\n')
	if err == io.EOF && line != "" {
		err = nil
	}
	if err != nil {
		if err == io.EOF {
			fmt.Fprintln(s.out)
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
