package models

import "time"

// Lookup is one recorded fetch attempt.
type Lookup struct {
	ID           int64
	SessionID    string
	Location     string
	ResolvedName string
	Outcome      string
	Temp         *float64
	CreatedAt    time.Time
}

// Succeeded reports whether the lookup produced a report.
func (l Lookup) Succeeded() bool {
	return l.Outcome == OutcomeOK
}

const OutcomeOK = "ok"
