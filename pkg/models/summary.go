package models

import "fmt"

// Failure records one non-fatal per-participant failure
type Failure struct {
	Participant string `json:"participant"`
	Line        int    `json:"line,omitempty"`
	Reason      string `json:"reason"`
}

// Summary accumulates the outcome of one full run
type Summary struct {
	Rendered int       `json:"rendered"`
	Sent     int       `json:"sent"`
	Skipped  int       `json:"skipped"`
	Failures []Failure `json:"failures,omitempty"`
}

// AddFailure records a failed participant with its reason
func (s *Summary) AddFailure(participant string, line int, err error) {
	s.Failures = append(s.Failures, Failure{
		Participant: participant,
		Line:        line,
		Reason:      err.Error(),
	})
}

// Failed returns the number of recorded failures
func (s *Summary) Failed() int {
	return len(s.Failures)
}

// String renders the summary in plain language
func (s *Summary) String() string {
	rows := "rows"
	if s.Skipped == 1 {
		rows = "row"
	}
	return fmt.Sprintf("%d rendered, %d sent, %d failed, %d %s skipped",
		s.Rendered, s.Sent, s.Failed(), s.Skipped, rows)
}
