package renamer

import "fmt"

// Outcome is what happened to one matching file.
type Outcome string

const (
	OutcomeRenamed Outcome = "renamed"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// Result records the decision for a single file. Files that do not carry a
// bracket tag never produce a Result.
type Result struct {
	Source  string
	Target  string
	Outcome Outcome
	Err     error
}

type Summary struct {
	Directory string
	DryRun    bool
	Results   []Result
}

func (s *Summary) count(o Outcome) int {
	n := 0
	for _, r := range s.Results {
		if r.Outcome == o {
			n++
		}
	}
	return n
}

func (s *Summary) Renamed() int { return s.count(OutcomeRenamed) }
func (s *Summary) Skipped() int { return s.count(OutcomeSkipped) }
func (s *Summary) Failed() int  { return s.count(OutcomeFailed) }

// HasErrors reports whether any rename failed. Skips are not errors.
func (s *Summary) HasErrors() bool {
	return s.Failed() > 0
}

// String renders the closing line printed after a run.
func (s *Summary) String() string {
	renamed := s.Renamed()
	switch {
	case renamed == 0:
		return "No matching files found."
	case s.DryRun:
		return fmt.Sprintf("Would rename %d files.", renamed)
	default:
		return fmt.Sprintf("Successfully renamed %d files.", renamed)
	}
}
