package dispatch

import "fmt"

// Outcome records the result of one attempted action.
type Outcome struct {
	Item    string
	Err     error
	Skipped bool
}

// Summary aggregates per-item outcomes for one command invocation.
// It only lives for the duration of that invocation.
type Summary struct {
	Outcomes   []Outcome
	FreedBytes uint64
}

func (s *Summary) add(item string, err error) {
	s.Outcomes = append(s.Outcomes, Outcome{Item: item, Err: err})
}

func (s *Summary) addSkipped(item string) {
	s.Outcomes = append(s.Outcomes, Outcome{Item: item, Skipped: true})
}

// Succeeded counts actions that ran and exited cleanly.
func (s *Summary) Succeeded() int {
	n := 0
	for _, o := range s.Outcomes {
		if o.Err == nil && !o.Skipped {
			n++
		}
	}
	return n
}

// Failed counts actions that ran and failed.
func (s *Summary) Failed() int {
	n := 0
	for _, o := range s.Outcomes {
		if o.Err != nil {
			n++
		}
	}
	return n
}

// Skipped counts actions not executed (dry-run).
func (s *Summary) Skipped() int {
	n := 0
	for _, o := range s.Outcomes {
		if o.Skipped {
			n++
		}
	}
	return n
}

// Err returns a non-nil error when any action failed, for mapping the
// invocation onto a non-zero exit code. Declines and empty batches are
// not errors.
func (s *Summary) Err() error {
	if failed := s.Failed(); failed > 0 {
		return fmt.Errorf("%d of %d action(s) failed", failed, len(s.Outcomes))
	}
	return nil
}
