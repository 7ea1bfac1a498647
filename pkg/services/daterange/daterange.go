package daterange

import (
	"fmt"
	"strings"
	"time"

	"github.com/de-tools/tax-atlas/pkg/models/domain"
)

// MaxChunkDays is the upstream source's per-request limit.
const MaxChunkDays = 31

// InvalidRangeError reports malformed or logically inconsistent date bounds.
// It fails the run before any fetch happens and is never retried.
type InvalidRangeError struct {
	Reason string
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid date range: %s", e.Reason)
}

// DefaultPolicy selects the range used when the caller omits both bounds.
type DefaultPolicy string

const (
	// PolicyPreviousMonth covers the full previous calendar month. This is
	// the only policy implemented today.
	PolicyPreviousMonth DefaultPolicy = "previous_month"
	// PolicyDaily and PolicyWeekly are reserved for future report cadences.
	PolicyDaily  DefaultPolicy = "daily"
	PolicyWeekly DefaultPolicy = "weekly"
)

// ParseDate parses a date in the boundary format, tolerating "/" and "."
// separators in place of "-".
func ParseDate(s string) (time.Time, error) {
	cleaned := strings.NewReplacer("/", "-", ".", "-").Replace(strings.TrimSpace(s))
	t, err := time.Parse(domain.DateLayout, cleaned)
	if err != nil {
		return time.Time{}, &InvalidRangeError{
			Reason: fmt.Sprintf("%q is not a valid %s date", s, domain.DateLayout),
		}
	}
	return t, nil
}

// Resolve validates the optional textual bounds and produces the effective
// period for a report run. Supplying exactly one bound is an error; supplying
// neither defers to Default with the previous-month policy.
func Resolve(start, end string, now time.Time) (domain.Period, error) {
	if start == "" && end == "" {
		return Default(PolicyPreviousMonth, now)
	}
	if start == "" || end == "" {
		return domain.Period{}, &InvalidRangeError{
			Reason: "start and end must either both be supplied or both be omitted",
		}
	}

	startDate, err := ParseDate(start)
	if err != nil {
		return domain.Period{}, err
	}
	endDate, err := ParseDate(end)
	if err != nil {
		return domain.Period{}, err
	}

	p := domain.Period{Start: startDate, End: endDate}
	if err := Validate(p, now); err != nil {
		return domain.Period{}, err
	}
	return p, nil
}

// Validate checks the logical consistency of an already-parsed period.
func Validate(p domain.Period, now time.Time) error {
	if !p.Start.Before(p.End) {
		return &InvalidRangeError{Reason: "start must occur before end"}
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if p.End.After(today) {
		return &InvalidRangeError{Reason: "end cannot be later than today"}
	}
	return nil
}

// Default returns the period implied by the given policy.
func Default(policy DefaultPolicy, now time.Time) (domain.Period, error) {
	switch policy {
	case PolicyPreviousMonth:
		firstOfThisMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		lastOfPrevious := firstOfThisMonth.AddDate(0, 0, -1)
		firstOfPrevious := time.Date(lastOfPrevious.Year(), lastOfPrevious.Month(), 1, 0, 0, 0, 0, time.UTC)
		return domain.Period{Start: firstOfPrevious, End: lastOfPrevious}, nil
	case PolicyDaily, PolicyWeekly:
		return domain.Period{}, fmt.Errorf("default policy %q is not implemented", policy)
	default:
		return domain.Period{}, fmt.Errorf("unknown default policy %q", policy)
	}
}

// Split partitions the period into successive chunks of at most MaxChunkDays
// days each. Chunk starts step by exactly MaxChunkDays; each intermediate
// chunk ends where the next one starts (the shared boundary day is fetched
// twice and deduplicated downstream), and the final chunk is clamped to the
// period's end. The result is deterministic and chronologically ordered.
func Split(p domain.Period) []domain.Period {
	days := p.Days()
	if days <= MaxChunkDays {
		return []domain.Period{p}
	}

	batches := (days + MaxChunkDays - 1) / MaxChunkDays
	chunks := make([]domain.Period, 0, batches)
	current := p.Start
	for n := 0; n < batches; n++ {
		next := current.AddDate(0, 0, MaxChunkDays)
		if n == batches-1 {
			next = p.End
		}
		chunks = append(chunks, domain.Period{Start: current, End: next})
		current = current.AddDate(0, 0, MaxChunkDays)
	}
	return chunks
}
