package domain

import "strings"

// Status is the lifecycle state of a scheduled post.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// transitions is the only place allowed moves are declared.
var transitions = map[Status][]Status{
	StatusPending:   {StatusCompleted, StatusFailed},
	StatusCompleted: nil,
	StatusFailed:    nil,
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// Terminal reports whether no transition leaves s.
func (s Status) Terminal() bool {
	return s.Valid() && len(transitions[s]) == 0
}

// CanTransition reports whether moving from s to to is allowed.
func (s Status) CanTransition(to Status) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition validates a move from s to to. Targets outside the table are
// validation errors; moves out of a terminal state are invalid transitions.
func (s Status) Transition(to Status) error {
	if !to.Valid() || to == StatusPending {
		return Errorf(EVALIDATION, "status %q is not a valid target", to)
	}
	if !s.CanTransition(to) {
		return Errorf(EINVALIDTRANSITION, "cannot move post from %s to %s", s, to)
	}
	return nil
}

// ParseStatus resolves a target status name.
func ParseStatus(v string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(v)))
	if !s.Valid() {
		return "", Errorf(EVALIDATION, "unknown status %q", v)
	}
	return s, nil
}

// StatusFilter selects posts by status; FilterAll matches everything.
type StatusFilter string

const (
	FilterAll       StatusFilter = "all"
	FilterPending   StatusFilter = StatusFilter(StatusPending)
	FilterCompleted StatusFilter = StatusFilter(StatusCompleted)
	FilterFailed    StatusFilter = StatusFilter(StatusFailed)
)

// ParseStatusFilter resolves a filter name; empty means all.
func ParseStatusFilter(v string) (StatusFilter, error) {
	f := StatusFilter(strings.ToLower(strings.TrimSpace(v)))
	if f == "" {
		return FilterAll, nil
	}
	if f != FilterAll && !Status(f).Valid() {
		return "", Errorf(EVALIDATION, "unknown status filter %q", v)
	}
	return f, nil
}

// Match reports whether a post with status s passes the filter.
func (f StatusFilter) Match(s Status) bool {
	return f == FilterAll || f == "" || Status(f) == s
}

// Stats is the dashboard summary of archived and scheduled work.
type Stats struct {
	TotalScrapes   int `json:"total_scrapes"`
	TotalScheduled int `json:"total_scheduled"`
	Pending        int `json:"pending"`
	Completed      int `json:"completed"`
	Failed         int `json:"failed"`
}
