package analytics

import (
	"context"
	"sync"
	"time"
)

// Session holds the active filter selection and reruns the pipeline on
// every change. Derived user and date sets live only inside a single
// pipeline run, never across filter revisions.
type Session struct {
	mu           sync.Mutex
	orchestrator *Orchestrator
	filter       Filter
	now          func() time.Time
}

func NewSession(orchestrator *Orchestrator) *Session {
	return &Session{
		orchestrator: orchestrator,
		filter: Filter{
			SymptomID: SymptomAll,
			Range:     RangeMonth,
		},
		now: time.Now,
	}
}

func (session *Session) Filter() Filter {
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.filter
}

// Refresh reruns the pipeline with the current filter.
func (session *Session) Refresh(ctx context.Context) (Result, error) {
	return session.orchestrator.RunPipeline(ctx, session.Filter())
}

// SetUser selects one user, or every user when userID is zero.
func (session *Session) SetUser(ctx context.Context, userID uint) (Result, error) {
	session.mu.Lock()
	session.filter.UserID = userID
	filter := session.filter
	session.mu.Unlock()
	return session.orchestrator.RunPipeline(ctx, filter)
}

func (session *Session) SetSymptom(ctx context.Context, symptomID string) (Result, error) {
	session.mu.Lock()
	if symptomID == "" {
		symptomID = SymptomAll
	}
	session.filter.SymptomID = symptomID
	filter := session.filter
	session.mu.Unlock()
	return session.orchestrator.RunPipeline(ctx, filter)
}

// SetRange activates a named range token and recomputes the start/end pair
// from it. Selecting custom keeps whatever dates are already set.
func (session *Session) SetRange(ctx context.Context, token RangeToken) (Result, error) {
	session.mu.Lock()
	session.filter.Range = token
	if token != RangeCustom {
		now := session.now()
		session.filter.StartDate = ResolveCutoff(token, now)
		end := now
		session.filter.EndDate = &end
	}
	filter := session.filter
	session.mu.Unlock()
	return session.orchestrator.RunPipeline(ctx, filter)
}

// SetDates sets an explicit window. When a named range is still active and
// either date strays more than one calendar day from that range's own
// window, the token is promoted to custom: second-level jitter between two
// "now" computations is tolerated, a genuine manual edit is not.
func (session *Session) SetDates(ctx context.Context, start time.Time, end time.Time) (Result, error) {
	session.mu.Lock()
	session.filter.StartDate = &start
	session.filter.EndDate = &end
	session.reconcileRangeLocked()
	filter := session.filter
	session.mu.Unlock()
	return session.orchestrator.RunPipeline(ctx, filter)
}

func (session *Session) reconcileRangeLocked() {
	if session.filter.Range == RangeCustom {
		return
	}
	if session.filter.StartDate == nil || session.filter.EndDate == nil {
		return
	}

	now := session.now()
	resolved := ResolveCutoff(session.filter.Range, now)
	if resolved == nil {
		// A boundless token with explicit dates is by definition custom.
		session.filter.Range = RangeCustom
		return
	}
	if calendarDaysApart(*session.filter.StartDate, *resolved) > 1 ||
		calendarDaysApart(*session.filter.EndDate, now) > 1 {
		session.filter.Range = RangeCustom
	}
}

func calendarDaysApart(a time.Time, b time.Time) int {
	dayA := truncateToDay(a)
	dayB := truncateToDay(b)
	diff := int(dayA.Sub(dayB).Hours() / 24)
	if diff < 0 {
		diff = -diff
	}
	return diff
}
