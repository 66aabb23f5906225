// Package tracker runs the submit cycle of a logging session: it guards the
// single outstanding estimate, appends accepted records to the ledger and
// turns failures into one user-facing notice.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spboyer/kcal/internal/estimator"
	"github.com/spboyer/kcal/internal/ledger"
	"github.com/spboyer/kcal/internal/locale"
	"github.com/spboyer/kcal/internal/models"
)

// State of the submit control.
type State int

const (
	// Idle accepts a new submission.
	Idle State = iota
	// Submitting has one estimate outstanding; further submissions are rejected.
	Submitting
	// Failed is Idle after a failed estimate: the draft is kept for a retry.
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ErrSubmissionInFlight is returned by Submit while another estimate is outstanding.
var ErrSubmissionInFlight = errors.New("an estimate is already in progress")

// Status is what a single Submit call did.
type Status int

const (
	// StatusIgnored means the input was blank; nothing happened.
	StatusIgnored Status = iota
	// StatusAccepted means a record was appended to the ledger.
	StatusAccepted
	// StatusFailed means the estimate failed; the ledger is unchanged.
	StatusFailed
)

// Outcome describes the result of Submit.
type Outcome struct {
	Status Status
	// Record is set when Status is StatusAccepted.
	Record *models.NutritionRecord
	// Notice is the message to show the user when Status is StatusFailed.
	// Transport and parse failures share it.
	Notice string
	// Err keeps the tagged estimator error for diagnostics.
	Err error
	// Draft is what the input field should hold next: cleared on success,
	// the submitted text otherwise.
	Draft string
}

// Tracker owns one session's ledger and its submit state machine.
// It is safe for concurrent use.
type Tracker struct {
	estimator Estimator
	ledger    *ledger.Ledger
	notice    string

	mu    sync.Mutex
	state State
	draft string
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithLedger makes the tracker append to l instead of a fresh ledger.
func WithLedger(l *ledger.Ledger) Option {
	return func(t *Tracker) { t.ledger = l }
}

// WithNotice sets the failure message shown to the user.
func WithNotice(msg string) Option {
	return func(t *Tracker) { t.notice = msg }
}

// New creates an Idle tracker with an empty ledger.
func New(est Estimator, opts ...Option) *Tracker {
	t := &Tracker{
		estimator: est,
		notice:    locale.Printer(locale.Supported[0]).Sprintf(locale.KeyFailure),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.ledger == nil {
		t.ledger = ledger.New()
	}
	return t
}

// State returns the current state.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Draft returns the text the input field should currently hold.
func (t *Tracker) Draft() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.draft
}

// Ledger returns the session ledger for reading.
func (t *Tracker) Ledger() *ledger.Ledger {
	return t.ledger
}

// Submit estimates description and, on success, appends the record.
//
// Blank input returns StatusIgnored without calling the estimator. While an
// earlier call is outstanding Submit returns ErrSubmissionInFlight. Estimation
// failures are not returned as errors; they produce a StatusFailed outcome and
// leave the tracker in Failed with the draft preserved. The Submitting guard
// is released on every path, including a panicking estimator.
func (t *Tracker) Submit(ctx context.Context, description string) (out *Outcome, err error) {
	text := strings.TrimSpace(description)
	if text == "" {
		return &Outcome{Status: StatusIgnored, Draft: description}, nil
	}

	t.mu.Lock()
	if t.state == Submitting {
		t.mu.Unlock()
		return nil, ErrSubmissionInFlight
	}
	t.state = Submitting
	t.draft = description
	t.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			slog.Error("Estimator panicked", "panic", r)
			out, err = t.fail(description, fmt.Errorf("estimator panicked: %v", r)), nil
		}
	}()

	record, estErr := t.estimator.Estimate(ctx, text)
	if estErr != nil {
		return t.fail(description, estErr), nil
	}
	if record == nil {
		return t.fail(description, errors.New("estimator returned no record")), nil
	}

	t.mu.Lock()
	t.ledger.Append(*record)
	t.state = Idle
	t.draft = ""
	t.mu.Unlock()

	slog.Debug("Record accepted", "name", record.Name, "entries", t.ledger.Len())
	return &Outcome{Status: StatusAccepted, Record: record}, nil
}

func (t *Tracker) fail(description string, cause error) *Outcome {
	t.mu.Lock()
	t.state = Failed
	t.draft = description
	t.mu.Unlock()

	attrs := []any{"error", cause}
	var estErr *estimator.EstimationError
	if errors.As(cause, &estErr) {
		attrs = append(attrs, "kind", estErr.Kind.String())
	}
	slog.Debug("Estimate failed", attrs...)

	return &Outcome{
		Status: StatusFailed,
		Notice: t.notice,
		Err:    cause,
		Draft:  description,
	}
}
