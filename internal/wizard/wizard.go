// Package wizard implements the three-step quote request flow:
// Identity -> Project -> Scope, then Submit.
//
// The step counter never leaves [Identity, Scope]. Next and Back saturate
// at the ends. When GateAdvance is set, Next refuses to leave a step whose
// required fields are missing. After Submit the wizard holds the submitted
// state until ResetDelay has elapsed, then Refresh clears it.
package wizard

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Step is a position in the wizard.
type Step int

// The wizard steps, in order.
const (
	Identity Step = iota + 1
	Project
	Scope
)

// FirstStep and LastStep bound the step counter.
const (
	FirstStep = Identity
	LastStep  = Scope
)

// Steps lists all steps in order.
var Steps = []Step{Identity, Project, Scope}

func (s Step) String() string {
	switch s {
	case Identity:
		return "identity"
	case Project:
		return "project"
	case Scope:
		return "scope"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// Title is the heading shown for the step.
func (s Step) Title() string {
	switch s {
	case Identity:
		return "About you"
	case Project:
		return "Your project"
	case Scope:
		return "Budget and timeline"
	default:
		return ""
	}
}

func clamp(s Step) Step {
	if s < FirstStep {
		return FirstStep
	}
	if s > LastStep {
		return LastStep
	}
	return s
}

var (
	// ErrNotFinalStep is returned by Submit before the last step is reached.
	ErrNotFinalStep = errors.New("quote can only be submitted from the final step")
	// ErrAlreadySubmitted is returned while a submitted draft is awaiting reset.
	ErrAlreadySubmitted = errors.New("quote already submitted")
)

// IncompleteStepError reports the fields that block leaving a step.
type IncompleteStepError struct {
	Step   Step
	Fields map[string]string // field -> reason
}

func (e *IncompleteStepError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + ": " + e.Fields[name]
	}
	return fmt.Sprintf("%s step is incomplete (%s)", e.Step, strings.Join(parts, ", "))
}

// Options configure a Wizard.
type Options struct {
	// GateAdvance blocks Next until the current step's required fields are valid.
	GateAdvance bool
	// ResetDelay is how long a submitted draft is kept before Refresh clears it.
	ResetDelay time.Duration
}

// DefaultResetDelay matches the confirmation screen's display time.
const DefaultResetDelay = 3 * time.Second

// DefaultOptions returns gated advancement with the default reset delay.
func DefaultOptions() Options {
	return Options{GateAdvance: true, ResetDelay: DefaultResetDelay}
}

// Wizard is the state of one visitor's quote request.
type Wizard struct {
	Step        Step       `json:"step"`
	Draft       Draft      `json:"draft"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`

	opts Options
}

// New returns a wizard at the first step with an empty draft.
func New(opts Options) *Wizard {
	return &Wizard{Step: FirstStep, opts: opts}
}

// Options returns the options the wizard was created with.
func (w *Wizard) Options() Options {
	return w.opts
}

// Submitted reports whether the wizard is holding a submitted draft.
func (w *Wizard) Submitted() bool {
	return w.SubmittedAt != nil
}

// ResetAt returns when a submitted draft becomes eligible for reset.
// It is the zero time when nothing has been submitted.
func (w *Wizard) ResetAt() time.Time {
	if w.SubmittedAt == nil {
		return time.Time{}
	}
	return w.SubmittedAt.Add(w.opts.ResetDelay)
}

// Update copies known fields into the draft. Unknown keys are ignored.
func (w *Wizard) Update(fields map[string]string) error {
	if w.Submitted() {
		return ErrAlreadySubmitted
	}
	for name, value := range fields {
		w.Draft.Set(name, value)
	}
	return nil
}

// Next advances one step, saturating at LastStep.
func (w *Wizard) Next() error {
	if w.Submitted() {
		return ErrAlreadySubmitted
	}
	if w.opts.GateAdvance {
		if problems := w.Draft.Problems(w.Step); len(problems) > 0 {
			return &IncompleteStepError{Step: w.Step, Fields: problems}
		}
	}
	w.Step = clamp(w.Step + 1)
	return nil
}

// Back moves one step towards the start, saturating at FirstStep.
func (w *Wizard) Back() error {
	if w.Submitted() {
		return ErrAlreadySubmitted
	}
	w.Step = clamp(w.Step - 1)
	return nil
}

// Submit finalises the draft and returns a copy of it. With GateAdvance
// every step is re-validated; field length limits apply either way. The
// wizard moves to the first failing step.
func (w *Wizard) Submit(now time.Time) (Draft, error) {
	if w.Submitted() {
		return Draft{}, ErrAlreadySubmitted
	}
	if w.Step != LastStep {
		return Draft{}, ErrNotFinalStep
	}
	for _, step := range Steps {
		problems := w.Draft.lengthProblems(step)
		if w.opts.GateAdvance {
			problems = w.Draft.Problems(step)
		}
		if len(problems) > 0 {
			w.Step = step
			return Draft{}, &IncompleteStepError{Step: step, Fields: problems}
		}
	}

	submittedAt := now
	w.SubmittedAt = &submittedAt
	return w.Draft, nil
}

// Refresh clears a submitted wizard once ResetDelay has elapsed.
// It reports whether a reset happened.
func (w *Wizard) Refresh(now time.Time) bool {
	if !w.Submitted() || now.Before(w.ResetAt()) {
		return false
	}
	w.Reset()
	return true
}

// Reset returns the wizard to the first step with an empty draft.
func (w *Wizard) Reset() {
	w.Step = FirstStep
	w.Draft = Draft{}
	w.SubmittedAt = nil
}

// Marshal encodes the wizard state for storage in a session.
func (w *Wizard) Marshal() (string, error) {
	b, err := json.Marshal(w)
	if err != nil {
		return "", fmt.Errorf("failed to encode wizard: %w", err)
	}
	return string(b), nil
}

// Unmarshal restores a wizard from Marshal output. An empty string yields
// a fresh wizard; an out-of-range step is clamped.
func Unmarshal(data string, opts Options) (*Wizard, error) {
	w := New(opts)
	if data == "" {
		return w, nil
	}
	if err := json.Unmarshal([]byte(data), w); err != nil {
		return New(opts), fmt.Errorf("failed to decode wizard: %w", err)
	}
	w.Step = clamp(w.Step)
	return w, nil
}
