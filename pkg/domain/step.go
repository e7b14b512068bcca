package domain

import (
	"fmt"
)

// Step is one stage of the intake wizard. Steps are totally ordered by their
// position in the sequence; the zero value is not a step.
type Step int

const (
	StepAge Step = iota + 1
	StepGender
	StepPreferences
	StepReview
)

// FirstStep is where every new record starts.
const FirstStep = StepAge

// LastStep is the review step. It is left by submitting, never by advancing.
const LastStep = StepReview

var stepNames = map[Step]string{
	StepAge:         "age",
	StepGender:      "gender",
	StepPreferences: "preferences",
	StepReview:      "review",
}

// legacyStepNames maps the page names used by the first version of the
// frontend, which may still be stored in older records.
var legacyStepNames = map[string]Step{
	"patient_age":                   StepAge,
	"patient_gender":                StepGender,
	"therapist_minority_competence": StepPreferences,
}

var pageNames = map[Step]string{
	StepAge:         "patient_age",
	StepGender:      "patient_gender",
	StepPreferences: "therapist_minority_competence",
	StepReview:      "review",
}

// Steps returns the fixed sequence in order.
func Steps() []Step {
	return []Step{StepAge, StepGender, StepPreferences, StepReview}
}

// ParseStep resolves a step name. Unknown names are never coerced.
func ParseStep(name string) (Step, error) {
	for s, n := range stepNames {
		if n == name {
			return s, nil
		}
	}
	if s, ok := legacyStepNames[name]; ok {
		return s, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidStep, name)
}

// PageName returns the legacy page name of s, as spoken by the record store
// wire format. Invalid steps yield an empty string.
func (s Step) PageName() string {
	return pageNames[s]
}

// Valid reports whether s is part of the sequence.
func (s Step) Valid() bool {
	return s >= FirstStep && s <= LastStep
}

func (s Step) String() string {
	if n, ok := stepNames[s]; ok {
		return n
	}
	return fmt.Sprintf("Step(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s Step) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStep, int(s))
	}
	return []byte(stepNames[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Step) UnmarshalText(text []byte) error {
	parsed, err := ParseStep(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// StepIndex returns the 1-based position of step in the sequence.
func StepIndex(step Step) (int, error) {
	if !step.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidStep, int(step))
	}
	return int(step), nil
}

// Next returns the step immediately after s.
// The review step has no next step: it is completed by submitting.
func (s Step) Next() (Step, error) {
	if !s.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidStep, int(s))
	}
	if s == LastStep {
		return 0, ErrNoNextStep
	}
	return s + 1, nil
}

// Previous returns where going back from s leads. Going back from the first
// step leaves the wizard.
func (s Step) Previous() (Retreat, error) {
	if !s.Valid() {
		return Retreat{}, fmt.Errorf("%w: %d", ErrInvalidStep, int(s))
	}
	if s == FirstStep {
		return ExitFlow(), nil
	}
	return RetreatTo(s - 1), nil
}

// Field returns the answer collected on s. Review collects none.
func (s Step) Field() (Field, bool) {
	for _, f := range Fields() {
		if f.Step() == s {
			return f, true
		}
	}
	return 0, false
}

// Retreat is the result of going back: either a step to move to, or an exit
// from the wizard. An exit carries no step.
type Retreat struct {
	to   Step
	exit bool
}

// RetreatTo builds a retreat to step.
func RetreatTo(step Step) Retreat {
	return Retreat{to: step}
}

// ExitFlow builds a retreat that leaves the wizard.
func ExitFlow() Retreat {
	return Retreat{exit: true}
}

// Exit reports whether the caller must leave the wizard.
func (r Retreat) Exit() bool {
	return r.exit
}

// Step returns the target step. ok is false for an exit.
func (r Retreat) Step() (step Step, ok bool) {
	if r.exit {
		return 0, false
	}
	return r.to, true
}

func (r Retreat) String() string {
	if r.exit {
		return "exit"
	}
	return "to " + r.to.String()
}

// Progress is a step's position for rendering, e.g. "step 2 of 4".
type Progress struct {
	Index int `json:"index"`
	Total int `json:"total"`
}

// ProgressOf returns the position of step.
func ProgressOf(step Step) (Progress, error) {
	idx, err := StepIndex(step)
	if err != nil {
		return Progress{}, err
	}
	return Progress{Index: idx, Total: len(stepNames)}, nil
}

func (p Progress) String() string {
	return fmt.Sprintf("step %d of %d", p.Index, p.Total)
}
