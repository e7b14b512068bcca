package domain

import (
	"slices"
)

// Record is the persisted state of one applicant's intake.
type Record struct {
	ID          string
	CurrentStep Step
	Submitted   bool

	// Answers. Each stays unset until its step is reached.
	AgeBracket     *AgeBracket
	GenderIdentity *GenderIdentity
	Competences    []Competence
}

// NewRecord returns the initial state of a freshly created record.
func NewRecord(id string) Record {
	return Record{ID: id, CurrentStep: FirstStep}
}

// IsComplete reports whether the applicant confirmed the review step.
func (r Record) IsComplete() bool {
	return r.Submitted
}

// IsComplete reports whether record was submitted.
func IsComplete(record Record) bool {
	return record.IsComplete()
}

// Summary returns the landing-view projection of r.
func (r Record) Summary() Summary {
	return Summary{ID: r.ID, CurrentStep: r.CurrentStep, Submitted: r.Submitted}
}

// Values returns the saved answer for f as raw strings. An unset single-choice
// field yields nil; the competence set yields an empty slice.
func (r Record) Values(f Field) []string {
	switch f {
	case FieldAgeBracket:
		if r.AgeBracket != nil {
			return []string{string(*r.AgeBracket)}
		}
	case FieldGenderIdentity:
		if r.GenderIdentity != nil {
			return []string{string(*r.GenderIdentity)}
		}
	case FieldCompetencePreferences:
		out := make([]string, 0, len(r.Competences))
		for _, c := range r.Competences {
			out = append(out, string(c))
		}
		return out
	}
	return nil
}

// Reached reports whether the applicant has been positioned at step, or past it.
func (r Record) Reached(step Step) bool {
	return step.Valid() && r.CurrentStep >= step
}

// Summary is the short form used to list applications.
type Summary struct {
	ID          string
	CurrentStep Step
	Submitted   bool
}

// Patch is a partial write. Nil fields are left unchanged by the store.
// Submit can only raise the submitted flag; no patch lowers it.
type Patch struct {
	Step           *Step
	Submit         bool
	AgeBracket     *AgeBracket
	GenderIdentity *GenderIdentity

	// Competences replaces the whole set when non-nil.
	Competences *[]Competence
}

// IsEmpty reports whether p carries no field.
func (p Patch) IsEmpty() bool {
	return p.Step == nil && !p.Submit && p.AgeBracket == nil && p.GenderIdentity == nil && p.Competences == nil
}

// Merge returns p with every field set in other overriding it.
func (p Patch) Merge(other Patch) Patch {
	if other.Step != nil {
		p.Step = other.Step
	}
	if other.Submit {
		p.Submit = true
	}
	if other.AgeBracket != nil {
		p.AgeBracket = other.AgeBracket
	}
	if other.GenderIdentity != nil {
		p.GenderIdentity = other.GenderIdentity
	}
	if other.Competences != nil {
		p.Competences = other.Competences
	}
	return p
}

// Fields lists the record fields p writes, by their store names.
func (p Patch) Fields() []string {
	var out []string
	if p.Step != nil {
		out = append(out, "current_step")
	}
	if p.Submit {
		out = append(out, "submitted")
	}
	if p.AgeBracket != nil {
		out = append(out, FieldAgeBracket.String())
	}
	if p.GenderIdentity != nil {
		out = append(out, FieldGenderIdentity.String())
	}
	if p.Competences != nil {
		out = append(out, FieldCompetencePreferences.String())
	}
	return out
}

// Validate checks that every value p carries is in range.
func (p Patch) Validate() error {
	if p.Step != nil && !p.Step.Valid() {
		return ErrInvalidStep
	}
	if p.AgeBracket != nil {
		if _, err := ParseAgeBracket(string(*p.AgeBracket)); err != nil {
			return err
		}
	}
	if p.GenderIdentity != nil {
		if _, err := ParseGenderIdentity(string(*p.GenderIdentity)); err != nil {
			return err
		}
	}
	if p.Competences != nil {
		for _, c := range *p.Competences {
			if !slices.Contains(Competences(), c) {
				return &AnswerError{Field: FieldCompetencePreferences, Value: string(c)}
			}
		}
	}
	return nil
}

// Apply merges p into r the way the record store does.
func (p Patch) Apply(r Record) Record {
	if p.Step != nil {
		r.CurrentStep = *p.Step
	}
	if p.Submit {
		r.Submitted = true
	}
	if p.AgeBracket != nil {
		a := *p.AgeBracket
		r.AgeBracket = &a
	}
	if p.GenderIdentity != nil {
		g := *p.GenderIdentity
		r.GenderIdentity = &g
	}
	if p.Competences != nil {
		r.Competences = CompetenceSet(*p.Competences)
	}
	return r
}

// Clone returns a deep copy of r.
func (r Record) Clone() Record {
	out := r
	if r.AgeBracket != nil {
		a := *r.AgeBracket
		out.AgeBracket = &a
	}
	if r.GenderIdentity != nil {
		g := *r.GenderIdentity
		out.GenderIdentity = &g
	}
	if r.Competences != nil {
		out.Competences = slices.Clone(r.Competences)
	}
	return out
}

// Ptr returns a pointer to v. It keeps patch literals short.
func Ptr[T any](v T) *T {
	return &v
}
