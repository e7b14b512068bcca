package domain

import (
	"fmt"
	"slices"
)

// AgeBracket is the applicant's age range.
type AgeBracket string

const (
	Age18To25 AgeBracket = "18-25"
	Age26To35 AgeBracket = "26-35"
	Age36To45 AgeBracket = "36-45"
	Age46To55 AgeBracket = "46-55"
	Age56To65 AgeBracket = "56-65"
	AgeOver65 AgeBracket = "over_65"
)

// AgeBrackets lists the accepted values in display order.
func AgeBrackets() []AgeBracket {
	return []AgeBracket{Age18To25, Age26To35, Age36To45, Age46To55, Age56To65, AgeOver65}
}

// ParseAgeBracket validates v.
func ParseAgeBracket(v string) (AgeBracket, error) {
	if a := AgeBracket(v); slices.Contains(AgeBrackets(), a) {
		return a, nil
	}
	return "", &AnswerError{Field: FieldAgeBracket, Value: v}
}

// GenderIdentity is the gender the applicant identifies as.
type GenderIdentity string

const (
	GenderWoman     GenderIdentity = "woman"
	GenderMan       GenderIdentity = "man"
	GenderNonbinary GenderIdentity = "nonbinary"
)

// GenderIdentities lists the accepted values in display order.
func GenderIdentities() []GenderIdentity {
	return []GenderIdentity{GenderWoman, GenderMan, GenderNonbinary}
}

// ParseGenderIdentity validates v.
func ParseGenderIdentity(v string) (GenderIdentity, error) {
	if g := GenderIdentity(v); slices.Contains(GenderIdentities(), g) {
		return g, nil
	}
	return "", &AnswerError{Field: FieldGenderIdentity, Value: v}
}

// Competence is an area of knowledge the applicant wants their therapist to have.
type Competence string

const (
	CompetenceLGBTQ                    Competence = "lgbtq"
	CompetenceMinorityStress           Competence = "minority_stress"
	CompetenceNeurodivergent           Competence = "neurodivergent"
	CompetencePolyamorousRelationships Competence = "polyamorous_relationships"
	CompetenceRBTS                     Competence = "rbts"
	CompetenceTransgenderKnowledge     Competence = "transgender_knowledge"
)

// Competences lists the accepted values in canonical order.
func Competences() []Competence {
	return []Competence{
		CompetenceLGBTQ,
		CompetenceMinorityStress,
		CompetenceNeurodivergent,
		CompetencePolyamorousRelationships,
		CompetenceRBTS,
		CompetenceTransgenderKnowledge,
	}
}

// ParseCompetences validates values and returns them as a set: duplicates
// removed, canonical order. An empty input yields an empty, non-nil set.
func ParseCompetences(values []string) ([]Competence, error) {
	seen := make(map[Competence]bool, len(values))
	for _, v := range values {
		c := Competence(v)
		if !slices.Contains(Competences(), c) {
			return nil, &AnswerError{Field: FieldCompetencePreferences, Value: v}
		}
		seen[c] = true
	}
	set := make([]Competence, 0, len(seen))
	for _, c := range Competences() {
		if seen[c] {
			set = append(set, c)
		}
	}
	return set, nil
}

// CompetenceSet deduplicates cs and returns it in canonical order.
// Values outside the enumeration are dropped; callers validate first.
func CompetenceSet(cs []Competence) []Competence {
	set := make([]Competence, 0, len(cs))
	for _, c := range Competences() {
		if slices.Contains(cs, c) {
			set = append(set, c)
		}
	}
	return set
}

// Field names the answer a step collects.
type Field int

const (
	FieldAgeBracket Field = iota + 1
	FieldGenderIdentity
	FieldCompetencePreferences
)

var fieldNames = map[Field]string{
	FieldAgeBracket:            "age_bracket",
	FieldGenderIdentity:        "gender_identity",
	FieldCompetencePreferences: "competence_preferences",
}

// Fields returns every answer field in step order.
func Fields() []Field {
	return []Field{FieldAgeBracket, FieldGenderIdentity, FieldCompetencePreferences}
}

// ParseField resolves a field name.
func ParseField(name string) (Field, error) {
	for f, n := range fieldNames {
		if n == name {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown field %q", ErrInvalidAnswer, name)
}

func (f Field) String() string {
	if n, ok := fieldNames[f]; ok {
		return n
	}
	return fmt.Sprintf("Field(%d)", int(f))
}

// MarshalText implements encoding.TextMarshaler.
func (f Field) MarshalText() ([]byte, error) {
	n, ok := fieldNames[f]
	if !ok {
		return nil, fmt.Errorf("%w: unknown field %d", ErrInvalidAnswer, int(f))
	}
	return []byte(n), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Field) UnmarshalText(text []byte) error {
	parsed, err := ParseField(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// Step returns the step on which f is collected.
func (f Field) Step() Step {
	switch f {
	case FieldAgeBracket:
		return StepAge
	case FieldGenderIdentity:
		return StepGender
	case FieldCompetencePreferences:
		return StepPreferences
	}
	return 0
}

// Multiple reports whether f holds a set rather than a single choice.
func (f Field) Multiple() bool {
	return f == FieldCompetencePreferences
}

// Options returns the accepted values for f.
func (f Field) Options() []string {
	var out []string
	switch f {
	case FieldAgeBracket:
		for _, v := range AgeBrackets() {
			out = append(out, string(v))
		}
	case FieldGenderIdentity:
		for _, v := range GenderIdentities() {
			out = append(out, string(v))
		}
	case FieldCompetencePreferences:
		for _, v := range Competences() {
			out = append(out, string(v))
		}
	}
	return out
}

// AnswerPatch converts raw answer values for f into a patch carrying only
// that field. Single-choice fields take exactly one value.
func AnswerPatch(f Field, values []string) (Patch, error) {
	switch f {
	case FieldAgeBracket, FieldGenderIdentity:
		if len(values) != 1 {
			return Patch{}, &AnswerError{Field: f, Reason: fmt.Sprintf("expected exactly one value, got %d", len(values))}
		}
		if f == FieldAgeBracket {
			a, err := ParseAgeBracket(values[0])
			if err != nil {
				return Patch{}, err
			}
			return Patch{AgeBracket: &a}, nil
		}
		g, err := ParseGenderIdentity(values[0])
		if err != nil {
			return Patch{}, err
		}
		return Patch{GenderIdentity: &g}, nil
	case FieldCompetencePreferences:
		set, err := ParseCompetences(values)
		if err != nil {
			return Patch{}, err
		}
		return Patch{Competences: &set}, nil
	}
	return Patch{}, fmt.Errorf("%w: unknown field %d", ErrInvalidAnswer, int(f))
}
