package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecord(t *testing.T) {
	r := NewRecord("1")
	assert.Equal(t, StepAge, r.CurrentStep)
	assert.False(t, r.Submitted)
	assert.False(t, r.IsComplete())
	assert.Nil(t, r.AgeBracket)
	assert.Nil(t, r.GenderIdentity)
	assert.Empty(t, r.Competences)
}

func TestPatchApply(t *testing.T) {
	r := NewRecord("1")

	r = Patch{Step: Ptr(StepGender), AgeBracket: Ptr(Age26To35)}.Apply(r)
	assert.Equal(t, StepGender, r.CurrentStep)
	require.NotNil(t, r.AgeBracket)
	assert.Equal(t, Age26To35, *r.AgeBracket)

	// Moving back only rewrites the step.
	r = Patch{Step: Ptr(StepAge)}.Apply(r)
	assert.Equal(t, StepAge, r.CurrentStep)
	require.NotNil(t, r.AgeBracket)
	assert.Equal(t, Age26To35, *r.AgeBracket)

	set := []Competence{CompetenceLGBTQ}
	r = Patch{Competences: &set}.Apply(r)
	assert.Equal(t, []Competence{CompetenceLGBTQ}, r.Competences)

	empty := []Competence(nil)
	r = Patch{Competences: &empty}.Apply(r)
	assert.NotNil(t, r.Competences)
	assert.Empty(t, r.Competences)
}

func TestSubmittedIsMonotonic(t *testing.T) {
	r := Patch{Submit: true}.Apply(NewRecord("1"))
	require.True(t, IsComplete(r))

	for _, p := range []Patch{
		{},
		{Step: Ptr(StepAge)},
		{GenderIdentity: Ptr(GenderMan)},
		{Submit: false},
	} {
		r = p.Apply(r)
		assert.True(t, r.Submitted, "patch %+v reverted submitted", p)
	}
}

func TestPatchApplyDoesNotAlias(t *testing.T) {
	set := []Competence{CompetenceRBTS}
	r := Patch{Competences: &set}.Apply(NewRecord("1"))
	set[0] = CompetenceLGBTQ
	assert.Equal(t, CompetenceRBTS, r.Competences[0])

	c := r.Clone()
	c.Competences[0] = CompetenceNeurodivergent
	assert.Equal(t, CompetenceRBTS, r.Competences[0])
}

func TestPatchValidate(t *testing.T) {
	assert.NoError(t, Patch{Step: Ptr(StepReview), AgeBracket: Ptr(AgeOver65)}.Validate())
	assert.ErrorIs(t, Patch{Step: Ptr(Step(9))}.Validate(), ErrInvalidStep)
	assert.ErrorIs(t, Patch{GenderIdentity: Ptr(GenderIdentity("robot"))}.Validate(), ErrInvalidAnswer)
	bad := []Competence{"astrology"}
	assert.ErrorIs(t, Patch{Competences: &bad}.Validate(), ErrInvalidAnswer)
}

func TestPatchFields(t *testing.T) {
	p := Patch{Step: Ptr(StepGender), AgeBracket: Ptr(Age18To25)}
	assert.Equal(t, []string{"current_step", "age_bracket"}, p.Fields())
	assert.True(t, Patch{}.IsEmpty())
	assert.False(t, p.IsEmpty())
}

func TestPatchMerge(t *testing.T) {
	p := Patch{Step: Ptr(StepGender)}.Merge(Patch{AgeBracket: Ptr(Age46To55), Submit: true})
	assert.Equal(t, StepGender, *p.Step)
	assert.Equal(t, Age46To55, *p.AgeBracket)
	assert.True(t, p.Submit)
}

func TestAnswerPatch(t *testing.T) {
	p, err := AnswerPatch(FieldAgeBracket, []string{"26-35"})
	require.NoError(t, err)
	assert.Equal(t, Age26To35, *p.AgeBracket)
	assert.Nil(t, p.Step, "an answer alone never moves the step")

	p, err = AnswerPatch(FieldGenderIdentity, []string{"nonbinary"})
	require.NoError(t, err)
	assert.Equal(t, GenderNonbinary, *p.GenderIdentity)

	p, err = AnswerPatch(FieldCompetencePreferences, []string{"rbts", "lgbtq", "rbts"})
	require.NoError(t, err)
	assert.Equal(t, []Competence{CompetenceLGBTQ, CompetenceRBTS}, *p.Competences)

	p, err = AnswerPatch(FieldCompetencePreferences, nil)
	require.NoError(t, err)
	assert.NotNil(t, *p.Competences)
	assert.Empty(t, *p.Competences)

	_, err = AnswerPatch(FieldAgeBracket, nil)
	assert.ErrorIs(t, err, ErrInvalidAnswer)
	_, err = AnswerPatch(FieldGenderIdentity, []string{"woman", "man"})
	assert.ErrorIs(t, err, ErrInvalidAnswer)

	_, err = AnswerPatch(FieldAgeBracket, []string{"12"})
	var answerErr *AnswerError
	require.True(t, errors.As(err, &answerErr))
	assert.Equal(t, FieldAgeBracket, answerErr.Field)
	assert.Equal(t, "12", answerErr.Value)
}

func TestParseField(t *testing.T) {
	for _, f := range Fields() {
		got, err := ParseField(f.String())
		require.NoError(t, err)
		assert.Equal(t, f, got)
		assert.NotEmpty(t, f.Options())
	}
	_, err := ParseField("patient_address")
	assert.ErrorIs(t, err, ErrInvalidAnswer)
	assert.True(t, FieldCompetencePreferences.Multiple())
	assert.False(t, FieldAgeBracket.Multiple())
}

func TestRecordValuesAndReached(t *testing.T) {
	r := Record{ID: "7", CurrentStep: StepPreferences, GenderIdentity: Ptr(GenderWoman)}
	assert.Nil(t, r.Values(FieldAgeBracket))
	assert.Equal(t, []string{"woman"}, r.Values(FieldGenderIdentity))
	assert.Equal(t, []string{}, r.Values(FieldCompetencePreferences))
	assert.True(t, r.Reached(StepGender))
	assert.True(t, r.Reached(StepPreferences))
	assert.False(t, r.Reached(StepReview))
	assert.False(t, r.Reached(0))
	assert.Equal(t, Summary{ID: "7", CurrentStep: StepPreferences}, r.Summary())
}

func TestCompetenceSet(t *testing.T) {
	got := CompetenceSet([]Competence{CompetenceRBTS, CompetenceLGBTQ, CompetenceRBTS})
	assert.Equal(t, []Competence{CompetenceLGBTQ, CompetenceRBTS}, got)

	assert.NotNil(t, CompetenceSet(nil))
	assert.Empty(t, CompetenceSet(nil))
}
