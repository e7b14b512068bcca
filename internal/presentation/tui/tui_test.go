package tui

import (
	"bytes"
	"testing"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewMarkdown(t *testing.T) {
	rec := domain.Record{
		ID:          "12",
		CurrentStep: domain.StepReview,
		AgeBracket:  domain.Ptr(domain.Age26To35),
		Competences: []domain.Competence{domain.CompetenceLGBTQ, domain.CompetenceRBTS},
	}

	md := ReviewMarkdown(rec)
	assert.Contains(t, md, "# Application 12")
	assert.Contains(t, md, "**Status:** in progress")
	assert.Contains(t, md, "review (step 4 of 4)")
	assert.Contains(t, md, "### Age\n\n- 26-35\n")
	assert.Contains(t, md, "### Gender identity\n\n_Not answered_")
	assert.Contains(t, md, "- lgbtq\n- rbts\n")
}

func TestReviewMarkdown_Submitted(t *testing.T) {
	rec := domain.NewRecord("3")
	rec.CurrentStep = domain.StepReview
	rec.Submitted = true

	assert.Contains(t, ReviewMarkdown(rec), "**Status:** submitted")
}

func TestRenderer(t *testing.T) {
	render, err := NewRenderer("notty")
	require.NoError(t, err)

	out, err := render(ReviewMarkdown(domain.Record{
		ID:             "5",
		CurrentStep:    domain.StepReview,
		GenderIdentity: domain.Ptr(domain.GenderWoman),
	}))
	require.NoError(t, err)
	assert.Contains(t, out, "Application 5")
	assert.Contains(t, out, "woman")
}

func TestPlain(t *testing.T) {
	out, err := Plain("# x")
	require.NoError(t, err)
	assert.Equal(t, "# x", out)
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf)
	assert.Contains(t, buf.String(), "|_|_| |_|")
}
