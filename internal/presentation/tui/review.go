package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/intake/pkg/domain"
)

var fieldTitles = map[domain.Field]string{
	domain.FieldAgeBracket:            "Age",
	domain.FieldGenderIdentity:        "Gender identity",
	domain.FieldCompetencePreferences: "Therapist competences",
}

// ReviewMarkdown renders the answers of rec as the review page shows them.
// Unanswered fields read "Not answered".
func ReviewMarkdown(rec domain.Record) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Application %s\n\n", rec.ID)

	status := "in progress"
	if rec.Submitted {
		status = "submitted"
	}
	progress := rec.CurrentStep.String()
	if p, err := domain.ProgressOf(rec.CurrentStep); err == nil {
		progress = fmt.Sprintf("%s (%s)", rec.CurrentStep, p)
	}
	fmt.Fprintf(&sb, "**Status:** %s  \n**Current step:** %s\n\n", status, progress)

	sb.WriteString("## Answers\n\n")
	for _, f := range domain.Fields() {
		fmt.Fprintf(&sb, "### %s\n\n", fieldTitles[f])
		values := rec.Values(f)
		if len(values) == 0 {
			sb.WriteString("_Not answered_\n\n")
			continue
		}
		for _, v := range values {
			fmt.Fprintf(&sb, "- %s\n", v)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
