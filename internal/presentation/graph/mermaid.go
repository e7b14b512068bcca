package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/intake/pkg/domain"
)

const (
	landingID   = "landing"
	submittedID = "submitted"
)

// Overlay marks an application's position on the flow diagram.
type Overlay struct {
	VisitedSteps []domain.Step
	CurrentStep  domain.Step
	Submitted    bool
}

// OverlayOf derives the overlay for rec: every step before the current one
// has been visited.
func OverlayOf(rec domain.Record) *Overlay {
	o := &Overlay{CurrentStep: rec.CurrentStep, Submitted: rec.Submitted}
	for _, s := range domain.Steps() {
		if s < rec.CurrentStep {
			o.VisitedSteps = append(o.VisitedSteps, s)
		}
	}
	return o
}

// GenerateMermaid produces a Mermaid flowchart of the application flow.
// It applies semantic styling:
// - Landing and submitted: ((Circle))
// - Steps collecting an answer: [/Parallelogram/]
// - Review: [Rectangle]
// Back transitions are drawn dotted. The overlay, if provided, highlights
// visited steps and the current one.
func GenerateMermaid(overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	fmt.Fprintf(&sb, "    %s((\"%s\"))\n", landingID, landingID)

	steps := domain.Steps()
	for _, step := range steps {
		opener, closer := "[", "]"
		label := step.String()
		if field, ok := step.Field(); ok {
			opener, closer = "[/", "/]"
			label = fmt.Sprintf("%s <br/> %s", step, field)
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", nodeID(step), opener, label, closer)
	}
	fmt.Fprintf(&sb, "    %s((\"%s\"))\n", submittedID, submittedID)

	fmt.Fprintf(&sb, "    %s -- \"start\" --> %s\n", landingID, nodeID(domain.FirstStep))
	for _, step := range steps {
		if next, err := step.Next(); err == nil {
			fmt.Fprintf(&sb, "    %s -- \"next\" --> %s\n", nodeID(step), nodeID(next))
		}
		if ret, err := step.Previous(); err == nil {
			to := landingID
			if prev, ok := ret.Step(); ok {
				to = nodeID(prev)
			}
			fmt.Fprintf(&sb, "    %s -. \"back\" .-> %s\n", nodeID(step), to)
		}
	}
	fmt.Fprintf(&sb, "    %s -- \"submit\" --> %s\n", nodeID(domain.LastStep), submittedID)

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visited := make(map[domain.Step]bool)
		for _, s := range overlay.VisitedSteps {
			if s.Valid() && !visited[s] {
				visited[s] = true
				fmt.Fprintf(&sb, "    class %s visited;\n", nodeID(s))
			}
		}

		switch {
		case overlay.Submitted:
			fmt.Fprintf(&sb, "    class %s visited;\n", nodeID(overlay.CurrentStep))
			fmt.Fprintf(&sb, "    class %s current;\n", submittedID)
		case overlay.CurrentStep.Valid():
			fmt.Fprintf(&sb, "    class %s current;\n", nodeID(overlay.CurrentStep))
		}
	}

	return sb.String()
}

func nodeID(s domain.Step) string {
	return "step_" + s.String()
}
