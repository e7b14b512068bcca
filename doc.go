/*
Package intake is a multi-step intake wizard for therapy applications.

An application moves through a fixed sequence of steps (age, gender, preferences,
review). Each step collects one answer, progress is persisted after every step and
on every live field change, and the applicant can resume later or submit at review.

# Concept

The wizard owns no state. Every interaction is a single round trip against a
record store: read the record, decide the transition, write once. The store is an
interface (ports.RecordStore) with in-memory, Redis, SQL and remote HTTP adapters,
so the same engine runs embedded in a CLI, behind an HTTP server or as an MCP tool.

# Key Features

  - Ordered steps: the sequence is an enumerated type, never a free-form string.
  - Tagged back navigation: leaving the first step yields an exit, not a step.
  - Two write paths: SaveField never moves the application, CommitStep always does.
  - Monotonic submission: no patch can revert a submitted application.

# Usage

	package main

	import (
		"context"
		"log"

		"github.com/aretw0/intake"
		"github.com/aretw0/intake/pkg/adapters/memory"
		"github.com/aretw0/intake/pkg/domain"
	)

	func main() {
		eng, err := intake.New(memory.NewStore())
		if err != nil {
			log.Fatal(err)
		}

		ctx := context.Background()
		rec, err := eng.Start(ctx)
		if err != nil {
			log.Fatal(err)
		}

		// Leaving the age step writes the answer and the new position together.
		rec, err = eng.CommitStep(ctx, rec.ID, domain.StepAge, []string{"26-35"})
		if err != nil {
			log.Fatal(err)
		}
		log.Println("now on", rec.CurrentStep)
	}
*/
package intake
