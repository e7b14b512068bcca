package domain

import (
	"context"
	"time"
)

// TransitionKind classifies a move of the progress marker.
type TransitionKind string

const (
	TransitionAdvance TransitionKind = "advance"
	TransitionRetreat TransitionKind = "retreat"
	TransitionExit    TransitionKind = "exit"
	TransitionSubmit  TransitionKind = "submit"
)

// TransitionEvent is emitted after a transition was persisted.
// To is zero for exits and submissions.
type TransitionEvent struct {
	Timestamp time.Time      `json:"timestamp"`
	Kind      TransitionKind `json:"kind"`
	RecordID  string         `json:"record_id"`
	From      Step           `json:"from"`
	To        Step           `json:"to,omitempty"`
}

// FieldEvent is emitted after a live update was persisted.
type FieldEvent struct {
	Timestamp time.Time `json:"timestamp"`
	RecordID  string    `json:"record_id"`
	Field     Field     `json:"field"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnTransition func(context.Context, *TransitionEvent)
	OnFieldSave  func(context.Context, *FieldEvent)
}
