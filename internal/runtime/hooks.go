package runtime

import (
	"context"

	"github.com/aretw0/intake/pkg/domain"
)

func (e *Engine) emitTransition(ctx context.Context, kind domain.TransitionKind, id string, from, to domain.Step) {
	if e.hooks.OnTransition == nil {
		return
	}
	e.hooks.OnTransition(ctx, &domain.TransitionEvent{
		Timestamp: e.now(),
		Kind:      kind,
		RecordID:  id,
		From:      from,
		To:        to,
	})
}

func (e *Engine) emitFieldSave(ctx context.Context, id string, field domain.Field) {
	if e.hooks.OnFieldSave == nil {
		return
	}
	e.hooks.OnFieldSave(ctx, &domain.FieldEvent{
		Timestamp: e.now(),
		RecordID:  id,
		Field:     field,
	})
}
