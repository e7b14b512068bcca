package runtime_test

import (
	"context"

	"github.com/aretw0/intake/pkg/adapters/memory"
	"github.com/aretw0/intake/pkg/domain"
)

// recordingStore captures every patch sent to the wrapped store.
type recordingStore struct {
	*memory.Store
	patches []domain.Patch
}

func (s *recordingStore) Patch(ctx context.Context, id string, patch domain.Patch) error {
	s.patches = append(s.patches, patch)
	return s.Store.Patch(ctx, id, patch)
}

type failingPatchStore struct {
	*memory.Store
	err error
}

func (s *failingPatchStore) Patch(context.Context, string, domain.Patch) error {
	return s.err
}

// corruptStore returns a record positioned outside the sequence.
type corruptStore struct{}

func (corruptStore) Create(context.Context) (string, error) { return "1", nil }

func (corruptStore) Get(_ context.Context, id string) (domain.Record, error) {
	return domain.Record{ID: id, CurrentStep: domain.Step(42)}, nil
}

func (corruptStore) Patch(context.Context, string, domain.Patch) error { return nil }

func (corruptStore) List(context.Context) ([]domain.Summary, error) { return nil, nil }
