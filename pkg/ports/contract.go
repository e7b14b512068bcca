package ports

import (
	"context"
	"slices"
	"testing"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunRecordStoreContract runs a suite of tests to verify that a RecordStore
// implementation adheres to the defined interface contract.
// The store may already hold records; the suite only reasons about its own.
func RunRecordStoreContract(t *testing.T, store RecordStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("Create returns initial record", func(t *testing.T) {
		id, err := store.Create(ctx)
		require.NoError(t, err)
		require.NotEmpty(t, id)

		rec, err := store.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, id, rec.ID)
		assert.Equal(t, domain.StepAge, rec.CurrentStep)
		assert.False(t, rec.Submitted)
		assert.Nil(t, rec.AgeBracket)
		assert.Nil(t, rec.GenderIdentity)
		assert.Empty(t, rec.Competences)
	})

	t.Run("Create allocates distinct ids", func(t *testing.T) {
		a, err := store.Create(ctx)
		require.NoError(t, err)
		b, err := store.Create(ctx)
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})

	t.Run("Get unknown", func(t *testing.T) {
		for _, id := range []string{"999999999", "does-not-exist"} {
			_, err := store.Get(ctx, id)
			assert.ErrorIs(t, err, domain.ErrRecordNotFound, "id %q", id)
		}
	})

	t.Run("Patch unknown", func(t *testing.T) {
		err := store.Patch(ctx, "999999999", domain.Patch{Step: domain.Ptr(domain.StepGender)})
		assert.ErrorIs(t, err, domain.ErrRecordNotFound)
	})

	t.Run("Patch merges and back keeps answers", func(t *testing.T) {
		id, err := store.Create(ctx)
		require.NoError(t, err)

		err = store.Patch(ctx, id, domain.Patch{
			Step:       domain.Ptr(domain.StepGender),
			AgeBracket: domain.Ptr(domain.Age26To35),
		})
		require.NoError(t, err)

		rec, err := store.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.StepGender, rec.CurrentStep)
		require.NotNil(t, rec.AgeBracket)
		assert.Equal(t, domain.Age26To35, *rec.AgeBracket)

		require.NoError(t, store.Patch(ctx, id, domain.Patch{Step: domain.Ptr(domain.StepAge)}))

		rec, err = store.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.StepAge, rec.CurrentStep)
		require.NotNil(t, rec.AgeBracket, "moving back must not clear answers")
		assert.Equal(t, domain.Age26To35, *rec.AgeBracket)
	})

	t.Run("Field-only patch leaves step", func(t *testing.T) {
		id, err := store.Create(ctx)
		require.NoError(t, err)

		require.NoError(t, store.Patch(ctx, id, domain.Patch{GenderIdentity: domain.Ptr(domain.GenderNonbinary)}))

		rec, err := store.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.StepAge, rec.CurrentStep)
		require.NotNil(t, rec.GenderIdentity)
		assert.Equal(t, domain.GenderNonbinary, *rec.GenderIdentity)
	})

	t.Run("Competences are replaced as a set", func(t *testing.T) {
		id, err := store.Create(ctx)
		require.NoError(t, err)

		first := []domain.Competence{domain.CompetenceLGBTQ, domain.CompetenceRBTS}
		require.NoError(t, store.Patch(ctx, id, domain.Patch{Competences: &first}))
		rec, err := store.Get(ctx, id)
		require.NoError(t, err)
		assert.ElementsMatch(t, first, rec.Competences)

		second := []domain.Competence{domain.CompetenceNeurodivergent}
		require.NoError(t, store.Patch(ctx, id, domain.Patch{Competences: &second}))
		rec, err = store.Get(ctx, id)
		require.NoError(t, err)
		assert.ElementsMatch(t, second, rec.Competences)

		none := []domain.Competence{}
		require.NoError(t, store.Patch(ctx, id, domain.Patch{Competences: &none}))
		rec, err = store.Get(ctx, id)
		require.NoError(t, err)
		assert.Empty(t, rec.Competences)
	})

	t.Run("Submitted is monotonic", func(t *testing.T) {
		id, err := store.Create(ctx)
		require.NoError(t, err)

		require.NoError(t, store.Patch(ctx, id, domain.Patch{Step: domain.Ptr(domain.StepReview), Submit: true}))
		require.NoError(t, store.Patch(ctx, id, domain.Patch{Step: domain.Ptr(domain.StepReview)}))

		rec, err := store.Get(ctx, id)
		require.NoError(t, err)
		assert.True(t, rec.Submitted)
		assert.True(t, rec.IsComplete())
	})

	t.Run("Empty patch on known record", func(t *testing.T) {
		id, err := store.Create(ctx)
		require.NoError(t, err)
		assert.NoError(t, store.Patch(ctx, id, domain.Patch{}))
	})

	t.Run("List in creation order", func(t *testing.T) {
		first, err := store.Create(ctx)
		require.NoError(t, err)
		second, err := store.Create(ctx)
		require.NoError(t, err)
		require.NoError(t, store.Patch(ctx, second, domain.Patch{Step: domain.Ptr(domain.StepReview), Submit: true}))

		summaries, err := store.List(ctx)
		require.NoError(t, err)

		i := slices.IndexFunc(summaries, func(s domain.Summary) bool { return s.ID == first })
		j := slices.IndexFunc(summaries, func(s domain.Summary) bool { return s.ID == second })
		require.NotEqual(t, -1, i, "first record missing from list")
		require.NotEqual(t, -1, j, "second record missing from list")
		assert.Less(t, i, j, "list must reflect creation order")

		assert.Equal(t, domain.Summary{ID: first, CurrentStep: domain.StepAge, Submitted: false}, summaries[i])
		assert.Equal(t, domain.Summary{ID: second, CurrentStep: domain.StepReview, Submitted: true}, summaries[j])
	})
}
