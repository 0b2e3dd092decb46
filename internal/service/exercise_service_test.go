package service

import (
	"context"
	"testing"

	"amfit/coach-app/internal/logger"
	"amfit/coach-app/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedCatalog_Idempotent(t *testing.T) {
	repo := testutil.NewMockExerciseRepository()
	svc := NewExerciseService(repo, logger.Nop())

	inserted, err := svc.SeedCatalog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, len(builtInExercises), inserted)

	inserted, err = svc.SeedCatalog(context.Background())
	require.NoError(t, err)
	assert.Zero(t, inserted)

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, len(builtInExercises))
}

func TestGetExercise(t *testing.T) {
	repo := testutil.NewMockExerciseRepository()
	svc := NewExerciseService(repo, logger.Nop())
	_, err := svc.SeedCatalog(context.Background())
	require.NoError(t, err)

	ex, err := svc.Get(context.Background(), "deadlift")
	require.NoError(t, err)
	assert.NotEmpty(t, ex.Name)
	assert.NotZero(t, ex.DefaultSets)

	_, err = svc.Get(context.Background(), "unknown")
	assert.ErrorIs(t, err, ErrExerciseNotFound)
}

func TestBuiltInCatalog_UniqueSlugs(t *testing.T) {
	seen := map[string]bool{}
	for _, ex := range builtInExercises {
		assert.NotEmpty(t, ex.Slug)
		assert.False(t, seen[ex.Slug], ex.Slug)
		seen[ex.Slug] = true
	}
}
