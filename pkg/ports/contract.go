package ports

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/aretw0/drunkard/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunFieldContract runs a suite of tests to verify that a Field implementation
// adheres to the defined interface contract. newField must return an empty field
// each time it is called.
func RunFieldContract(t *testing.T, newField FieldFactory) {
	rng := rand.New(rand.NewPCG(11, 13))

	t.Run("Register and Locate", func(t *testing.T) {
		f, err := newField()
		require.NoError(t, err)

		w := domain.NewWalker("homer", domain.Isotropic4, rng)
		start := domain.NewLocation(3, -4)
		require.NoError(t, f.Register(w, start), "Register should not return error")

		loc, err := f.LocationOf(w)
		require.NoError(t, err)
		assert.Equal(t, start, loc)
	})

	t.Run("Duplicate Register", func(t *testing.T) {
		f, err := newField()
		require.NoError(t, err)

		w := domain.NewWalker("homer", domain.Isotropic4, rng)
		require.NoError(t, f.Register(w, domain.Origin))

		err = f.Register(w, domain.NewLocation(1, 1))
		assert.ErrorIs(t, err, domain.ErrDuplicateWalker)

		loc, err := f.LocationOf(w)
		require.NoError(t, err)
		assert.Equal(t, domain.Origin, loc, "failed Register must not move the walker")
	})

	t.Run("Unknown Walker", func(t *testing.T) {
		f, err := newField()
		require.NoError(t, err)

		stranger := domain.NewWalker("stranger", domain.EastWest2, rng)
		assert.ErrorIs(t, f.Advance(stranger), domain.ErrUnknownWalker)

		_, err = f.LocationOf(stranger)
		assert.ErrorIs(t, err, domain.ErrUnknownWalker)
	})

	t.Run("Identity Not Name", func(t *testing.T) {
		f, err := newField()
		require.NoError(t, err)

		a := domain.NewWalker("twin", domain.EastWest2, rng)
		b := domain.NewWalker("twin", domain.EastWest2, rng)
		require.NoError(t, f.Register(a, domain.Origin))
		require.NoError(t, f.Register(b, domain.NewLocation(10, 10)), "walkers sharing a name are distinct")

		_, err = f.LocationOf(a)
		require.NoError(t, err)
		locB, err := f.LocationOf(b)
		require.NoError(t, err)
		assert.Equal(t, domain.NewLocation(10, 10), locB)
	})

	t.Run("Advance Applies A Candidate Step", func(t *testing.T) {
		f, err := newField()
		require.NoError(t, err)

		w := domain.NewWalker("ew", domain.EastWest2, rng)
		require.NoError(t, f.Register(w, domain.Origin))
		require.NoError(t, f.Advance(w))

		loc, err := f.LocationOf(w)
		require.NoError(t, err)
		assert.Contains(t, []domain.Location{{X: 1}, {X: -1}}, loc)
	})
}

// RunResultCacheContract verifies a ResultCache implementation. cache must be empty.
func RunResultCacheContract(t *testing.T, cache ResultCache) {
	ctx := context.Background()

	t.Run("Miss", func(t *testing.T) {
		_, ok, err := cache.Get(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Set and Get", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, "k1", []byte(`{"a":1}`)))
		got, ok, err := cache.Get(ctx, "k1")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []byte(`{"a":1}`), got)
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, "k2", []byte("old")))
		require.NoError(t, cache.Set(ctx, "k2", []byte("new")))
		got, ok, err := cache.Get(ctx, "k2")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "new", string(got))
	})

	t.Run("Stored Value Is Isolated", func(t *testing.T) {
		v := []byte("abc")
		require.NoError(t, cache.Set(ctx, "k3", v))
		v[0] = 'x'
		got, _, err := cache.Get(ctx, "k3")
		require.NoError(t, err)
		assert.Equal(t, "abc", string(got))
	})
}
