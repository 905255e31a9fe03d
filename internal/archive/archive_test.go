package archive

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "samples.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPutGet(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	in := &Sample{Seed: 42, Strategy: "WhileLoop", Instructions: 8, Modules: 1, IR: "== x ==\n", JS: "const v0 = 0;\n", Profile: "weights:\n  WhileLoop: 3\n"}
	id, err := s.Put(ctx, in)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, in.ID)

	out, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, in.Seed, out.Seed)
	assert.Equal(t, in.Strategy, out.Strategy)
	assert.Equal(t, in.Instructions, out.Instructions)
	assert.Equal(t, in.Modules, out.Modules)
	assert.Equal(t, in.IR, out.IR)
	assert.Equal(t, in.JS, out.JS)
	assert.Equal(t, in.Profile, out.Profile)
	assert.True(t, in.CreatedAt.Equal(out.CreatedAt))
}

func TestGetMissing(t *testing.T) {
	s := openTemp(t)
	_, err := s.Get(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestDuplicateID(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)
	_, err := s.Put(ctx, &Sample{ID: "a"})
	require.NoError(t, err)
	_, err = s.Put(ctx, &Sample{ID: "a"})
	assert.Error(t, err)
}

func TestListNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)
	base := time.Unix(1700000000, 0)
	for i := 0; i < 5; i++ {
		_, err := s.Put(ctx, &Sample{Seed: int64(i), CreatedAt: base.Add(time.Duration(i) * time.Second)})
		require.NoError(t, err)
	}

	got, err := s.List(ctx, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []int64{4, 3, 2}, []int64{got[0].Seed, got[1].Seed, got[2].Seed})
}

func TestMemoryArchive(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, ":memory:")
	require.NoError(t, err)
	defer s.Close()

	id, err := s.Put(ctx, &Sample{Seed: 1})
	require.NoError(t, err)
	_, err = s.Get(ctx, id)
	assert.NoError(t, err)
}
