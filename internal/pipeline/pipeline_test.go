package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/funvibe/jsynth/internal/archive"
	"github.com/funvibe/jsynth/internal/builder"
	"github.com/funvibe/jsynth/internal/config"
	"github.com/funvibe/jsynth/internal/ir"
	"github.com/funvibe/jsynth/internal/random"
	"github.com/funvibe/jsynth/internal/wasmbin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandard_GeneratesSamples(t *testing.T) {
	p := Standard(nil)
	for seed := int64(0); seed < 20; seed++ {
		ctx := p.Run(NewPipelineContext(context.Background(), seed, nil))
		require.Empty(t, ctx.Errors, "seed %d", seed)
		require.NotNil(t, ctx.Program)
		assert.True(t, strings.HasPrefix(ctx.IR, "== "+ctx.ID+" ==\n"))
		assert.NotEmpty(t, ctx.JS)
	}
}

func TestStandard_SameSeedSameProgram(t *testing.T) {
	p := Standard(nil)
	a := p.Run(NewPipelineContext(context.Background(), 11, nil))
	b := p.Run(NewPipelineContext(context.Background(), 11, nil))
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, a.JS, b.JS)
}

func TestSingleStrategy(t *testing.T) {
	ctx := NewPipelineContext(context.Background(), 1, nil)
	ctx.Strategy = "WasmInstance"
	ctx = Standard(nil).Run(ctx)
	require.Empty(t, ctx.Errors)
	assert.Equal(t, 1, ctx.Modules)
	assert.Contains(t, ctx.JS, "new v")
	assert.Contains(t, ctx.JS, ".Instance;")
}

func TestUnknownStrategy(t *testing.T) {
	ctx := NewPipelineContext(context.Background(), 1, nil)
	ctx.Strategy = "NoSuchStrategy"
	ctx = Standard(nil).Run(ctx)
	require.True(t, ctx.Failed())
	assert.Nil(t, ctx.Program)
	assert.Empty(t, ctx.JS)
}

func TestBadProfileWeights(t *testing.T) {
	profile := config.DefaultProfile()
	profile.Weights = map[string]int{"Bogus": 3}
	ctx := Standard(nil).Run(NewPipelineContext(context.Background(), 1, profile))
	assert.True(t, ctx.Failed())
}

func TestDataDriven(t *testing.T) {
	ctx := NewPipelineContext(context.Background(), 0, nil)
	ctx.Data = []byte("some fuzzer input bytes")
	ctx = Standard(nil).Run(ctx)
	require.Empty(t, ctx.Errors)
	assert.NotEmpty(t, ctx.JS)
}

func TestArchive(t *testing.T) {
	bg := context.Background()
	store, err := archive.Open(bg, ":memory:")
	require.NoError(t, err)
	defer store.Close()

	ctx := Standard(store).Run(NewPipelineContext(bg, 5, nil))
	require.Empty(t, ctx.Errors)

	sm, err := store.Get(bg, ctx.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), sm.Seed)
	assert.Equal(t, ctx.JS, sm.JS)
	assert.Equal(t, ctx.Program.Len(), sm.Instructions)
}

func TestModuleBytes(t *testing.T) {
	b := builder.New(random.NewSeeded(1), builder.Options{})
	u8 := b.LoadBuiltin(config.Uint8ArrayBuiltin)

	// not a module
	small := b.CreateArray([]ir.Variable{b.LoadInt(1), b.LoadInt(2)})
	b.Construct(u8, []ir.Variable{small}, nil)

	want := wasmbin.Encode(wasmbin.Minimal())
	elems := make([]ir.Variable, len(want))
	for i, c := range want {
		elems[i] = b.LoadInt(int64(c))
	}
	b.Construct(u8, []ir.Variable{b.CreateArray(elems)}, nil)

	got := ModuleBytes(b.Program())
	require.Len(t, got, 1)
	assert.Equal(t, want, got[0])
}
