package wasmbin

import (
	"context"
	"testing"

	"github.com/funvibe/jsynth/internal/random"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tetratelabs/wazero"
)

func TestEncode_MinimalRuns(t *testing.T) {
	ctx := context.Background()
	bin := Encode(Minimal())
	require.NoError(t, Validate(ctx, bin))

	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)
	mod, err := rt.Instantiate(ctx, bin)
	require.NoError(t, err)

	res, err := mod.ExportedFunction(MainExport).Call(ctx, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, []uint64{5}, res)
}

func TestEncode_AllOptionsValidate(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		opts Options
	}{
		{"empty", Options{}},
		{"three functions", Options{Functions: []BinOp{OpSub, OpMul, OpXor}}},
		{"memory table global", Options{Functions: []BinOp{OpAnd}, Memory: true, Table: true, Global: true}},
		{"imported memory", Options{ImportMemory: true, Memory: true}},
		{"imported and defined table", Options{ImportTable: true, Table: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NoError(t, Validate(ctx, Encode(tt.opts)))
		})
	}
}

func TestEncode_FunctionExports(t *testing.T) {
	ctx := context.Background()
	bin := Encode(Options{Functions: []BinOp{OpAdd, OpSub, OpMul, OpOr}, Memory: true})

	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)
	compiled, err := rt.CompileModule(ctx, bin)
	require.NoError(t, err)

	var names []string
	for name := range compiled.ExportedFunctions() {
		names = append(names, name)
	}
	assert.ElementsMatch(t, FunctionExports[:], names, "extra functions are dropped")
	assert.Contains(t, compiled.ExportedMemories(), MemoryExport)
}

func TestRandomOptions(t *testing.T) {
	ctx := context.Background()
	for seed := int64(0); seed < 32; seed++ {
		opts := RandomOptions(random.NewSeeded(seed))
		assert.NotEmpty(t, opts.Functions)
		assert.False(t, opts.ImportMemory && opts.Memory)
		require.NoError(t, Validate(ctx, Encode(opts)), "seed %d", seed)
	}
	assert.Equal(t, Encode(RandomOptions(random.NewSeeded(3))), Encode(RandomOptions(random.NewSeeded(3))))
}

func TestValidate_RejectsGarbage(t *testing.T) {
	assert.Error(t, Validate(context.Background(), []byte{0x00, 0x61, 0x73, 0x6d, 0x02}))
}
