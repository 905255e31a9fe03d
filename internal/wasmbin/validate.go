package wasmbin

import (
	"context"

	"github.com/pkg/errors"
	"github.com/tetratelabs/wazero"
)

// Validate compiles bin with wazero and reports whether it is a well-formed
// module. Imports are not resolved.
func Validate(ctx context.Context, bin []byte) error {
	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)

	compiled, err := rt.CompileModule(ctx, bin)
	if err != nil {
		return errors.Wrap(err, "compile wasm module")
	}
	return compiled.Close(ctx)
}
