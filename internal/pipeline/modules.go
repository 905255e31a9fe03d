package pipeline

import (
	"bytes"

	"github.com/funvibe/jsynth/internal/config"
	"github.com/funvibe/jsynth/internal/ir"
)

var wasmMagic = []byte{0x00, 'a', 's', 'm'}

// ModuleBytes returns the WebAssembly binaries a program spells out as
// new Uint8Array([...]) over integer literals. Arrays that do not start
// with the wasm magic are ignored.
func ModuleBytes(p *ir.Program) [][]byte {
	defs := make(map[ir.Variable]*ir.Instruction)
	for i := range p.Code {
		for _, o := range p.Code[i].Outputs {
			defs[o] = &p.Code[i]
		}
	}

	var out [][]byte
	for i := range p.Code {
		in := &p.Code[i]
		if in.Op != ir.Construct || len(in.Arguments()) != 1 {
			continue
		}
		ctor := defs[in.Inputs[0]]
		if ctor == nil || ctor.Op != ir.LoadBuiltin || ctor.Str != config.Uint8ArrayBuiltin {
			continue
		}
		if bin, ok := byteLiteral(defs, defs[in.Arguments()[0]]); ok && bytes.HasPrefix(bin, wasmMagic) {
			out = append(out, bin)
		}
	}
	return out
}

func byteLiteral(defs map[ir.Variable]*ir.Instruction, arr *ir.Instruction) ([]byte, bool) {
	if arr == nil || arr.Op != ir.CreateArray {
		return nil, false
	}
	bin := make([]byte, len(arr.Inputs))
	for i, v := range arr.Inputs {
		d := defs[v]
		if d == nil || d.Op != ir.LoadInteger || d.Int < 0 || d.Int > 0xff {
			return nil, false
		}
		bin[i] = byte(d.Int)
	}
	return bin, true
}
