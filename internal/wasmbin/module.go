// Package wasmbin encodes the small WebAssembly modules whose bytes the
// generated programs pass to WebAssembly.Module.
package wasmbin

import (
	"encoding/binary"

	"github.com/funvibe/jsynth/internal/random"
)

const (
	secType     = 1
	secImport   = 2
	secFunction = 3
	secTable    = 4
	secMemory   = 5
	secGlobal   = 6
	secExport   = 7
	secCode     = 10

	extFunc   = 0x00
	extTable  = 0x01
	extMemory = 0x02
	extGlobal = 0x03

	typeFunc    = 0x60
	typeI32     = 0x7f
	typeFuncref = 0x70

	opLocalGet = 0x20
	opI32Const = 0x41
	opEnd      = 0x0b
)

// BinOp is the body of an exported (i32, i32) -> i32 function.
type BinOp byte

const (
	OpAdd BinOp = 0x6a
	OpSub BinOp = 0x6b
	OpMul BinOp = 0x6c
	OpAnd BinOp = 0x71
	OpOr  BinOp = 0x72
	OpXor BinOp = 0x73
)

var binOps = []BinOp{OpAdd, OpSub, OpMul, OpAnd, OpOr, OpXor}

// MainExport is the name of the first exported function, present in every module.
const MainExport = "main"

// Export names of the non-function entities.
const (
	TableExport  = "table"
	MemoryExport = "memory"
	GlobalExport = "global"
)

// MaxFunctions is the largest number of functions a module exports.
const MaxFunctions = 3

// FunctionExports are the names of the exported functions, in index order.
var FunctionExports = [MaxFunctions]string{MainExport, "f1", "f2"}

// Options selects the contents of a module.
type Options struct {
	// Functions are the exported functions: "main", then "f1", "f2".
	Functions []BinOp
	// ImportMemory imports js.mem, ImportTable imports js.tbl.
	ImportMemory bool
	ImportTable  bool
	// Memory, Table and Global define and export one entity each.
	Memory bool
	Table  bool
	Global bool
}

// Minimal is a module exporting main = i32.add and nothing else.
func Minimal() Options {
	return Options{Functions: []BinOp{OpAdd}}
}

// RandomOptions draws module contents from src. Imports are rare since the
// import object may not provide them.
func RandomOptions(src random.Source) Options {
	opts := Options{}
	n := random.IntInRange(src, 1, 3)
	for i := 0; i < n; i++ {
		opts.Functions = append(opts.Functions, random.Element(src, binOps))
	}
	opts.Memory = random.Bool(src)
	opts.Table = random.Bool(src)
	opts.Global = random.Bool(src)
	if src.Intn(8) == 0 {
		if random.Bool(src) {
			opts.ImportMemory = true
			opts.Memory = false
		} else {
			opts.ImportTable = true
			opts.Table = false
		}
	}
	return opts
}

type export struct {
	name string
	kind byte
	idx  uint32
}

// Encode returns the binary module described by opts.
func Encode(opts Options) []byte {
	if len(opts.Functions) == 0 {
		opts.Functions = []BinOp{OpAdd}
	}
	if len(opts.Functions) > MaxFunctions {
		opts.Functions = opts.Functions[:MaxFunctions]
	}
	if opts.ImportMemory {
		opts.Memory = false
	}

	var out []byte
	out = append(out, 0x00, 0x61, 0x73, 0x6d) // \0asm
	out = append(out, 0x01, 0x00, 0x00, 0x00) // version 1

	// Type section: one (i32, i32) -> i32 signature
	out = section(out, secType, vector(1, []byte{typeFunc, 2, typeI32, typeI32, 1, typeI32}))

	var imports []byte
	count := 0
	if opts.ImportMemory {
		imports = appendName(imports, "js")
		imports = appendName(imports, "mem")
		imports = append(imports, extMemory, 0x00, 0x01)
		count++
	}
	if opts.ImportTable {
		imports = appendName(imports, "js")
		imports = appendName(imports, "tbl")
		imports = append(imports, extTable, typeFuncref, 0x00, 0x01)
		count++
	}
	if count > 0 {
		out = section(out, secImport, vector(count, imports))
	}

	var funcs []byte
	for range opts.Functions {
		funcs = append(funcs, 0x00)
	}
	out = section(out, secFunction, vector(len(opts.Functions), funcs))

	var exports []export
	for i := range opts.Functions {
		exports = append(exports, export{FunctionExports[i], extFunc, uint32(i)})
	}

	if opts.Table {
		out = section(out, secTable, vector(1, []byte{typeFuncref, 0x00, 0x01}))
		exports = append(exports, export{TableExport, extTable, tableIndex(opts)})
	}
	if opts.Memory {
		out = section(out, secMemory, vector(1, []byte{0x01, 0x01, 0x10}))
		exports = append(exports, export{MemoryExport, extMemory, 0})
	}
	if opts.Global {
		out = section(out, secGlobal, vector(1, []byte{typeI32, 0x01, opI32Const, 0x00, opEnd}))
		exports = append(exports, export{GlobalExport, extGlobal, 0})
	}

	var exps []byte
	for _, e := range exports {
		exps = appendName(exps, e.name)
		exps = append(exps, e.kind)
		exps = binary.AppendUvarint(exps, uint64(e.idx))
	}
	out = section(out, secExport, vector(len(exports), exps))

	var code []byte
	for _, op := range opts.Functions {
		body := []byte{0x00, opLocalGet, 0x00, opLocalGet, 0x01, byte(op), opEnd}
		code = binary.AppendUvarint(code, uint64(len(body)))
		code = append(code, body...)
	}
	out = section(out, secCode, vector(len(opts.Functions), code))

	return out
}

// Imported tables come first in the table index space.
func tableIndex(opts Options) uint32 {
	if opts.ImportTable {
		return 1
	}
	return 0
}

func section(out []byte, id byte, payload []byte) []byte {
	out = append(out, id)
	out = binary.AppendUvarint(out, uint64(len(payload)))
	return append(out, payload...)
}

func vector(n int, contents []byte) []byte {
	out := binary.AppendUvarint(nil, uint64(n))
	return append(out, contents...)
}

func appendName(out []byte, name string) []byte {
	out = binary.AppendUvarint(out, uint64(len(name)))
	return append(out, name...)
}
