package strategies

import (
	"github.com/funvibe/jsynth/internal/builder"
	"github.com/funvibe/jsynth/internal/ir"
	"github.com/funvibe/jsynth/internal/random"
	ts "github.com/funvibe/jsynth/internal/typesystem"
	"go.uber.org/zap"
)

// Registry resolves WebAssembly objects for the builder: it reuses a
// visible value of the requested kind or builds one from its recipe,
// resolving the recipe's dependencies the same way.
//
// Recipes form a fixed acyclic graph:
//
//	Instance     -> Module, ImportObject
//	ImportObject -> Memory | Table | nothing
//	Table        -> TableDescriptor
//	Memory       -> MemoryDescriptor
//	Global       -> GlobalDescriptor
//	Module       -> TypedArray (module bytes)
type Registry struct{}

// NewRegistry returns a registry. It holds no state of its own; every
// value it hands out lives in the builder's program.
func NewRegistry() *Registry {
	return &Registry{}
}

// Resolve implements builder.ObjectResolver.
func (r *Registry) Resolve(b *builder.Builder, kind ts.Kind) ir.Variable {
	return newResolution(b).resolve(kind)
}

// resolution is one top-level resolve. visited holds the kinds whose
// recipes are being built, so a cycle is caught instead of recursing
// without end.
type resolution struct {
	b       *builder.Builder
	visited map[ts.Kind]bool
}

func newResolution(b *builder.Builder) *resolution {
	return &resolution{b: b, visited: make(map[ts.Kind]bool)}
}

func (r *resolution) resolve(kind ts.Kind) ir.Variable {
	if vs := r.b.VarsOfKind(kind); len(vs) > 0 {
		v := random.Element(r.b.Random(), vs)
		r.b.Logger().Debug("reuse wasm object", zap.Stringer("kind", kind), zap.Stringer("var", v))
		return v
	}
	return r.build(kind, r.recipe(kind))
}

// build runs recipe for kind and checks that it produced exactly that kind.
func (r *resolution) build(kind ts.Kind, recipe func() ir.Variable) ir.Variable {
	if r.visited[kind] {
		builder.Violationf("cyclic recipe for %s", kind)
	}
	r.visited[kind] = true
	v := recipe()
	delete(r.visited, kind)

	if got := r.b.Type(v).Kind(); got != kind {
		builder.Violationf("recipe for %s produced %s", kind, got)
	}
	r.b.Logger().Debug("build wasm object", zap.Stringer("kind", kind), zap.Stringer("var", v))
	return v
}

func (r *resolution) recipe(kind ts.Kind) func() ir.Variable {
	switch kind {
	case ts.GlobalDescriptor:
		float := r.b.Choose(r.b.Choices().Global.Weights()) == 0
		return func() ir.Variable { return r.globalDescriptor(float) }
	case ts.TableDescriptor:
		return r.tableDescriptor
	case ts.MemoryDescriptor:
		return r.memoryDescriptor
	case ts.TypedArray:
		return r.moduleBuffer
	case ts.ImportObject:
		return r.importObject
	case ts.WasmGlobal:
		return r.global
	case ts.WasmTable:
		return r.table
	case ts.WasmMemory:
		return r.memory
	case ts.WasmModule:
		return r.module
	case ts.WasmInstance:
		return r.instance
	}
	builder.Violationf("no recipe for %s", kind)
	return nil
}
