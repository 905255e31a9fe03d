package strategies

import (
	"github.com/funvibe/jsynth/internal/builder"
	"github.com/funvibe/jsynth/internal/config"
	"github.com/funvibe/jsynth/internal/ir"
	"github.com/funvibe/jsynth/internal/random"
	ts "github.com/funvibe/jsynth/internal/typesystem"
	"github.com/funvibe/jsynth/internal/wasmbin"
)

var (
	floatValueTypes = []string{"f32", "f64"}
	intValueTypes   = []string{"i32", "i64"}
)

// TableElementType is the element type of every generated table.
const TableElementType = "anyfunc"

// Descriptors

func (r *resolution) globalDescriptor(float bool) ir.Variable {
	b := r.b
	types := intValueTypes
	if float {
		types = floatValueTypes
	}
	value := b.LoadString(random.Element(b.Random(), types))
	mutable := b.LoadBool(b.Chance(b.Probabilities().MutableGlobal))
	return b.CreateObjectOfKind(ts.GlobalDescriptor,
		[]string{"value", "mutable"},
		[]ir.Variable{value, mutable})
}

// sizeDescriptor builds {[element,] initial[, maximum]}.
func (r *resolution) sizeDescriptor(kind ts.Kind, element string, initial, maximum config.Range) ir.Variable {
	b := r.b
	var keys []string
	var values []ir.Variable
	if element != "" {
		keys = append(keys, "element")
		values = append(values, b.LoadString(element))
	}
	keys = append(keys, "initial")
	values = append(values, b.LoadInt(int64(b.IntIn(initial))))
	if b.Chance(b.Probabilities().DescriptorMaximum) {
		keys = append(keys, "maximum")
		values = append(values, b.LoadInt(int64(b.IntIn(maximum))))
	}
	return b.CreateObjectOfKind(kind, keys, values)
}

func (r *resolution) tableDescriptor() ir.Variable {
	rg := r.b.Ranges()
	return r.sizeDescriptor(ts.TableDescriptor, TableElementType, rg.TableInitial, rg.TableMaximum)
}

func (r *resolution) memoryDescriptor() ir.Variable {
	rg := r.b.Ranges()
	return r.sizeDescriptor(ts.MemoryDescriptor, "", rg.MemoryInitial, rg.MemoryMaximum)
}

// moduleBuffer emits new Uint8Array([...]) holding an encoded module. Each
// distinct byte value is loaded once.
func (r *resolution) moduleBuffer() ir.Variable {
	b := r.b
	bin := wasmbin.Encode(wasmbin.RandomOptions(b.Random()))
	loaded := make(map[byte]ir.Variable)
	elems := make([]ir.Variable, len(bin))
	for i, c := range bin {
		v, ok := loaded[c]
		if !ok {
			v = b.LoadInt(int64(c))
			loaded[c] = v
		}
		elems[i] = v
	}
	arr := b.CreateArray(elems)
	ctor := b.LoadBuiltin(config.Uint8ArrayBuiltin)
	return b.Construct(ctor, []ir.Variable{arr}, nil)
}

// importObject builds {js: {}}, {js: {mem: memory}} or {js: {tbl: table}}.
func (r *resolution) importObject() ir.Variable {
	b := r.b
	var keys []string
	var values []ir.Variable
	switch b.Choose(b.Choices().Import.Weights()) {
	case 1:
		keys = []string{config.ImportMemoryKey}
		values = []ir.Variable{r.resolve(ts.WasmMemory)}
	case 2:
		keys = []string{config.ImportTableKey}
		values = []ir.Variable{r.resolve(ts.WasmTable)}
	}
	inner := b.CreateObject(keys, values)
	return b.CreateObjectOfKind(ts.ImportObject, []string{config.ImportNamespace}, []ir.Variable{inner})
}

// Live objects

func wasmConstructor(b *builder.Builder, name string) ir.Variable {
	return b.LoadProperty(b.LoadBuiltin(config.WebAssemblyBuiltin), name)
}

func (r *resolution) global() ir.Variable {
	desc := r.resolve(ts.GlobalDescriptor)
	value := r.b.LoadInt(r.b.GenInt())
	ctor := wasmConstructor(r.b, config.WasmGlobalCtor)
	return r.b.Construct(ctor, []ir.Variable{desc, value}, nil)
}

func (r *resolution) table() ir.Variable {
	desc := r.resolve(ts.TableDescriptor)
	ctor := wasmConstructor(r.b, config.WasmTableCtor)
	return r.b.Construct(ctor, []ir.Variable{desc}, nil)
}

func (r *resolution) memory() ir.Variable {
	desc := r.resolve(ts.MemoryDescriptor)
	ctor := wasmConstructor(r.b, config.WasmMemoryCtor)
	return r.b.Construct(ctor, []ir.Variable{desc}, nil)
}

func (r *resolution) module() ir.Variable {
	buf := r.resolve(ts.TypedArray)
	ctor := wasmConstructor(r.b, config.WasmModuleCtor)
	return r.b.Construct(ctor, []ir.Variable{buf}, nil)
}

func (r *resolution) instance() ir.Variable {
	mod := r.resolve(ts.WasmModule)
	imports := r.resolve(ts.ImportObject)
	ctor := wasmConstructor(r.b, config.WasmInstanceCtor)
	return r.b.Construct(ctor, []ir.Variable{mod, imports}, nil)
}

// Construction strategies always build; only their dependencies are reused.

func globalDescriptorFloat(b *builder.Builder) {
	r := newResolution(b)
	r.build(ts.GlobalDescriptor, func() ir.Variable { return r.globalDescriptor(true) })
}

func globalDescriptorInt(b *builder.Builder) {
	r := newResolution(b)
	r.build(ts.GlobalDescriptor, func() ir.Variable { return r.globalDescriptor(false) })
}

func tableDescriptor(b *builder.Builder) {
	r := newResolution(b)
	r.build(ts.TableDescriptor, r.tableDescriptor)
}

func memoryDescriptor(b *builder.Builder) {
	r := newResolution(b)
	r.build(ts.MemoryDescriptor, r.memoryDescriptor)
}

func moduleBuffer(b *builder.Builder) {
	r := newResolution(b)
	r.build(ts.TypedArray, r.moduleBuffer)
}

func importObject(b *builder.Builder) {
	r := newResolution(b)
	r.build(ts.ImportObject, r.importObject)
}

func wasmGlobal(b *builder.Builder) {
	r := newResolution(b)
	r.build(ts.WasmGlobal, r.global)
}

func wasmTable(b *builder.Builder) {
	r := newResolution(b)
	r.build(ts.WasmTable, r.table)
}

func wasmMemory(b *builder.Builder) {
	r := newResolution(b)
	r.build(ts.WasmMemory, r.memory)
}

func wasmModule(b *builder.Builder) {
	r := newResolution(b)
	r.build(ts.WasmModule, r.module)
}

func wasmInstance(b *builder.Builder) {
	r := newResolution(b)
	r.build(ts.WasmInstance, r.instance)
}

// Calls

// genericMethodCall calls method on obj with arguments shaped by the
// method's known signature.
func genericMethodCall(b *builder.Builder, obj ir.Variable, method string) {
	sig, known := b.Env().MethodSignature(method)
	b.CallMethod(obj, method, b.Arguments(sig, known), nil)
}

func wasmGlobalCall(b *builder.Builder) {
	g := b.WasmObject(ts.WasmGlobal)
	genericMethodCall(b, g, b.RandomMethod(g))
}

func wasmTableCall(b *builder.Builder) {
	t := b.WasmObject(ts.WasmTable)
	switch method := b.RandomMethod(t); method {
	case "get":
		b.CallMethod(t, method, []ir.Variable{b.LoadInt(b.GenIndex())}, nil)
	case "grow":
		b.CallMethod(t, method, []ir.Variable{b.LoadInt(int64(b.IntIn(b.Ranges().GrowDelta)))}, nil)
	case "set":
		index := b.LoadInt(b.GenIndex())
		b.CallMethod(t, method, []ir.Variable{index, b.RandVar()}, nil)
	default:
		genericMethodCall(b, t, method)
	}
}

func wasmMemoryCall(b *builder.Builder) {
	m := b.WasmObject(ts.WasmMemory)
	switch method := b.RandomMethod(m); method {
	case "grow":
		b.CallMethod(m, method, []ir.Variable{b.LoadInt(int64(b.IntIn(b.Ranges().GrowDelta)))}, nil)
	default:
		genericMethodCall(b, m, method)
	}
}

// wasmModuleCall calls one of the static WebAssembly.Module methods with
// the module as first argument. Module values only report those methods,
// so any other name is a bug in the environment.
func wasmModuleCall(b *builder.Builder) {
	mod := b.WasmObject(ts.WasmModule)
	method := b.RandomMethod(mod)
	moduleCall(b, mod, method)
}

func moduleCall(b *builder.Builder, mod ir.Variable, method string) {
	if !b.Env().IsModuleStatic(method) {
		builder.Violationf("unknown WebAssembly.Module method %q", method)
	}
	args := []ir.Variable{mod}
	if method == "customSections" {
		args = append(args, b.LoadString(b.GenString()))
	}
	ctor := wasmConstructor(b, config.WasmModuleCtor)
	b.CallMethod(ctor, method, args, nil)
}

// wasmInstanceCall calls an exported function of an instance.
func wasmInstanceCall(b *builder.Builder) {
	inst := b.WasmObject(ts.WasmInstance)
	exports := b.LoadProperty(inst, config.ExportsProperty)
	fn := random.Element(b.Random(), wasmbin.FunctionExports[:])
	b.CallMethod(exports, fn, b.RandVars(2), nil)
}
