package typesystem

// Builtin group names
const (
	GroupObject      = "Object"
	GroupSymbol      = "Symbol"
	GroupMath        = "Math"
	GroupJSON        = "JSON"
	GroupReflect     = "Reflect"
	GroupWebAssembly = "WebAssembly"
	GroupWasmModule  = "WebAssembly.Module"
)

// WellKnownSymbols are the members of Symbol usable as property keys.
var WellKnownSymbols = []string{
	"iterator", "asyncIterator", "hasInstance", "isConcatSpreadable",
	"match", "matchAll", "replace", "search", "species", "split",
	"toPrimitive", "toStringTag", "unscopables",
}

// TypeNames are the strings typeof can produce.
var TypeNames = []string{
	"undefined", "boolean", "number", "string", "symbol", "function", "object", "bigint",
}

// ModuleStatics are the static methods of WebAssembly.Module. They take the
// module as first argument instead of being called on it.
var ModuleStatics = []string{"exports", "imports", "customSections"}

type namedType struct {
	name string
	typ  Type
}

// Environment is the builtin world the generated programs run in.
// Lookups never fail: unknown names resolve to Anything or to no hints.
type Environment struct {
	builtins    []namedType
	builtinIdx  map[string]int
	groupProps  map[string][]namedType
	groupMeths  map[string][]string
	kindProps   map[Kind][]string
	kindMeths   map[Kind][]string
	methodSigs  map[string]Signature
	moduleNames map[string]bool
}

// NewEnvironment returns the default JavaScript + WebAssembly environment.
func NewEnvironment() *Environment {
	e := &Environment{
		builtinIdx:  make(map[string]int),
		groupProps:  make(map[string][]namedType),
		groupMeths:  make(map[string][]string),
		kindProps:   make(map[Kind][]string),
		kindMeths:   make(map[Kind][]string),
		methodSigs:  make(map[string]Signature),
		moduleNames: make(map[string]bool),
	}

	variadic := Signature{Params: 1, HasRest: true}
	ctor := func(p Kind, params int) Type { return ConstructorOf(p, Signature{Params: params}) }

	e.addBuiltin(GroupObject, ctor(Object, 1).WithGroup(GroupObject))
	e.addBuiltin("Array", ConstructorOf(Array, variadic))
	e.addBuiltin("Function", ConstructorOf(Function, variadic))
	e.addBuiltin(GroupSymbol, FunctionOf(Signature{Params: 1}).WithGroup(GroupSymbol))
	e.addBuiltin(GroupMath, Of(Object).WithGroup(GroupMath))
	e.addBuiltin(GroupJSON, Of(Object).WithGroup(GroupJSON))
	e.addBuiltin(GroupReflect, Of(Object).WithGroup(GroupReflect))
	e.addBuiltin("Proxy", ctor(Object, 2))
	e.addBuiltin("Promise", ctor(Object, 1))
	e.addBuiltin("Map", ctor(Object, 1))
	e.addBuiltin("Set", ctor(Object, 1))
	e.addBuiltin("WeakMap", ctor(Object, 1))
	e.addBuiltin("Date", ctor(Object, 1))
	e.addBuiltin("RegExp", ctor(Object, 2))
	e.addBuiltin("ArrayBuffer", ctor(Object, 1))
	e.addBuiltin("Uint8Array", ctor(TypedArray, 1))
	e.addBuiltin("Int32Array", ctor(TypedArray, 1))
	e.addBuiltin("Float64Array", ctor(TypedArray, 1))
	e.addBuiltin("String", ctor(String, 1))
	e.addBuiltin("Number", ctor(Float, 1))
	e.addBuiltin("Boolean", ctor(Boolean, 1))
	e.addBuiltin("BigInt", FunctionOf(Signature{Params: 1}))
	e.addBuiltin("parseInt", FunctionOf(Signature{Params: 2}))
	e.addBuiltin("isNaN", FunctionOf(Signature{Params: 1}))
	e.addBuiltin(GroupWebAssembly, Of(Object).WithGroup(GroupWebAssembly))

	for _, s := range WellKnownSymbols {
		e.groupProps[GroupSymbol] = append(e.groupProps[GroupSymbol], namedType{s, Of(Symbol)})
	}
	e.groupMeths[GroupSymbol] = []string{"for", "keyFor"}
	e.groupMeths[GroupObject] = []string{"defineProperty", "keys", "freeze", "seal", "getPrototypeOf", "setPrototypeOf", "assign", "create"}
	e.groupMeths[GroupMath] = []string{"abs", "floor", "ceil", "max", "min", "sin", "pow", "random"}
	e.groupMeths[GroupJSON] = []string{"parse", "stringify"}
	e.groupMeths[GroupReflect] = []string{"apply", "construct", "get", "set", "has", "ownKeys"}
	e.groupMeths[GroupWebAssembly] = []string{"validate", "compile", "instantiate"}
	e.groupMeths[GroupWasmModule] = ModuleStatics
	e.groupProps[GroupMath] = []namedType{{"PI", Of(Float)}, {"E", Of(Float)}}

	e.groupProps[GroupWebAssembly] = []namedType{
		{"Global", ConstructorOf(WasmGlobal, Signature{Params: 2})},
		{"Table", ConstructorOf(WasmTable, Signature{Params: 1})},
		{"Memory", ConstructorOf(WasmMemory, Signature{Params: 1})},
		{"Module", ConstructorOf(WasmModule, Signature{Params: 1}).WithGroup(GroupWasmModule)},
		{"Instance", ConstructorOf(WasmInstance, Signature{Params: 2})},
	}

	objectMeths := []string{"toString", "valueOf", "hasOwnProperty", "isPrototypeOf", "propertyIsEnumerable", "toLocaleString"}
	e.kindMeths[Object] = objectMeths
	e.kindMeths[Array] = []string{"push", "pop", "shift", "unshift", "slice", "splice", "concat", "indexOf", "join", "reverse", "sort", "fill", "map", "forEach"}
	e.kindMeths[TypedArray] = []string{"fill", "subarray", "set", "slice", "indexOf", "reverse"}
	e.kindMeths[Function] = []string{"call", "apply", "bind"}
	e.kindMeths[Constructor] = e.kindMeths[Function]
	e.kindMeths[WasmGlobal] = []string{"valueOf"}
	e.kindMeths[WasmTable] = []string{"get", "set", "grow"}
	e.kindMeths[WasmMemory] = []string{"grow"}
	e.kindMeths[WasmModule] = ModuleStatics

	e.kindProps[Object] = []string{"constructor", "__proto__"}
	e.kindProps[Array] = []string{"length"}
	e.kindProps[TypedArray] = []string{"length", "buffer", "byteLength"}
	e.kindProps[Function] = []string{"length", "name", "prototype"}
	e.kindProps[Constructor] = e.kindProps[Function]
	e.kindProps[WasmGlobal] = []string{"value"}
	e.kindProps[WasmTable] = []string{"length"}
	e.kindProps[WasmMemory] = []string{"buffer"}
	e.kindProps[WasmInstance] = []string{"exports"}
	e.kindProps[GlobalDescriptor] = []string{"value", "mutable"}
	e.kindProps[TableDescriptor] = []string{"element", "initial", "maximum"}
	e.kindProps[MemoryDescriptor] = []string{"initial", "maximum"}
	e.kindProps[ImportObject] = []string{"js"}

	sigs := []struct {
		name string
		sig  Signature
	}{
		{"toString", Signature{}},
		{"valueOf", Signature{}},
		{"hasOwnProperty", Signature{Params: 1}},
		{"isPrototypeOf", Signature{Params: 1}},
		{"propertyIsEnumerable", Signature{Params: 1}},
		{"toLocaleString", Signature{}},
		{"push", variadic},
		{"unshift", variadic},
		{"pop", Signature{}},
		{"shift", Signature{}},
		{"slice", Signature{Params: 2}},
		{"splice", Signature{Params: 3, HasRest: true}},
		{"concat", variadic},
		{"indexOf", Signature{Params: 2}},
		{"join", Signature{Params: 1}},
		{"reverse", Signature{}},
		{"sort", Signature{Params: 1}},
		{"fill", Signature{Params: 3}},
		{"map", Signature{Params: 1}},
		{"forEach", Signature{Params: 1}},
		{"subarray", Signature{Params: 2}},
		{"set", Signature{Params: 2}},
		{"call", Signature{Params: 1, HasRest: true}},
		{"apply", Signature{Params: 2}},
		{"bind", Signature{Params: 1, HasRest: true}},
		{"get", Signature{Params: 1}},
		{"grow", Signature{Params: 1}},
		{"defineProperty", Signature{Params: 3}},
		{"keys", Signature{Params: 1}},
		{"freeze", Signature{Params: 1}},
		{"seal", Signature{Params: 1}},
		{"getPrototypeOf", Signature{Params: 1}},
		{"setPrototypeOf", Signature{Params: 2}},
		{"assign", Signature{Params: 1, HasRest: true}},
		{"create", Signature{Params: 1}},
		{"abs", Signature{Params: 1}},
		{"floor", Signature{Params: 1}},
		{"ceil", Signature{Params: 1}},
		{"max", variadic},
		{"min", variadic},
		{"sin", Signature{Params: 1}},
		{"pow", Signature{Params: 2}},
		{"random", Signature{}},
		{"parse", Signature{Params: 1}},
		{"stringify", Signature{Params: 1}},
		{"construct", Signature{Params: 2}},
		{"has", Signature{Params: 2}},
		{"ownKeys", Signature{Params: 1}},
		{"validate", Signature{Params: 1}},
		{"compile", Signature{Params: 1}},
		{"instantiate", Signature{Params: 2}},
		{"for", Signature{Params: 1}},
		{"keyFor", Signature{Params: 1}},
		{"exports", Signature{Params: 1}},
		{"imports", Signature{Params: 1}},
		{"customSections", Signature{Params: 2}},
	}
	for _, s := range sigs {
		e.methodSigs[s.name] = s.sig
	}
	for _, n := range ModuleStatics {
		e.moduleNames[n] = true
	}
	return e
}

func (e *Environment) addBuiltin(name string, t Type) {
	e.builtinIdx[name] = len(e.builtins)
	e.builtins = append(e.builtins, namedType{name, t})
}

// BuiltinNames returns the builtin names in a stable order.
func (e *Environment) BuiltinNames() []string {
	out := make([]string, len(e.builtins))
	for i, b := range e.builtins {
		out[i] = b.name
	}
	return out
}

// Builtin returns the type of a builtin, or Anything when unknown.
func (e *Environment) Builtin(name string) Type {
	if i, ok := e.builtinIdx[name]; ok {
		return e.builtins[i].typ
	}
	return Of(Anything)
}

// PropertyType returns the type of obj.name, or Anything when unknown.
func (e *Environment) PropertyType(obj Type, name string) Type {
	if obj.Group == "" {
		return Of(Anything)
	}
	for _, p := range e.groupProps[obj.Group] {
		if p.name == name {
			return p.typ
		}
	}
	return Of(Anything)
}

// PropertiesOf returns the property names known for values of type t:
// names recorded at definition first, then kind and group hints.
func (e *Environment) PropertiesOf(t Type) []string {
	var out []string
	out = append(out, t.Properties...)
	out = append(out, e.kindProps[t.Inner()]...)
	for _, p := range e.groupProps[t.Group] {
		out = append(out, p.name)
	}
	return out
}

// MethodsOf returns the method names known for values of type t.
func (e *Environment) MethodsOf(t Type) []string {
	var out []string
	out = append(out, e.groupMeths[t.Group]...)
	out = append(out, e.kindMeths[t.Inner()]...)
	return out
}

// MethodSignature returns the calling convention of a known method.
func (e *Environment) MethodSignature(name string) (Signature, bool) {
	s, ok := e.methodSigs[name]
	return s, ok
}

// IsModuleStatic reports whether name is a static method of WebAssembly.Module.
func (e *Environment) IsModuleStatic(name string) bool {
	return e.moduleNames[name]
}
