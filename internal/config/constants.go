package config

// ProfileFileExt is the extension of generation profiles.
const ProfileFileExt = ".yaml"

// ProfileFileNames are the file names searched for by FindProfile.
var ProfileFileNames = []string{"jsynth.yaml", "jsynth.yml"}

// Default budget values
const (
	DefaultMaxInstructions = 300
	DefaultMaxDepth        = 5
	DefaultBlockSize       = 3
)

// Builtin names the strategies reference directly
const (
	ObjectBuiltin      = "Object"
	SymbolBuiltin      = "Symbol"
	Uint8ArrayBuiltin  = "Uint8Array"
	WebAssemblyBuiltin = "WebAssembly"
)

// WebAssembly JS API constructor names (properties of WebAssembly)
const (
	WasmGlobalCtor   = "Global"
	WasmTableCtor    = "Table"
	WasmMemoryCtor   = "Memory"
	WasmModuleCtor   = "Module"
	WasmInstanceCtor = "Instance"
)

// Well-known property names used by specialized strategies
const (
	DefinePropertyMethod = "defineProperty"
	ProtoProperty        = "__proto__"
	ValueOfMethod        = "valueOf"
	ToStringMethod       = "toString"
	ExportsProperty      = "exports"
	GetterKey            = "get"
	SetterKey            = "set"
)

// Import object layout: {js: {mem: ..., tbl: ...}}
const (
	ImportNamespace = "js"
	ImportMemoryKey = "mem"
	ImportTableKey  = "tbl"
)
