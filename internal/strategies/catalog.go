// Package strategies is the catalog of generation strategies and the
// resolver of WebAssembly objects they build on.
package strategies

import (
	"fmt"
	"sort"

	"github.com/funvibe/jsynth/internal/builder"
	"github.com/funvibe/jsynth/internal/config"
	"github.com/funvibe/jsynth/internal/random"
	"go.uber.org/zap"
)

// Strategy groups
const (
	GroupValue      = "value"
	GroupFunction   = "function"
	GroupProperty   = "property"
	GroupOperator   = "operator"
	GroupControl    = "control"
	GroupWasm       = "wasm"
	GroupRegression = "regression"
)

// Entry is one named strategy of the catalog.
type Entry struct {
	Name     string
	Group    string
	Weight   int
	Strategy builder.Strategy
}

// Catalog is an indexed set of strategies with weights for random
// selection. It implements builder.Picker.
type Catalog struct {
	entries []Entry
	weights []int
	index   map[string]int
}

// NewCatalog indexes entries. Names must be unique.
func NewCatalog(entries []Entry) (*Catalog, error) {
	c := &Catalog{
		entries: entries,
		weights: make([]int, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for i, e := range entries {
		if _, dup := c.index[e.Name]; dup {
			return nil, fmt.Errorf("duplicate strategy %q", e.Name)
		}
		if e.Weight < 0 {
			return nil, fmt.Errorf("strategy %q has negative weight %d", e.Name, e.Weight)
		}
		c.index[e.Name] = i
		c.weights[i] = e.Weight
	}
	return c, nil
}

// Default returns the full catalog with its tuned weights.
func Default() *Catalog {
	c, err := NewCatalog(defaultEntries())
	if err != nil {
		panic(err)
	}
	return c
}

// WithWeights returns a copy of the catalog with the given weights
// overridden. Unknown names are an error, as is disabling every strategy.
func (c *Catalog) WithWeights(overrides map[string]int) (*Catalog, error) {
	entries := append([]Entry(nil), c.entries...)
	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		i, ok := c.index[name]
		if !ok {
			return nil, fmt.Errorf("unknown strategy %q", name)
		}
		entries[i].Weight = overrides[name]
	}
	out, err := NewCatalog(entries)
	if err != nil {
		return nil, err
	}
	total := 0
	for _, w := range out.weights {
		total += w
	}
	if total == 0 {
		return nil, fmt.Errorf("every strategy has weight zero")
	}
	return out, nil
}

// Pick chooses a strategy proportionally to its weight.
func (c *Catalog) Pick(src random.Source) (string, builder.Strategy) {
	i := random.Weighted(src, c.weights)
	if i < 0 {
		builder.Violationf("catalog has no strategy with positive weight")
	}
	return c.entries[i].Name, c.entries[i].Strategy
}

// Lookup returns the entry named name.
func (c *Catalog) Lookup(name string) (Entry, bool) {
	i, ok := c.index[name]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i], true
}

// Entries returns the catalog in declaration order.
func (c *Catalog) Entries() []Entry {
	return append([]Entry(nil), c.entries...)
}

// Names returns the strategy names in declaration order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.Name
	}
	return out
}

// NewBuilder returns a builder over src driven by the default catalog with
// the profile's weights, resolving WebAssembly objects through a Registry.
func NewBuilder(src random.Source, profile *config.Profile, log *zap.Logger) (*builder.Builder, error) {
	if profile == nil {
		profile = config.DefaultProfile()
	}
	cat, err := Default().WithWeights(profile.Weights)
	if err != nil {
		return nil, err
	}
	return builder.New(src, builder.Options{
		Profile:  profile,
		Picker:   cat,
		Resolver: NewRegistry(),
		Logger:   log,
	}), nil
}

func defaultEntries() []Entry {
	s := func(name, group string, weight int, f func(*builder.Builder)) Entry {
		return Entry{Name: name, Group: group, Weight: weight, Strategy: builder.StrategyFunc(f)}
	}
	return []Entry{
		// Primary values
		s("IntegerLiteral", GroupValue, 10, integerLiteral),
		s("FloatLiteral", GroupValue, 5, floatLiteral),
		s("StringLiteral", GroupValue, 5, stringLiteral),
		s("BooleanLiteral", GroupValue, 3, booleanLiteral),
		s("UndefinedLiteral", GroupValue, 2, undefinedLiteral),
		s("NullLiteral", GroupValue, 2, nullLiteral),
		s("ObjectLiteral", GroupValue, 10, objectLiteral),
		s("ArrayLiteral", GroupValue, 10, arrayLiteral),
		s("ObjectLiteralWithSpread", GroupValue, 5, objectLiteralWithSpread),
		s("ArrayLiteralWithSpread", GroupValue, 5, arrayLiteralWithSpread),
		s("BuiltinReference", GroupValue, 10, builtinReference),

		// Functions and calls
		s("FunctionDefinition", GroupFunction, 15, functionDefinition),
		s("FunctionReturn", GroupFunction, 5, functionReturn),
		s("FunctionCall", GroupFunction, 10, functionCall),
		s("FunctionCallWithSpread", GroupFunction, 5, functionCallWithSpread),
		s("MethodCall", GroupFunction, 10, methodCall),
		s("MethodCallWithSpread", GroupFunction, 5, methodCallWithSpread),
		s("Construct", GroupFunction, 10, construct),
		s("ConstructWithSpread", GroupFunction, 5, constructWithSpread),

		// Properties and elements
		s("PropertyRetrieval", GroupProperty, 10, propertyRetrieval),
		s("PropertyAssignment", GroupProperty, 10, propertyAssignment),
		s("PropertyRemoval", GroupProperty, 5, propertyRemoval),
		s("ElementRetrieval", GroupProperty, 10, elementRetrieval),
		s("ElementAssignment", GroupProperty, 10, elementAssignment),
		s("ElementRemoval", GroupProperty, 5, elementRemoval),
		s("ComputedPropertyRetrieval", GroupProperty, 10, computedPropertyRetrieval),
		s("ComputedPropertyAssignment", GroupProperty, 10, computedPropertyAssignment),
		s("ComputedPropertyRemoval", GroupProperty, 5, computedPropertyRemoval),
		s("PropertyAccessor", GroupProperty, 5, propertyAccessor),
		s("WellKnownSymbolRetrieval", GroupProperty, 5, wellKnownSymbolRetrieval),
		s("WellKnownSymbolAssignment", GroupProperty, 5, wellKnownSymbolAssignment),
		s("PrototypeAccess", GroupProperty, 5, prototypeAccess),
		s("PrototypeOverwrite", GroupProperty, 5, prototypeOverwrite),
		s("CallbackPropertyHijack", GroupProperty, 5, callbackPropertyHijack),

		// Operators
		s("UnaryOperation", GroupOperator, 10, unaryOperation),
		s("BinaryOperation", GroupOperator, 10, binaryOperation),
		s("Comparison", GroupOperator, 10, comparison),
		s("TypeTest", GroupOperator, 5, typeTest),
		s("InstanceOf", GroupOperator, 5, instanceOf),
		s("In", GroupOperator, 5, in),

		// Control flow and scopes
		s("IfElse", GroupControl, 10, ifElse),
		s("WhileLoop", GroupControl, 10, whileLoop),
		s("DoWhileLoop", GroupControl, 10, doWhileLoop),
		s("ForLoop", GroupControl, 10, forLoop),
		s("ForInLoop", GroupControl, 10, forInLoop),
		s("ForOfLoop", GroupControl, 10, forOfLoop),
		s("Break", GroupControl, 5, breakStatement),
		s("Continue", GroupControl, 5, continueStatement),
		s("TryCatch", GroupControl, 5, tryCatch),
		s("Throw", GroupControl, 1, throwStatement),
		s("WithStatement", GroupControl, 3, withStatement),
		s("ScopeVariableRead", GroupControl, 3, scopeVariableRead),
		s("ScopeVariableWrite", GroupControl, 3, scopeVariableWrite),
		s("Reassignment", GroupControl, 5, reassignment),

		// WebAssembly objects
		s("GlobalDescriptorFloat", GroupWasm, 2, globalDescriptorFloat),
		s("GlobalDescriptorInt", GroupWasm, 2, globalDescriptorInt),
		s("TableDescriptor", GroupWasm, 2, tableDescriptor),
		s("MemoryDescriptor", GroupWasm, 2, memoryDescriptor),
		s("ModuleBuffer", GroupWasm, 1, moduleBuffer),
		s("ImportObject", GroupWasm, 2, importObject),
		s("WasmGlobal", GroupWasm, 4, wasmGlobal),
		s("WasmTable", GroupWasm, 4, wasmTable),
		s("WasmMemory", GroupWasm, 4, wasmMemory),
		s("WasmModule", GroupWasm, 2, wasmModule),
		s("WasmInstance", GroupWasm, 2, wasmInstance),
		s("WasmGlobalCall", GroupWasm, 4, wasmGlobalCall),
		s("WasmTableCall", GroupWasm, 4, wasmTableCall),
		s("WasmMemoryCall", GroupWasm, 4, wasmMemoryCall),
		s("WasmModuleCall", GroupWasm, 2, wasmModuleCall),
		s("WasmInstanceCall", GroupWasm, 4, wasmInstanceCall),

		// Regressions
		s("KnownCrashRegression", GroupRegression, 1, knownCrashRegression),
	}
}
