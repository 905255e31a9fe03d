// Package names generates the identifiers and literal values strategies
// need when nothing in the program suggests one.
package names

import (
	"math"

	"github.com/funvibe/jsynth/internal/random"
	"github.com/funvibe/jsynth/internal/typesystem"
)

// identifierNames are the property names that are also valid bare
// identifiers. The first eight are the short names writes favor.
var identifierNames = []string{
	"a", "b", "c", "d", "e", "f", "g", "h",
	"foo", "bar", "baz", "length", "constructor", "prototype", "__proto__",
	"toString", "valueOf", "value", "done", "next", "then", "name", "size",
}

var propertyNames = append(append([]string(nil), identifierNames...),
	"0", "1", "-1", "4294967295")

var methodNames = []string{
	"toString", "valueOf", "call", "apply", "bind", "push", "pop", "slice",
	"splice", "concat", "indexOf", "join", "fill", "map", "forEach",
	"hasOwnProperty", "then", "next",
}

var interestingInts = []int64{
	-9007199254740993, -9007199254740992, -4294967297, -4294967296, -2147483649,
	-2147483648, -1073741824, -65537, -65536, -4097, -4096, -1025, -1024, -257,
	-256, -129, -128, -2, -1, 0, 1, 2, 16, 64, 127, 128, 255, 256, 257, 1023,
	1024, 4095, 4096, 65535, 65536, 1073741823, 1073741824, 2147483647,
	2147483648, 4294967295, 4294967296, 9007199254740991, 9007199254740992,
}

var interestingFloats = []float64{
	-1e-15, -1e12, -1e9, -1e6, -1e3, -5.0, -4.0, -3.0, -2.0, -1.0, -0.5,
	0.5, 1.5, 2.5, 1e3, 1e6, 1e9, 1e12, 1e-15,
	math.MaxFloat64, -math.MaxFloat64, math.SmallestNonzeroFloat64,
	math.Inf(1), math.Inf(-1), math.NaN(),
}

var interestingStrings = []string{
	"", "a", "foo", "bar", "length", "toString", "valueOf", "-1", "0", "1",
	"NaN", "Infinity", "undefined", "function", "object", "ÿ", "퟿",
}

// Oracle hands out names and literal values. It owns no state besides the
// environment it reads builtin names from.
type Oracle struct {
	env *typesystem.Environment
}

// New returns an oracle over env.
func New(env *typesystem.Environment) *Oracle {
	return &Oracle{env: env}
}

// PropertyNameForRead returns a property name likely to exist on some object.
func (o *Oracle) PropertyNameForRead(src random.Source) string {
	return random.Element(src, propertyNames)
}

// PropertyNameForWrite returns a property name to define or overwrite.
// Short single-letter names dominate so that writes collide with reads.
func (o *Oracle) PropertyNameForWrite(src random.Source) string {
	if random.Bool(src) {
		return random.Element(src, identifierNames[:8])
	}
	return random.Element(src, propertyNames)
}

// ScopeName returns a name usable as a bare identifier inside a with
// statement, where it resolves against the scope object first.
func (o *Oracle) ScopeName(src random.Source) string {
	return random.Element(src, identifierNames)
}

// MethodName returns a method name for receivers with no known methods.
func (o *Oracle) MethodName(src random.Source) string {
	return random.Element(src, methodNames)
}

// BuiltinName returns the name of a builtin of the environment.
func (o *Oracle) BuiltinName(src random.Source) string {
	return random.Element(src, o.env.BuiltinNames())
}

// WellKnownSymbol returns the name of a member of Symbol.
func (o *Oracle) WellKnownSymbol(src random.Source) string {
	return random.Element(src, typesystem.WellKnownSymbols)
}

// TypeName returns one of the strings typeof can produce.
func (o *Oracle) TypeName(src random.Source) string {
	return random.Element(src, typesystem.TypeNames)
}

// Int returns an integer literal, half the time an edge value.
func (o *Oracle) Int(src random.Source) int64 {
	if random.Bool(src) {
		return random.Element(src, interestingInts)
	}
	return int64(src.Intn(0x10000)) - 0x8000
}

// Float returns a float literal, half the time an edge value.
func (o *Oracle) Float(src random.Source) float64 {
	if random.Bool(src) {
		return random.Element(src, interestingFloats)
	}
	return (src.Float64() - 0.5) * 2e6
}

// String returns a string literal.
func (o *Oracle) String(src random.Source) string {
	if src.Intn(4) == 0 {
		return o.PropertyNameForRead(src)
	}
	return random.Element(src, interestingStrings)
}

// Index returns an element index, mostly small and in bounds. A source
// that only yields zero gets index 0.
func (o *Oracle) Index(src random.Source) int64 {
	if src.Intn(8) == 7 {
		return random.Element(src, []int64{-1, 256, 4294967294, 4294967295})
	}
	return int64(src.Intn(10))
}
