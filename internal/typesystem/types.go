// Package typesystem is the type oracle of the generator: a closed lattice of
// value kinds over dynamically typed JavaScript values, and the builtin
// environment that supplies property, method and signature hints.
package typesystem

import (
	"fmt"
	"strings"
)

// Kind is the closed set of value classifications.
type Kind uint8

const (
	Anything Kind = iota
	Integer
	Float
	String
	Boolean
	Undefined
	Null
	Symbol
	Object
	Array
	Function
	Constructor
	TypedArray

	// WebAssembly JS API objects
	WasmGlobal
	WasmTable
	WasmMemory
	WasmModule
	WasmInstance
	GlobalDescriptor
	TableDescriptor
	MemoryDescriptor
	ImportObject

	// Phi marks a join slot; Type.Inner holds the underlying kind.
	Phi

	kindCount
)

var kindNames = [kindCount]string{
	Anything:         "anything",
	Integer:          "integer",
	Float:            "float",
	String:           "string",
	Boolean:          "boolean",
	Undefined:        "undefined",
	Null:             "null",
	Symbol:           "symbol",
	Object:           "object",
	Array:            "array",
	Function:         "function",
	Constructor:      "constructor",
	TypedArray:       "typedarray",
	WasmGlobal:       "wasm.global",
	WasmTable:        "wasm.table",
	WasmMemory:       "wasm.memory",
	WasmModule:       "wasm.module",
	WasmInstance:     "wasm.instance",
	GlobalDescriptor: "wasm.globaldescriptor",
	TableDescriptor:  "wasm.tabledescriptor",
	MemoryDescriptor: "wasm.memorydescriptor",
	ImportObject:     "wasm.importobject",
	Phi:              "phi",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Kinds returns every kind except Phi, in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount-1)
	for k := Anything; k < Phi; k++ {
		out = append(out, k)
	}
	return out
}

// IsWasm reports whether k is one of the WebAssembly object kinds.
func (k Kind) IsWasm() bool {
	switch k {
	case WasmGlobal, WasmTable, WasmMemory, WasmModule, WasmInstance,
		GlobalDescriptor, TableDescriptor, MemoryDescriptor, ImportObject:
		return true
	case Anything, Integer, Float, String, Boolean, Undefined, Null, Symbol,
		Object, Array, Function, Constructor, TypedArray, Phi:
		return false
	}
	panic(fmt.Sprintf("typesystem: unhandled kind %d", uint8(k)))
}

// objectLike reports whether values of kind k are JavaScript objects.
func (k Kind) objectLike() bool {
	switch k {
	case Object, Array, Function, Constructor, TypedArray,
		WasmGlobal, WasmTable, WasmMemory, WasmModule, WasmInstance,
		GlobalDescriptor, TableDescriptor, MemoryDescriptor, ImportObject:
		return true
	case Anything, Integer, Float, String, Boolean, Undefined, Null, Symbol, Phi:
		return false
	}
	panic(fmt.Sprintf("typesystem: unhandled kind %d", uint8(k)))
}

// kindIs is the guaranteed subtyping relation between plain kinds.
func kindIs(k, want Kind) bool {
	if want == Anything || k == want {
		return true
	}
	switch want {
	case Object:
		return k.objectLike()
	case Function:
		return k == Constructor
	case Integer, Float, String, Boolean, Undefined, Null, Symbol, Array,
		Constructor, TypedArray, WasmGlobal, WasmTable, WasmMemory, WasmModule,
		WasmInstance, GlobalDescriptor, TableDescriptor, MemoryDescriptor,
		ImportObject, Phi:
		return false
	}
	panic(fmt.Sprintf("typesystem: unhandled kind %d", uint8(want)))
}

// kindMayBe is the possible-subtyping relation between plain kinds.
func kindMayBe(k, want Kind) bool {
	if k == Anything {
		return true
	}
	if kindIs(k, want) {
		return true
	}
	// Any callable may turn out to be constructible.
	return k == Function && want == Constructor
}

// Signature describes how a callable takes its arguments.
type Signature struct {
	Params  int
	HasRest bool
	Strict  bool
}

func (s Signature) String() string {
	var sb strings.Builder
	sb.WriteString("(")
	for i := 0; i < s.Params; i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		if s.HasRest && i == s.Params-1 {
			sb.WriteString("...")
		}
		sb.WriteString("a")
		sb.WriteString(fmt.Sprint(i))
	}
	sb.WriteString(")")
	if s.Strict {
		sb.WriteString(" strict")
	}
	return sb.String()
}

// Type is a kind plus the hints the oracle knows about a value.
type Type struct {
	kind  Kind
	inner Kind

	// Group names the builtin object family (e.g. "WebAssembly", "Symbol").
	Group string

	// Signature is set for callables with a known calling convention.
	Signature *Signature

	// Produces is the kind a constructor builds. Anything if unknown.
	Produces Kind

	// Properties are property names known at definition time.
	Properties []string
}

// Of returns the plain type of kind k.
func Of(k Kind) Type {
	if k == Phi {
		return PhiOf(Anything)
	}
	return Type{kind: k}
}

// PhiOf returns the join-slot type over inner.
func PhiOf(inner Kind) Type {
	if inner == Phi {
		inner = Anything
	}
	return Type{kind: Phi, inner: inner}
}

// FunctionOf returns a function type with signature sig.
func FunctionOf(sig Signature) Type {
	return Type{kind: Function, Signature: &sig}
}

// ConstructorOf returns a constructor type producing kind p.
func ConstructorOf(p Kind, sig Signature) Type {
	return Type{kind: Constructor, Signature: &sig, Produces: p}
}

// ObjectWith returns an object type carrying property hints.
func ObjectWith(props ...string) Type {
	return Type{kind: Object, Properties: props}
}

// Kind returns the outer kind (Phi for join slots).
func (t Type) Kind() Kind { return t.kind }

// Inner returns the underlying kind of a phi, or the kind itself.
func (t Type) Inner() Kind {
	if t.kind == Phi {
		return t.inner
	}
	return t.kind
}

// IsPhi reports whether t is a join slot.
func (t Type) IsPhi() bool { return t.kind == Phi }

// WithGroup returns t tagged with a builtin group.
func (t Type) WithGroup(g string) Type {
	t.Group = g
	return t
}

// Is reports whether every value of type t is guaranteed to be a want.
// A phi is only guaranteed to be a phi: Is(PhiOf(Anything)) selects every
// join slot, while a phi never guarantees its inner kind since it may be
// reassigned with anything.
func (t Type) Is(want Type) bool {
	switch {
	case want.kind == Phi:
		return t.kind == Phi && kindIs(t.inner, want.inner)
	case t.kind == Phi:
		return want.kind == Anything
	default:
		return kindIs(t.kind, want.kind)
	}
}

// MayBe reports whether a value of type t could be a want at runtime.
func (t Type) MayBe(want Type) bool {
	switch {
	case want.kind == Phi:
		return t.kind == Phi
	case t.kind == Phi:
		return kindMayBe(t.inner, want.kind)
	default:
		return kindMayBe(t.kind, want.kind)
	}
}

func (t Type) String() string {
	var sb strings.Builder
	if t.kind == Phi {
		sb.WriteString("phi(")
		sb.WriteString(t.inner.String())
		sb.WriteString(")")
	} else {
		sb.WriteString(t.kind.String())
	}
	if t.Group != "" {
		sb.WriteString("<")
		sb.WriteString(t.Group)
		sb.WriteString(">")
	}
	if t.Signature != nil {
		sb.WriteString(t.Signature.String())
	}
	return sb.String()
}
