package strategies

import (
	"github.com/funvibe/jsynth/internal/builder"
	"github.com/funvibe/jsynth/internal/config"
	"github.com/funvibe/jsynth/internal/ir"
	ts "github.com/funvibe/jsynth/internal/typesystem"
)

func randomObject(b *builder.Builder) ir.Variable {
	return b.RandVarOfType(ts.Of(ts.Object))
}

// propertyNameForWrite reuses a property known for obj or invents one.
func propertyNameForWrite(b *builder.Builder, obj ir.Variable) string {
	if b.Chance(b.Probabilities().ReuseProperty) {
		return b.RandomProperty(obj)
	}
	return b.PropertyNameForWrite()
}

func propertyRetrieval(b *builder.Builder) {
	obj := randomObject(b)
	b.LoadProperty(obj, b.RandomProperty(obj))
}

func propertyAssignment(b *builder.Builder) {
	obj := randomObject(b)
	name := propertyNameForWrite(b, obj)
	b.StoreProperty(obj, name, b.RandVar())
}

func propertyRemoval(b *builder.Builder) {
	obj := randomObject(b)
	b.DeleteProperty(obj, b.RandomProperty(obj))
}

func elementRetrieval(b *builder.Builder) {
	b.LoadElement(randomObject(b), b.GenIndex())
}

func elementAssignment(b *builder.Builder) {
	obj := randomObject(b)
	b.StoreElement(obj, b.GenIndex(), b.RandVar())
}

func elementRemoval(b *builder.Builder) {
	b.DeleteElement(randomObject(b), b.GenIndex())
}

func computedPropertyRetrieval(b *builder.Builder) {
	obj := randomObject(b)
	b.LoadComputedProperty(obj, b.RandVar())
}

func computedPropertyAssignment(b *builder.Builder) {
	obj := randomObject(b)
	key := b.RandVar()
	b.StoreComputedProperty(obj, key, b.RandVar())
}

func computedPropertyRemoval(b *builder.Builder) {
	obj := randomObject(b)
	b.DeleteComputedProperty(obj, b.RandVar())
}

// AccessorShape is the kind of accessor descriptor PropertyAccessor installs.
// The values index config.AccessorChoice.Weights.
type AccessorShape int

const (
	// GetterOnly installs {get}.
	GetterOnly AccessorShape = iota
	// SetterOnly installs {set}.
	SetterOnly
	// GetterAndSetter installs {get, set}.
	GetterAndSetter
)

func (s AccessorShape) String() string {
	switch s {
	case GetterOnly:
		return "getter"
	case SetterOnly:
		return "setter"
	default:
		return "getter+setter"
	}
}

func chooseAccessorShape(b *builder.Builder) AccessorShape {
	return AccessorShape(b.Choose(b.Choices().Accessor.Weights()))
}

func propertyAccessor(b *builder.Builder) {
	obj := randomObject(b)
	name := propertyNameForWrite(b, obj)

	var keys []string
	var fns []ir.Variable
	shape := chooseAccessorShape(b)
	if shape != SetterOnly {
		getter, _ := b.BeginFunction(ts.Signature{})
		b.GenerateNested(1)
		b.Return(b.RandVar())
		b.EndFunction()
		keys = append(keys, config.GetterKey)
		fns = append(fns, getter)
	}
	if shape != GetterOnly {
		setter, _ := b.BeginFunction(ts.Signature{Params: 1})
		b.GenerateNested(1)
		b.EndFunction()
		keys = append(keys, config.SetterKey)
		fns = append(fns, setter)
	}
	desc := b.CreateObject(keys, fns)

	object := b.LoadBuiltin(config.ObjectBuiltin)
	b.CallMethod(object, config.DefinePropertyMethod, []ir.Variable{obj, b.LoadString(name), desc}, nil)
}

func wellKnownSymbol(b *builder.Builder) ir.Variable {
	symbol := b.LoadBuiltin(config.SymbolBuiltin)
	return b.LoadProperty(symbol, b.WellKnownSymbol())
}

func wellKnownSymbolRetrieval(b *builder.Builder) {
	obj := randomObject(b)
	b.LoadComputedProperty(obj, wellKnownSymbol(b))
}

func wellKnownSymbolAssignment(b *builder.Builder) {
	obj := randomObject(b)
	key := wellKnownSymbol(b)
	b.StoreComputedProperty(obj, key, b.RandVar())
}

func prototypeAccess(b *builder.Builder) {
	b.LoadProperty(randomObject(b), config.ProtoProperty)
}

func prototypeOverwrite(b *builder.Builder) {
	obj := randomObject(b)
	b.StoreProperty(obj, config.ProtoProperty, randomObject(b))
}

// callbackPropertyHijack installs a function as valueOf or toString, which
// engines call implicitly from conversions.
func callbackPropertyHijack(b *builder.Builder) {
	obj := randomObject(b)
	name := config.ValueOfMethod
	if b.Choose(b.Choices().Hijack.Weights()) == 1 {
		name = config.ToStringMethod
	}
	f, _ := b.BeginFunction(ts.Signature{})
	b.GenerateNested(1)
	b.Return(b.RandVar())
	b.EndFunction()
	b.StoreProperty(obj, name, f)
}
