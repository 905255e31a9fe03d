package builder

import (
	"github.com/funvibe/jsynth/internal/ir"
	"github.com/funvibe/jsynth/internal/random"
	ts "github.com/funvibe/jsynth/internal/typesystem"
)

// Type returns the type recorded for v at its definition.
func (b *Builder) Type(v ir.Variable) ts.Type {
	if int(v) >= len(b.types) {
		Violationf("unknown variable %s", v)
	}
	return b.types[v]
}

// Visible returns the variables visible at the current position, outermost
// block first.
func (b *Builder) Visible() []ir.Variable {
	var out []ir.Variable
	for _, s := range b.scopes {
		out = append(out, s.vars...)
	}
	return out
}

func (b *Builder) filter(pred func(ts.Type) bool) []ir.Variable {
	var out []ir.Variable
	for _, s := range b.scopes {
		for _, v := range s.vars {
			if pred(b.types[v]) {
				out = append(out, v)
			}
		}
	}
	return out
}

// RandVar returns a random visible variable. With nothing visible it emits
// a fresh integer literal instead.
func (b *Builder) RandVar() ir.Variable {
	vs := b.Visible()
	if len(vs) == 0 {
		return b.LoadInt(b.GenInt())
	}
	return random.Element(b.src, vs)
}

// RandVarOfType returns a random variable that may be a t, falling back
// to RandVar.
func (b *Builder) RandVarOfType(t ts.Type) ir.Variable {
	if v, ok := b.FindVarOfType(t); ok {
		return v
	}
	return b.RandVar()
}

// FindVarOfType returns a random variable that may be a t.
func (b *Builder) FindVarOfType(t ts.Type) (ir.Variable, bool) {
	vs := b.filter(func(vt ts.Type) bool { return vt.MayBe(t) })
	if len(vs) == 0 {
		return 0, false
	}
	return random.Element(b.src, vs), true
}

// FindVarOfGuaranteedType returns a random variable that is always a t.
func (b *Builder) FindVarOfGuaranteedType(t ts.Type) (ir.Variable, bool) {
	vs := b.filter(func(vt ts.Type) bool { return vt.Is(t) })
	if len(vs) == 0 {
		return 0, false
	}
	return random.Element(b.src, vs), true
}

// ReassignablePhi returns a random visible phi that no open loop uses as
// its counter.
func (b *Builder) ReassignablePhi() (ir.Variable, bool) {
	vs := b.filter(func(vt ts.Type) bool { return vt.IsPhi() })
	var out []ir.Variable
	for _, v := range vs {
		if !b.loopOwned(v) {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return 0, false
	}
	return random.Element(b.src, out), true
}

// AssignableVar returns a random visible variable that no open counted
// loop depends on.
func (b *Builder) AssignableVar() (ir.Variable, bool) {
	var out []ir.Variable
	for _, v := range b.Visible() {
		if !b.LoopControlled(v) {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return 0, false
	}
	return random.Element(b.src, out), true
}

// VarsOfKind returns the visible variables whose kind is exactly k.
func (b *Builder) VarsOfKind(k ts.Kind) []ir.Variable {
	return b.filter(func(vt ts.Type) bool { return vt.Kind() == k })
}

// RandVars returns n random variables.
func (b *Builder) RandVars(n int) []ir.Variable {
	out := make([]ir.Variable, n)
	for i := range out {
		out[i] = b.RandVar()
	}
	return out
}

// SpreadMask flags each of n values for spreading with probability p.
func (b *Builder) SpreadMask(n int, p float64) []bool {
	out := make([]bool, n)
	for i := range out {
		out[i] = b.Chance(p)
	}
	return out
}

// Type hints

// RandomProperty returns a property name known for v's type, or a
// generated name when none is known.
func (b *Builder) RandomProperty(v ir.Variable) string {
	props := b.env.PropertiesOf(b.Type(v))
	if len(props) == 0 {
		return b.PropertyNameForRead()
	}
	return random.Element(b.src, props)
}

// RandomMethod returns a method name known for v's type, or a generated
// name when none is known.
func (b *Builder) RandomMethod(v ir.Variable) string {
	methods := b.env.MethodsOf(b.Type(v))
	if len(methods) == 0 {
		return b.MethodName()
	}
	return random.Element(b.src, methods)
}

// SignatureOf returns the calling convention of a callable, if known.
func (b *Builder) SignatureOf(v ir.Variable) (ts.Signature, bool) {
	if sig := b.Type(v).Signature; sig != nil {
		return *sig, true
	}
	return ts.Signature{}, false
}

// Arguments draws an argument list for a callee with an optional known
// signature: the declared parameters plus extra rest arguments, or an
// unknown-arity list.
func (b *Builder) Arguments(sig ts.Signature, known bool) []ir.Variable {
	n := b.IntIn(b.ranges.UnknownArguments)
	if known {
		n = sig.Params
		if sig.HasRest {
			// the rest parameter itself takes zero or more arguments
			n = sig.Params - 1 + b.IntIn(b.ranges.RestArguments)
		}
	}
	if n < 0 {
		n = 0
	}
	return b.RandVars(n)
}
