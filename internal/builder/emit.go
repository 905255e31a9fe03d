package builder

import (
	"github.com/funvibe/jsynth/internal/ir"
	ts "github.com/funvibe/jsynth/internal/typesystem"
)

func (b *Builder) define(v ir.Variable, t ts.Type) {
	if int(v) != len(b.types) {
		Violationf("variable %s defined out of order", v)
	}
	b.types = append(b.types, t)
	b.top().vars = append(b.top().vars, v)
}

// emit appends in with one fresh output of type t.
func (b *Builder) emit(in ir.Instruction, t ts.Type) ir.Variable {
	v := b.prog.NextVariable()
	in.Outputs = []ir.Variable{v}
	b.define(v, t)
	b.prog.Append(in)
	return v
}

func (b *Builder) emitVoid(in ir.Instruction) {
	b.prog.Append(in)
}

func checkSpreads(what string, values []ir.Variable, spreads []bool) {
	if spreads != nil && len(spreads) != len(values) {
		Violationf("%s: %d spread flags for %d values", what, len(spreads), len(values))
	}
}

// Literals

func (b *Builder) LoadInt(v int64) ir.Variable {
	return b.emit(ir.Instruction{Op: ir.LoadInteger, Int: v}, ts.Of(ts.Integer))
}

func (b *Builder) LoadFloat(v float64) ir.Variable {
	return b.emit(ir.Instruction{Op: ir.LoadFloat, Float: v}, ts.Of(ts.Float))
}

func (b *Builder) LoadString(v string) ir.Variable {
	return b.emit(ir.Instruction{Op: ir.LoadString, Str: v}, ts.Of(ts.String))
}

func (b *Builder) LoadBool(v bool) ir.Variable {
	return b.emit(ir.Instruction{Op: ir.LoadBoolean, Bool: v}, ts.Of(ts.Boolean))
}

func (b *Builder) LoadUndefined() ir.Variable {
	return b.emit(ir.Instruction{Op: ir.LoadUndefined}, ts.Of(ts.Undefined))
}

func (b *Builder) LoadNull() ir.Variable {
	return b.emit(ir.Instruction{Op: ir.LoadNull}, ts.Of(ts.Null))
}

// LoadBuiltin loads a global by name, typed by the environment.
func (b *Builder) LoadBuiltin(name string) ir.Variable {
	return b.emit(ir.Instruction{Op: ir.LoadBuiltin, Str: name}, b.env.Builtin(name))
}

// Collections

// CreateObject builds {keys[i]: values[i]} in the given key order.
func (b *Builder) CreateObject(keys []string, values []ir.Variable) ir.Variable {
	return b.CreateObjectOfKind(ts.Object, keys, values)
}

// CreateObjectOfKind builds an object literal typed as kind k, used for
// descriptor and import objects.
func (b *Builder) CreateObjectOfKind(k ts.Kind, keys []string, values []ir.Variable) ir.Variable {
	if len(keys) != len(values) {
		Violationf("object literal: %d keys for %d values", len(keys), len(values))
	}
	t := ts.Of(k)
	t.Properties = append([]string(nil), keys...)
	return b.emit(ir.Instruction{
		Op:     ir.CreateObject,
		Inputs: values,
		Names:  append([]string(nil), keys...),
	}, t)
}

// CreateObjectWithSpread builds an object literal whose slots are either
// named properties or spread sources. keys of spread slots are ignored.
func (b *Builder) CreateObjectWithSpread(keys []string, values []ir.Variable, spreads []bool) ir.Variable {
	if len(keys) != len(values) || len(spreads) != len(values) {
		Violationf("object literal with spread: %d keys, %d values, %d spread flags", len(keys), len(values), len(spreads))
	}
	names := make([]string, len(keys))
	var props []string
	for i, k := range keys {
		if !spreads[i] {
			names[i] = k
			props = append(props, k)
		}
	}
	return b.emit(ir.Instruction{
		Op:      ir.CreateObjectWithSpread,
		Inputs:  values,
		Names:   names,
		Spreads: append([]bool(nil), spreads...),
	}, ts.ObjectWith(props...))
}

func (b *Builder) CreateArray(values []ir.Variable) ir.Variable {
	return b.emit(ir.Instruction{Op: ir.CreateArray, Inputs: values}, ts.Of(ts.Array))
}

// CreateArrayWithSpread builds an array literal; spreads must flag each value.
func (b *Builder) CreateArrayWithSpread(values []ir.Variable, spreads []bool) ir.Variable {
	if len(spreads) != len(values) {
		Violationf("array literal with spread: %d spread flags for %d values", len(spreads), len(values))
	}
	return b.emit(ir.Instruction{
		Op:      ir.CreateArrayWithSpread,
		Inputs:  values,
		Spreads: append([]bool(nil), spreads...),
	}, ts.Of(ts.Array))
}

// Property and element access

func (b *Builder) LoadProperty(obj ir.Variable, name string) ir.Variable {
	return b.emit(ir.Instruction{Op: ir.LoadProperty, Inputs: []ir.Variable{obj}, Str: name},
		b.env.PropertyType(b.Type(obj), name))
}

func (b *Builder) StoreProperty(obj ir.Variable, name string, value ir.Variable) {
	b.emitVoid(ir.Instruction{Op: ir.StoreProperty, Inputs: []ir.Variable{obj, value}, Str: name})
}

func (b *Builder) DeleteProperty(obj ir.Variable, name string) ir.Variable {
	return b.emit(ir.Instruction{Op: ir.DeleteProperty, Inputs: []ir.Variable{obj}, Str: name}, ts.Of(ts.Boolean))
}

func (b *Builder) LoadElement(obj ir.Variable, index int64) ir.Variable {
	return b.emit(ir.Instruction{Op: ir.LoadElement, Inputs: []ir.Variable{obj}, Int: index}, ts.Of(ts.Anything))
}

func (b *Builder) StoreElement(obj ir.Variable, index int64, value ir.Variable) {
	b.emitVoid(ir.Instruction{Op: ir.StoreElement, Inputs: []ir.Variable{obj, value}, Int: index})
}

func (b *Builder) DeleteElement(obj ir.Variable, index int64) ir.Variable {
	return b.emit(ir.Instruction{Op: ir.DeleteElement, Inputs: []ir.Variable{obj}, Int: index}, ts.Of(ts.Boolean))
}

func (b *Builder) LoadComputedProperty(obj, key ir.Variable) ir.Variable {
	return b.emit(ir.Instruction{Op: ir.LoadComputedProperty, Inputs: []ir.Variable{obj, key}}, ts.Of(ts.Anything))
}

func (b *Builder) StoreComputedProperty(obj, key, value ir.Variable) {
	b.emitVoid(ir.Instruction{Op: ir.StoreComputedProperty, Inputs: []ir.Variable{obj, key, value}})
}

func (b *Builder) DeleteComputedProperty(obj, key ir.Variable) ir.Variable {
	return b.emit(ir.Instruction{Op: ir.DeleteComputedProperty, Inputs: []ir.Variable{obj, key}}, ts.Of(ts.Boolean))
}

// Calls. spreads may be nil.

func (b *Builder) CallFunction(f ir.Variable, args []ir.Variable, spreads []bool) ir.Variable {
	checkSpreads("call", args, spreads)
	return b.emit(ir.Instruction{
		Op:      ir.CallFunction,
		Inputs:  append([]ir.Variable{f}, args...),
		Spreads: spreads,
	}, ts.Of(ts.Anything))
}

func (b *Builder) CallMethod(obj ir.Variable, method string, args []ir.Variable, spreads []bool) ir.Variable {
	checkSpreads("method call", args, spreads)
	return b.emit(ir.Instruction{
		Op:      ir.CallMethod,
		Inputs:  append([]ir.Variable{obj}, args...),
		Str:     method,
		Spreads: spreads,
	}, ts.Of(ts.Anything))
}

// Construct emits new ctor(args...). The result is typed by the kind the
// constructor produces when the oracle knows it.
func (b *Builder) Construct(ctor ir.Variable, args []ir.Variable, spreads []bool) ir.Variable {
	checkSpreads("construct", args, spreads)
	t := ts.Of(ts.Object)
	if ct := b.Type(ctor); ct.Kind() == ts.Constructor && ct.Produces != ts.Anything {
		t = ts.Of(ct.Produces)
	}
	return b.emit(ir.Instruction{
		Op:      ir.Construct,
		Inputs:  append([]ir.Variable{ctor}, args...),
		Spreads: spreads,
	}, t)
}

// Operators

func (b *Builder) Unary(op ir.UnaryOperator, v ir.Variable) ir.Variable {
	if op.Mutates() && b.LoopControlled(v) {
		Violationf("%s on %s, which controls an open loop", op, v)
	}
	t := ts.Of(ts.Anything)
	if op == ir.LogicalNot {
		t = ts.Of(ts.Boolean)
	}
	return b.emit(ir.Instruction{Op: ir.UnaryOperation, Unary: op, Inputs: []ir.Variable{v}}, t)
}

func (b *Builder) Binary(lhs ir.Variable, op ir.BinaryOperator, rhs ir.Variable) ir.Variable {
	return b.emit(ir.Instruction{Op: ir.BinaryOperation, Binary: op, Inputs: []ir.Variable{lhs, rhs}}, ts.Of(ts.Anything))
}

func (b *Builder) Compare(lhs ir.Variable, op ir.Comparator, rhs ir.Variable) ir.Variable {
	return b.emit(ir.Instruction{Op: ir.Compare, Compare: op, Inputs: []ir.Variable{lhs, rhs}}, ts.Of(ts.Boolean))
}

func (b *Builder) DoTypeof(v ir.Variable) ir.Variable {
	return b.emit(ir.Instruction{Op: ir.TypeOf, Inputs: []ir.Variable{v}}, ts.Of(ts.String))
}

func (b *Builder) DoInstanceOf(v, ctor ir.Variable) ir.Variable {
	return b.emit(ir.Instruction{Op: ir.InstanceOf, Inputs: []ir.Variable{v, ctor}}, ts.Of(ts.Boolean))
}

func (b *Builder) DoIn(key, obj ir.Variable) ir.Variable {
	return b.emit(ir.Instruction{Op: ir.In, Inputs: []ir.Variable{key, obj}}, ts.Of(ts.Boolean))
}

// Join slots

// Phi declares a join slot seeded from seed.
func (b *Builder) Phi(seed ir.Variable) ir.Variable {
	return b.emit(ir.Instruction{Op: ir.Phi, Inputs: []ir.Variable{seed}}, ts.PhiOf(b.Type(seed).Inner()))
}

// Copy assigns value to the join slot phi.
func (b *Builder) Copy(value, phi ir.Variable) {
	if !b.Type(phi).IsPhi() {
		Violationf("copy into %s of type %s, not a phi", phi, b.Type(phi))
	}
	b.emitVoid(ir.Instruction{Op: ir.Copy, Inputs: []ir.Variable{phi, value}})
	b.top().copied[phi] = true
}

// Functions

// BeginFunction opens a function body and returns the function and its
// parameters. The function is visible in the enclosing block.
func (b *Builder) BeginFunction(sig ts.Signature) (ir.Variable, []ir.Variable) {
	if sig.Strict && sig.HasRest {
		Violationf("strict function with a rest parameter")
	}
	f := b.prog.NextVariable()
	b.define(f, ts.FunctionOf(sig))
	in := ir.Instruction{Op: ir.BeginFunction, Outputs: []ir.Variable{f}, Signature: &sig}
	b.open(ir.BeginFunction, nil).strict = sig.Strict
	params := make([]ir.Variable, sig.Params)
	for i := range params {
		params[i] = b.prog.NextVariable()
		b.define(params[i], ts.Of(ts.Anything))
	}
	in.Inner = params
	b.prog.Append(in)
	return f, params
}

func (b *Builder) Return(v ir.Variable) {
	if !b.InFunction() {
		Violationf("return outside a function")
	}
	b.emitVoid(ir.Instruction{Op: ir.Return, Inputs: []ir.Variable{v}})
}

func (b *Builder) EndFunction() {
	b.close(ir.EndFunction, ir.BeginFunction)
	b.emitVoid(ir.Instruction{Op: ir.EndFunction})
}

// Conditionals

// BeginIf opens the then-branch. owned phis must be copied on both paths,
// so an if owning phis must get an else.
func (b *Builder) BeginIf(cond ir.Variable, owned ...ir.Variable) {
	b.emitVoid(ir.Instruction{Op: ir.BeginIf, Inputs: []ir.Variable{cond}, Owned: owned})
	b.open(ir.BeginIf, owned)
}

func (b *Builder) BeginElse() {
	s := b.close(ir.BeginElse, ir.BeginIf)
	b.emitVoid(ir.Instruction{Op: ir.BeginElse})
	b.open(ir.BeginElse, s.owned)
}

func (b *Builder) EndIf() {
	s := b.close(ir.EndIf, ir.BeginIf, ir.BeginElse)
	if s.op == ir.BeginIf && len(s.owned) > 0 {
		Violationf("if owning phis closed without an else path")
	}
	b.emitVoid(ir.Instruction{Op: ir.EndIf})
}

// Loops

func (b *Builder) BeginWhile(lhs ir.Variable, cmp ir.Comparator, rhs ir.Variable, owned ...ir.Variable) {
	b.emitVoid(ir.Instruction{Op: ir.BeginWhile, Inputs: []ir.Variable{lhs, rhs}, Compare: cmp, Owned: owned})
	b.open(ir.BeginWhile, owned).pinned = []ir.Variable{lhs, rhs}
}

func (b *Builder) EndWhile() {
	b.close(ir.EndWhile, ir.BeginWhile)
	b.emitVoid(ir.Instruction{Op: ir.EndWhile})
}

// BeginDoWhile opens a do-while body; the condition is tested after it.
func (b *Builder) BeginDoWhile(lhs ir.Variable, cmp ir.Comparator, rhs ir.Variable, owned ...ir.Variable) {
	b.emitVoid(ir.Instruction{Op: ir.BeginDoWhile, Inputs: []ir.Variable{lhs, rhs}, Compare: cmp, Owned: owned})
	b.open(ir.BeginDoWhile, owned).pinned = []ir.Variable{lhs, rhs}
}

func (b *Builder) EndDoWhile() {
	b.close(ir.EndDoWhile, ir.BeginDoWhile)
	b.emitVoid(ir.Instruction{Op: ir.EndDoWhile})
}

// BeginFor opens `for (let i = start; i cmp end; i = i op step)` and
// returns the loop variable, owned by the construct.
func (b *Builder) BeginFor(start ir.Variable, cmp ir.Comparator, end ir.Variable, op ir.BinaryOperator, step ir.Variable) ir.Variable {
	in := ir.Instruction{Op: ir.BeginFor, Inputs: []ir.Variable{start, end, step}, Compare: cmp, Binary: op}
	s := b.open(ir.BeginFor, nil)
	i := b.prog.NextVariable()
	b.define(i, ts.Of(ts.Integer))
	s.pinned = []ir.Variable{start, end, step, i}
	in.Inner = []ir.Variable{i}
	b.prog.Append(in)
	return i
}

func (b *Builder) EndFor() {
	b.close(ir.EndFor, ir.BeginFor)
	b.emitVoid(ir.Instruction{Op: ir.EndFor})
}

func (b *Builder) BeginForIn(obj ir.Variable) ir.Variable {
	return b.beginIteration(ir.BeginForIn, obj, ts.Of(ts.String))
}

func (b *Builder) EndForIn() {
	b.close(ir.EndForIn, ir.BeginForIn)
	b.emitVoid(ir.Instruction{Op: ir.EndForIn})
}

func (b *Builder) BeginForOf(obj ir.Variable) ir.Variable {
	return b.beginIteration(ir.BeginForOf, obj, ts.Of(ts.Anything))
}

func (b *Builder) EndForOf() {
	b.close(ir.EndForOf, ir.BeginForOf)
	b.emitVoid(ir.Instruction{Op: ir.EndForOf})
}

func (b *Builder) beginIteration(op ir.Opcode, obj ir.Variable, t ts.Type) ir.Variable {
	in := ir.Instruction{Op: op, Inputs: []ir.Variable{obj}}
	b.open(op, nil)
	v := b.prog.NextVariable()
	b.define(v, t)
	in.Inner = []ir.Variable{v}
	b.prog.Append(in)
	return v
}

func (b *Builder) Break() {
	if !b.InLoop() {
		Violationf("break outside a loop")
	}
	b.emitVoid(ir.Instruction{Op: ir.Break})
}

func (b *Builder) Continue() {
	if !b.ContinueAllowed() {
		Violationf("continue outside a loop or inside a counted loop")
	}
	b.emitVoid(ir.Instruction{Op: ir.Continue})
}

// Exceptions

func (b *Builder) BeginTry(owned ...ir.Variable) {
	b.emitVoid(ir.Instruction{Op: ir.BeginTry, Owned: owned})
	b.open(ir.BeginTry, owned)
}

// BeginCatch closes the try body and returns the caught exception.
func (b *Builder) BeginCatch() ir.Variable {
	s := b.close(ir.BeginCatch, ir.BeginTry)
	in := ir.Instruction{Op: ir.BeginCatch}
	b.open(ir.BeginCatch, s.owned)
	e := b.prog.NextVariable()
	b.define(e, ts.Of(ts.Anything))
	in.Inner = []ir.Variable{e}
	b.prog.Append(in)
	return e
}

func (b *Builder) EndTryCatch() {
	b.close(ir.EndTryCatch, ir.BeginCatch)
	b.emitVoid(ir.Instruction{Op: ir.EndTryCatch})
}

func (b *Builder) Throw(v ir.Variable) {
	b.emitVoid(ir.Instruction{Op: ir.ThrowException, Inputs: []ir.Variable{v}})
}

// Scope statements

// BeginWith opens a with statement. with is a syntax error in strict code.
func (b *Builder) BeginWith(obj ir.Variable) {
	if b.InStrictMode() {
		Violationf("with statement in strict mode code")
	}
	b.emitVoid(ir.Instruction{Op: ir.BeginWith, Inputs: []ir.Variable{obj}})
	b.open(ir.BeginWith, nil)
}

func (b *Builder) EndWith() {
	b.close(ir.EndWith, ir.BeginWith)
	b.emitVoid(ir.Instruction{Op: ir.EndWith})
}

func (b *Builder) LoadFromScope(name string) ir.Variable {
	if !b.InWith() {
		Violationf("scope read outside a with statement")
	}
	return b.emit(ir.Instruction{Op: ir.LoadFromScope, Str: name}, ts.Of(ts.Anything))
}

func (b *Builder) StoreToScope(name string, v ir.Variable) {
	if !b.InWith() {
		Violationf("scope write outside a with statement")
	}
	b.emitVoid(ir.Instruction{Op: ir.StoreToScope, Str: name, Inputs: []ir.Variable{v}})
}
