package strategies

import (
	"github.com/funvibe/jsynth/internal/builder"
	"github.com/funvibe/jsynth/internal/ir"
	ts "github.com/funvibe/jsynth/internal/typesystem"
)

// functionDefinition keeps bodies to one generated strategy plus a return,
// which bounds how often a call throws before doing anything useful.
func functionDefinition(b *builder.Builder) {
	p := b.Probabilities()
	sig := ts.Signature{
		Params:  b.IntIn(b.Ranges().FunctionParams),
		HasRest: b.Chance(p.RestParameter),
	}
	// a "use strict" directive needs a simple parameter list
	sig.Strict = !sig.HasRest && b.Chance(p.StrictFunction)
	b.BeginFunction(sig)
	b.GenerateNested(1)
	b.Return(b.RandVar())
	b.EndFunction()
}

func functionReturn(b *builder.Builder) {
	if !b.InFunction() {
		return
	}
	b.Return(b.RandVar())
}

func callArguments(b *builder.Builder, callee ir.Variable, spread bool) ([]ir.Variable, []bool) {
	sig, known := b.SignatureOf(callee)
	args := b.Arguments(sig, known)
	return args, spreadMask(b, args, spread)
}

func spreadMask(b *builder.Builder, args []ir.Variable, spread bool) []bool {
	if !spread {
		return nil
	}
	return b.SpreadMask(len(args), b.Probabilities().SpreadElement)
}

func callFunction(b *builder.Builder, spread bool) {
	f := b.RandVarOfType(ts.Of(ts.Function))
	args, spreads := callArguments(b, f, spread)
	b.CallFunction(f, args, spreads)
}

func callMethod(b *builder.Builder, spread bool) {
	obj := b.RandVarOfType(ts.Of(ts.Object))
	method := b.RandomMethod(obj)
	sig, known := b.Env().MethodSignature(method)
	args := b.Arguments(sig, known)
	b.CallMethod(obj, method, args, spreadMask(b, args, spread))
}

func constructValue(b *builder.Builder, spread bool) {
	ctor := b.RandVarOfType(ts.Of(ts.Constructor))
	args, spreads := callArguments(b, ctor, spread)
	b.Construct(ctor, args, spreads)
}

func functionCall(b *builder.Builder)           { callFunction(b, false) }
func functionCallWithSpread(b *builder.Builder) { callFunction(b, true) }
func methodCall(b *builder.Builder)             { callMethod(b, false) }
func methodCallWithSpread(b *builder.Builder)   { callMethod(b, true) }
func construct(b *builder.Builder)              { constructValue(b, false) }
func constructWithSpread(b *builder.Builder)    { constructValue(b, true) }
