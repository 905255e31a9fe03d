package strategies

import (
	"github.com/funvibe/jsynth/internal/builder"
	"github.com/funvibe/jsynth/internal/ir"
	ts "github.com/funvibe/jsynth/internal/typesystem"
)

func ifElse(b *builder.Builder) {
	if b.Chance(b.Probabilities().IfCondition) {
		comparison(b)
	}
	cond := b.RandVarOfType(ts.Of(ts.Boolean))
	phi := b.Phi(b.RandVar())
	b.BeginIf(cond, phi)
	b.GenerateRecursive()
	b.Copy(b.RandVar(), phi)
	b.BeginElse()
	b.GenerateRecursive()
	b.Copy(b.RandVar(), phi)
	b.EndIf()
}

// countedLoop emits a loop whose phi counts from 0 to a constant bound.
// Termination does not depend on the generated body.
func countedLoop(b *builder.Builder, begin func(lhs ir.Variable, cmp ir.Comparator, rhs ir.Variable, owned ...ir.Variable), end func()) {
	start := b.LoadInt(0)
	bound := b.LoadInt(int64(b.IntIn(b.Ranges().WhileBound)))
	counter := b.Phi(start)
	begin(counter, ir.LessThan, bound, counter)
	b.GenerateRecursive()
	one := b.LoadInt(1)
	next := b.Binary(counter, ir.Add, one)
	b.Copy(next, counter)
	end()
}

func whileLoop(b *builder.Builder) {
	countedLoop(b, b.BeginWhile, b.EndWhile)
}

func doWhileLoop(b *builder.Builder) {
	countedLoop(b, b.BeginDoWhile, b.EndDoWhile)
}

func forLoop(b *builder.Builder) {
	start := b.LoadInt(0)
	end := b.LoadInt(int64(b.IntIn(b.Ranges().ForEnd)))
	step := b.LoadInt(1)
	b.BeginFor(start, ir.LessThan, end, ir.Add, step)
	b.GenerateRecursive()
	b.EndFor()
}

func forInLoop(b *builder.Builder) {
	b.BeginForIn(b.RandVarOfType(ts.Of(ts.Object)))
	b.GenerateRecursive()
	b.EndForIn()
}

func forOfLoop(b *builder.Builder) {
	b.BeginForOf(b.RandVarOfType(ts.Of(ts.Object)))
	b.GenerateRecursive()
	b.EndForOf()
}

func breakStatement(b *builder.Builder) {
	if b.InLoop() {
		b.Break()
	}
}

func continueStatement(b *builder.Builder) {
	if b.ContinueAllowed() {
		b.Continue()
	}
}

func tryCatch(b *builder.Builder) {
	phi := b.Phi(b.RandVar())
	b.BeginTry(phi)
	b.GenerateRecursive()
	b.Copy(b.RandVar(), phi)
	b.BeginCatch()
	b.GenerateRecursive()
	b.Copy(b.RandVar(), phi)
	b.EndTryCatch()
}

func throwStatement(b *builder.Builder) {
	b.Throw(b.RandVar())
}

func withStatement(b *builder.Builder) {
	if b.InStrictMode() {
		return
	}
	b.BeginWith(b.RandVarOfType(ts.Of(ts.Object)))
	if b.Choose(b.Choices().Scope.Weights()) == 0 {
		scopeVariableRead(b)
	} else {
		scopeVariableWrite(b)
	}
	b.GenerateRecursive()
	b.EndWith()
}

func scopeVariableRead(b *builder.Builder) {
	if !b.InWith() {
		return
	}
	b.LoadFromScope(b.ScopeName())
}

func scopeVariableWrite(b *builder.Builder) {
	if !b.InWith() {
		return
	}
	b.StoreToScope(b.ScopeName(), b.RandVar())
}

// reassignment is the only way plain code assigns a phi outside the
// construct that owns it. Counters of open loops are left alone so that
// counted loops still terminate.
func reassignment(b *builder.Builder) {
	phi, ok := b.ReassignablePhi()
	if !ok {
		return
	}
	b.Copy(b.RandVar(), phi)
}
