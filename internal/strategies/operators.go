package strategies

import (
	"github.com/funvibe/jsynth/internal/builder"
	"github.com/funvibe/jsynth/internal/ir"
	"github.com/funvibe/jsynth/internal/random"
	ts "github.com/funvibe/jsynth/internal/typesystem"
)

// unaryOperation never increments or decrements a value an open counted
// loop depends on; with no other candidate it uses a pure operator.
func unaryOperation(b *builder.Builder) {
	op := random.Element(b.Random(), ir.UnaryOperators)
	if op.Mutates() {
		if v, ok := b.AssignableVar(); ok {
			b.Unary(op, v)
			return
		}
		op = random.Element(b.Random(), ir.PureUnaryOperators)
	}
	b.Unary(op, b.RandVar())
}

func binaryOperation(b *builder.Builder) {
	lhs := b.RandVar()
	rhs := b.RandVar()
	b.Binary(lhs, random.Element(b.Random(), ir.BinaryOperators), rhs)
}

func comparison(b *builder.Builder) {
	lhs := b.RandVar()
	rhs := b.RandVar()
	b.Compare(lhs, random.Element(b.Random(), ir.Comparators), rhs)
}

// typeTest compares a typeof result right away; on its own it is inert.
func typeTest(b *builder.Builder) {
	t := b.DoTypeof(b.RandVar())
	name := b.LoadString(b.TypeName())
	b.Compare(t, ir.StrictEqual, name)
}

func instanceOf(b *builder.Builder) {
	v := b.RandVar()
	b.DoInstanceOf(v, b.RandVarOfType(ts.Of(ts.Function)))
}

func in(b *builder.Builder) {
	key := b.RandVar()
	b.DoIn(key, b.RandVarOfType(ts.Of(ts.Object)))
}
