package strategies

import (
	"github.com/funvibe/jsynth/internal/builder"
	"github.com/funvibe/jsynth/internal/ir"
)

// knownCrashRegression replays a program shape that once crashed the
// engine's optimizing compiler: nested array allocation under a
// self-equality branch inside a counted loop. It draws no randomness.
//
//	let i = 0;
//	while (i < 10) {
//	    if (i === i) {
//	        const a = [undefined];
//	        [a, a];
//	    } else {
//	    }
//	    i = i + 1;
//	}
func knownCrashRegression(b *builder.Builder) {
	u := b.LoadUndefined()
	start := b.LoadInt(0)
	end := b.LoadInt(10)
	step := b.LoadInt(1)
	i := b.Phi(start)
	b.BeginWhile(i, ir.LessThan, end, i)
	c := b.Compare(i, ir.StrictEqual, i)
	b.BeginIf(c)
	a := b.CreateArray([]ir.Variable{u})
	b.CreateArray([]ir.Variable{a, a})
	b.BeginElse()
	b.EndIf()
	next := b.Binary(i, ir.Add, step)
	b.Copy(next, i)
	b.EndWhile()
}
