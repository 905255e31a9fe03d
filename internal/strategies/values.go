package strategies

import (
	"github.com/funvibe/jsynth/internal/builder"
	"github.com/funvibe/jsynth/internal/ir"
)

func integerLiteral(b *builder.Builder)   { b.LoadInt(b.GenInt()) }
func floatLiteral(b *builder.Builder)     { b.LoadFloat(b.GenFloat()) }
func stringLiteral(b *builder.Builder)    { b.LoadString(b.GenString()) }
func booleanLiteral(b *builder.Builder)   { b.LoadBool(b.Bool()) }
func undefinedLiteral(b *builder.Builder) { b.LoadUndefined() }
func nullLiteral(b *builder.Builder)      { b.LoadNull() }
func builtinReference(b *builder.Builder) { b.LoadBuiltin(b.BuiltinName()) }

// properties collects object literal slots. A repeated key keeps its first
// position and takes the later value, as an object literal would.
type properties struct {
	keys   []string
	values []ir.Variable
	spread []bool
}

func (p *properties) set(key string, v ir.Variable) {
	for i, k := range p.keys {
		if k == key && !p.spread[i] {
			p.values[i] = v
			return
		}
	}
	p.keys = append(p.keys, key)
	p.values = append(p.values, v)
	p.spread = append(p.spread, false)
}

func (p *properties) spreadFrom(v ir.Variable) {
	p.keys = append(p.keys, "")
	p.values = append(p.values, v)
	p.spread = append(p.spread, true)
}

func objectLiteral(b *builder.Builder) {
	var props properties
	n := b.IntIn(b.Ranges().ObjectProperties)
	for i := 0; i < n; i++ {
		props.set(b.PropertyNameForWrite(), b.RandVar())
	}
	b.CreateObject(props.keys, props.values)
}

func arrayLiteral(b *builder.Builder) {
	b.CreateArray(b.RandVars(b.IntIn(b.Ranges().ArrayElements)))
}

func objectLiteralWithSpread(b *builder.Builder) {
	var props properties
	n := b.IntIn(b.Ranges().SpreadSlots)
	for i := 0; i < n; i++ {
		if b.Chance(b.Probabilities().SpreadSlot) {
			props.spreadFrom(b.RandVar())
		} else {
			props.set(b.PropertyNameForWrite(), b.RandVar())
		}
	}
	b.CreateObjectWithSpread(props.keys, props.values, props.spread)
}

func arrayLiteralWithSpread(b *builder.Builder) {
	values := b.RandVars(b.IntIn(b.Ranges().ArrayElements))
	b.CreateArrayWithSpread(values, b.SpreadMask(len(values), b.Probabilities().SpreadElement))
}
