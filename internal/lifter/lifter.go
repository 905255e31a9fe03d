// Package lifter turns a program into JavaScript source.
package lifter

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/funvibe/jsynth/internal/ir"
)

// Lift returns the JavaScript source of p. p must be well formed; see
// ir.Verify.
func Lift(p *ir.Program) string {
	l := &lifter{mutable: mutableVars(p)}
	for i := range p.Code {
		l.lift(&p.Code[i])
	}
	return l.buf.String()
}

type lifter struct {
	buf    bytes.Buffer
	indent int

	// mutable variables are declared with let.
	mutable map[ir.Variable]bool
	// doWhile holds the conditions of the open do-while loops.
	doWhile []string
}

// mutableVars collects the variables that are assigned after their
// definition: phis and the operands of increments and decrements.
func mutableVars(p *ir.Program) map[ir.Variable]bool {
	out := make(map[ir.Variable]bool)
	for i := range p.Code {
		in := &p.Code[i]
		switch {
		case in.Op == ir.Phi:
			out[in.Output()] = true
		case in.Op == ir.UnaryOperation && in.Unary.Mutates():
			out[in.Inputs[0]] = true
		}
	}
	return out
}

func (l *lifter) line(format string, args ...interface{}) {
	for i := 0; i < l.indent; i++ {
		l.buf.WriteString("    ")
	}
	fmt.Fprintf(&l.buf, format, args...)
	l.buf.WriteByte('\n')
}

func (l *lifter) define(v ir.Variable, expr string) {
	kw := "const"
	if l.mutable[v] {
		kw = "let"
	}
	l.line("%s %s = %s;", kw, v, expr)
}

func (l *lifter) open(format string, args ...interface{}) {
	l.line(format, args...)
	l.indent++
}

func (l *lifter) close(format string, args ...interface{}) {
	l.indent--
	l.line(format, args...)
}

func (l *lifter) lift(in *ir.Instruction) {
	if expr, ok := expression(in); ok {
		l.define(in.Output(), expr)
		return
	}

	switch in.Op {
	case ir.StoreProperty:
		l.line("%s = %s;", member(in.Inputs[0], in.Str), in.Inputs[1])
	case ir.StoreElement:
		l.line("%s[%d] = %s;", in.Inputs[0], in.Int, in.Inputs[1])
	case ir.StoreComputedProperty:
		l.line("%s[%s] = %s;", in.Inputs[0], in.Inputs[1], in.Inputs[2])
	case ir.Copy:
		l.line("%s = %s;", in.Inputs[0], in.Inputs[1])
	case ir.StoreToScope:
		l.line("%s = %s;", in.Str, in.Inputs[0])

	case ir.BeginFunction:
		l.open("function %s(%s) {", in.Output(), parameters(in))
		if in.Signature != nil && in.Signature.Strict {
			l.line(`"use strict";`)
		}
	case ir.Return:
		l.line("return %s;", in.Inputs[0])
	case ir.EndFunction, ir.EndIf, ir.EndWhile, ir.EndFor, ir.EndForIn,
		ir.EndForOf, ir.EndTryCatch, ir.EndWith:
		l.close("}")

	case ir.BeginIf:
		l.open("if (%s) {", in.Inputs[0])
	case ir.BeginElse:
		l.indent--
		l.open("} else {")

	case ir.BeginWhile:
		l.open("while (%s) {", condition(in))
	case ir.BeginDoWhile:
		l.doWhile = append(l.doWhile, condition(in))
		l.open("do {")
	case ir.EndDoWhile:
		cond := l.doWhile[len(l.doWhile)-1]
		l.doWhile = l.doWhile[:len(l.doWhile)-1]
		l.close("} while (%s);", cond)
	case ir.BeginFor:
		i := in.Inner[0]
		start, end, step := in.Inputs[0], in.Inputs[1], in.Inputs[2]
		l.open("for (let %s = %s; %s %s %s; %s = %s %s %s) {",
			i, start, i, in.Compare, end, i, i, in.Binary, step)
	case ir.BeginForIn:
		l.open("for (%s %s in %s) {", l.binding(in.Inner[0]), in.Inner[0], in.Inputs[0])
	case ir.BeginForOf:
		l.open("for (%s %s of %s) {", l.binding(in.Inner[0]), in.Inner[0], in.Inputs[0])
	case ir.Break:
		l.line("break;")
	case ir.Continue:
		l.line("continue;")

	case ir.BeginTry:
		l.open("try {")
	case ir.BeginCatch:
		l.indent--
		l.open("} catch (%s) {", in.Inner[0])
	case ir.ThrowException:
		l.line("throw %s;", in.Inputs[0])

	case ir.BeginWith:
		l.open("with (%s) {", in.Inputs[0])

	default:
		panic(fmt.Sprintf("lifter: unhandled opcode %s", in.Op))
	}
}

func (l *lifter) binding(v ir.Variable) string {
	if l.mutable[v] {
		return "let"
	}
	return "const"
}

// expression returns the right-hand side of an instruction with one output.
func expression(in *ir.Instruction) (string, bool) {
	switch in.Op {
	case ir.LoadInteger:
		return strconv.FormatInt(in.Int, 10), true
	case ir.LoadFloat:
		return formatFloat(in.Float), true
	case ir.LoadString:
		return Quote(in.Str), true
	case ir.LoadBoolean:
		return strconv.FormatBool(in.Bool), true
	case ir.LoadUndefined:
		return "undefined", true
	case ir.LoadNull:
		return "null", true
	case ir.LoadBuiltin, ir.LoadFromScope:
		return in.Str, true

	case ir.CreateObject, ir.CreateObjectWithSpread:
		return objectLiteral(in), true
	case ir.CreateArray, ir.CreateArrayWithSpread:
		return "[" + argumentList(in) + "]", true

	case ir.LoadProperty:
		return member(in.Inputs[0], in.Str), true
	case ir.DeleteProperty:
		return "delete " + member(in.Inputs[0], in.Str), true
	case ir.LoadElement:
		return fmt.Sprintf("%s[%d]", in.Inputs[0], in.Int), true
	case ir.DeleteElement:
		return fmt.Sprintf("delete %s[%d]", in.Inputs[0], in.Int), true
	case ir.LoadComputedProperty:
		return fmt.Sprintf("%s[%s]", in.Inputs[0], in.Inputs[1]), true
	case ir.DeleteComputedProperty:
		return fmt.Sprintf("delete %s[%s]", in.Inputs[0], in.Inputs[1]), true

	case ir.CallFunction:
		return fmt.Sprintf("%s(%s)", in.Inputs[0], argumentList(in)), true
	case ir.CallMethod:
		return fmt.Sprintf("%s(%s)", member(in.Inputs[0], in.Str), argumentList(in)), true
	case ir.Construct:
		return fmt.Sprintf("new %s(%s)", in.Inputs[0], argumentList(in)), true

	case ir.UnaryOperation:
		if in.Unary.IsPostfix() {
			return in.Inputs[0].String() + in.Unary.String(), true
		}
		return in.Unary.String() + in.Inputs[0].String(), true
	case ir.BinaryOperation:
		return fmt.Sprintf("%s %s %s", in.Inputs[0], in.Binary, in.Inputs[1]), true
	case ir.Compare:
		return fmt.Sprintf("%s %s %s", in.Inputs[0], in.Compare, in.Inputs[1]), true
	case ir.TypeOf:
		return "typeof " + in.Inputs[0].String(), true
	case ir.InstanceOf:
		return fmt.Sprintf("%s instanceof %s", in.Inputs[0], in.Inputs[1]), true
	case ir.In:
		return fmt.Sprintf("%s in %s", in.Inputs[0], in.Inputs[1]), true

	case ir.Phi:
		return in.Inputs[0].String(), true
	}
	return "", false
}

func condition(in *ir.Instruction) string {
	return fmt.Sprintf("%s %s %s", in.Inputs[0], in.Compare, in.Inputs[1])
}

func parameters(in *ir.Instruction) string {
	parts := make([]string, len(in.Inner))
	for i, p := range in.Inner {
		parts[i] = p.String()
	}
	if n := len(parts); n > 0 && in.Signature != nil && in.Signature.HasRest {
		parts[n-1] = "..." + parts[n-1]
	}
	return strings.Join(parts, ", ")
}

func argumentList(in *ir.Instruction) string {
	args := in.Arguments()
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
		if i < len(in.Spreads) && in.Spreads[i] {
			parts[i] = "..." + parts[i]
		}
	}
	return strings.Join(parts, ", ")
}

func objectLiteral(in *ir.Instruction) string {
	if len(in.Inputs) == 0 {
		return "{}"
	}
	parts := make([]string, len(in.Inputs))
	for i, v := range in.Inputs {
		if i < len(in.Spreads) && in.Spreads[i] {
			parts[i] = "..." + v.String()
			continue
		}
		parts[i] = propertyKey(in.Names[i]) + ": " + v.String()
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

func propertyKey(name string) string {
	if IsIdentifier(name) {
		return name
	}
	return Quote(name)
}

func member(obj ir.Variable, name string) string {
	if IsIdentifier(name) {
		return obj.String() + "." + name
	}
	return obj.String() + "[" + Quote(name) + "]"
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eIN") {
		s += ".0"
	}
	return s
}

// IsIdentifier reports whether name can be written as a bare identifier
// or dotted property name.
func IsIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// Quote returns s as a double-quoted JavaScript string literal.
func Quote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size
		switch {
		case r == '"' || r == '\\':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case r == '\n':
			sb.WriteString(`\n`)
		case r == '\t':
			sb.WriteString(`\t`)
		case r == utf8.RuneError && size == 1:
			sb.WriteString(`�`)
		case r < 0x20, r == 0x7f, r == 0x2028, r == 0x2029:
			fmt.Fprintf(&sb, `\u%04x`, r)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
