package ir

import (
	"fmt"
	"strconv"
	"strings"
)

func (v Variable) String() string {
	return "v" + strconv.FormatUint(uint64(v), 10)
}

// Disassemble returns a human-readable listing, one instruction per line,
// indented by block depth.
func Disassemble(p *Program, name string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("== %s ==\n", name))

	depth := 0
	for i := range p.Code {
		in := &p.Code[i]
		if in.Op.IsBlockEnd() && depth > 0 {
			depth--
		}
		sb.WriteString(fmt.Sprintf("%04d ", i))
		sb.WriteString(strings.Repeat("    ", depth))
		sb.WriteString(in.String())
		sb.WriteByte('\n')
		if in.Op.IsBlockBegin() {
			depth++
		}
	}

	return sb.String()
}

func (in *Instruction) String() string {
	var sb strings.Builder
	if len(in.Outputs) > 0 {
		sb.WriteString(joinVars(in.Outputs))
		sb.WriteString(" = ")
	}
	sb.WriteString(in.Op.String())

	if operand := in.operand(); operand != "" {
		sb.WriteString(" ")
		sb.WriteString(operand)
	}
	if len(in.Inputs) > 0 {
		sb.WriteString(" ")
		sb.WriteString(in.inputList())
	}
	if len(in.Inner) > 0 {
		sb.WriteString(" -> ")
		sb.WriteString(joinVars(in.Inner))
	}
	if len(in.Owned) > 0 {
		sb.WriteString(" owns ")
		sb.WriteString(joinVars(in.Owned))
	}
	return sb.String()
}

func (in *Instruction) operand() string {
	switch in.Op {
	case LoadInteger, LoadElement, StoreElement, DeleteElement:
		return strconv.FormatInt(in.Int, 10)
	case LoadFloat:
		return strconv.FormatFloat(in.Float, 'g', -1, 64)
	case LoadString, LoadBuiltin, LoadProperty, StoreProperty, DeleteProperty,
		CallMethod, LoadFromScope, StoreToScope:
		return strconv.Quote(in.Str)
	case LoadBoolean:
		return strconv.FormatBool(in.Bool)
	case UnaryOperation:
		if in.Unary.IsPostfix() {
			return "postfix" + in.Unary.String()
		}
		return in.Unary.String()
	case BinaryOperation:
		return in.Binary.String()
	case Compare, BeginWhile, BeginDoWhile:
		return in.Compare.String()
	case BeginFor:
		return in.Compare.String() + " " + in.Binary.String()
	case BeginFunction:
		if in.Signature != nil {
			return in.Signature.String()
		}
	}
	return ""
}

func (in *Instruction) inputList() string {
	parts := make([]string, len(in.Inputs))
	start := in.argStart()
	for i, v := range in.Inputs {
		s := v.String()
		if a := i - start; a >= 0 {
			if a < len(in.Spreads) && in.Spreads[a] {
				s = "..." + s
			}
			if a < len(in.Names) && in.Names[a] != "" {
				s = strconv.Quote(in.Names[a]) + ":" + s
			}
		}
		parts[i] = s
	}
	return strings.Join(parts, ", ")
}

func joinVars(vs []Variable) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = v.String()
	}
	return strings.Join(parts, ", ")
}
