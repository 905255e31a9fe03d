package ir

import (
	"github.com/funvibe/jsynth/internal/typesystem"
)

// Variable is an SSA value handle. Handles are numbered in definition order.
type Variable uint32

// Instruction is one operation of a program. Only the operand fields
// relevant to Op are set.
type Instruction struct {
	Op      Opcode
	Inputs  []Variable
	Outputs []Variable
	// Inner are variables defined at the start of the block the
	// instruction opens: function parameters, loop variables, the caught
	// exception.
	Inner []Variable

	Int   int64
	Float float64
	Str   string
	Bool  bool

	// Names holds object literal keys, aligned with Arguments. Spread
	// slots have an empty name.
	Names []string
	// Spreads flags the arguments or elements that are spread, aligned
	// with Arguments. nil means no spreads.
	Spreads []bool

	Unary   UnaryOperator
	Binary  BinaryOperator
	Compare Comparator

	Signature *typesystem.Signature

	// Owned lists the join slots a construct must copy into on every path.
	Owned []Variable
}

// Output returns the single output of the instruction.
func (in *Instruction) Output() Variable {
	return in.Outputs[0]
}

// Arguments returns the call arguments or literal elements of the
// instruction: Inputs without the callee or receiver.
func (in *Instruction) Arguments() []Variable {
	return in.Inputs[in.argStart():]
}

func (in *Instruction) argStart() int {
	switch in.Op {
	case CallFunction, CallMethod, Construct:
		if len(in.Inputs) > 0 {
			return 1
		}
	}
	return 0
}

// Program is the growing list of instructions.
type Program struct {
	Code []Instruction
	// Vars is the number of variables defined so far.
	Vars uint32
}

// NewProgram returns an empty program.
func NewProgram() *Program {
	return &Program{}
}

// NextVariable allocates a fresh variable.
func (p *Program) NextVariable() Variable {
	v := Variable(p.Vars)
	p.Vars++
	return v
}

// Append adds an instruction and returns its index.
func (p *Program) Append(in Instruction) int {
	p.Code = append(p.Code, in)
	return len(p.Code) - 1
}

// Len returns the number of instructions.
func (p *Program) Len() int {
	return len(p.Code)
}

// Count returns how many instructions have opcode op.
func (p *Program) Count(op Opcode) int {
	n := 0
	for i := range p.Code {
		if p.Code[i].Op == op {
			n++
		}
	}
	return n
}

// Opcodes returns the opcode sequence, the structural shape of the program.
func (p *Program) Opcodes() []Opcode {
	out := make([]Opcode, len(p.Code))
	for i := range p.Code {
		out[i] = p.Code[i].Op
	}
	return out
}
