package ir

import (
	"github.com/pkg/errors"
)

type verifyBlock struct {
	op       Opcode
	vars     []Variable
	owned    []Variable
	copied   map[Variable]bool
	loop     bool
	function bool
	with     bool

	// pinned are the variables that decide when a counted loop ends.
	pinned []Variable
}

type verifier struct {
	blocks  []*verifyBlock
	defined map[Variable]bool
	visible map[Variable]bool
	phis    map[Variable]bool
}

// Verify checks the structural validity of a program: balanced blocks,
// definition before use, fresh outputs, context of break/continue, return
// and scope operations, and that constructs copy into the join slots they
// own on every path. Counted loops must terminate whatever their body
// does: continue may not skip the increment of a while or do-while
// counter, and no increment or decrement may target a variable that
// controls an open counted loop.
func Verify(p *Program) error {
	v := &verifier{
		blocks:  []*verifyBlock{{copied: map[Variable]bool{}}},
		defined: make(map[Variable]bool),
		visible: make(map[Variable]bool),
		phis:    make(map[Variable]bool),
	}
	for i := range p.Code {
		if err := v.step(&p.Code[i]); err != nil {
			return errors.Wrapf(err, "instruction %04d %s", i, p.Code[i].Op)
		}
	}
	if len(v.blocks) != 1 {
		return errors.Errorf("%d unterminated block(s), innermost %s", len(v.blocks)-1, v.top().op)
	}
	return nil
}

func (v *verifier) top() *verifyBlock {
	return v.blocks[len(v.blocks)-1]
}

func (v *verifier) inLoop() bool {
	for i := len(v.blocks) - 1; i >= 0; i-- {
		if v.blocks[i].loop {
			return true
		}
		if v.blocks[i].function {
			return false
		}
	}
	return false
}

// continueAllowed mirrors inLoop but rejects an innermost counted while
// or do-while, whose counter is incremented at the end of the body.
func (v *verifier) continueAllowed() bool {
	for i := len(v.blocks) - 1; i >= 0; i-- {
		b := v.blocks[i]
		if b.loop {
			return b.op != BeginWhile && b.op != BeginDoWhile
		}
		if b.function {
			return false
		}
	}
	return false
}

func (v *verifier) pinned(x Variable) bool {
	for _, b := range v.blocks {
		for _, p := range b.pinned {
			if p == x {
				return true
			}
		}
	}
	return false
}

func (v *verifier) inFunction() bool {
	for _, b := range v.blocks {
		if b.function {
			return true
		}
	}
	return false
}

func (v *verifier) inWith() bool {
	for _, b := range v.blocks {
		if b.with {
			return true
		}
	}
	return false
}

func (v *verifier) define(b *verifyBlock, vars []Variable) error {
	for _, x := range vars {
		if v.defined[x] {
			return errors.Errorf("variable %s defined twice", x)
		}
		v.defined[x] = true
		v.visible[x] = true
		b.vars = append(b.vars, x)
	}
	return nil
}

func (v *verifier) step(in *Instruction) error {
	if in.Op >= opcodeCount {
		return errors.Errorf("unknown opcode %d", uint8(in.Op))
	}
	if err := checkArity(in); err != nil {
		return err
	}
	for _, x := range in.Inputs {
		if !v.visible[x] {
			return errors.Errorf("input %s is not visible", x)
		}
	}

	switch in.Op {
	case Break:
		if !v.inLoop() {
			return errors.New("not inside a loop")
		}
	case Continue:
		if !v.inLoop() {
			return errors.New("not inside a loop")
		}
		if !v.continueAllowed() {
			return errors.New("continue would skip the counter increment")
		}
	case UnaryOperation:
		if in.Unary.Mutates() && v.pinned(in.Inputs[0]) {
			return errors.Errorf("%s modifies %s, which controls an open loop", in.Unary, in.Inputs[0])
		}
	case Return:
		if !v.inFunction() {
			return errors.New("not inside a function")
		}
	case LoadFromScope, StoreToScope:
		if !v.inWith() {
			return errors.New("not inside a with statement")
		}
	case Copy:
		if !v.phis[in.Inputs[0]] {
			return errors.Errorf("copy target %s is not a phi", in.Inputs[0])
		}
		v.top().copied[in.Inputs[0]] = true
	}

	if len(in.Owned) > 0 {
		if !in.Op.OwnsPhis() {
			return errors.New("instruction cannot own phis")
		}
		for _, x := range in.Owned {
			if !v.visible[x] || !v.phis[x] {
				return errors.Errorf("owned %s is not a visible phi", x)
			}
		}
	}

	var inherited []Variable
	if in.Op.IsBlockEnd() {
		closed, err := v.close(in.Op)
		if err != nil {
			return err
		}
		inherited = closed.owned
	}

	if err := v.define(v.top(), in.Outputs); err != nil {
		return err
	}
	if in.Op == Phi {
		v.phis[in.Outputs[0]] = true
	}

	if in.Op.IsBlockBegin() {
		b := &verifyBlock{
			op:       in.Op,
			owned:    in.Owned,
			copied:   make(map[Variable]bool),
			loop:     in.Op.IsLoop(),
			function: in.Op.isFunction(),
			with:     in.Op.isWith(),
		}
		if in.Op == BeginElse || in.Op == BeginCatch {
			b.owned = inherited
		}
		v.blocks = append(v.blocks, b)
		if err := v.define(b, in.Inner); err != nil {
			return err
		}
		if in.Op.IsCountedLoop() {
			b.pinned = append(append([]Variable(nil), in.Inputs...), in.Inner...)
		}
	}
	return nil
}

// close pops the innermost block after checking that op may close it and
// that the path assigned every owned phi.
func (v *verifier) close(op Opcode) (*verifyBlock, error) {
	if len(v.blocks) == 1 {
		return nil, errors.New("no open block")
	}
	b := v.top()
	if b.op.construct() != op.construct() {
		return nil, errors.Errorf("cannot close %s", b.op)
	}
	switch op {
	case BeginElse:
		if b.op != BeginIf {
			return nil, errors.New("else after else")
		}
	case BeginCatch:
		if b.op != BeginTry {
			return nil, errors.New("catch after catch")
		}
	case EndTryCatch:
		if b.op != BeginCatch {
			return nil, errors.New("try without catch")
		}
	case EndIf:
		if b.op == BeginIf && len(b.owned) > 0 {
			return nil, errors.New("if owning phis has no else path")
		}
	}
	for _, x := range b.owned {
		if !b.copied[x] {
			return nil, errors.Errorf("path of %s does not copy into owned phi %s", b.op, x)
		}
	}
	for _, x := range b.vars {
		delete(v.visible, x)
	}
	v.blocks = v.blocks[:len(v.blocks)-1]
	return b, nil
}

func checkArity(in *Instruction) error {
	inputs, variadic, outputs, inner := arity(in)
	if len(in.Inputs) < inputs || (!variadic && len(in.Inputs) != inputs) {
		return errors.Errorf("wrong number of inputs: %d", len(in.Inputs))
	}
	if len(in.Outputs) != outputs {
		return errors.Errorf("wrong number of outputs: %d", len(in.Outputs))
	}
	if len(in.Inner) != inner {
		return errors.Errorf("wrong number of inner outputs: %d", len(in.Inner))
	}
	args := len(in.Inputs) - in.argStart()
	if in.Spreads != nil && len(in.Spreads) != args {
		return errors.Errorf("%d spread flags for %d arguments", len(in.Spreads), args)
	}
	if in.Names != nil && len(in.Names) != args {
		return errors.Errorf("%d names for %d values", len(in.Names), args)
	}
	return nil
}

// arity returns the minimum input count, whether more inputs are allowed,
// and the output and inner output counts of an instruction.
func arity(in *Instruction) (inputs int, variadic bool, outputs int, inner int) {
	switch in.Op {
	case LoadInteger, LoadFloat, LoadString, LoadBoolean, LoadUndefined, LoadNull, LoadBuiltin, LoadFromScope:
		return 0, false, 1, 0
	case CreateObject, CreateObjectWithSpread, CreateArray, CreateArrayWithSpread:
		return 0, true, 1, 0
	case LoadProperty, DeleteProperty, LoadElement, DeleteElement, UnaryOperation, TypeOf, Phi:
		return 1, false, 1, 0
	case LoadComputedProperty, DeleteComputedProperty, BinaryOperation, Compare, InstanceOf, In:
		return 2, false, 1, 0
	case StoreProperty, StoreElement, Copy:
		return 2, false, 0, 0
	case StoreComputedProperty:
		return 3, false, 0, 0
	case CallFunction, CallMethod, Construct:
		return 1, true, 1, 0
	case BeginFunction:
		params := 0
		if in.Signature != nil {
			params = in.Signature.Params
		}
		return 0, false, 1, params
	case Return, BeginIf, BeginWith, ThrowException, StoreToScope:
		return 1, false, 0, 0
	case BeginWhile, BeginDoWhile:
		return 2, false, 0, 0
	case BeginFor:
		return 3, false, 0, 1
	case BeginForIn, BeginForOf:
		return 1, false, 0, 1
	case BeginCatch:
		return 0, false, 0, 1
	case EndFunction, BeginElse, EndIf, EndWhile, EndDoWhile, EndFor, EndForIn, EndForOf,
		Break, Continue, BeginTry, EndTryCatch, EndWith:
		return 0, false, 0, 0
	}
	return 0, false, 0, 0
}
