package builder

import (
	"github.com/funvibe/jsynth/internal/ir"
)

// scope is an open block. Variables defined in it die when it closes.
type scope struct {
	op   ir.Opcode
	vars []ir.Variable

	// owned are the join slots every path of the construct must assign;
	// copied records the slots assigned at the top level of this path.
	owned  []ir.Variable
	copied map[ir.Variable]bool

	loop     bool
	function bool
	with     bool
	strict   bool

	// pinned are the inputs and loop variable of a counted loop. The body
	// must not modify them.
	pinned []ir.Variable
}

func newScope(op ir.Opcode) *scope {
	return &scope{op: op, copied: make(map[ir.Variable]bool)}
}

func (b *Builder) top() *scope {
	return b.scopes[len(b.scopes)-1]
}

// InFunction reports whether code is emitted inside a function body.
func (b *Builder) InFunction() bool {
	for _, s := range b.scopes {
		if s.function {
			return true
		}
	}
	return false
}

// InLoop reports whether break and continue are legal here: a loop body
// encloses the current block without a function boundary in between.
func (b *Builder) InLoop() bool {
	for i := len(b.scopes) - 1; i >= 0; i-- {
		if b.scopes[i].loop {
			return true
		}
		if b.scopes[i].function {
			return false
		}
	}
	return false
}

// ContinueAllowed reports whether continue is legal and cannot skip the
// counter increment at the end of a counted while or do-while body.
func (b *Builder) ContinueAllowed() bool {
	for i := len(b.scopes) - 1; i >= 0; i-- {
		s := b.scopes[i]
		if s.loop {
			return s.op != ir.BeginWhile && s.op != ir.BeginDoWhile
		}
		if s.function {
			return false
		}
	}
	return false
}

// loopOwned reports whether v is a join slot owned by an open loop.
func (b *Builder) loopOwned(v ir.Variable) bool {
	for _, s := range b.scopes {
		if !s.loop {
			continue
		}
		for _, o := range s.owned {
			if o == v {
				return true
			}
		}
	}
	return false
}

// LoopControlled reports whether v decides when an open counted loop
// ends, so that incrementing or decrementing it could keep the loop
// running forever.
func (b *Builder) LoopControlled(v ir.Variable) bool {
	for _, s := range b.scopes {
		for _, p := range s.pinned {
			if p == v {
				return true
			}
		}
	}
	return false
}

// InWith reports whether a with statement lexically encloses the current block.
func (b *Builder) InWith() bool {
	for _, s := range b.scopes {
		if s.with {
			return true
		}
	}
	return false
}

// InStrictMode reports whether a strict function encloses the current block.
func (b *Builder) InStrictMode() bool {
	for _, s := range b.scopes {
		if s.strict {
			return true
		}
	}
	return false
}

// ScopeDepth returns the number of open blocks.
func (b *Builder) ScopeDepth() int {
	return len(b.scopes) - 1
}

func (b *Builder) open(op ir.Opcode, owned []ir.Variable) *scope {
	for _, v := range owned {
		if !b.Type(v).IsPhi() {
			Violationf("%s owns %s of type %s, not a phi", op, v, b.Type(v))
		}
	}
	s := newScope(op)
	s.owned = owned
	s.loop = op.IsLoop()
	s.function = op == ir.BeginFunction
	s.with = op == ir.BeginWith
	b.scopes = append(b.scopes, s)
	return s
}

// close ends the current path. want lists the opcodes that may have
// opened it. The path must have copied into every owned phi.
func (b *Builder) close(end ir.Opcode, want ...ir.Opcode) *scope {
	if len(b.scopes) == 1 {
		Violationf("%s without an open block", end)
	}
	s := b.top()
	matched := false
	for _, op := range want {
		if s.op == op {
			matched = true
		}
	}
	if !matched {
		Violationf("%s cannot close %s", end, s.op)
	}
	for _, v := range s.owned {
		if !s.copied[v] {
			Violationf("path of %s closed by %s does not assign owned phi %s", s.op, end, v)
		}
	}
	b.scopes = b.scopes[:len(b.scopes)-1]
	return s
}
