package config

import "fmt"

// Choices are the weights of the strategies' N-way decisions. Each
// decision draws one option proportionally to its weight; at least one
// weight per decision must be positive.
type Choices struct {
	Accessor AccessorChoice `yaml:"accessor"`
	Import   ImportChoice   `yaml:"import"`
	Hijack   HijackChoice   `yaml:"hijack"`
	Global   GlobalChoice   `yaml:"global"`
	Scope    ScopeChoice    `yaml:"scope"`
}

// AccessorChoice weighs the descriptor shapes PropertyAccessor installs.
type AccessorChoice struct {
	Getter int `yaml:"getter"`
	Setter int `yaml:"setter"`
	Both   int `yaml:"both"`
}

// Weights returns the weights in the order getter, setter, both.
func (c AccessorChoice) Weights() []int { return []int{c.Getter, c.Setter, c.Both} }

// ImportChoice weighs what the js namespace of an import object holds.
type ImportChoice struct {
	None   int `yaml:"none"`
	Memory int `yaml:"memory"`
	Table  int `yaml:"table"`
}

// Weights returns the weights in the order none, memory, table.
func (c ImportChoice) Weights() []int { return []int{c.None, c.Memory, c.Table} }

// HijackChoice weighs the conversion method CallbackPropertyHijack replaces.
type HijackChoice struct {
	ValueOf  int `yaml:"value_of"`
	ToString int `yaml:"to_string"`
}

// Weights returns the weights in the order valueOf, toString.
func (c HijackChoice) Weights() []int { return []int{c.ValueOf, c.ToString} }

// GlobalChoice weighs float against integer global descriptors.
type GlobalChoice struct {
	Float int `yaml:"float"`
	Int   int `yaml:"int"`
}

// Weights returns the weights in the order float, int.
func (c GlobalChoice) Weights() []int { return []int{c.Float, c.Int} }

// ScopeChoice weighs the scope access a new with statement starts with.
type ScopeChoice struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
}

// Weights returns the weights in the order read, write.
func (c ScopeChoice) Weights() []int { return []int{c.Read, c.Write} }

// DefaultChoices returns equal weights for every option.
func DefaultChoices() Choices {
	return Choices{
		Accessor: AccessorChoice{Getter: 1, Setter: 1, Both: 1},
		Import:   ImportChoice{None: 1, Memory: 1, Table: 1},
		Hijack:   HijackChoice{ValueOf: 1, ToString: 1},
		Global:   GlobalChoice{Float: 1, Int: 1},
		Scope:    ScopeChoice{Read: 1, Write: 1},
	}
}

// Validate reports the first decision with a negative weight or without
// any positive one.
func (c Choices) Validate() error {
	named := []struct {
		name    string
		weights []int
	}{
		{"accessor", c.Accessor.Weights()},
		{"import", c.Import.Weights()},
		{"hijack", c.Hijack.Weights()},
		{"global", c.Global.Weights()},
		{"scope", c.Scope.Weights()},
	}
	for _, n := range named {
		total := 0
		for _, w := range n.weights {
			if w < 0 {
				return fmt.Errorf("choice %s: weights must not be negative", n.name)
			}
			total += w
		}
		if total == 0 {
			return fmt.Errorf("choice %s: at least one weight must be positive", n.name)
		}
	}
	return nil
}
