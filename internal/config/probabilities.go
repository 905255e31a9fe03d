package config

import "fmt"

// Probabilities are the fixed branch probabilities of the strategies.
// They shape the generated corpus and are part of the generator's design,
// so every one of them is named here instead of inlined at the call site.
type Probabilities struct {
	// RestParameter is the chance that a defined function gets a rest parameter.
	RestParameter float64 `yaml:"rest_parameter"`

	// StrictFunction is the chance that a defined function is strict mode.
	StrictFunction float64 `yaml:"strict_function"`

	// ReuseProperty is the chance that a write targets an already known
	// property name instead of a freshly generated one.
	ReuseProperty float64 `yaml:"reuse_property"`

	// SpreadSlot is the chance that a slot of an object literal with spread
	// is a spread source rather than a named property.
	SpreadSlot float64 `yaml:"spread_slot"`

	// SpreadElement is the chance that an array element or call argument
	// is flagged for spreading.
	SpreadElement float64 `yaml:"spread_element"`

	// IfCondition is the chance that an if statement first emits a comparison
	// to serve as its condition.
	IfCondition float64 `yaml:"if_condition"`

	// DescriptorMaximum is the chance that a table or memory descriptor
	// carries a maximum.
	DescriptorMaximum float64 `yaml:"descriptor_maximum"`

	// MutableGlobal is the chance that a global descriptor is mutable.
	MutableGlobal float64 `yaml:"mutable_global"`
}

// DefaultProbabilities returns the probabilities the generator is tuned for.
func DefaultProbabilities() Probabilities {
	return Probabilities{
		RestParameter:     0.1,
		StrictFunction:    0.1,
		ReuseProperty:     0.5,
		SpreadSlot:        0.5,
		SpreadElement:     0.5,
		IfCondition:       0.5,
		DescriptorMaximum: 0.5,
		MutableGlobal:     0.5,
	}
}

// Validate reports the first probability outside [0, 1].
func (p Probabilities) Validate() error {
	checks := []struct {
		name string
		v    float64
	}{
		{"rest_parameter", p.RestParameter},
		{"strict_function", p.StrictFunction},
		{"reuse_property", p.ReuseProperty},
		{"spread_slot", p.SpreadSlot},
		{"spread_element", p.SpreadElement},
		{"if_condition", p.IfCondition},
		{"descriptor_maximum", p.DescriptorMaximum},
		{"mutable_global", p.MutableGlobal},
	}
	for _, c := range checks {
		if c.v < 0 || c.v > 1 {
			return fmt.Errorf("probability %s must be within [0,1], got %v", c.name, c.v)
		}
	}
	return nil
}

// Range is an inclusive integer interval.
type Range struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

func (r Range) validate(name string) error {
	if r.Min > r.Max {
		return fmt.Errorf("range %s: min %d is larger than max %d", name, r.Min, r.Max)
	}
	if r.Min < 0 {
		return fmt.Errorf("range %s: min must not be negative", name)
	}
	return nil
}

// Ranges are the inclusive size and value ranges drawn by the strategies.
type Ranges struct {
	ObjectProperties Range `yaml:"object_properties"`
	ArrayElements    Range `yaml:"array_elements"`
	SpreadSlots      Range `yaml:"spread_slots"`
	FunctionParams   Range `yaml:"function_params"`
	UnknownArguments Range `yaml:"unknown_arguments"`
	RestArguments    Range `yaml:"rest_arguments"`
	WhileBound       Range `yaml:"while_bound"`
	ForEnd           Range `yaml:"for_end"`
	TableInitial     Range `yaml:"table_initial"`
	TableMaximum     Range `yaml:"table_maximum"`
	MemoryInitial    Range `yaml:"memory_initial"`
	MemoryMaximum    Range `yaml:"memory_maximum"`
	GrowDelta        Range `yaml:"grow_delta"`
}

// DefaultRanges returns the ranges the generator is tuned for.
func DefaultRanges() Ranges {
	return Ranges{
		ObjectProperties: Range{0, 9},
		ArrayElements:    Range{0, 4},
		SpreadSlots:      Range{0, 9},
		FunctionParams:   Range{2, 5},
		UnknownArguments: Range{0, 4},
		RestArguments:    Range{0, 3},
		WhileBound:       Range{0, 10},
		ForEnd:           Range{100, 200},
		TableInitial:     Range{0, 42},
		TableMaximum:     Range{43, 99},
		MemoryInitial:    Range{0, 10},
		MemoryMaximum:    Range{11, 100},
		GrowDelta:        Range{0, 10},
	}
}

// Validate reports the first malformed range.
func (r Ranges) Validate() error {
	named := []struct {
		name string
		r    Range
	}{
		{"object_properties", r.ObjectProperties},
		{"array_elements", r.ArrayElements},
		{"spread_slots", r.SpreadSlots},
		{"function_params", r.FunctionParams},
		{"unknown_arguments", r.UnknownArguments},
		{"rest_arguments", r.RestArguments},
		{"while_bound", r.WhileBound},
		{"for_end", r.ForEnd},
		{"table_initial", r.TableInitial},
		{"table_maximum", r.TableMaximum},
		{"memory_initial", r.MemoryInitial},
		{"memory_maximum", r.MemoryMaximum},
		{"grow_delta", r.GrowDelta},
	}
	for _, n := range named {
		if err := n.r.validate(n.name); err != nil {
			return err
		}
	}
	if r.TableMaximum.Min <= r.TableInitial.Max {
		return fmt.Errorf("range table_maximum must start above table_initial")
	}
	if r.MemoryMaximum.Min <= r.MemoryInitial.Max {
		return fmt.Errorf("range memory_maximum must start above memory_initial")
	}
	return nil
}

// Budget bounds a single generation run.
type Budget struct {
	// MaxInstructions stops Generate from starting new strategies once the
	// program holds this many instructions.
	MaxInstructions int `yaml:"max_instructions"`

	// MaxDepth is the deepest block nesting Generate descends into.
	MaxDepth int `yaml:"max_depth"`

	// BlockSize is the largest number of strategies a nested body runs.
	BlockSize int `yaml:"block_size"`
}

// DefaultBudget returns the default generation budget.
func DefaultBudget() Budget {
	return Budget{
		MaxInstructions: DefaultMaxInstructions,
		MaxDepth:        DefaultMaxDepth,
		BlockSize:       DefaultBlockSize,
	}
}

// Validate checks the budget for nonsensical values.
func (b Budget) Validate() error {
	if b.MaxInstructions < 1 {
		return fmt.Errorf("max_instructions must be at least 1")
	}
	if b.MaxDepth < 1 {
		return fmt.Errorf("max_depth must be at least 1")
	}
	if b.BlockSize < 1 {
		return fmt.Errorf("block_size must be at least 1")
	}
	return nil
}
