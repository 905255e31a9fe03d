// Package builder owns a program under construction: variable allocation,
// instruction emission, the scope stack with its function/loop/with
// context, type-filtered random selection and the recursive Generate entry
// point strategies use to fill nested bodies.
package builder

import (
	"github.com/funvibe/jsynth/internal/config"
	"github.com/funvibe/jsynth/internal/ir"
	"github.com/funvibe/jsynth/internal/names"
	"github.com/funvibe/jsynth/internal/random"
	"github.com/funvibe/jsynth/internal/typesystem"
	"go.uber.org/zap"
)

// Strategy appends one coherent fragment to the program of a Builder.
// Strategies are stateless; everything they touch lives in the Builder.
type Strategy interface {
	Apply(b *Builder)
}

// StrategyFunc adapts a plain function to Strategy.
type StrategyFunc func(b *Builder)

func (f StrategyFunc) Apply(b *Builder) { f(b) }

// Picker selects the next strategy to run.
type Picker interface {
	Pick(src random.Source) (name string, s Strategy)
}

// ObjectResolver returns a live WebAssembly object of an exact kind,
// building it (and its dependencies) if none is visible.
type ObjectResolver interface {
	Resolve(b *Builder, kind typesystem.Kind) ir.Variable
}

// Options configures a Builder. Nil fields get defaults.
type Options struct {
	Profile  *config.Profile
	Env      *typesystem.Environment
	Picker   Picker
	Resolver ObjectResolver
	Logger   *zap.Logger
}

// Builder is a single generation run. It is not safe for concurrent use.
type Builder struct {
	src      random.Source
	env      *typesystem.Environment
	names    *names.Oracle
	probs    config.Probabilities
	ranges   config.Ranges
	choices  config.Choices
	budget   config.Budget
	picker   Picker
	resolver ObjectResolver
	log      *zap.Logger

	prog   *ir.Program
	types  []typesystem.Type
	scopes []*scope

	// depth counts nested GenerateRecursive calls.
	depth int
}

// New returns a Builder over an empty program drawing from src.
func New(src random.Source, opts Options) *Builder {
	profile := opts.Profile
	if profile == nil {
		profile = config.DefaultProfile()
	}
	env := opts.Env
	if env == nil {
		env = typesystem.NewEnvironment()
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{
		src:      src,
		env:      env,
		names:    names.New(env),
		probs:    profile.Probabilities,
		ranges:   profile.Ranges,
		choices:  profile.Choices,
		budget:   profile.Budget,
		picker:   opts.Picker,
		resolver: opts.Resolver,
		log:      log,
		prog:     ir.NewProgram(),
		scopes:   []*scope{newScope(0)},
	}
}

// Program returns the program built so far.
func (b *Builder) Program() *ir.Program { return b.prog }

// Env returns the type oracle.
func (b *Builder) Env() *typesystem.Environment { return b.env }

// Random returns the randomness source.
func (b *Builder) Random() random.Source { return b.src }

// Probabilities returns the branch probabilities of the run.
func (b *Builder) Probabilities() config.Probabilities { return b.probs }

// Ranges returns the size and value ranges of the run.
func (b *Builder) Ranges() config.Ranges { return b.ranges }

// Choices returns the weights of the run's N-way decisions.
func (b *Builder) Choices() config.Choices { return b.choices }

// Budget returns the generation budget of the run.
func (b *Builder) Budget() config.Budget { return b.budget }

// Logger returns the run's logger.
func (b *Builder) Logger() *zap.Logger { return b.log }

// Random draws

// Intn returns a uniform integer in [0, n).
func (b *Builder) Intn(n int) int { return b.src.Intn(n) }

// Chance reports true with probability p.
func (b *Builder) Chance(p float64) bool { return random.Chance(b.src, p) }

// Bool is a fair coin.
func (b *Builder) Bool() bool { return random.Bool(b.src) }

// Choose returns an option index drawn proportionally to weights, which
// must hold a positive weight.
func (b *Builder) Choose(weights []int) int {
	i := random.Weighted(b.src, weights)
	if i < 0 {
		Violationf("no option with positive weight in %v", weights)
	}
	return i
}

// IntIn returns a uniform integer in the inclusive range r.
func (b *Builder) IntIn(r config.Range) int { return random.IntInRange(b.src, r.Min, r.Max) }

// Name oracle

func (b *Builder) PropertyNameForRead() string  { return b.names.PropertyNameForRead(b.src) }
func (b *Builder) PropertyNameForWrite() string { return b.names.PropertyNameForWrite(b.src) }
func (b *Builder) MethodName() string           { return b.names.MethodName(b.src) }
func (b *Builder) BuiltinName() string          { return b.names.BuiltinName(b.src) }
func (b *Builder) WellKnownSymbol() string      { return b.names.WellKnownSymbol(b.src) }
func (b *Builder) TypeName() string             { return b.names.TypeName(b.src) }
func (b *Builder) ScopeName() string            { return b.names.ScopeName(b.src) }
func (b *Builder) GenInt() int64                { return b.names.Int(b.src) }
func (b *Builder) GenFloat() float64            { return b.names.Float(b.src) }
func (b *Builder) GenString() string            { return b.names.String(b.src) }
func (b *Builder) GenIndex() int64              { return b.names.Index(b.src) }

// Generation

// Depth returns the current GenerateRecursive nesting.
func (b *Builder) Depth() int { return b.depth }

// Exhausted reports whether the instruction budget is spent.
func (b *Builder) Exhausted() bool {
	return b.prog.Len() >= b.budget.MaxInstructions
}

// Generate runs up to n strategies chosen by the picker. It stops early
// once the instruction budget is spent and does nothing past MaxDepth.
func (b *Builder) Generate(n int) {
	if b.depth > b.budget.MaxDepth {
		return
	}
	if b.picker == nil {
		Violationf("builder has no strategy picker")
	}
	for i := 0; i < n && !b.Exhausted(); i++ {
		name, s := b.picker.Pick(b.src)
		b.Run(name, s)
	}
}

// GenerateRecursive fills the current nested body with 1..BlockSize strategies.
func (b *Builder) GenerateRecursive() {
	b.GenerateNested(random.IntInRange(b.src, 1, b.budget.BlockSize))
}

// GenerateNested fills the current nested body with up to n strategies.
func (b *Builder) GenerateNested(n int) {
	b.depth++
	b.Generate(n)
	b.depth--
}

// Run applies one strategy.
func (b *Builder) Run(name string, s Strategy) {
	b.log.Debug("apply strategy",
		zap.String("strategy", name),
		zap.Int("depth", b.depth),
		zap.Int("instructions", b.prog.Len()))
	s.Apply(b)
}

// WasmObject returns a live WebAssembly object of exactly kind k.
func (b *Builder) WasmObject(k typesystem.Kind) ir.Variable {
	if b.resolver == nil {
		Violationf("builder has no object resolver")
	}
	return b.resolver.Resolve(b, k)
}
