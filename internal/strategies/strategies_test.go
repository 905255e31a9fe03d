package strategies

import (
	"errors"
	"fmt"
	"testing"

	"github.com/funvibe/jsynth/internal/builder"
	"github.com/funvibe/jsynth/internal/config"
	"github.com/funvibe/jsynth/internal/ir"
	"github.com/funvibe/jsynth/internal/random"
	ts "github.com/funvibe/jsynth/internal/typesystem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nopPicker fills every nested body with nothing, so a strategy's own
// instructions can be inspected in isolation.
type nopPicker struct{}

func (nopPicker) Pick(random.Source) (string, builder.Strategy) {
	return "Nop", builder.StrategyFunc(func(*builder.Builder) {})
}

func newIsolated(seed int64) *builder.Builder {
	return builder.New(random.NewSeeded(seed), builder.Options{
		Picker:   nopPicker{},
		Resolver: NewRegistry(),
	})
}

func generate(t *testing.T, src random.Source, n int) (*ir.Program, error) {
	t.Helper()
	b, err := NewBuilder(src, nil, nil)
	require.NoError(t, err)
	err = func() (err error) {
		defer builder.RecoverViolation(&err)
		b.Generate(n)
		return nil
	}()
	return b.Program(), err
}

func expectViolation(t *testing.T, fn func()) {
	t.Helper()
	var err error
	func() {
		defer builder.RecoverViolation(&err)
		fn()
	}()
	require.Error(t, err)
	var cv *builder.ContractViolation
	assert.True(t, errors.As(err, &cv))
}

// definition returns the instruction that defines v.
func definition(p *ir.Program, v ir.Variable) *ir.Instruction {
	for i := range p.Code {
		in := &p.Code[i]
		for _, o := range in.Outputs {
			if o == v {
				return in
			}
		}
		for _, o := range in.Inner {
			if o == v {
				return in
			}
		}
	}
	return nil
}

func TestGenerate_ProducesValidPrograms(t *testing.T) {
	for seed := int64(0); seed < 200; seed++ {
		prog, err := generate(t, random.NewSeeded(seed), 30)
		require.NoError(t, err, "seed %d", seed)
		require.NoError(t, ir.Verify(prog), "seed %d\n%s", seed, ir.Disassemble(prog, "failing"))
		assert.NotZero(t, prog.Len())
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		a, err := generate(t, random.NewSeeded(seed), 20)
		require.NoError(t, err)
		b, err := generate(t, random.NewSeeded(seed), 20)
		require.NoError(t, err)
		assert.Equal(t, ir.Disassemble(a, "run"), ir.Disassemble(b, "run"))
	}
}

func TestGenerate_RespectsBudget(t *testing.T) {
	profile := config.DefaultProfile()
	profile.Budget.MaxInstructions = 50
	b, err := NewBuilder(random.NewSeeded(3), profile, nil)
	require.NoError(t, err)
	b.Generate(1000)
	// the last strategy may overshoot, but not by a whole program
	assert.Less(t, b.Program().Len(), 50+500)
	assert.GreaterOrEqual(t, b.Program().Len(), 50)
}

func TestWhileLoop_Shape(t *testing.T) {
	b := newIsolated(9)
	whileLoop(b)

	p := b.Program()
	assert.Equal(t, []ir.Opcode{
		ir.LoadInteger, ir.LoadInteger, ir.Phi, ir.BeginWhile,
		ir.LoadInteger, ir.BinaryOperation, ir.Copy, ir.EndWhile,
	}, p.Opcodes())

	assert.Equal(t, int64(0), p.Code[0].Int)
	assert.GreaterOrEqual(t, p.Code[1].Int, int64(0))
	assert.LessOrEqual(t, p.Code[1].Int, int64(10))

	counter := p.Code[2].Output()
	loop := p.Code[3]
	assert.Equal(t, ir.LessThan, loop.Compare)
	assert.Equal(t, []ir.Variable{counter}, loop.Owned)
	assert.Equal(t, counter, loop.Inputs[0])

	assert.Equal(t, int64(1), p.Code[4].Int)
	assert.Equal(t, ir.Add, p.Code[5].Binary)
	assert.Equal(t, []ir.Variable{counter, p.Code[5].Output()}, p.Code[6].Inputs)
	require.NoError(t, ir.Verify(p))
}

func TestCountedLoopCounterIsNotReassigned(t *testing.T) {
	b := newIsolated(1)
	i := b.Phi(b.LoadInt(0))
	end := b.LoadInt(3)
	b.BeginWhile(i, ir.LessThan, end, i)
	for n := 0; n < 20; n++ {
		_, ok := b.ReassignablePhi()
		assert.False(t, ok)
	}
	assert.False(t, b.ContinueAllowed())
	b.Copy(b.Binary(i, ir.Add, b.LoadInt(1)), i)
	b.EndWhile()

	phi, ok := b.ReassignablePhi()
	require.True(t, ok)
	assert.Equal(t, i, phi)
}

// loopControlMutations walks p and returns every increment or decrement
// of a variable that bounds an enclosing while, do-while or for loop.
func loopControlMutations(p *ir.Program) []string {
	var open [][]ir.Variable
	var bad []string
	for i, in := range p.Code {
		if in.Op.IsBlockEnd() {
			open = open[:len(open)-1]
		}
		if in.Op == ir.UnaryOperation && in.Unary.Mutates() {
			for _, pinned := range open {
				for _, v := range pinned {
					if v == in.Inputs[0] {
						bad = append(bad, fmt.Sprintf("%04d %s%s", i, in.Unary, v))
					}
				}
			}
		}
		switch {
		case in.Op.IsCountedLoop():
			open = append(open, append(append([]ir.Variable(nil), in.Inputs...), in.Inner...))
		case in.Op.IsBlockBegin():
			open = append(open, nil)
		}
	}
	return bad
}

func TestGenerate_CountedLoopsKeepTheirControl(t *testing.T) {
	for seed := int64(0); seed < 500; seed++ {
		prog, err := generate(t, random.NewSeeded(seed), 40)
		require.NoError(t, err, "seed %d", seed)
		assert.Empty(t, loopControlMutations(prog), "seed %d", seed)
	}
}

func TestUnaryOperation_InsideCountedLoop(t *testing.T) {
	mutated := 0
	for seed := int64(0); seed < 50; seed++ {
		b := newIsolated(seed)
		free := b.LoadInt(5)
		b.BeginFor(b.LoadInt(0), ir.LessThan, b.LoadInt(100), ir.Add, b.LoadInt(1))
		for n := 0; n < 10; n++ {
			unaryOperation(b)
		}
		b.EndFor()

		p := b.Program()
		require.NoError(t, ir.Verify(p), "seed %d", seed)
		assert.Empty(t, loopControlMutations(p), "seed %d", seed)
		for _, in := range p.Code {
			if in.Op == ir.UnaryOperation && in.Unary.Mutates() && in.Inputs[0] == free {
				mutated++
			}
		}
	}
	assert.NotZero(t, mutated, "values outside the loop control are still mutated")
}

func TestKnownCrashRegression_SeedIndependent(t *testing.T) {
	var want string
	for seed := int64(0); seed < 25; seed++ {
		b := newIsolated(seed)
		knownCrashRegression(b)
		got := ir.Disassemble(b.Program(), "regression")
		if seed == 0 {
			want = got
			continue
		}
		assert.Equal(t, want, got, "seed %d", seed)
	}

	b := newIsolated(0)
	knownCrashRegression(b)
	p := b.Program()
	require.NoError(t, ir.Verify(p))
	assert.Equal(t, 1, p.Count(ir.BeginWhile))
	assert.Equal(t, 2, p.Count(ir.CreateArray))
	assert.Equal(t, 1, p.Count(ir.BeginElse))
	for _, in := range p.Code {
		switch in.Op {
		case ir.Compare:
			assert.Equal(t, ir.StrictEqual, in.Compare)
			assert.Equal(t, in.Inputs[0], in.Inputs[1])
		case ir.BinaryOperation:
			assert.Equal(t, ir.Add, in.Binary)
		}
	}
}

func TestArrayLiteralWithSpread_MaskLength(t *testing.T) {
	for seed := int64(0); seed < 50; seed++ {
		b := newIsolated(seed)
		b.LoadInt(1)
		arrayLiteralWithSpread(b)
		in := b.Program().Code[b.Program().Len()-1]
		require.Equal(t, ir.CreateArrayWithSpread, in.Op)
		assert.Len(t, in.Spreads, len(in.Inputs))
	}
}

func TestObjectLiteral_DistinctKeys(t *testing.T) {
	for seed := int64(0); seed < 50; seed++ {
		b := newIsolated(seed)
		objectLiteral(b)
		in := b.Program().Code[b.Program().Len()-1]
		seen := map[string]bool{}
		for _, k := range in.Names {
			assert.False(t, seen[k], "duplicate key %q", k)
			seen[k] = true
		}
	}
}

func TestAccessorShape_Uniform(t *testing.T) {
	b := newIsolated(42)
	counts := map[AccessorShape]int{}
	const n = 6000
	for i := 0; i < n; i++ {
		counts[chooseAccessorShape(b)]++
	}
	require.Len(t, counts, 3)
	for shape, c := range counts {
		assert.InDelta(t, 1.0/3, float64(c)/n, 0.03, "shape %s", shape)
	}
}

func TestChoices_DefaultsAreUniform(t *testing.T) {
	b := newIsolated(17)
	c := b.Choices()
	tests := []struct {
		name    string
		weights []int
	}{
		{"accessor", c.Accessor.Weights()},
		{"import", c.Import.Weights()},
		{"hijack", c.Hijack.Weights()},
		{"global", c.Global.Weights()},
		{"scope", c.Scope.Weights()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counts := make([]int, len(tt.weights))
			const n = 6000
			for i := 0; i < n; i++ {
				counts[b.Choose(tt.weights)]++
			}
			for i, got := range counts {
				assert.InDelta(t, 1/float64(len(counts)), float64(got)/n, 0.03, "option %d", i)
			}
		})
	}
}

func newIsolatedWithChoices(seed int64, choices config.Choices) *builder.Builder {
	profile := config.DefaultProfile()
	profile.Choices = choices
	return builder.New(random.NewSeeded(seed), builder.Options{
		Profile:  profile,
		Picker:   nopPicker{},
		Resolver: NewRegistry(),
	})
}

func TestChoices_DriveStrategies(t *testing.T) {
	only := config.Choices{
		Accessor: config.AccessorChoice{Setter: 1},
		Import:   config.ImportChoice{Table: 1},
		Hijack:   config.HijackChoice{ToString: 1},
		Global:   config.GlobalChoice{Int: 1},
		Scope:    config.ScopeChoice{Write: 1},
	}
	for seed := int64(0); seed < 20; seed++ {
		b := newIsolatedWithChoices(seed, only)
		assert.Equal(t, SetterOnly, chooseAccessorShape(b))

		imports := newResolution(b).importObject()
		inner := definition(b.Program(), definition(b.Program(), imports).Inputs[0])
		assert.Equal(t, []string{config.ImportTableKey}, inner.Names)

		callbackPropertyHijack(b)
		p := b.Program()
		assert.Equal(t, config.ToStringMethod, p.Code[p.Len()-1].Str)

		withStatement(b)
		assert.Equal(t, 1, b.Program().Count(ir.StoreToScope))
		assert.Zero(t, b.Program().Count(ir.LoadFromScope))

		desc := b.WasmObject(ts.GlobalDescriptor)
		value := definition(b.Program(), definition(b.Program(), desc).Inputs[0])
		assert.Contains(t, intValueTypes, value.Str)
		require.NoError(t, ir.Verify(b.Program()))
	}
}

func TestPropertyAccessor_DefinesProperty(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		b := newIsolated(seed)
		propertyAccessor(b)
		p := b.Program()
		require.NoError(t, ir.Verify(p))
		last := p.Code[p.Len()-1]
		require.Equal(t, ir.CallMethod, last.Op)
		assert.Equal(t, config.DefinePropertyMethod, last.Str)
		assert.Len(t, last.Arguments(), 3)
	}
}

func TestContextGuards(t *testing.T) {
	guarded := []func(*builder.Builder){
		breakStatement, continueStatement, functionReturn,
		scopeVariableRead, scopeVariableWrite, reassignment,
	}
	for _, g := range guarded {
		b := newIsolated(1)
		g(b)
		assert.Zero(t, b.Program().Len())
	}
}

func TestCatalog(t *testing.T) {
	c := Default()
	names := c.Names()
	assert.Len(t, names, len(defaultEntries()))
	for _, want := range []string{"WhileLoop", "WasmInstance", "KnownCrashRegression", "PropertyAccessor"} {
		e, ok := c.Lookup(want)
		require.True(t, ok, want)
		assert.Positive(t, e.Weight)
	}

	_, err := c.WithWeights(map[string]int{"NoSuchStrategy": 1})
	assert.Error(t, err)

	all := map[string]int{}
	for _, n := range names {
		all[n] = 0
	}
	_, err = c.WithWeights(all)
	assert.Error(t, err)

	all["IntegerLiteral"] = 1
	only, err := c.WithWeights(all)
	require.NoError(t, err)
	src := random.NewSeeded(5)
	for i := 0; i < 20; i++ {
		name, _ := only.Pick(src)
		assert.Equal(t, "IntegerLiteral", name)
	}

	_, err = NewCatalog([]Entry{{Name: "a"}, {Name: "a"}})
	assert.Error(t, err)
	_, err = NewCatalog([]Entry{{Name: "a", Weight: -1}})
	assert.Error(t, err)
}

func TestCatalog_EveryStrategyReachableFromBytes(t *testing.T) {
	c := Default()
	reached := map[string]bool{}
	for hi := 0; hi < 256; hi++ {
		for lo := 0; lo < 256; lo++ {
			name, _ := c.Pick(random.NewFromData([]byte{byte(hi), byte(lo)}))
			reached[name] = true
		}
	}
	for _, name := range c.Names() {
		assert.True(t, reached[name], name)
	}
}

func TestCatalog_PickWithoutWeights(t *testing.T) {
	c, err := NewCatalog([]Entry{{Name: "a", Strategy: builder.StrategyFunc(integerLiteral)}})
	require.NoError(t, err)
	expectViolation(t, func() { c.Pick(random.NewSeeded(1)) })
}

func TestWasmResolve_ReusesAndMatchesKind(t *testing.T) {
	kinds := []ts.Kind{
		ts.GlobalDescriptor, ts.TableDescriptor, ts.MemoryDescriptor, ts.TypedArray,
		ts.ImportObject, ts.WasmGlobal, ts.WasmTable, ts.WasmMemory, ts.WasmModule, ts.WasmInstance,
	}
	for _, k := range kinds {
		b := newIsolated(7)
		first := b.WasmObject(k)
		assert.Equal(t, k, b.Type(first).Kind(), "kind %s", k)
		second := b.WasmObject(k)
		assert.Equal(t, first, second, "kind %s", k)
		require.NoError(t, ir.Verify(b.Program()))
	}
}

func TestWasmResolve_UnknownKind(t *testing.T) {
	b := newIsolated(1)
	expectViolation(t, func() { b.WasmObject(ts.Symbol) })
}

func TestWasmInstance_BuildsDependencies(t *testing.T) {
	for seed := int64(0); seed < 30; seed++ {
		b := newIsolated(seed)
		wasmInstance(b)
		p := b.Program()
		require.NoError(t, ir.Verify(p))

		require.Len(t, b.VarsOfKind(ts.WasmInstance), 1)
		assert.NotEmpty(t, b.VarsOfKind(ts.WasmModule))
		imports := b.VarsOfKind(ts.ImportObject)
		require.Len(t, imports, 1)

		outer := definition(p, imports[0])
		require.NotNil(t, outer)
		require.Equal(t, []string{config.ImportNamespace}, outer.Names)
		inner := definition(p, outer.Inputs[0])
		require.NotNil(t, inner)
		assert.LessOrEqual(t, len(inner.Names), 1)
		for _, k := range inner.Names {
			assert.Contains(t, []string{config.ImportMemoryKey, config.ImportTableKey}, k)
		}
	}
}

func TestWasmInstance_ReusesModule(t *testing.T) {
	b := newIsolated(3)
	wasmModule(b)
	mod := b.VarsOfKind(ts.WasmModule)
	require.Len(t, mod, 1)
	wasmInstance(b)
	assert.Equal(t, mod, b.VarsOfKind(ts.WasmModule))
	inst := definition(b.Program(), b.VarsOfKind(ts.WasmInstance)[0])
	assert.Equal(t, mod[0], inst.Arguments()[0])
}

func TestTableDescriptor_Ranges(t *testing.T) {
	for seed := int64(0); seed < 40; seed++ {
		b := newIsolated(seed)
		tableDescriptor(b)
		p := b.Program()
		desc := p.Code[p.Len()-1]
		require.Equal(t, ts.TableDescriptor, b.Type(desc.Output()).Kind())
		for i, k := range desc.Names {
			v := definition(p, desc.Inputs[i])
			switch k {
			case "element":
				assert.Equal(t, TableElementType, v.Str)
			case "initial":
				assert.GreaterOrEqual(t, v.Int, int64(0))
				assert.LessOrEqual(t, v.Int, int64(42))
			case "maximum":
				assert.GreaterOrEqual(t, v.Int, int64(43))
				assert.LessOrEqual(t, v.Int, int64(99))
			default:
				t.Fatalf("unexpected key %q", k)
			}
		}
	}
}

func TestWasmModuleCall(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		b := newIsolated(seed)
		wasmModuleCall(b)
		p := b.Program()
		require.NoError(t, ir.Verify(p))
		call := p.Code[p.Len()-1]
		require.Equal(t, ir.CallMethod, call.Op)
		assert.Contains(t, ts.ModuleStatics, call.Str)
		assert.Equal(t, b.VarsOfKind(ts.WasmModule)[0], call.Arguments()[0])
	}

	b := newIsolated(1)
	mod := b.WasmObject(ts.WasmModule)
	expectViolation(t, func() { moduleCall(b, mod, "compile") })
}

func TestWasmTableCall_FixedArguments(t *testing.T) {
	for seed := int64(0); seed < 40; seed++ {
		b := newIsolated(seed)
		wasmTableCall(b)
		p := b.Program()
		call := p.Code[p.Len()-1]
		require.Equal(t, ir.CallMethod, call.Op)
		switch call.Str {
		case "get", "grow":
			require.Len(t, call.Arguments(), 1)
			assert.Equal(t, ir.LoadInteger, definition(p, call.Arguments()[0]).Op)
		case "set":
			assert.Len(t, call.Arguments(), 2)
		}
	}
}
