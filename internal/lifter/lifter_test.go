package lifter

import (
	"math"
	"strings"
	"testing"

	"github.com/funvibe/jsynth/internal/builder"
	"github.com/funvibe/jsynth/internal/ir"
	"github.com/funvibe/jsynth/internal/random"
	"github.com/funvibe/jsynth/internal/strategies"
	ts "github.com/funvibe/jsynth/internal/typesystem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBuilder() *builder.Builder {
	return builder.New(random.NewSeeded(1), builder.Options{})
}

func lines(s ...string) string {
	return strings.Join(s, "\n") + "\n"
}

func TestLift_CountedLoop(t *testing.T) {
	b := newBuilder()
	i := b.Phi(b.LoadInt(0))
	end := b.LoadInt(10)
	b.BeginWhile(i, ir.LessThan, end, i)
	b.Copy(b.Binary(i, ir.Add, b.LoadInt(1)), i)
	b.EndWhile()

	assert.Equal(t, lines(
		"const v0 = 0;",
		"let v1 = v0;",
		"const v2 = 10;",
		"while (v1 < v2) {",
		"    const v3 = 1;",
		"    const v4 = v1 + v3;",
		"    v1 = v4;",
		"}",
	), Lift(b.Program()))
}

func TestLift_Functions(t *testing.T) {
	b := newBuilder()
	f, params := b.BeginFunction(ts.Signature{Params: 2, Strict: true})
	b.Return(params[0])
	b.EndFunction()
	x := b.LoadInt(3)
	b.CallFunction(f, []ir.Variable{x, x}, []bool{false, true})
	g, _ := b.BeginFunction(ts.Signature{Params: 2, HasRest: true})
	b.EndFunction()
	b.Construct(g, nil, nil)

	assert.Equal(t, lines(
		"function v0(v1, v2) {",
		`    "use strict";`,
		"    return v1;",
		"}",
		"const v3 = 3;",
		"const v4 = v0(v3, ...v3);",
		"function v5(v6, ...v7) {",
		"}",
		"const v8 = new v5();",
	), Lift(b.Program()))
}

func TestLift_Properties(t *testing.T) {
	b := newBuilder()
	x := b.LoadInt(1)
	o := b.CreateObject([]string{"a", "0"}, []ir.Variable{x, x})
	b.LoadProperty(o, "a")
	b.LoadProperty(o, "-1")
	b.StoreElement(o, 2, x)
	b.DeleteComputedProperty(o, x)
	b.CallMethod(o, "toString", nil, nil)
	b.CreateObjectWithSpread([]string{"", "b"}, []ir.Variable{o, x}, []bool{true, false})

	assert.Equal(t, lines(
		"const v0 = 1;",
		`const v1 = { a: v0, "0": v0 };`,
		"const v2 = v1.a;",
		`const v3 = v1["-1"];`,
		"v1[2] = v0;",
		"const v4 = delete v1[v0];",
		"const v5 = v1.toString();",
		"const v6 = { ...v1, b: v0 };",
	), Lift(b.Program()))
}

func TestLift_Blocks(t *testing.T) {
	b := newBuilder()
	x := b.LoadInt(1)
	b.Unary(ir.PostInc, x)
	i := b.Phi(x)
	b.BeginDoWhile(i, ir.LessThan, x, i)
	b.Copy(x, i)
	b.EndDoWhile()
	b.BeginTry()
	e := b.BeginCatch()
	b.Throw(e)
	b.EndTryCatch()
	o := b.CreateObject(nil, nil)
	b.BeginWith(o)
	b.StoreToScope("a", x)
	b.LoadFromScope("b")
	b.EndWith()
	b.BeginForOf(o)
	b.EndForOf()
	b.BeginFor(x, ir.LessThan, x, ir.Add, x)
	b.Break()
	b.EndFor()
	cond := b.Compare(x, ir.StrictEqual, x)
	b.BeginIf(cond)
	b.BeginElse()
	b.EndIf()

	assert.Equal(t, lines(
		"let v0 = 1;",
		"const v1 = v0++;",
		"let v2 = v0;",
		"do {",
		"    v2 = v0;",
		"} while (v2 < v0);",
		"try {",
		"} catch (v3) {",
		"    throw v3;",
		"}",
		"const v4 = {};",
		"with (v4) {",
		"    a = v0;",
		"    const v5 = b;",
		"}",
		"for (const v6 of v4) {",
		"}",
		"for (let v7 = v0; v7 < v0; v7 = v7 + v0) {",
		"    break;",
		"}",
		"const v8 = v0 === v0;",
		"if (v8) {",
		"} else {",
		"}",
	), Lift(b.Program()))
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1.5, "1.5"},
		{-5, "-5.0"},
		{1e21, "1e+21"},
		{math.NaN(), "NaN"},
		{math.Inf(1), "Infinity"},
		{math.Inf(-1), "-Infinity"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatFloat(tt.in))
	}
}

func TestQuote(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", `""`},
		{"foo", `"foo"`},
		{`a"b\c`, `"a\"b\\c"`},
		{"line\nbreak", `"line\nbreak"`},
		{"\x00", `"\u0000"`},
		{"ÿ", `"ÿ"`},
		{"\u2028 \u2029", `"\u2028 \u2029"`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Quote(tt.in), "input %q", tt.in)
	}
}

func TestIsIdentifier(t *testing.T) {
	for _, s := range []string{"a", "_x", "$", "__proto__", "v12"} {
		assert.True(t, IsIdentifier(s), s)
	}
	for _, s := range []string{"", "0", "-1", "1a", "a-b", "a b"} {
		assert.False(t, IsIdentifier(s), s)
	}
}

// Generated programs lift without panicking and with balanced blocks.
func TestLift_GeneratedPrograms(t *testing.T) {
	for seed := int64(0); seed < 100; seed++ {
		b, err := strategies.NewBuilder(random.NewSeeded(seed), nil, nil)
		require.NoError(t, err)
		b.Generate(30)
		require.NoError(t, ir.Verify(b.Program()))

		src := Lift(b.Program())
		depth := 0
		for _, line := range strings.Split(strings.TrimRight(src, "\n"), "\n") {
			trimmed := strings.TrimLeft(line, " ")
			if strings.HasPrefix(trimmed, "}") {
				depth--
			}
			require.GreaterOrEqual(t, depth, 0, "seed %d", seed)
			assert.Equal(t, strings.Repeat("    ", depth), line[:len(line)-len(trimmed)], "seed %d: %q", seed, line)
			if strings.HasSuffix(trimmed, "{") {
				depth++
			}
		}
		assert.Zero(t, depth, "seed %d", seed)
	}
}
