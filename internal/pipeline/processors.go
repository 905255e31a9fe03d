package pipeline

import (
	"github.com/funvibe/jsynth/internal/archive"
	"github.com/funvibe/jsynth/internal/builder"
	"github.com/funvibe/jsynth/internal/ir"
	"github.com/funvibe/jsynth/internal/lifter"
	"github.com/funvibe/jsynth/internal/random"
	"github.com/funvibe/jsynth/internal/strategies"
	"github.com/funvibe/jsynth/internal/wasmbin"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// DefaultCount is the number of top-level strategies a sample runs. The
// instruction budget usually stops generation first.
const DefaultCount = 100

// Standard returns the full pipeline: generate, verify, check embedded
// WebAssembly modules, lift, and archive when store is not nil.
func Standard(store *archive.Store) *Pipeline {
	return New(
		&GenerateProcessor{Count: DefaultCount},
		&VerifyProcessor{},
		&WasmCheckProcessor{},
		&LiftProcessor{},
		&ArchiveProcessor{Store: store},
	)
}

// GenerateProcessor builds the program.
type GenerateProcessor struct {
	Count int
}

func (g *GenerateProcessor) Process(ctx *PipelineContext) *PipelineContext {
	var src random.Source = random.NewSeeded(ctx.Seed)
	if ctx.Data != nil {
		src = random.NewFromData(ctx.Data)
	}
	b, err := strategies.NewBuilder(src, ctx.Profile, ctx.Logger)
	if err != nil {
		ctx.fail("generate", err)
		return ctx
	}
	count := g.Count
	if count <= 0 {
		count = DefaultCount
	}
	if err := generate(b, ctx.Strategy, count); err != nil {
		ctx.fail("generate", err)
		return ctx
	}
	ctx.Program = b.Program()
	ctx.Logger.Debug("generated",
		zap.String("sample", ctx.ID),
		zap.Int64("seed", ctx.Seed),
		zap.Int("instructions", ctx.Program.Len()))
	return ctx
}

func generate(b *builder.Builder, name string, count int) (err error) {
	defer builder.RecoverViolation(&err)
	if name == "" {
		b.Generate(count)
		return nil
	}
	e, ok := strategies.Default().Lookup(name)
	if !ok {
		return errors.Errorf("unknown strategy %q", name)
	}
	b.Run(e.Name, e.Strategy)
	return nil
}

// VerifyProcessor checks the program is well formed.
type VerifyProcessor struct{}

func (VerifyProcessor) Process(ctx *PipelineContext) *PipelineContext {
	if ctx.Program == nil {
		return ctx
	}
	if err := ir.Verify(ctx.Program); err != nil {
		ctx.fail("verify", err)
	}
	return ctx
}

// WasmCheckProcessor validates every module the program builds from a
// byte literal.
type WasmCheckProcessor struct{}

func (WasmCheckProcessor) Process(ctx *PipelineContext) *PipelineContext {
	if ctx.Program == nil || ctx.Failed() {
		return ctx
	}
	for i, bin := range ModuleBytes(ctx.Program) {
		if err := wasmbin.Validate(ctx.Ctx, bin); err != nil {
			ctx.fail("wasm", errors.Wrapf(err, "module %d", i))
			continue
		}
		ctx.Modules++
	}
	return ctx
}

// LiftProcessor renders the program as IR listing and, when it is well
// formed, as JavaScript.
type LiftProcessor struct{}

func (LiftProcessor) Process(ctx *PipelineContext) *PipelineContext {
	if ctx.Program == nil {
		return ctx
	}
	ctx.IR = ir.Disassemble(ctx.Program, ctx.ID)
	if !ctx.Failed() {
		ctx.JS = lifter.Lift(ctx.Program)
	}
	return ctx
}

// ArchiveProcessor stores successful samples. A nil Store disables it.
type ArchiveProcessor struct {
	Store *archive.Store
}

func (a *ArchiveProcessor) Process(ctx *PipelineContext) *PipelineContext {
	if a.Store == nil || ctx.Failed() || ctx.Program == nil {
		return ctx
	}
	profile, err := ctx.Profile.Marshal()
	if err != nil {
		ctx.fail("archive", err)
		return ctx
	}
	_, err = a.Store.Put(ctx.Ctx, &archive.Sample{
		ID:           ctx.ID,
		Seed:         ctx.Seed,
		Strategy:     ctx.Strategy,
		Instructions: ctx.Program.Len(),
		Modules:      ctx.Modules,
		IR:           ctx.IR,
		JS:           ctx.JS,
		Profile:      string(profile),
	})
	if err != nil {
		ctx.fail("archive", err)
	}
	return ctx
}
