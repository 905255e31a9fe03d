package pipeline

import (
	"context"

	"github.com/funvibe/jsynth/internal/config"
	"github.com/funvibe/jsynth/internal/ir"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PipelineContext carries one sample through the stages.
type PipelineContext struct {
	Ctx    context.Context
	ID     string
	Seed   int64
	Logger *zap.Logger

	Profile *config.Profile
	// Strategy names a single catalog strategy to apply instead of
	// weighted random generation.
	Strategy string
	// Data drives generation instead of Seed when set.
	Data []byte

	Program *ir.Program
	IR      string
	JS      string
	// Modules counts the WebAssembly modules found and validated.
	Modules int

	Errors []error
}

// NewPipelineContext returns a context for one sample generated from seed.
func NewPipelineContext(ctx context.Context, seed int64, profile *config.Profile) *PipelineContext {
	if profile == nil {
		profile = config.DefaultProfile()
	}
	return &PipelineContext{
		Ctx:     ctx,
		ID:      uuid.NewString(),
		Seed:    seed,
		Logger:  zap.NewNop(),
		Profile: profile,
	}
}

// Failed reports whether any stage recorded an error.
func (c *PipelineContext) Failed() bool {
	return len(c.Errors) > 0
}

func (c *PipelineContext) fail(stage string, err error) {
	c.Logger.Warn("stage failed", zap.String("stage", stage), zap.String("sample", c.ID), zap.Error(err))
	c.Errors = append(c.Errors, err)
}

// Processor is one stage.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes the pipeline.
func (p *Pipeline) Run(initialCtx *PipelineContext) *PipelineContext {
	ctx := initialCtx
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
		// Later stages see earlier errors and decide themselves whether
		// they can still run.
	}
	return ctx
}
