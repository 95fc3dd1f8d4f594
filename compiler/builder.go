package compiler

import (
	"github.com/sarchlab/archgen/internal/settings"
	"github.com/sarchlab/archgen/internal/view"
)

// Builder can build compilers.
type Builder struct {
	genRoot    string
	projectDir string
	jobs       int
	logger     view.Logger
	buildTool  BuildTool
	recorder   Recorder
}

// MakeBuilder creates a builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		genRoot:    settings.DefaultGenRoot,
		projectDir: ".",
		jobs:       1,
	}
}

// WithGenRoot sets the directory under which build directories are created.
func (b Builder) WithGenRoot(dir string) Builder {
	b.genRoot = dir
	return b
}

// WithProjectDir sets the directory the downstream build runs in.
func (b Builder) WithProjectDir(dir string) Builder {
	b.projectDir = dir
	return b
}

// WithBuildJobs sets the parallelism of the downstream build.
func (b Builder) WithBuildJobs(n int) Builder {
	b.jobs = n
	return b
}

// WithLogger sets the logger.
func (b Builder) WithLogger(l view.Logger) Builder {
	b.logger = l
	return b
}

// WithBuildTool sets the downstream build tool.
func (b Builder) WithBuildTool(t BuildTool) Builder {
	b.buildTool = t
	return b
}

// WithRecorder sets where written artifacts are recorded.
func (b Builder) WithRecorder(r Recorder) Builder {
	b.recorder = r
	return b
}

// Build creates a compiler with the given parameters.
func (b Builder) Build() *Compiler {
	c := &Compiler{
		genRoot:    b.genRoot,
		projectDir: b.projectDir,
		jobs:       b.jobs,
		logger:     b.logger,
		buildTool:  b.buildTool,
		recorder:   b.recorder,
	}

	if c.logger == nil {
		c.logger = view.NewNopLogger()
	}

	if c.buildTool == nil {
		c.buildTool = ExecBuildTool{Command: []string{settings.DefaultBuildCmd}}
	}

	return c
}
