package compiler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sarchlab/archgen/arch"
	"github.com/sarchlab/archgen/codegen"
	"github.com/sarchlab/archgen/internal/view"
)

// Recorder is told about every build and every artifact written for it.
type Recorder interface {
	Start(buildID string)
	RecordArtifact(name string, content []byte)
}

// Compiler turns architecture descriptions into build directories.
type Compiler struct {
	genRoot    string
	projectDir string
	jobs       int
	logger     view.Logger
	buildTool  BuildTool
	recorder   Recorder
}

// Compile elaborates the description at configPath and writes its artifacts
// to the build directory of buildID. The directory is cleared first.
//
// Every domain is validated and every artifact is rendered before the
// directory is touched, so a failing description leaves the previous output
// of the build in place, including any dram_timing.h of an earlier run.
// The recorder sees the build as soon as its id is accepted, so failed runs
// are recorded under their build id too.
func (c *Compiler) Compile(
	ctx context.Context,
	buildID, configPath string,
) (*BuildDescriptor, error) {
	if err := ValidateBuildID(buildID); err != nil {
		return nil, err
	}

	if c.recorder != nil {
		c.recorder.Start(buildID)
	}

	c.logger.Debug("elaborating", "config", configPath)

	m, err := arch.ElaborateFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("elaborating %s: %w", configPath, err)
	}

	c.logger.Debug("elaborated",
		"model", m.SystemModel,
		"levels", len(m.Hierarchy.Nodes),
		"dram", m.DRAM.Type)

	artifacts, err := codegen.Render(m)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	desc := &BuildDescriptor{
		BuildID:   buildID,
		GenRoot:   c.genRoot,
		Dir:       filepath.Join(c.genRoot, buildID),
		Artifacts: artifacts,
		Model:     m,
	}

	if err := resetDir(desc.Dir); err != nil {
		return nil, err
	}

	if err := codegen.Write(desc.Dir, artifacts); err != nil {
		return nil, fmt.Errorf("build %s: %w", buildID, err)
	}

	c.recordArtifacts(desc)

	c.logger.Info("generated build",
		"build", buildID,
		"dir", desc.Dir,
		"artifacts", len(artifacts))

	return desc, nil
}

func (c *Compiler) recordArtifacts(desc *BuildDescriptor) {
	if c.recorder == nil {
		return
	}

	for _, a := range desc.Artifacts {
		c.recorder.RecordArtifact(a.Name, a.Content)
	}
}

// Build runs the downstream build tool on a generated build. A failing tool
// is reported as a *BuildToolError.
func (c *Compiler) Build(ctx context.Context, desc *BuildDescriptor) error {
	genDir, err := filepath.Abs(desc.Dir)
	if err != nil {
		return err
	}

	req := BuildRequest{
		BuildID:    desc.BuildID,
		GenDir:     genDir,
		ProjectDir: c.projectDir,
		Jobs:       c.jobs,
	}

	c.logger.Info("building", "build", desc.BuildID, "jobs", c.jobs)

	if err := c.buildTool.Build(ctx, req); err != nil {
		return fmt.Errorf("build %s: %w", desc.BuildID, err)
	}

	c.logger.Info("build finished", "build", desc.BuildID)

	return nil
}

func resetDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("clearing %s: %w", dir, err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	return nil
}
