package compiler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
)

// BuildRequest asks the downstream tool chain to compile one build.
type BuildRequest struct {
	BuildID string
	// GenDir is the absolute path of the generated sources.
	GenDir string
	// ProjectDir is where the tool chain runs.
	ProjectDir string
	// Jobs is the parallelism hint. Zero leaves it to the tool.
	Jobs int
}

// BuildTool runs the downstream build of a generated build directory.
type BuildTool interface {
	Build(ctx context.Context, req BuildRequest) error
}

// BuildToolError reports a failed downstream build.
type BuildToolError struct {
	Command string
	Err     error
}

func (e *BuildToolError) Error() string {
	return fmt.Sprintf("build command %q failed: %v", e.Command, e.Err)
}

func (e *BuildToolError) Unwrap() error {
	return e.Err
}

// ExecBuildTool runs a make-like command as a blocking subprocess:
//
//	<Command...> -j<Jobs> BUILD=<id> GEN_DIR=<dir>
type ExecBuildTool struct {
	Command []string
	Stdout  io.Writer
	Stderr  io.Writer
}

// Args lists the arguments passed after the command name. It returns nil
// when there is no command.
func (t ExecBuildTool) Args(req BuildRequest) []string {
	if len(t.Command) == 0 {
		return nil
	}

	args := append([]string{}, t.Command[1:]...)

	if req.Jobs > 0 {
		args = append(args, "-j"+strconv.Itoa(req.Jobs))
	}

	return append(args, "BUILD="+req.BuildID, "GEN_DIR="+req.GenDir)
}

// Build runs the command and waits for it.
func (t ExecBuildTool) Build(ctx context.Context, req BuildRequest) error {
	if len(t.Command) == 0 {
		return &BuildToolError{Err: errors.New("no build command")}
	}

	args := t.Args(req)
	cmdline := strings.Join(append([]string{t.Command[0]}, args...), " ")

	cmd := exec.CommandContext(ctx, t.Command[0], args...)
	cmd.Dir = req.ProjectDir
	cmd.Stdout = t.Stdout
	cmd.Stderr = t.Stderr

	if err := cmd.Run(); err != nil {
		return &BuildToolError{Command: cmdline, Err: err}
	}

	return nil
}
