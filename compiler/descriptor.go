// Package compiler sequences the compilation of an architecture description
// into the generated sources of one simulator build.
package compiler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sarchlab/archgen/arch"
	"github.com/sarchlab/archgen/codegen"
)

// BuildDescriptor describes one generated build.
type BuildDescriptor struct {
	BuildID string
	// GenRoot is the root under which every build owns a directory.
	GenRoot string
	// Dir is the output directory of this build, GenRoot/BuildID.
	Dir       string
	Artifacts []codegen.Artifact
	Model     *arch.Model
}

// ValidateBuildID checks that id can name a directory under the generation
// root without escaping it.
func ValidateBuildID(id string) error {
	switch {
	case id == "":
		return errors.New("build id is empty")
	case id == "." || id == "..":
		return fmt.Errorf("build id %q is not a directory name", id)
	case strings.ContainsAny(id, `/\`):
		return fmt.Errorf("build id %q contains a path separator", id)
	case strings.TrimSpace(id) != id:
		return fmt.Errorf("build id %q has surrounding spaces", id)
	}

	return nil
}
