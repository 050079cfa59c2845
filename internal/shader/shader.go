// Package shader checks WGSL sources with naga before they reach a driver.
package shader

import (
	"errors"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
)

// ErrEntryPoint is returned when a required entry point is missing or has
// the wrong stage.
var ErrEntryPoint = errors.New("shader: entry point")

// Report is the outcome of Check.
type Report struct {
	// EntryPoints maps every entry point name to its stage.
	EntryPoints map[string]ir.ShaderStage

	// Findings are validator diagnostics. They are advisory: the driver
	// compiles the module itself and has the final word.
	Findings []ir.ValidationError
}

// Check parses and lowers WGSL source and verifies that vertexEntry is a
// vertex entry point and fragmentEntry a fragment entry point.
func Check(source, vertexEntry, fragmentEntry string) (*Report, error) {
	ast, err := naga.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse shader: %w", err)
	}
	module, err := naga.LowerWithSource(ast, source)
	if err != nil {
		return nil, fmt.Errorf("failed to lower shader: %w", err)
	}

	r := &Report{EntryPoints: make(map[string]ir.ShaderStage, len(module.EntryPoints))}
	for _, ep := range module.EntryPoints {
		r.EntryPoints[ep.Name] = ep.Stage
	}
	if err := requireStage(r.EntryPoints, vertexEntry, ir.StageVertex); err != nil {
		return nil, err
	}
	if err := requireStage(r.EntryPoints, fragmentEntry, ir.StageFragment); err != nil {
		return nil, err
	}

	findings, err := naga.Validate(module)
	if err != nil {
		return nil, fmt.Errorf("failed to validate shader: %w", err)
	}
	r.Findings = findings
	return r, nil
}

func requireStage(eps map[string]ir.ShaderStage, name string, want ir.ShaderStage) error {
	got, ok := eps[name]
	if !ok {
		return fmt.Errorf("%w %q not found", ErrEntryPoint, name)
	}
	if got != want {
		return fmt.Errorf("%w %q is a %s shader, want %s", ErrEntryPoint, name, stageName(got), stageName(want))
	}
	return nil
}

func stageName(s ir.ShaderStage) string {
	switch s {
	case ir.StageVertex:
		return "vertex"
	case ir.StageFragment:
		return "fragment"
	case ir.StageCompute:
		return "compute"
	case ir.StageTask:
		return "task"
	case ir.StageMesh:
		return "mesh"
	default:
		return fmt.Sprintf("stage(%d)", s)
	}
}

// CompileToSPIRV compiles WGSL source to SPIR-V words.
func CompileToSPIRV(source string) ([]uint32, error) {
	// Compile WGSL to SPIR-V bytes
	spirvBytes, err := naga.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("failed to compile shader: %w", err)
	}
	if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("failed to compile shader: SPIR-V length %d is not a multiple of 4", len(spirvBytes))
	}

	// SPIR-V is little-endian 32-bit words
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return words, nil
}
