package triangle

import (
	"fmt"
	"os"

	"github.com/gogpu/triangle/gpucore"
	"github.com/gogpu/triangle/internal/shader"
	"github.com/gogpu/triangle/shaders"
)

// loadShader resolves the configured WGSL source, checks that it declares
// the configured entry points and converts it to the source variant the
// device receives.
func loadShader(o *options) (gpucore.ShaderSource, error) {
	code, origin := o.shaderCode, "inline"
	switch {
	case code != "":
	case o.shaderPath != "":
		b, err := os.ReadFile(o.shaderPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrShaderLoad, err)
		}
		code, origin = string(b), o.shaderPath
	default:
		code, origin = shaders.Triangle, "embedded"
	}

	report, err := shader.Check(code, o.vertexEntry, o.fragmentEntry)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrShaderLoad, origin, err)
	}
	for _, f := range report.Findings {
		Logger().Warn("triangle: shader validation", "source", origin, "finding", f.Error())
	}

	if !o.spirv {
		return gpucore.WGSLSource{Code: code}, nil
	}
	words, err := shader.CompileToSPIRV(code)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrShaderLoad, origin, err)
	}
	Logger().Debug("triangle: shader compiled to SPIR-V", "source", origin, "words", len(words))
	return gpucore.SPIRVSource{Words: words}, nil
}
