package plandef

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// LoadBytes compiles CUE source and decodes a plan definition from it.
// The filename is only used in error positions.
func LoadBytes(filename string, data []byte) (*Def, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	return Decode(v)
}

// LoadFile reads and decodes a plan definition from a CUE file.
func LoadFile(path string) (*Def, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan definition: %w", err)
	}
	return LoadBytes(path, data)
}
