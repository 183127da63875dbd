package config

import (
	"fmt"
	"os"
	"strings"

	"cuelang.org/go/cue/cuecontext"
	cueyaml "cuelang.org/go/encoding/yaml"
)

// ValidateWithCue validates a configuration document against a CUE schema.
// JSON documents compile directly (JSON is valid CUE); anything else goes
// through the YAML extractor.
func ValidateWithCue(name string, data []byte, cueFile string) error {
	ctx := cuecontext.New()

	configVal := ctx.CompileBytes(data)
	if trimmed := strings.TrimSpace(string(data)); !strings.HasPrefix(trimmed, "{") {
		file, err := cueyaml.Extract(name, data)
		if err != nil {
			return fmt.Errorf("cannot read config: %w", err)
		}
		configVal = ctx.BuildFile(file)
	}
	if err := configVal.Err(); err != nil {
		return fmt.Errorf("cannot compile config: %w", err)
	}

	schemaBytes, err := os.ReadFile(cueFile)
	if err != nil {
		return fmt.Errorf("cannot read CUE schema: %w", err)
	}
	schemaVal := ctx.CompileBytes(schemaBytes)
	if err := schemaVal.Err(); err != nil {
		return fmt.Errorf("cannot compile CUE schema: %w", err)
	}

	if err := schemaVal.Subsume(configVal); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}
