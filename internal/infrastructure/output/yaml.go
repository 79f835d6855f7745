package output

import (
	"io"

	"github.com/goccy/go-yaml"

	"github.com/agentos-dev/agentos/internal/engine"
)

// YAMLFormatter renders the compile report as YAML.
type YAMLFormatter struct {
	writer io.Writer
}

// NewYAMLFormatter creates a new YAML formatter.
func NewYAMLFormatter(w io.Writer) *YAMLFormatter {
	return &YAMLFormatter{writer: w}
}

// Format writes the compile report as YAML.
func (f *YAMLFormatter) Format(result *engine.Result) error {
	encoder := yaml.NewEncoder(f.writer, yaml.Indent(2))

	if err := encoder.Encode(NewReport(result)); err != nil {
		return err
	}

	return encoder.Close()
}
