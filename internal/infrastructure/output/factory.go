package output

import (
	"fmt"
	"io"
)

// FormatterFactory creates report formatters by name.
type FormatterFactory struct{}

// NewFormatterFactory creates a new formatter factory.
func NewFormatterFactory() *FormatterFactory {
	return &FormatterFactory{}
}

// Create returns a formatter for the given format name.
func (f *FormatterFactory) Create(format string, writer io.Writer) (Formatter, error) {
	switch format {
	case "table":
		return NewTableFormatter(writer), nil
	case "yaml":
		return NewYAMLFormatter(writer), nil
	case "sarif":
		return NewSARIFFormatter(writer), nil
	default:
		return nil, fmt.Errorf("unknown format: %s (supported: %v)", format, f.SupportedFormats())
	}
}

// SupportedFormats returns the available format names.
func (f *FormatterFactory) SupportedFormats() []string {
	return []string{"table", "yaml", "sarif"}
}
