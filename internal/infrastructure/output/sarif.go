package output

import (
	"fmt"
	"io"

	"github.com/owenrumney/go-sarif/v3/pkg/report/v210/sarif"

	"github.com/agentos-dev/agentos/internal/engine"
	"github.com/agentos-dev/agentos/internal/infrastructure/build"
)

// SARIFFormatter renders per-document compile failures as SARIF 2.1.0 so
// CI systems can annotate the offending template files. Successful
// documents appear as "pass" results without a location.
type SARIFFormatter struct {
	writer io.Writer
}

// NewSARIFFormatter creates a new SARIF formatter.
func NewSARIFFormatter(writer io.Writer) *SARIFFormatter {
	return &SARIFFormatter{writer: writer}
}

// Format writes the compile result as SARIF 2.1.0 JSON.
func (f *SARIFFormatter) Format(result *engine.Result) error {
	report := sarif.NewReport()

	run := sarif.NewRunWithInformationURI("agentos", "https://github.com/agentos-dev/agentos")
	version := build.Version
	run.Tool.Driver.Version = &version

	seenRules := make(map[string]bool)
	for _, expErr := range result.Errors {
		ruleID := string(expErr.Kind)
		if !seenRules[ruleID] {
			seenRules[ruleID] = true
			rule := sarif.NewReportingDescriptor().WithID(ruleID)
			rule.WithDefaultConfiguration(&sarif.ReportingConfiguration{Level: "error"})
			run.Tool.Driver.AddRule(rule)
		}

		sarifResult := sarif.NewRuleResult(ruleID)
		sarifResult.Level = "error"
		sarifResult.Kind = "fail"
		sarifResult.Message = sarif.NewTextMessage(expErr.Error())

		pLoc := sarif.NewPhysicalLocation().
			WithArtifactLocation(sarif.NewArtifactLocation().WithURI(expErr.Path))
		if expErr.Pos.Line > 0 {
			region := sarif.NewRegion().WithStartLine(expErr.Pos.Line)
			if expErr.Pos.Column > 0 {
				region = region.WithStartColumn(expErr.Pos.Column)
			}
			pLoc.WithRegion(region)
		}
		sarifResult.Locations = []*sarif.Location{sarif.NewLocation().WithPhysicalLocation(pLoc)}

		run.AddResult(sarifResult)
	}

	for _, doc := range result.Documents {
		passResult := sarif.NewRuleResult("document_compiled")
		passResult.Level = "note"
		passResult.Kind = "pass"
		passResult.Message = sarif.NewTextMessage(fmt.Sprintf("compiled %s", doc.SourcePath))
		run.AddResult(passResult)
	}

	report.AddRun(run)

	if err := report.Write(f.writer); err != nil {
		return fmt.Errorf("failed to write SARIF output: %w", err)
	}
	_, err := f.writer.Write([]byte("\n"))
	return err
}
