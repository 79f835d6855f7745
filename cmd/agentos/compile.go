package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentos-dev/agentos/internal/domain/entities"
	"github.com/agentos-dev/agentos/internal/domain/services"
	"github.com/agentos-dev/agentos/internal/engine"
	infraconfig "github.com/agentos-dev/agentos/internal/infrastructure/config"
	"github.com/agentos-dev/agentos/internal/infrastructure/output"
)

var (
	baseDir    string
	outputDir  string
	format     string
	outFile    string
	filterExpr string
	workers    int
	setFlags   []string
	setVars    []string

	lazyWorkflows     bool
	claudeSubagents   bool
	standardsAsSkills bool
	compiledSingleCmd bool
)

// compileCmd represents the compile command
var compileCmd = &cobra.Command{
	Use:   "compile <profile-id>",
	Short: "Compile a profile into an agent-os/ output tree",
	Long: `Resolve a profile's inheritance chain, merge its file trees, expand
every template directive and stage the result as an agent-os/ tree.

Config flags gate {{IF}}/{{UNLESS}} blocks in the templates. A flag a
template references but you do not set reads as false.

Filtering:
  --filter "namespace == 'commands'"          Compile only command documents
  --filter "name startsWith 'plan'"           Compile by document name`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCompileAction(cmd.Context(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(compileCmd)

	compileCmd.Flags().StringVar(&baseDir, "profiles-dir", ".", "Directory containing the profiles/ tree")
	compileCmd.Flags().StringVarP(&outputDir, "output", "o", ".", "Directory the agent-os/ tree is committed into")
	compileCmd.Flags().StringVar(&format, "format", "table", "Report format: table, yaml, sarif")
	compileCmd.Flags().StringVar(&outFile, "report-output", "", "Report file path (default: stdout)")
	compileCmd.Flags().StringVar(&filterExpr, "filter", "", "Entrypoint filter expression (e.g. \"namespace == 'agents'\")")
	compileCmd.Flags().IntVar(&workers, "workers", 0, "Expansion worker count (default: CPU count)")
	compileCmd.Flags().StringSliceVar(&setFlags, "flag", nil, "Extra config flags, name or name=false (comma-separated)")
	compileCmd.Flags().StringSliceVar(&setVars, "var", nil, "Template variables, name=value (comma-separated)")

	compileCmd.Flags().BoolVar(&lazyWorkflows, "lazy-load-workflows", false, "Emit workflow pointers plus verbatim copies instead of inlining")
	compileCmd.Flags().BoolVar(&claudeSubagents, "use-claude-code-subagents", false, "Set the use_claude_code_subagents flag")
	compileCmd.Flags().BoolVar(&standardsAsSkills, "standards-as-claude-code-skills", false, "Set the standards_as_claude_code_skills flag")
	compileCmd.Flags().BoolVar(&compiledSingleCmd, "compiled-single-command", false, "Set the compiled_single_command flag")
}

// runCompileAction implements the core logic for the compile command
func runCompileAction(ctx context.Context, profileID string) error {
	validator, err := infraconfig.NewConfigValidator()
	if err != nil {
		return fmt.Errorf("initializing validator: %w", err)
	}

	loader := infraconfig.NewRepositoryLoader(validator, slog.Default())
	repo, err := loader.Load(os.DirFS(baseDir))
	if err != nil {
		return fmt.Errorf("loading profile repository: %w", err)
	}
	slog.Info("repository loaded", "profiles", repo.Len(), "dir", baseDir)

	filter, err := services.NewDocumentFilter(filterExpr)
	if err != nil {
		return err
	}

	cfg, err := buildCompileConfig()
	if err != nil {
		return err
	}

	eng := engine.New(
		engine.WithDocumentFilter(filter),
		engine.WithWorkers(workers),
	)
	result, err := eng.Compile(ctx, profileID, cfg, repo)
	if err != nil {
		return fmt.Errorf("compile failed: %w", err)
	}

	writer := output.NewTreeWriter(slog.Default())
	if err := writer.Write(result, outputDir); err != nil {
		return fmt.Errorf("writing output tree: %w", err)
	}

	if err := writeReport(result); err != nil {
		return err
	}

	if result.HasFailures() {
		return fmt.Errorf("%d of %d documents failed to compile", result.Failed(), result.Failed()+result.Succeeded())
	}
	return nil
}

func buildCompileConfig() (entities.Config, error) {
	cfg := entities.Config{
		Flags: map[string]bool{
			entities.FlagLazyLoadWorkflows:   lazyWorkflows,
			entities.FlagClaudeCodeSubagents: claudeSubagents,
			entities.FlagStandardsAsSkills:   standardsAsSkills,
			entities.FlagCompiledSingleCmd:   compiledSingleCmd,
		},
		Vars: make(map[string]string),
	}

	for _, raw := range setFlags {
		name, value, hasValue := strings.Cut(raw, "=")
		if name == "" {
			return entities.Config{}, fmt.Errorf("invalid --flag %q", raw)
		}
		enabled := true
		if hasValue {
			switch value {
			case "true":
				enabled = true
			case "false":
				enabled = false
			default:
				return entities.Config{}, fmt.Errorf("invalid --flag %q: value must be true or false", raw)
			}
		}
		cfg.Flags[name] = enabled
	}

	for _, raw := range setVars {
		name, value, hasValue := strings.Cut(raw, "=")
		if name == "" || !hasValue {
			return entities.Config{}, fmt.Errorf("invalid --var %q: expected name=value", raw)
		}
		cfg.Vars[name] = value
	}

	return cfg, nil
}

func writeReport(result *engine.Result) error {
	out := os.Stdout
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return fmt.Errorf("creating report file: %w", err)
		}
		defer func() {
			_ = f.Close() // Best-effort cleanup
		}()
		out = f
	}

	formatter, err := output.NewFormatterFactory().Create(format, out)
	if err != nil {
		return err
	}
	return formatter.Format(result)
}
