// File: cmd/generate.go
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/term"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"ctxgen/pkg/consolidate"
	"ctxgen/pkg/gitsource"
	"ctxgen/pkg/ignore"
	"ctxgen/pkg/tokencount"
)

var (
	genOutput     string
	genInclude    []string
	genExclude    []string
	genFormat     string
	genTree       string
	genMaxSizeKB  int64
	genIgnoreFile string
	genNoIgnore   bool
	genTokens     bool
	genModel      string
	genClipboard  bool
	genJSON       bool
	genWatch      bool
)

// generateCmd consolidates one project tree into a context artifact.
var generateCmd = &cobra.Command{
	Use:   "generate [path|git-url]",
	Short: "Consolidate a project tree into one context artifact",
	Long: `Generate walks the project, prunes excluded paths, reads every file whose
extension is on the include list, and writes one delimited block per file
into the output artifact. A root that looks like a git URL is cloned into
a temporary directory first and removed afterwards.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

func init() {
	f := generateCmd.Flags()
	f.StringVarP(&genOutput, "output", "o", "context.txt", "artifact path")
	f.StringSliceVarP(&genInclude, "include", "i", consolidate.DefaultIncludeExtensions, "extensions to include")
	f.StringSliceVarP(&genExclude, "exclude", "e", consolidate.DefaultExcludePatterns, "path patterns to exclude")
	f.StringVar(&genFormat, "format", string(consolidate.FormatPlain), "artifact format: plain or markdown")
	f.StringVar(&genTree, "tree", "", "also write a tree rendering of the processed files to this path")
	f.Int64Var(&genMaxSizeKB, "max-size", 0, "per-file size limit in KB, 0 for unlimited")
	f.StringVar(&genIgnoreFile, "ignore-file", "", "extra ignore file loaded besides <root>/.ctxignore")
	f.BoolVar(&genNoIgnore, "no-ignore", false, "do not load ignore files")
	f.BoolVar(&genTokens, "tokens", false, "estimate how many LLM tokens the artifact consumes")
	f.StringVar(&genModel, "model", tokencount.DefaultModel, "tiktoken model for --tokens")
	f.BoolVarP(&genClipboard, "clipboard", "c", false, "copy the artifact to the clipboard")
	f.BoolVar(&genJSON, "json", false, "print the run report as JSON")
	f.BoolVarP(&genWatch, "watch", "w", false, "regenerate whenever files under the root change")

	viper.BindPFlag("output", f.Lookup("output"))
	viper.BindPFlag("include", f.Lookup("include"))
	viper.BindPFlag("exclude", f.Lookup("exclude"))
	viper.BindPFlag("format", f.Lookup("format"))
	viper.BindPFlag("max_size", f.Lookup("max-size"))
	viper.BindPFlag("model", f.Lookup("model"))
	viper.BindPFlag("global_ignore", f.Lookup("ignore-file"))

	RootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	applyConfigValues(cmd)

	root := "."
	if len(args) == 1 {
		root = args[0]
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if gitsource.IsURL(root) {
		if genWatch {
			return fmt.Errorf("--watch cannot follow a remote repository")
		}
		dir, cleanup, err := gitsource.Clone(ctx, root, logger)
		if err != nil {
			return err
		}
		defer cleanup()
		root = dir
	}

	cfg, err := buildConfig(root)
	if err != nil {
		return err
	}

	report, err := consolidate.Run(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if err := emitReport(report, cfg.Output); err != nil {
		return err
	}

	if genWatch {
		return watchAndRegenerate(ctx, cfg, logger)
	}
	return nil
}

// applyConfigValues backfills flag variables from viper so config-file
// and environment settings apply whenever the flag was not given.
func applyConfigValues(cmd *cobra.Command) {
	if !cmd.Flags().Changed("output") && viper.IsSet("output") {
		genOutput = viper.GetString("output")
	}
	if !cmd.Flags().Changed("include") && viper.IsSet("include") {
		genInclude = viper.GetStringSlice("include")
	}
	if !cmd.Flags().Changed("exclude") && viper.IsSet("exclude") {
		genExclude = viper.GetStringSlice("exclude")
	}
	if !cmd.Flags().Changed("format") && viper.IsSet("format") {
		genFormat = viper.GetString("format")
	}
	if !cmd.Flags().Changed("max-size") && viper.IsSet("max_size") {
		genMaxSizeKB = viper.GetInt64("max_size")
	}
	if !cmd.Flags().Changed("model") && viper.IsSet("model") {
		genModel = viper.GetString("model")
	}
	if !cmd.Flags().Changed("ignore-file") && viper.IsSet("global_ignore") {
		genIgnoreFile = viper.GetString("global_ignore")
	}
}

// buildConfig assembles the run configuration from the resolved flags.
func buildConfig(root string) (*consolidate.Config, error) {
	cfg := &consolidate.Config{
		Root:            root,
		Output:          genOutput,
		IncludeExts:     genInclude,
		ExcludePatterns: genExclude,
		Format:          consolidate.Format(genFormat),
		TreeOutput:      genTree,
		MaxFileSize:     genMaxSizeKB * 1024,
	}
	if !genNoIgnore {
		rules, err := ignore.Load(logger, filepath.Join(root, ".ctxignore"), genIgnoreFile)
		if err != nil {
			return nil, err
		}
		cfg.IgnoreRules = rules
	}
	if genTokens {
		counter := tokencount.ForModel(genModel, logger)
		logger.Info("token counting enabled", zap.String("counter", counter.Name()))
		cfg.Counter = counter
	}
	if progressOnTTY() {
		cfg.OnProgress = ttyProgress
	}
	return cfg, nil
}

func progressOnTTY() bool {
	return !genJSON && term.IsTerminal(int(os.Stderr.Fd()))
}

// ttyProgress redraws a single status line per candidate.
func ttyProgress(rel string, processed, total int) {
	fmt.Fprintf(os.Stderr, "\r\x1b[2K[%d/%d] %s", processed, total, rel)
}

// emitReport prints the final run report and handles the clipboard copy.
func emitReport(report consolidate.Report, outputPath string) error {
	if progressOnTTY() {
		fmt.Fprint(os.Stderr, "\r\x1b[2K")
	}
	if genJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
		fmt.Println(string(data))
	} else {
		printSummary(os.Stdout, report, outputPath)
	}
	if genClipboard {
		if err := copyArtifact(outputPath); err != nil {
			logger.Warn("cannot copy artifact to clipboard", zap.Error(err))
		} else {
			fmt.Println("Artifact copied to clipboard.")
		}
	}
	return nil
}

// printSummary writes the human-readable run summary.
func printSummary(w io.Writer, report consolidate.Report, outputPath string) {
	p := message.NewPrinter(language.English)
	fmt.Fprintln(w, "--- Generation Complete ---")
	p.Fprintf(w, "Files processed:  %d\n", report.FilesProcessed)
	p.Fprintf(w, "Total lines:      %d\n", report.TotalLines)
	p.Fprintf(w, "Artifact size:    %.2f KB\n", float64(report.ArtifactBytes)/1024)
	if report.TotalTokens > 0 {
		p.Fprintf(w, "Estimated tokens: %d\n", report.TotalTokens)
	}
	p.Fprintf(w, "Elapsed:          %d ms\n", report.ElapsedMS)
	if len(report.Skipped) > 0 {
		p.Fprintf(w, "Files skipped:    %d\n", len(report.Skipped))
		for _, s := range report.Skipped {
			fmt.Fprintf(w, "  - %s (%s)\n", s.Path, s.Reason)
		}
	}
	if report.Cancelled {
		fmt.Fprintln(w, "Run cancelled; the artifact holds the files processed so far.")
	}
	fmt.Fprintf(w, "Output saved to %s\n", outputPath)
}

// copyArtifact places the generated artifact on the system clipboard.
func copyArtifact(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read artifact: %w", err)
	}
	if err := clipboard.WriteAll(string(data)); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	return nil
}
