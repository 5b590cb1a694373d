package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/elara/internal/convert"
	"github.com/jmylchreest/elara/internal/highlight"
	"github.com/jmylchreest/elara/internal/render"
	"github.com/jmylchreest/elara/internal/theme"
	"github.com/jmylchreest/elara/internal/watch"
)

var convertOpts struct {
	theme       string
	font        string
	codeFont    string
	outDir      string
	workers     int
	watch       bool
	strictTheme bool
}

var convertCmd = &cobra.Command{
	Use:   "convert FILES...",
	Short: "Convert notebooks to HTML",
	Long: `Convert one or more Jupyter notebooks into HTML documents.

FILES may be paths or glob patterns ("notebooks/**/*.ipynb"). Each notebook
is written next to itself as <name>.html, or <name>(1).html and so on when
that file already exists. Options apply to every notebook.

Font options can be prefixed with "gf:" to load the family from Google Fonts,
for example --font "gf:Inter" --code-font "gf:Fira Code".

A code cell that cannot be highlighted is rendered as plain text; the rest of
the notebook is still highlighted.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVarP(&convertOpts.theme, "theme", "t", "",
		"Theme for code blocks: built-in style, bundled or user theme name, or theme file (default from config: vs)")
	convertCmd.Flags().StringVar(&convertOpts.font, "font", "",
		"Font for the document (default from config: sans-serif)")
	convertCmd.Flags().StringVar(&convertOpts.codeFont, "code-font", "",
		"Font for code and output (default from config: monospace)")
	convertCmd.Flags().StringVarP(&convertOpts.outDir, "out-dir", "o", "",
		"Directory to write HTML files to (default: next to each notebook)")
	convertCmd.Flags().IntVarP(&convertOpts.workers, "workers", "w", 0,
		"Code cells highlighted concurrently (default: one per CPU)")
	convertCmd.Flags().BoolVar(&convertOpts.watch, "watch", false,
		"Keep running and convert notebooks again when they change")
	convertCmd.Flags().BoolVar(&convertOpts.strictTheme, "strict-theme", false,
		"Fail instead of using the fallback theme when the theme is not found")
}

func runConvert(cmd *cobra.Command, args []string) error {
	applyConvertFlags(cmd)

	inputs, err := expandInputs(args)
	if err != nil {
		return err
	}

	hl, err := newHighlighter(newLoader(), cfg.Theme.Name, cfg.Theme.Fallback, cfg.Theme.Strict,
		highlight.WithMaxBytes(cfg.Convert.MaxCellBytes))
	if err != nil {
		return err
	}
	logger.Debug("using theme", "theme", hl.Theme().Name, "dark", hl.Theme().Dark())

	renderer, err := render.New()
	if err != nil {
		return err
	}

	conv := convert.New(hl, renderer, convert.Options{
		Workers:     cfg.Convert.Workers,
		CellTimeout: cfg.Convert.CellTimeout.Duration(),
		BodyFont:    render.ParseFont(cfg.Fonts.Body),
		CodeFont:    render.ParseFont(cfg.Fonts.Code),
		Logger:      logger,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	outputs, failed := convertAll(ctx, conv, inputs, cfg.OutputDir())

	if convertOpts.watch {
		return watchInputs(ctx, conv, outputs)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d notebooks failed to convert", failed, len(inputs))
	}
	return nil
}

// applyConvertFlags lets explicitly set flags override the config file.
func applyConvertFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("theme") {
		cfg.Theme.Name = convertOpts.theme
	}
	if flags.Changed("font") {
		cfg.Fonts.Body = convertOpts.font
	}
	if flags.Changed("code-font") {
		cfg.Fonts.Code = convertOpts.codeFont
	}
	if flags.Changed("out-dir") {
		cfg.Output.Dir = convertOpts.outDir
	}
	if flags.Changed("workers") {
		cfg.Convert.Workers = convertOpts.workers
	}
	if flags.Changed("strict-theme") {
		cfg.Theme.Strict = convertOpts.strictTheme
	}
}

// expandInputs resolves glob patterns to notebook paths, keeping the order
// of the arguments and dropping duplicates.
func expandInputs(args []string) ([]string, error) {
	seen := make(map[string]bool)
	var inputs []string
	for _, arg := range args {
		if !doublestar.ValidatePattern(filepath.ToSlash(arg)) {
			return nil, fmt.Errorf("invalid pattern %q", arg)
		}
		matches, err := doublestar.FilepathGlob(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", arg, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no notebooks match %q", arg)
		}
		for _, m := range matches {
			if info, err := os.Stat(m); err != nil || info.IsDir() {
				continue
			}
			if !seen[m] {
				seen[m] = true
				inputs = append(inputs, m)
			}
		}
	}
	if len(inputs) == 0 {
		return nil, errors.New("no notebooks to convert")
	}
	return inputs, nil
}

// newHighlighter builds a highlighter for the named theme. When the theme
// does not exist and strict is off, the fallback theme is used instead.
func newHighlighter(loader *theme.Loader, name, fallback string, strict bool, opts ...highlight.Option) (*highlight.Highlighter, error) {
	hl, err := highlighterFor(loader, name, opts...)
	if err == nil || strict || name == fallback || !errors.Is(err, theme.ErrThemeNotFound) {
		return hl, err
	}

	logger.Warn("theme not found, using fallback", "theme", name, "fallback", fallback)
	fmt.Fprintln(os.Stderr, warnStyle.Render(fmt.Sprintf("theme %q not found, using %q", name, fallback)))
	return highlighterFor(loader, fallback, opts...)
}

func highlighterFor(loader *theme.Loader, ref string, opts ...highlight.Option) (*highlight.Highlighter, error) {
	src, err := loader.Source(ref)
	if err != nil {
		return nil, err
	}
	return highlight.NewFromSource(src, opts...)
}

// convertAll converts every input and reports progress. It returns the
// output path of each converted input and the number of failures.
func convertAll(ctx context.Context, conv *convert.Converter, inputs []string, outDir string) (map[string]string, int) {
	bar := progress.New(progress.WithDefaultGradient(), progress.WithWidth(40))
	showBar := len(inputs) > 1

	outputs := make(map[string]string, len(inputs))
	failed := 0
	for i, input := range inputs {
		if ctx.Err() != nil {
			failed += len(inputs) - i
			break
		}

		path, report, err := conv.ConvertFile(ctx, input, outDir)
		if showBar {
			fmt.Fprint(os.Stderr, "\r"+ansi.EraseEntireLine)
		}
		if err != nil {
			failed++
			fmt.Fprintln(os.Stderr, errorStyle.Render("failed:"), pathStyle.Render(input), mutedStyle.Render(err.Error()))
		} else {
			outputs[input] = path
			printReport(input, path, report)
		}
		if showBar {
			fmt.Fprint(os.Stderr, bar.ViewAs(float64(i+1)/float64(len(inputs))))
		}
	}
	if showBar {
		fmt.Fprintln(os.Stderr)
	}
	return outputs, failed
}

func printReport(input, output string, report convert.Report) {
	fmt.Printf("Exported %s to %s %s\n",
		pathStyle.Render(input),
		outputStyle.Render(output),
		mutedStyle.Render(fmt.Sprintf("(%d cells, %s)", report.Cells, humanize.Bytes(uint64(report.Bytes)))))
	if n := len(report.Fallbacks); n > 0 {
		fmt.Println(warnStyle.Render(fmt.Sprintf("  %d of %d code cells could not be highlighted and are shown as plain text",
			n, report.CodeCells)))
	}
}

// watchInputs converts notebooks again whenever they change, until ctx is
// cancelled. Each notebook keeps the output file it was first written to.
func watchInputs(ctx context.Context, conv *convert.Converter, outputs map[string]string) error {
	if len(outputs) == 0 {
		return errors.New("nothing to watch")
	}

	// Keys are absolute because the watcher reports absolute paths.
	var mu sync.Mutex
	targets := make(map[string]string, len(outputs))
	paths := make([]string, 0, len(outputs))
	for input, output := range outputs {
		abs, err := filepath.Abs(input)
		if err != nil {
			return err
		}
		targets[abs] = output
		paths = append(paths, abs)
	}

	w, err := watch.New(paths, cfg.Convert.Debounce.Duration(), func(path string) {
		mu.Lock()
		defer mu.Unlock()

		output := targets[path]
		report, err := conv.ConvertTo(ctx, path, output)
		if err != nil {
			fmt.Fprintln(os.Stderr, errorStyle.Render("failed:"), pathStyle.Render(path), mutedStyle.Render(err.Error()))
			return
		}
		printReport(path, output, report)
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.Start(ctx); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("Watching %d notebooks, press Ctrl+C to stop", len(paths))))
	<-ctx.Done()
	return w.Stop()
}
