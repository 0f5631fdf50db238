package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/formationbot/pkg/pipeline"
)

// defaultBase is the output base name when neither --output nor --input is
// given and more than one format is requested.
const defaultBase = "formation"

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		input      string
		output     string
		noCache    bool
	)
	opts := pipeline.Options{}
	setCLIDefaults(&opts)

	cmd := &cobra.Command{
		Use:   "render [notation]",
		Short: "Render formation notation to SVG, PNG, JSON or DOT",
		Long: `Render formation notation to SVG, PNG, JSON or DOT.

Notation is taken from the argument, the --input file, or stdin, in that
order. A single format without --output is written to stdout; several formats
are written to <base>.<format>, where base comes from --output or --input.

Results are cached locally for faster subsequent runs.`,
		Example: `  echo "r1> b2<" | formationbot render -f png -o couple.png
  formationbot render "<>/><" -f svg,json -o box`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			if err := pipeline.ValidateEngine(opts.Engine); err != nil {
				return err
			}
			notation, err := readNotation(cmd.InOrStdin(), args, input)
			if err != nil {
				return err
			}
			opts.Notation = notation
			return c.runRender(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts, input, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "read notation from file instead of stdin")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, json, dot (comma-separated)")
	cmd.Flags().StringVar(&opts.Engine, "engine", opts.Engine, "render engine: auto, rsvg, native, graphviz")
	cmd.Flags().Float64Var(&opts.DancerWidth, "width", opts.DancerWidth, "pixels per grid unit")
	cmd.Flags().StringVar(&opts.Background, "bg", "", "background paint (e.g. white, #fafafa)")
	cmd.Flags().Float64Var(&opts.BaselineShift, "baseline-shift", 0, "extra vertical offset for labels")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "ignore cached artifacts and render again")

	return cmd
}

// readNotation returns the notation from args, the input file or stdin.
// A single trailing newline is dropped so piped input hashes like typed input.
func readNotation(stdin io.Reader, args []string, input string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}

	r := stdin
	if input != "" && input != "-" {
		f, err := os.Open(input)
		if err != nil {
			return "", fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		r = f
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read notation: %w", err)
	}
	s := strings.TrimSuffix(string(data), "\n")
	return strings.TrimSuffix(s, "\r"), nil
}

// runRender executes the pipeline and writes every artifact.
func (c *CLI) runRender(ctx context.Context, stdout, stderr io.Writer, opts pipeline.Options, input, output string, noCache bool) error {
	logger := loggerFromContext(ctx)

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	toStdout := output == "" && len(opts.Formats) == 1
	prog := newProgress(logger)

	if toStdout {
		result, err := runner.Execute(ctx, opts)
		if err != nil {
			return fmt.Errorf("render: %w", err)
		}
		if _, err := stdout.Write(result.Artifacts[opts.Formats[0]]); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		logger.Debug("wrote artifact", "format", opts.Formats[0], "bytes", len(result.Artifacts[opts.Formats[0]]))
		return nil
	}

	spinner := newSpinner(ctx, stderr, "Rendering formation...")
	spinner.Start()
	result, err := runner.Execute(ctx, opts)
	switch {
	case spinner.Interrupted():
		spinner.Fail("Render canceled")
		return fmt.Errorf("render: %w", ctx.Err())
	case err != nil:
		spinner.Fail("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Succeed("Rendered %d dancers", result.Stats.DancerCount)

	paths := outputPaths(opts.Formats, input, output)
	for _, format := range opts.Formats {
		if err := os.WriteFile(paths[format], result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", format, err)
		}
	}

	printStats(result.Stats, result.CacheInfo.RenderHit)
	for _, format := range opts.Formats {
		printFile(paths[format])
	}
	prog.done(fmt.Sprintf("Rendered %d format(s)", len(opts.Formats)))
	return nil
}

// outputPaths maps each format to its output file.
func outputPaths(formats []string, input, output string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, format := range formats {
		paths[format] = base + "." + format
	}
	return paths
}

// basePath derives the base output path from the output and input file paths.
// A known format extension on output is stripped; without output the input
// name minus its extension is used.
func basePath(output, input string) string {
	if output != "" {
		ext := filepath.Ext(output)
		if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
			return strings.TrimSuffix(output, ext)
		}
		return output
	}
	if input != "" && input != "-" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	return defaultBase
}
