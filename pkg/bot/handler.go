package bot

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/formationbot/pkg/formation"
	"github.com/matzehuels/formationbot/pkg/observability"
	"github.com/matzehuels/formationbot/pkg/pipeline"
)

// Attachment is a rendered image ready to upload.
type Attachment struct {
	Name        string
	ContentType string
	Data        []byte
}

// Handler turns message text into images. It knows nothing about the chat
// platform.
type Handler struct {
	Tags        Tags
	Runner      *pipeline.Runner
	Options     pipeline.Options // template; Notation and Formats are set per snippet
	MaxParallel int
	Logger      *log.Logger
}

// NewHandler returns a handler configured from cfg.
func NewHandler(cfg *Config, runner *pipeline.Runner, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Handler{
		Tags:        cfg.Tags(),
		Runner:      runner,
		Options:     cfg.PipelineOptions(),
		MaxParallel: cfg.MaxParallel,
		Logger:      logger,
	}
}

// Handle renders every formation snippet in text to PNG. Snippets without
// dancers are skipped. A failed rasterization is logged and skips only that
// image. Attachments keep snippet order and are numbered over the images
// actually produced.
func (h *Handler) Handle(ctx context.Context, text string) []Attachment {
	snippets := h.Tags.Extract(text)
	observability.Bot().OnMessage(ctx, len(snippets))
	if len(snippets) == 0 {
		return nil
	}

	logger := h.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	logger = logger.With("batch", uuid.NewString())
	logger.Debug("found formations", "count", len(snippets))

	runner := h.Runner
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}

	images := make([][]byte, len(snippets))
	var g errgroup.Group
	if h.MaxParallel > 0 {
		g.SetLimit(h.MaxParallel)
	}
	for i, snippet := range snippets {
		if formation.Parse(snippet).IsEmpty() {
			logger.Debug("skipping formation without dancers", "index", i)
			continue
		}
		g.Go(func() error {
			opts := h.Options
			opts.Notation = snippet
			opts.Formats = []string{pipeline.FormatPNG}
			opts.Logger = logger

			res, err := runner.Execute(ctx, opts)
			if err != nil {
				logger.Error("failed to render formation", "index", i, "error", err)
				return nil
			}
			images[i] = res.Artifacts[pipeline.FormatPNG]
			return nil
		})
	}
	_ = g.Wait()

	var out []Attachment
	for _, img := range images {
		if img == nil {
			continue
		}
		out = append(out, Attachment{
			Name:        fmt.Sprintf("formation-%d.png", len(out)),
			ContentType: "image/png",
			Data:        img,
		})
	}
	return out
}
