package converter

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"pdfNormalizer/ghostscript"
	"pdfNormalizer/storage"
)

// DPI policy for the whole pipeline.
const (
	DefaultDPI = 300
	MinDPI     = 72
	MaxDPI     = 2400
)

// Engine is the external rewriting tool, seen as a synchronous call: the
// exit status and captured diagnostics are the response.
type Engine interface {
	Convert(ctx context.Context, scriptPath, inputPath, outputPath string, dpi int) error
}

type Result struct {
	OriginalName string
	OutputName   string
	OutputPath   string
	DPI          int
}

// Converter runs one conversion attempt end to end: override-script write,
// engine invocation, and unconditional cleanup of the script and the
// staged input on every exit path.
type Converter struct {
	engine Engine
	store  *storage.Store
	logger *zap.Logger
}

func New(engine Engine, store *storage.Store, logger *zap.Logger) *Converter {
	return &Converter{
		engine: engine,
		store:  store,
		logger: logger,
	}
}

// ConvertFile rewrites one staged input to the target DPI. The token names
// both the output file and the override script, so concurrent attempts
// never share a script path. The staged input is removed whether the
// attempt succeeds or fails; the script is removed once written.
func (c *Converter) ConvertFile(ctx context.Context, file storage.StagedFile, token string, dpi int) (Result, error) {
	defer c.store.Discard(file.Path)

	outputName := token + ".pdf"
	scriptPath := c.store.ScriptPath(token)
	outputPath := c.store.OutputPath(outputName)

	if err := os.WriteFile(scriptPath, []byte(ghostscript.OverrideScript(dpi)), 0o600); err != nil {
		return Result{}, fmt.Errorf("write override script: %w", err)
	}
	defer c.store.Discard(scriptPath)

	if err := c.engine.Convert(ctx, scriptPath, file.Path, outputPath, dpi); err != nil {
		return Result{}, fmt.Errorf("convert %s: %w", file.OriginalName, err)
	}

	c.logger.Info("File converted",
		zap.String("original", file.OriginalName),
		zap.String("output", outputName),
		zap.Int("dpi", dpi),
	)

	return Result{
		OriginalName: file.OriginalName,
		OutputName:   outputName,
		OutputPath:   outputPath,
		DPI:          dpi,
	}, nil
}
