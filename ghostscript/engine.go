package ghostscript

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	"go.uber.org/zap"
)

// Runner abstracts subprocess execution so the engine can be tested
// without a real Ghostscript install.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Engine invokes the Ghostscript binary once per conversion attempt. A
// process-wide semaphore bounds how many subprocesses run at the same
// time; each invocation is bounded by a timeout and killed on expiry.
type Engine struct {
	// Runner is swappable for tests; NewEngine installs the real one.
	Runner Runner

	bin     string
	timeout time.Duration
	sem     chan struct{}
	logger  *zap.Logger
}

func NewEngine(bin string, timeout time.Duration, maxConcurrent int, logger *zap.Logger) *Engine {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Engine{
		Runner:  execRunner{},
		bin:     bin,
		timeout: timeout,
		sem:     make(chan struct{}, maxConcurrent),
		logger:  logger,
	}
}

// Convert rewrites one PDF: the override script and the input file are the
// ordered inputs, the rewritten document lands at outputPath. A non-zero
// exit surfaces with the process's diagnostic output attached.
func (e *Engine) Convert(ctx context.Context, scriptPath, inputPath, outputPath string, dpi int) error {
	select {
	case e.sem <- struct{}{}:
		defer func() { <-e.sem }()
	case <-ctx.Done():
		return ctx.Err()
	}

	runCtx := ctx
	if e.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	args := []string{
		"-sDEVICE=pdfwrite",
		"-dCompatibilityLevel=1.4",
		"-dPDFSETTINGS=/prepress",
		"-dNOPAUSE",
		"-dBATCH",
		"-dQUIET",
		fmt.Sprintf("-r%dx%d", dpi, dpi),
		"-dFIXEDMEDIA",
		"-sColorConversionStrategy=LeaveColorUnchanged",
		"-sOutputFile=" + outputPath,
		scriptPath,
		inputPath,
	}

	e.logger.Info("Invoking ghostscript",
		zap.String("input", inputPath),
		zap.String("output", outputPath),
		zap.Int("dpi", dpi),
	)

	start := time.Now()
	output, err := e.Runner.Run(runCtx, e.bin, args...)
	if err != nil {
		if runCtx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("ghostscript timed out after %s", e.timeout)
		}
		return fmt.Errorf("ghostscript failed: %v, output: %s", err, output)
	}

	e.logger.Info("Ghostscript completed",
		zap.String("output", outputPath),
		zap.Duration("duration", time.Since(start)),
	)

	return nil
}
