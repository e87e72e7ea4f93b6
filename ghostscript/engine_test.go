package ghostscript

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

type fakeRunner struct {
	runFunc func(ctx context.Context, name string, args ...string) ([]byte, error)
}

func (r *fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return r.runFunc(ctx, name, args...)
}

func TestEngine_Convert_Arguments(t *testing.T) {
	var gotName string
	var gotArgs []string

	engine := NewEngine("gs", time.Minute, 2, zaptest.NewLogger(t))
	engine.Runner = &fakeRunner{
		runFunc: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			gotName = name
			gotArgs = args
			return nil, nil
		},
	}

	err := engine.Convert(context.Background(), "uploads/abc.ps", "uploads/abc.pdf", "output/def.pdf", 600)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	if gotName != "gs" {
		t.Errorf("Expected gs binary, got %q", gotName)
	}

	joined := strings.Join(gotArgs, " ")
	for _, want := range []string{
		"-sDEVICE=pdfwrite",
		"-dPDFSETTINGS=/prepress",
		"-dCompatibilityLevel=1.4",
		"-r600x600",
		"-dFIXEDMEDIA",
		"-sColorConversionStrategy=LeaveColorUnchanged",
		"-sOutputFile=output/def.pdf",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("Expected %q in args %q", want, joined)
		}
	}

	// the override script must precede the input document
	n := len(gotArgs)
	if n < 2 || gotArgs[n-2] != "uploads/abc.ps" || gotArgs[n-1] != "uploads/abc.pdf" {
		t.Errorf("Expected script then input as final args, got %v", gotArgs)
	}
}

func TestEngine_Convert_ResolutionMatchesDPI(t *testing.T) {
	for _, dpi := range []int{72, 300, 2400} {
		var gotArgs []string

		engine := NewEngine("gs", time.Minute, 1, zaptest.NewLogger(t))
		engine.Runner = &fakeRunner{
			runFunc: func(ctx context.Context, name string, args ...string) ([]byte, error) {
				gotArgs = args
				return nil, nil
			},
		}

		if err := engine.Convert(context.Background(), "s.ps", "in.pdf", "out.pdf", dpi); err != nil {
			t.Fatalf("Convert failed: %v", err)
		}

		want := fmt.Sprintf("-r%dx%d", dpi, dpi)
		if !strings.Contains(strings.Join(gotArgs, " "), want) {
			t.Errorf("Expected %q in args", want)
		}
	}
}

func TestEngine_Convert_FailureIncludesOutput(t *testing.T) {
	engine := NewEngine("gs", time.Minute, 1, zaptest.NewLogger(t))
	engine.Runner = &fakeRunner{
		runFunc: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return []byte("GPL Ghostscript: Unrecoverable error"), errors.New("exit status 1")
		},
	}

	err := engine.Convert(context.Background(), "s.ps", "in.pdf", "out.pdf", 300)
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if !strings.Contains(err.Error(), "Unrecoverable error") {
		t.Errorf("Expected diagnostic output in error, got %v", err)
	}
}

func TestEngine_Convert_Timeout(t *testing.T) {
	engine := NewEngine("gs", 20*time.Millisecond, 1, zaptest.NewLogger(t))
	engine.Runner = &fakeRunner{
		runFunc: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}

	err := engine.Convert(context.Background(), "s.ps", "in.pdf", "out.pdf", 300)
	if err == nil {
		t.Fatal("Expected timeout error, got nil")
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Errorf("Expected timeout error, got %v", err)
	}
}

func TestEngine_Convert_BoundsConcurrency(t *testing.T) {
	var current, peak int32

	engine := NewEngine("gs", time.Minute, 2, zaptest.NewLogger(t))
	engine.Runner = &fakeRunner{
		runFunc: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			n := atomic.AddInt32(&current, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			atomic.AddInt32(&current, -1)
			return nil, nil
		},
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := engine.Convert(context.Background(), "s.ps", "in.pdf", "out.pdf", 300); err != nil {
				t.Errorf("Convert failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if p := atomic.LoadInt32(&peak); p > 2 {
		t.Errorf("Expected at most 2 concurrent invocations, saw %d", p)
	}
}
