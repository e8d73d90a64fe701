package service

import (
	"context"
	"time"

	"github.com/harshimysarla/LuxeAI/internal/lounge/face"
	"github.com/harshimysarla/LuxeAI/internal/metrics"
)

type instrumentedExtractor struct {
	next    face.Extractor
	metrics metrics.MetricsCollector
}

// InstrumentExtractor records latency and outcome of every extraction.
func InstrumentExtractor(ex face.Extractor, m metrics.MetricsCollector) face.Extractor {
	if m == nil {
		return ex
	}
	return &instrumentedExtractor{next: ex, metrics: m}
}

func (e *instrumentedExtractor) Extract(ctx context.Context, img []byte) (face.Signature, error) {
	start := time.Now()
	sig, err := e.next.Extract(ctx, img)

	outcome := "ok"
	if err != nil {
		if ee, ok := face.AsExtractionError(err); ok {
			outcome = ee.Kind.String()
		} else {
			outcome = "error"
		}
	}
	e.metrics.RecordExtraction(outcome, time.Since(start))
	return sig, err
}

// extractWithin bounds an extraction by timeout. An expired deadline is a
// model fault, not a per-user failure.
func extractWithin(ctx context.Context, timeout time.Duration, fn func(ctx context.Context) error) error {
	if timeout <= 0 {
		return fn(ctx)
	}
	tctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := fn(tctx)
	if err != nil && tctx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
		return &timeoutError{timeout: timeout, err: err}
	}
	return err
}

type timeoutError struct {
	timeout time.Duration
	err     error
}

func (e *timeoutError) Error() string {
	return "extraction timed out after " + e.timeout.String() + ": " + e.err.Error()
}

// Is lets callers treat a timeout as the model being unavailable.
func (e *timeoutError) Is(target error) bool { return target == face.ErrModelUnavailable }

func (e *timeoutError) Unwrap() error { return e.err }
