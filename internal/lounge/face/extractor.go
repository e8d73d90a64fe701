package face

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// ErrModelUnavailable means the embedding model could not be reached or
// loaded. It is a configuration fault and must reach the operator.
var ErrModelUnavailable = errors.New("face: model unavailable")

// Extractor produces a Signature from a still image that is expected to hold
// one predominant face. Implementations may block for a long time; ctx only
// lets the caller abandon the call.
//
// Per-image failures are reported as *ExtractionError. Anything else
// (typically wrapping ErrModelUnavailable or ErrDimensionMismatch) is a
// configuration fault.
type Extractor interface {
	Extract(ctx context.Context, img []byte) (Signature, error)
}

// FailureKind classifies a per-image extraction failure.
type FailureKind int

const (
	NoFace FailureKind = iota + 1
	MultipleFaces
	BadImage
)

func (k FailureKind) String() string {
	switch k {
	case NoFace:
		return "no_face"
	case MultipleFaces:
		return "multiple_faces"
	case BadImage:
		return "bad_image"
	default:
		return "unknown"
	}
}

// Reason is the user-facing text for the failure.
func (k FailureKind) Reason() string {
	switch k {
	case NoFace:
		return "No face detected"
	case MultipleFaces:
		return "Multiple faces detected"
	case BadImage:
		return "Unreadable image"
	default:
		return "No face detected or extraction error"
	}
}

// ExtractionError is a per-image failure. It is recoverable: the caller
// turns it into a denial.
type ExtractionError struct {
	Kind FailureKind
	Err  error
}

func (e *ExtractionError) Error() string {
	if e.Err == nil {
		return "face: extraction failed: " + e.Kind.String()
	}
	return fmt.Sprintf("face: extraction failed: %s: %v", e.Kind, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

func failure(kind FailureKind, err error) error {
	return &ExtractionError{Kind: kind, Err: err}
}

// AsExtractionError reports whether err carries a per-image failure.
func AsExtractionError(err error) (*ExtractionError, bool) {
	var ee *ExtractionError
	if errors.As(err, &ee) {
		return ee, true
	}
	return nil, false
}

// IsConfigFault reports whether err is an operator-facing fault rather than
// a per-image failure.
func IsConfigFault(err error) bool {
	if err == nil {
		return false
	}
	if _, ok := AsExtractionError(err); ok {
		return false
	}
	return true
}

// checkImage rejects uploads that are not a decodable JPEG, PNG or GIF
// before any model work happens.
func checkImage(img []byte) error {
	_, err := decodeImage(img)
	return err
}

// decodeImage fully decodes img. A valid header over a corrupt or truncated
// body is BadImage too.
func decodeImage(img []byte) (image.Image, error) {
	if len(img) == 0 {
		return nil, failure(BadImage, errors.New("empty image"))
	}
	decoded, _, err := image.Decode(bytes.NewReader(img))
	if err != nil {
		return nil, failure(BadImage, err)
	}
	if b := decoded.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		return nil, failure(BadImage, errors.New("zero-sized image"))
	}
	return decoded, nil
}

// Prober is implemented by extractors that can check their model backend
// without an image.
type Prober interface {
	Probe(ctx context.Context) error
}

var (
	_ Prober = (*DeepFaceExtractor)(nil)
	_ Prober = (*GRPCExtractor)(nil)
)

// Probe checks ex's backend when it has one. Extractors without a backend
// always pass.
func Probe(ctx context.Context, ex Extractor) error {
	p, ok := ex.(Prober)
	if !ok {
		return nil
	}
	return p.Probe(ctx)
}

// finish normalises a raw embedding and checks it against the configured
// dimension. dim <= 0 disables the check.
func finish(raw []float64, dim int) (Signature, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: model returned an empty embedding", ErrModelUnavailable)
	}
	if dim > 0 && len(raw) != dim {
		return nil, fmt.Errorf("%w: model returned %d values, configured %d", ErrDimensionMismatch, len(raw), dim)
	}
	return Signature(raw).Normalize(), nil
}
