package face

import (
	"fmt"
	"net/http"
)

// Extractor kinds accepted by New.
const (
	KindDeepFace      = "deepface"
	KindGRPC          = "grpc"
	KindDeterministic = "deterministic"
)

// Options selects and configures an Extractor at startup.
type Options struct {
	Kind string
	// Production refuses the deterministic extractor.
	Production bool

	Model           string
	Dim             int
	DeepFaceURL     string
	DetectorBackend string
	GRPCAddr        string
	HTTPClient      *http.Client
}

// New builds the extractor named by opts.Kind. The choice is always explicit;
// there is no fallback when a model is missing.
func New(opts Options) (Extractor, error) {
	switch opts.Kind {
	case KindDeepFace:
		if opts.DeepFaceURL == "" {
			return nil, fmt.Errorf("face: %s extractor needs a base URL", KindDeepFace)
		}
		return NewDeepFaceExtractor(DeepFaceConfig{
			BaseURL:         opts.DeepFaceURL,
			Model:           opts.Model,
			DetectorBackend: opts.DetectorBackend,
			Dim:             opts.Dim,
			HTTPClient:      opts.HTTPClient,
		}), nil
	case KindGRPC:
		if opts.GRPCAddr == "" {
			return nil, fmt.Errorf("face: %s extractor needs an address", KindGRPC)
		}
		return NewGRPCExtractor(GRPCConfig{
			Addr:  opts.GRPCAddr,
			Model: opts.Model,
			Dim:   opts.Dim,
		})
	case KindDeterministic:
		if opts.Production {
			return nil, fmt.Errorf("face: %s extractor is not allowed in production", KindDeterministic)
		}
		return NewDeterministicExtractor(opts.Dim), nil
	default:
		return nil, fmt.Errorf("face: unknown extractor kind %q", opts.Kind)
	}
}
