package face

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	// EmbedderService is the gRPC service name of the model sidecar.
	EmbedderService = "luxe.face.v1.Embedder"
	// RepresentMethod takes and returns google.protobuf.Struct messages
	// shaped like the DeepFace /represent JSON.
	RepresentMethod = "/" + EmbedderService + "/Represent"
)

// GRPCConfig configures a GRPCExtractor.
type GRPCConfig struct {
	Addr  string
	Model string
	Dim   int
	// DialOptions replace the default insecure transport when set.
	DialOptions []grpc.DialOption
}

// GRPCExtractor calls an embedding sidecar over gRPC.
type GRPCExtractor struct {
	conn   *grpc.ClientConn
	health healthpb.HealthClient
	model  string
	dim    int
}

func NewGRPCExtractor(cfg GRPCConfig) (*GRPCExtractor, error) {
	opts := cfg.DialOptions
	if len(opts) == 0 {
		opts = []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}
	}
	conn, err := grpc.NewClient(cfg.Addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: grpc dial %s: %v", ErrModelUnavailable, cfg.Addr, err)
	}
	model := cfg.Model
	if model == "" {
		model = "ArcFace"
	}
	return &GRPCExtractor{
		conn:   conn,
		health: healthpb.NewHealthClient(conn),
		model:  model,
		dim:    cfg.Dim,
	}, nil
}

// Probe checks the sidecar through the standard gRPC health service.
func (e *GRPCExtractor) Probe(ctx context.Context) error {
	resp, err := e.health.Check(ctx, &healthpb.HealthCheckRequest{Service: EmbedderService})
	if err != nil {
		return fmt.Errorf("%w: health check: %v", ErrModelUnavailable, err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return fmt.Errorf("%w: embedder status %s", ErrModelUnavailable, resp.GetStatus())
	}
	return nil
}

func (e *GRPCExtractor) Close() error { return e.conn.Close() }

func (e *GRPCExtractor) Extract(ctx context.Context, img []byte) (Signature, error) {
	if err := checkImage(img); err != nil {
		return nil, err
	}

	req, err := structpb.NewStruct(map[string]any{
		"img":               base64.StdEncoding.EncodeToString(img),
		"model_name":        e.model,
		"enforce_detection": true,
	})
	if err != nil {
		return nil, fmt.Errorf("grpc extractor: build request: %w", err)
	}

	resp := &structpb.Struct{}
	if err := e.conn.Invoke(ctx, RepresentMethod, req, resp); err != nil {
		return nil, classifyGRPCError(err)
	}

	// The Struct mirrors the JSON body, so decode it the same way.
	raw, err := json.Marshal(resp.AsMap())
	if err != nil {
		return nil, fmt.Errorf("%w: grpc extractor: %v", ErrModelUnavailable, err)
	}
	var out representResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: grpc extractor: malformed response: %v", ErrModelUnavailable, err)
	}

	rep, err := predominant(out.Results)
	if err != nil {
		return nil, err
	}
	return finish(rep.Embedding, e.dim)
}

func classifyGRPCError(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("%w: grpc extractor: %v", ErrModelUnavailable, err)
	}
	switch st.Code() {
	case codes.NotFound, codes.FailedPrecondition:
		return failure(NoFace, errors.New(st.Message()))
	case codes.InvalidArgument:
		return classifyDeepFaceError(400, st.Message())
	default:
		return fmt.Errorf("%w: grpc extractor: %s: %s", ErrModelUnavailable, st.Code(), st.Message())
	}
}
