package face

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// maxModelResponse caps how much of a model server response is read. A 512-d
// embedding encodes to well under 16 KiB of JSON.
const maxModelResponse = 1 << 20

// DeepFaceConfig configures a DeepFaceExtractor.
type DeepFaceConfig struct {
	// BaseURL of a DeepFace-compatible API, e.g. "http://127.0.0.1:5005".
	BaseURL string
	// Model is the embedding model name, e.g. "ArcFace".
	Model string
	// DetectorBackend is passed through to the detector ("opencv", "retinaface", ...).
	DetectorBackend string
	// Dim is the expected embedding length. 0 disables the check.
	Dim int
	// HTTPClient defaults to a client with a 30s timeout.
	HTTPClient *http.Client
}

// DeepFaceExtractor calls the /represent endpoint of a DeepFace API server.
type DeepFaceExtractor struct {
	cfg    DeepFaceConfig
	client *http.Client
}

func NewDeepFaceExtractor(cfg DeepFaceConfig) *DeepFaceExtractor {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Model == "" {
		cfg.Model = "ArcFace"
	}
	if cfg.DetectorBackend == "" {
		cfg.DetectorBackend = "opencv"
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &DeepFaceExtractor{cfg: cfg, client: client}
}

// Probe checks that the model server answers on its base URL. Any response
// below 500 counts as reachable.
func (e *DeepFaceExtractor) Probe(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.cfg.BaseURL+"/", nil)
	if err != nil {
		return fmt.Errorf("%w: deepface: build probe: %v", ErrModelUnavailable, err)
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: deepface: %v", ErrModelUnavailable, err)
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxModelResponse))
	resp.Body.Close()
	if resp.StatusCode >= 500 {
		return fmt.Errorf("%w: deepface: probe status %d", ErrModelUnavailable, resp.StatusCode)
	}
	return nil
}

type representRequest struct {
	Img              string `json:"img"`
	ModelName        string `json:"model_name"`
	DetectorBackend  string `json:"detector_backend"`
	EnforceDetection bool   `json:"enforce_detection"`
}

type facialArea struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type representation struct {
	Embedding      []float64  `json:"embedding"`
	FaceConfidence float64    `json:"face_confidence"`
	FacialArea     facialArea `json:"facial_area"`
}

type representResponse struct {
	Results []representation `json:"results"`
	Error   string           `json:"error"`
}

func (e *DeepFaceExtractor) Extract(ctx context.Context, img []byte) (Signature, error) {
	if err := checkImage(img); err != nil {
		return nil, err
	}

	body, err := json.Marshal(representRequest{
		Img:              "data:" + http.DetectContentType(img) + ";base64," + base64.StdEncoding.EncodeToString(img),
		ModelName:        e.cfg.Model,
		DetectorBackend:  e.cfg.DetectorBackend,
		EnforceDetection: true,
	})
	if err != nil {
		return nil, fmt.Errorf("deepface: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.cfg.BaseURL+"/represent", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: deepface: build request: %v", ErrModelUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: deepface: %v", ErrModelUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxModelResponse))
	if err != nil {
		return nil, fmt.Errorf("%w: deepface: read response: %v", ErrModelUnavailable, err)
	}

	var out representResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: deepface: status %d: undecodable body", ErrModelUnavailable, resp.StatusCode)
	}

	switch {
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: deepface: status %d: %s", ErrModelUnavailable, resp.StatusCode, out.Error)
	case resp.StatusCode >= 400:
		return nil, classifyDeepFaceError(resp.StatusCode, out.Error)
	}

	rep, err := predominant(out.Results)
	if err != nil {
		return nil, err
	}
	return finish(rep.Embedding, e.cfg.Dim)
}

// classifyDeepFaceError maps a 4xx body to a per-image failure. DeepFace
// reports detection problems as free text.
func classifyDeepFaceError(status int, msg string) error {
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "face could not be detected"),
		strings.Contains(lower, "no face"):
		return failure(NoFace, errors.New(msg))
	case strings.Contains(lower, "image"),
		strings.Contains(lower, "decode"):
		return failure(BadImage, errors.New(msg))
	}
	return fmt.Errorf("%w: deepface: status %d: %s", ErrModelUnavailable, status, msg)
}

// predominant picks the face with the largest area. Two or more faces
// sharing the largest area are ambiguous.
func predominant(reps []representation) (representation, error) {
	if len(reps) == 0 {
		return representation{}, failure(NoFace, errors.New("model returned no faces"))
	}
	best := 0
	tie := false
	for i := 1; i < len(reps); i++ {
		a := reps[i].FacialArea.W * reps[i].FacialArea.H
		b := reps[best].FacialArea.W * reps[best].FacialArea.H
		switch {
		case a > b:
			best, tie = i, false
		case a == b:
			tie = true
		}
	}
	if tie {
		return representation{}, failure(MultipleFaces, fmt.Errorf("%d faces of equal size", len(reps)))
	}
	return reps[best], nil
}
