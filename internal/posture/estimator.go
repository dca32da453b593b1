package posture

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Estimator detects body keypoints in an image.
type Estimator interface {
	Estimate(ctx context.Context, image []byte, contentType string) ([]Keypoint, error)
}

// ModelConfig is the fixed configuration the pose network is loaded with.
type ModelConfig struct {
	Architecture    string
	OutputStride    int
	InputResolution int
	QuantBytes      int
}

// DefaultModel matches the network the feedback thresholds were tuned against.
var DefaultModel = ModelConfig{
	Architecture:    "ResNet50",
	OutputStride:    32,
	InputResolution: 256,
	QuantBytes:      2,
}

var ErrNoPose = errors.New("no pose detected")

// RemoteEstimator calls a hosted pose-estimation model over HTTP.
type RemoteEstimator struct {
	endpoint string
	model    ModelConfig
	client   *http.Client
}

func NewRemoteEstimator(endpoint string, model ModelConfig, timeout time.Duration) *RemoteEstimator {
	return &RemoteEstimator{
		endpoint: endpoint,
		model:    model,
		client:   &http.Client{Timeout: timeout},
	}
}

type estimateResponse struct {
	Score     float64    `json:"score"`
	Keypoints []Keypoint `json:"keypoints"`
}

func (e *RemoteEstimator) Estimate(ctx context.Context, image []byte, contentType string) ([]Keypoint, error) {
	u, err := url.Parse(e.endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid pose endpoint: %w", err)
	}
	q := u.Query()
	q.Set("architecture", e.model.Architecture)
	q.Set("outputStride", strconv.Itoa(e.model.OutputStride))
	q.Set("inputResolution", strconv.Itoa(e.model.InputResolution))
	q.Set("quantBytes", strconv.Itoa(e.model.QuantBytes))
	q.Set("flipHorizontal", "false")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(image))
	if err != nil {
		return nil, fmt.Errorf("failed to build pose request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pose request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("pose model returned %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	var out estimateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode pose response: %w", err)
	}
	if len(out.Keypoints) == 0 {
		return nil, ErrNoPose
	}
	return out.Keypoints, nil
}
