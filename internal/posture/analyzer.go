package posture

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"

	"github.com/gabriel-vasile/mimetype"

	"lifesync/pkg/logger"
)

// MaxUploadBytes caps uploaded photos at 10 MB.
const MaxUploadBytes = 10 << 20

// MaxImageSide caps the declared width and height, checked before the bitmap is decoded.
const MaxImageSide = 4096

var (
	ErrEmptyUpload    = errors.New("no image uploaded")
	ErrUploadTooLarge = errors.New("image is larger than 10MB or 4096x4096 pixels")
	ErrNotAnImage     = errors.New("only PNG and JPEG images are supported")
)

// Result is what the analysis returns to the caller.
type Result struct {
	Mode      Mode       `json:"mode"`
	Keypoints []Keypoint `json:"keypoints,omitempty"`
	Feedback  []Advice   `json:"feedback"`
	// Overlay is a PNG data URL with keypoints and skeleton drawn over the photo.
	Overlay string `json:"overlay,omitempty"`
}

type Analyzer struct {
	estimator Estimator
	logger    *logger.Logger
}

// NewAnalyzer wires the rules to an estimator. A nil estimator makes every image analysis fail softly.
func NewAnalyzer(estimator Estimator, l *logger.Logger) *Analyzer {
	return &Analyzer{estimator: estimator, logger: l}
}

// AnalyzeKeypoints scores keypoints the client already detected.
func (a *Analyzer) AnalyzeKeypoints(mode Mode, keypoints []Keypoint) *Result {
	return &Result{
		Mode:      mode,
		Keypoints: keypoints,
		Feedback:  Analyze(mode, keypoints),
	}
}

// AnalyzeImage validates the upload, estimates the pose and scores it.
// Only an invalid upload is returned as an error; estimator failures yield Failed() feedback.
func (a *Analyzer) AnalyzeImage(ctx context.Context, mode Mode, data []byte) (*Result, error) {
	img, contentType, err := DecodeUpload(data)
	if err != nil {
		return nil, err
	}

	if a.estimator == nil {
		a.logger.Warnw("pose estimator not configured")
		return &Result{Mode: mode, Feedback: Failed()}, nil
	}

	keypoints, err := a.estimator.Estimate(ctx, data, contentType)
	if err != nil {
		a.logger.Errorw("pose estimation failed", "error", err, "mode", mode)
		return &Result{Mode: mode, Feedback: Failed()}, nil
	}

	res := a.AnalyzeKeypoints(mode, keypoints)

	overlay, err := encodeOverlay(Render(img, keypoints))
	if err != nil {
		a.logger.Warnw("failed to encode overlay", "error", err)
	} else {
		res.Overlay = overlay
	}
	return res, nil
}

// DecodeUpload checks size and sniffed type, then decodes the image.
func DecodeUpload(data []byte) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", ErrEmptyUpload
	}
	if len(data) > MaxUploadBytes {
		return nil, "", ErrUploadTooLarge
	}

	mt := mimetype.Detect(data)
	if !mt.Is("image/png") && !mt.Is("image/jpeg") {
		return nil, "", ErrNotAnImage
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrNotAnImage, err)
	}
	if cfg.Width > MaxImageSide || cfg.Height > MaxImageSide {
		return nil, "", ErrUploadTooLarge
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrNotAnImage, err)
	}
	return img, mt.String(), nil
}

func encodeOverlay(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
