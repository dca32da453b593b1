package posture

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"lifesync/pkg/logger"
)

func blankPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

type fakeEstimator struct {
	keypoints []Keypoint
	err       error
	gotType   string
}

func (f *fakeEstimator) Estimate(_ context.Context, _ []byte, contentType string) ([]Keypoint, error) {
	f.gotType = contentType
	return f.keypoints, f.err
}

func TestRenderDrawsVisibleKeypointsAndLimbs(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 50, 50))
	keypoints := []Keypoint{
		{Part: LeftShoulder, Position: Point{X: 10, Y: 25}, Score: 0.9},
		{Part: RightShoulder, Position: Point{X: 40, Y: 25}, Score: 0.3},
		{Part: LeftHip, Position: Point{X: 10, Y: 45}, Score: 0.1},
	}

	out := Render(src, keypoints)

	if got := out.RGBAAt(10, 25); got != OverlayColor {
		t.Errorf("keypoint pixel: got %v, want %v", got, OverlayColor)
	}
	if got := out.RGBAAt(25, 25); got != OverlayColor {
		t.Errorf("limb pixel: got %v, want %v", got, OverlayColor)
	}
	if got := out.RGBAAt(10, 45); got == OverlayColor {
		t.Error("keypoint below the draw score was drawn")
	}
	if got := src.RGBAAt(10, 25); got == OverlayColor {
		t.Error("Render must not modify the source image")
	}
}

func TestRenderClipsOutOfBounds(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 10, 10))
	keypoints := []Keypoint{
		{Part: LeftShoulder, Position: Point{X: -20, Y: 5}, Score: 0.9},
		{Part: RightShoulder, Position: Point{X: 30, Y: 5}, Score: 0.9},
	}
	out := Render(src, keypoints)
	if got := out.RGBAAt(5, 5); got != OverlayColor {
		t.Errorf("line crossing the image: got %v", got)
	}
}

func TestRenderFarKeypoints(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 10, 10))
	keypoints := []Keypoint{
		{Part: LeftShoulder, Position: Point{X: -1e12, Y: 5}, Score: 0.9},
		{Part: RightShoulder, Position: Point{X: 1e12, Y: 5}, Score: 0.9},
		{Part: LeftElbow, Position: Point{X: math.NaN(), Y: 3}, Score: 0.9},
		{Part: LeftWrist, Position: Point{X: 4, Y: math.Inf(1)}, Score: 0.9},
	}
	out := Render(src, keypoints)
	if got := out.RGBAAt(5, 5); got != OverlayColor {
		t.Errorf("clipped line: got %v", got)
	}
	if got := out.RGBAAt(5, 0); got == OverlayColor {
		t.Errorf("non-finite keypoints must not be drawn")
	}
}

func TestClipSegment(t *testing.T) {
	r := image.Rect(0, 0, 10, 10)
	if _, _, ok := clipSegment(Point{X: -5, Y: -5}, Point{X: -1, Y: 20}, r); ok {
		t.Error("segment left of the image must be dropped")
	}
	a, b, ok := clipSegment(Point{X: -100, Y: 2}, Point{X: 100, Y: 2}, r)
	if !ok {
		t.Fatal("crossing segment dropped")
	}
	if math.Abs(a.X) > 1e-9 || math.Abs(b.X-9) > 1e-9 || a.Y != 2 || b.Y != 2 {
		t.Errorf("clipped to %v-%v", a, b)
	}
}

// hugePNG returns a 1x1 PNG whose header claims w x h.
func hugePNG(t *testing.T, w, h uint32) []byte {
	t.Helper()
	data := blankPNG(t, 1, 1)
	binary.BigEndian.PutUint32(data[16:20], w)
	binary.BigEndian.PutUint32(data[20:24], h)
	binary.BigEndian.PutUint32(data[29:33], crc32.ChecksumIEEE(data[12:29]))
	return data
}

func TestDecodeUploadPixelCap(t *testing.T) {
	if _, _, err := DecodeUpload(hugePNG(t, 20000, 20000)); !errors.Is(err, ErrUploadTooLarge) {
		t.Errorf("20000x20000: got %v", err)
	}
	if _, _, err := DecodeUpload(hugePNG(t, MaxImageSide+1, 1)); !errors.Is(err, ErrUploadTooLarge) {
		t.Errorf("wide: got %v", err)
	}
	if _, _, err := DecodeUpload(blankPNG(t, 16, 16)); err != nil {
		t.Errorf("small image rejected: %v", err)
	}
}

func TestDecodeUpload(t *testing.T) {
	if _, _, err := DecodeUpload(nil); !errors.Is(err, ErrEmptyUpload) {
		t.Errorf("empty: got %v", err)
	}
	if _, _, err := DecodeUpload([]byte("hello, not an image")); !errors.Is(err, ErrNotAnImage) {
		t.Errorf("text: got %v", err)
	}
	if _, _, err := DecodeUpload(make([]byte, MaxUploadBytes+1)); !errors.Is(err, ErrUploadTooLarge) {
		t.Errorf("large: got %v", err)
	}

	img, contentType, err := DecodeUpload(blankPNG(t, 4, 3))
	if err != nil {
		t.Fatalf("png: %v", err)
	}
	if contentType != "image/png" {
		t.Errorf("content type: got %q", contentType)
	}
	if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 3 {
		t.Errorf("bounds: got %v", b)
	}
}

func TestAnalyzeImageEstimatorFailure(t *testing.T) {
	est := &fakeEstimator{err: errors.New("model unavailable")}
	a := NewAnalyzer(est, logger.NewNop())

	res, err := a.AnalyzeImage(context.Background(), ModeSquat, blankPNG(t, 8, 8))
	if err != nil {
		t.Fatalf("estimator failure must not be returned as an error: %v", err)
	}
	if len(res.Feedback) != 1 || res.Feedback[0].Status != StatusError {
		t.Errorf("expected single error entry, got %+v", res.Feedback)
	}
	if res.Overlay != "" {
		t.Error("no overlay expected on failure")
	}
}

func TestAnalyzeImageWithoutEstimator(t *testing.T) {
	a := NewAnalyzer(nil, logger.NewNop())
	res, err := a.AnalyzeImage(context.Background(), ModePosture, blankPNG(t, 8, 8))
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Feedback) != 1 || res.Feedback[0].Status != StatusError {
		t.Errorf("got %+v", res.Feedback)
	}
}

func TestAnalyzeImageSuccess(t *testing.T) {
	est := &fakeEstimator{keypoints: uprightPose()}
	a := NewAnalyzer(est, logger.NewNop())

	res, err := a.AnalyzeImage(context.Background(), ModePosture, blankPNG(t, 300, 450))
	if err != nil {
		t.Fatal(err)
	}
	if est.gotType != "image/png" {
		t.Errorf("estimator content type: got %q", est.gotType)
	}
	if len(res.Feedback) != 1 || res.Feedback[0].Status != StatusOK {
		t.Errorf("feedback: got %+v", res.Feedback)
	}
	if !strings.HasPrefix(res.Overlay, "data:image/png;base64,") {
		t.Errorf("overlay: got prefix %.30q", res.Overlay)
	}
}

func TestAnalyzeImageRejectsBadUpload(t *testing.T) {
	a := NewAnalyzer(&fakeEstimator{}, logger.NewNop())
	if _, err := a.AnalyzeImage(context.Background(), ModePosture, []byte("GIF89a")); err == nil {
		t.Error("expected an error for a non-image upload")
	}
}

func TestRemoteEstimator(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method: got %s", r.Method)
		}
		q := r.URL.Query()
		if q.Get("architecture") != "ResNet50" || q.Get("outputStride") != "32" ||
			q.Get("inputResolution") != "256" || q.Get("quantBytes") != "2" {
			t.Errorf("model config not forwarded: %v", q)
		}
		if r.Header.Get("Content-Type") != "image/png" {
			t.Errorf("content type: got %q", r.Header.Get("Content-Type"))
		}
		_ = json.NewEncoder(w).Encode(estimateResponse{
			Score:     0.8,
			Keypoints: []Keypoint{{Part: Nose, Position: Point{X: 1, Y: 2}, Score: 0.99}},
		})
	}))
	defer srv.Close()

	est := NewRemoteEstimator(srv.URL+"/estimate", DefaultModel, 5*time.Second)
	keypoints, err := est.Estimate(context.Background(), []byte{1, 2, 3}, "image/png")
	if err != nil {
		t.Fatal(err)
	}
	if len(keypoints) != 1 || keypoints[0].Part != Nose || keypoints[0].Position.Y != 2 {
		t.Errorf("keypoints: got %+v", keypoints)
	}
}

func TestRemoteEstimatorErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantNo  bool
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}, false},
		{"bad json", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("{"))
		}, false},
		{"no keypoints", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"score":0,"keypoints":[]}`))
		}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			est := NewRemoteEstimator(srv.URL, DefaultModel, time.Second)
			_, err := est.Estimate(context.Background(), []byte{1}, "image/jpeg")
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.wantNo && !errors.Is(err, ErrNoPose) {
				t.Errorf("expected ErrNoPose, got %v", err)
			}
		})
	}
}
