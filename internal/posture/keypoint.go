// Package posture turns detected body keypoints into posture and exercise-form advice.
package posture

import (
	"fmt"
	"math"
	"strings"
)

// Body part names as emitted by the pose model.
const (
	Nose          = "nose"
	LeftEye       = "leftEye"
	RightEye      = "rightEye"
	LeftEar       = "leftEar"
	RightEar      = "rightEar"
	LeftShoulder  = "leftShoulder"
	RightShoulder = "rightShoulder"
	LeftElbow     = "leftElbow"
	RightElbow    = "rightElbow"
	LeftWrist     = "leftWrist"
	RightWrist    = "rightWrist"
	LeftHip       = "leftHip"
	RightHip      = "rightHip"
	LeftKnee      = "leftKnee"
	RightKnee     = "rightKnee"
	LeftAnkle     = "leftAnkle"
	RightAnkle    = "rightAnkle"
)

const (
	// AcceptScore is the confidence a keypoint needs before any rule will use it.
	AcceptScore = 0.5
	// DrawScore is the lower confidence used when drawing the overlay.
	DrawScore = 0.2
)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Keypoint struct {
	Part     string  `json:"part"`
	Position Point   `json:"position"`
	Score    float64 `json:"score"`
}

// Usable reports whether kp is confident enough to be used by the rules.
func Usable(kp Keypoint) bool {
	return kp.Score > AcceptScore
}

// Pose indexes usable keypoints by part name.
type Pose map[string]Point

// NewPose keeps only the usable keypoints. A part reported twice keeps the first usable one.
func NewPose(keypoints []Keypoint) Pose {
	p := make(Pose, len(keypoints))
	for _, kp := range keypoints {
		if !Usable(kp) {
			continue
		}
		if _, seen := p[kp.Part]; !seen {
			p[kp.Part] = kp.Position
		}
	}
	return p
}

// Find returns the position of part if it was usable.
func (p Pose) Find(part string) (Point, bool) {
	pt, ok := p[part]
	return pt, ok
}

// Joint returns the right-side part, measured only when the left side is usable too.
func (p Pose) Joint(left, right string) (Point, bool) {
	if _, ok := p[left]; !ok {
		return Point{}, false
	}
	r, ok := p[right]
	return r, ok
}

func Midpoint(a, b Point) Point {
	return Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

// Angle returns the included angle at b, in degrees, formed by a-b-c. The result is in [0, 180].
func Angle(a, b, c Point) float64 {
	radians := math.Atan2(c.Y-b.Y, c.X-b.X) - math.Atan2(a.Y-b.Y, a.X-b.X)
	angle := math.Abs(radians * 180.0 / math.Pi)
	if angle > 180.0 {
		angle = 360 - angle
	}
	return angle
}

type Mode string

const (
	ModePosture  Mode = "posture"
	ModeSquat    Mode = "squat"
	ModePushup   Mode = "pushup"
	ModeDeadlift Mode = "deadlift"
)

// ParseMode maps a form value to a Mode. Empty means general posture.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModePosture, nil
	case ModePosture, ModeSquat, ModePushup, ModeDeadlift:
		return m, nil
	default:
		return "", fmt.Errorf("unknown analysis type %q", s)
	}
}
