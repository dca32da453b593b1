package posture

import (
	"image"
	"image/color"
	"image/draw"
	"math"
)

// Skeleton is the set of limb connections drawn between keypoints.
var Skeleton = [][2]string{
	{LeftShoulder, RightShoulder},
	{LeftShoulder, LeftElbow},
	{LeftElbow, LeftWrist},
	{RightShoulder, RightElbow},
	{RightElbow, RightWrist},
	{LeftShoulder, LeftHip},
	{RightShoulder, RightHip},
	{LeftHip, RightHip},
	{LeftHip, LeftKnee},
	{LeftKnee, LeftAnkle},
	{RightHip, RightKnee},
	{RightKnee, RightAnkle},
}

// OverlayColor is the emerald used for keypoints and limbs.
var OverlayColor = color.RGBA{R: 0x10, G: 0xB9, B: 0x81, A: 0xFF}

const (
	pointRadius = 5
	lineWidth   = 2
)

// Render copies src and draws the keypoints and skeleton on top of it.
// Drawing uses DrawScore, not AcceptScore, so low-confidence parts still show.
func Render(src image.Image, keypoints []Keypoint) *image.RGBA {
	bounds := src.Bounds()
	dst := image.NewRGBA(bounds)
	draw.Draw(dst, bounds, src, bounds.Min, draw.Src)

	visible := make(map[string]Point, len(keypoints))
	for _, kp := range keypoints {
		if kp.Score <= DrawScore || !finite(kp.Position) {
			continue
		}
		if _, seen := visible[kp.Part]; !seen {
			visible[kp.Part] = kp.Position
		}
		fillCircle(dst, kp.Position, pointRadius, OverlayColor)
	}

	for _, c := range Skeleton {
		a, okA := visible[c[0]]
		b, okB := visible[c[1]]
		if !okA || !okB {
			continue
		}
		// Clip to the image grown by the brush so the loop only walks visible pixels.
		if a, b, ok := clipSegment(a, b, bounds.Inset(-lineWidth)); ok {
			drawLine(dst, a, b, lineWidth, OverlayColor)
		}
	}
	return dst
}

func finite(p Point) bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// clipSegment cuts a-b down to the part inside r (Liang-Barsky). ok is false when nothing is inside.
func clipSegment(a, b Point, r image.Rectangle) (Point, Point, bool) {
	dx, dy := b.X-a.X, b.Y-a.Y
	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{
		{-dx, a.X - float64(r.Min.X)},
		{dx, float64(r.Max.X-1) - a.X},
		{-dy, a.Y - float64(r.Min.Y)},
		{dy, float64(r.Max.Y-1) - a.Y},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return a, b, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return a, b, false
			}
			if t > t0 {
				t0 = t
			}
		} else {
			if t < t0 {
				return a, b, false
			}
			if t < t1 {
				t1 = t
			}
		}
	}
	return Point{X: a.X + t0*dx, Y: a.Y + t0*dy}, Point{X: a.X + t1*dx, Y: a.Y + t1*dy}, true
}

func fillCircle(img *image.RGBA, center Point, radius int, c color.RGBA) {
	cx, cy := int(math.Round(center.X)), int(math.Round(center.Y))
	r2 := radius * radius
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy <= r2 {
				setIn(img, cx+dx, cy+dy, c)
			}
		}
	}
}

// drawLine steps along the segment one pixel at a time and stamps a square brush of the given width.
func drawLine(img *image.RGBA, a, b Point, width int, c color.RGBA) {
	steps := int(math.Ceil(math.Max(math.Abs(b.X-a.X), math.Abs(b.Y-a.Y))))
	if steps == 0 {
		steps = 1
	}
	half := width / 2
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := int(math.Round(a.X + (b.X-a.X)*t))
		y := int(math.Round(a.Y + (b.Y-a.Y)*t))
		for oy := -half; oy < width-half; oy++ {
			for ox := -half; ox < width-half; ox++ {
				setIn(img, x+ox, y+oy, c)
			}
		}
	}
}

func setIn(img *image.RGBA, x, y int, c color.RGBA) {
	if (image.Point{X: x, Y: y}).In(img.Bounds()) {
		img.SetRGBA(x, y, c)
	}
}
