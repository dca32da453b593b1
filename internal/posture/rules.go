package posture

import (
	"fmt"
	"math"
)

type Status string

const (
	StatusOK      Status = "ok"
	StatusWarning Status = "warning"
	StatusError   Status = "error"
)

// Advice is one feedback record shown to the user.
type Advice struct {
	Status    Status   `json:"status"`
	Issue     string   `json:"issue"`
	Detail    string   `json:"detail"`
	Exercises []string `json:"exercises"`
}

// Posture thresholds, in image pixels.
const (
	maxShoulderTilt   = 20.0
	maxSpinalShift    = 25.0
	maxHeadForward    = 30.0
	maxHipTilt        = 15.0
	minSquatKneeAngle = 90.0
	maxSquatHipDepth  = 0.2
	minPushupElbow    = 85.0
	maxPushupElbow    = 95.0
	minDeadliftHip    = 45.0
	maxDeadliftHip    = 90.0
	maxDeadliftBack   = 0.3
)

// Analyze runs the rules for mode over the keypoints. It always returns at least one record.
func Analyze(mode Mode, keypoints []Keypoint) []Advice {
	pose := NewPose(keypoints)

	var feedback []Advice
	switch mode {
	case ModeSquat:
		feedback = squatForm(pose)
	case ModePushup:
		feedback = pushupForm(pose)
	case ModeDeadlift:
		feedback = deadliftForm(pose)
	default:
		return generalPosture(pose)
	}

	if len(feedback) == 0 {
		return []Advice{{
			Status: StatusOK,
			Issue:  "Good Form",
			Detail: "Your exercise form looks good! Keep maintaining proper technique.",
			Exercises: []string{
				"Continue with current form",
				"Consider increasing weight/reps if comfortable",
			},
		}}
	}
	return feedback
}

// Failed is the single entry returned when the pose could not be estimated.
func Failed() []Advice {
	return []Advice{{
		Status: StatusError,
		Issue:  "Analysis Failed",
		Detail: "Error analyzing posture. Please try again.",
	}}
}

func generalPosture(pose Pose) []Advice {
	var feedback []Advice

	leftShoulder, hasLS := pose.Find(LeftShoulder)
	rightShoulder, hasRS := pose.Find(RightShoulder)
	leftHip, hasLH := pose.Find(LeftHip)
	rightHip, hasRH := pose.Find(RightHip)
	_, hasLK := pose.Find(LeftKnee)
	_, hasRK := pose.Find(RightKnee)
	nose, hasNose := pose.Find(Nose)

	shoulders := hasLS && hasRS
	hips := hasLH && hasRH

	if shoulders {
		tilt := math.Abs(leftShoulder.Y - rightShoulder.Y)
		if tilt > maxShoulderTilt {
			feedback = append(feedback, Advice{
				Status: StatusWarning,
				Issue:  "Uneven Shoulders Detected",
				Detail: fmt.Sprintf("Your shoulders show a %.1f° misalignment. This could lead to muscle imbalances and upper back pain.", tilt),
				Exercises: []string{
					"Wall Angels: 3 sets of 10 reps",
					"Band Pull-Aparts: 3 sets of 15 reps",
					"Side-lying Shoulder Rotations: 2 sets of 12 per side",
				},
			})
		}
	}

	if shoulders && hips {
		shoulderCenter := Midpoint(leftShoulder, rightShoulder)
		hipCenter := Midpoint(leftHip, rightHip)
		if math.Abs(shoulderCenter.X-hipCenter.X) > maxSpinalShift {
			feedback = append(feedback, Advice{
				Status: StatusWarning,
				Issue:  "Spinal Misalignment",
				Detail: "Your spine shows lateral deviation. This could indicate scoliosis or muscular imbalance.",
				Exercises: []string{
					"Cat-Cow Stretches: 10 repetitions",
					"Bird-Dog Exercise: 3 sets of 10 per side",
					"Child's Pose: Hold for 30 seconds, 3 sets",
				},
			})
		}
	}

	// Signed: only a head ahead of the shoulders counts.
	if shoulders && hasNose {
		shoulderCenter := Midpoint(leftShoulder, rightShoulder)
		if nose.X-shoulderCenter.X > maxHeadForward {
			feedback = append(feedback, Advice{
				Status: StatusWarning,
				Issue:  "Forward Head Posture",
				Detail: "Your head is positioned forward of your shoulders, which can strain your neck and upper back.",
				Exercises: []string{
					"Chin Tucks: 3 sets of 10 reps",
					"Neck Retraction: Hold 10 seconds, 10 reps",
					"Upper Trapezius Stretch: Hold 30 seconds each side",
				},
			})
		}
	}

	// Hip level is only judged on a full-body shot with both knees visible.
	if hips && hasLK && hasRK {
		if math.Abs(leftHip.Y-rightHip.Y) > maxHipTilt {
			feedback = append(feedback, Advice{
				Status: StatusWarning,
				Issue:  "Hip Misalignment",
				Detail: "Your hips are not level, which may indicate muscle imbalance or leg length discrepancy.",
				Exercises: []string{
					"Single-leg Bridges: 3 sets of 12 per side",
					"Clamshells: 2 sets of 15 per side",
					"Standing IT Band Stretch: Hold 30 seconds each side",
				},
			})
		}
	}

	if len(feedback) == 0 {
		return []Advice{{
			Status: StatusOK,
			Issue:  "Excellent Posture",
			Detail: "Your posture alignment is within healthy ranges. Keep maintaining good form!",
			Exercises: []string{
				"Plank Hold: 30 seconds, 3 sets",
				"Superman Holds: 10 seconds, 10 reps",
				"Standing Posture Check: Practice throughout the day",
			},
		}}
	}
	return feedback
}

func squatForm(pose Pose) []Advice {
	hips, okH := pose.Joint(LeftHip, RightHip)
	knees, okK := pose.Joint(LeftKnee, RightKnee)
	ankles, okA := pose.Joint(LeftAnkle, RightAnkle)
	if !okH || !okK || !okA {
		return nil
	}

	var feedback []Advice
	if Angle(hips, knees, ankles) < minSquatKneeAngle {
		feedback = append(feedback, Advice{
			Status: StatusWarning,
			Issue:  "Knee Position",
			Detail: "Your knees are going too far forward. Keep them aligned with your toes.",
			Exercises: []string{
				"Practice wall squats",
				"Box squats for depth control",
				"Ankle mobility exercises",
			},
		})
	}

	if depth, ok := hipDepth(hips, knees); ok && depth > maxSquatHipDepth {
		feedback = append(feedback, Advice{
			Status: StatusWarning,
			Issue:  "Squat Depth",
			Detail: "You're not reaching parallel depth. Try going lower while maintaining form.",
			Exercises: []string{
				"Goblet squats for depth practice",
				"Hip mobility exercises",
				"Assisted squats with TRX",
			},
		})
	}
	return feedback
}

// hipDepth is the hip-to-knee vertical gap relative to knee height. Undefined at knee.Y == 0.
func hipDepth(hips, knees Point) (float64, bool) {
	if knees.Y == 0 {
		return 0, false
	}
	return math.Abs(hips.Y-knees.Y) / knees.Y, true
}

func pushupForm(pose Pose) []Advice {
	shoulders, okS := pose.Joint(LeftShoulder, RightShoulder)
	elbows, okE := pose.Joint(LeftElbow, RightElbow)
	wrists, okW := pose.Joint(LeftWrist, RightWrist)
	if !okS || !okE || !okW {
		return nil
	}

	elbow := Angle(shoulders, elbows, wrists)
	if elbow < minPushupElbow || elbow > maxPushupElbow {
		return []Advice{{
			Status: StatusWarning,
			Issue:  "Elbow Position",
			Detail: "Keep your elbows at 90 degrees at the bottom of the movement.",
			Exercises: []string{
				"Modified pushups on knees",
				"Plank holds for stability",
				"Eccentric pushups",
			},
		}}
	}
	return nil
}

func deadliftForm(pose Pose) []Advice {
	shoulders, okS := pose.Joint(LeftShoulder, RightShoulder)
	hips, okH := pose.Joint(LeftHip, RightHip)
	knees, okK := pose.Joint(LeftKnee, RightKnee)
	if !okS || !okH || !okK {
		return nil
	}

	var feedback []Advice
	hip := Angle(shoulders, hips, knees)
	if hip < minDeadliftHip || hip > maxDeadliftHip {
		feedback = append(feedback, Advice{
			Status: StatusWarning,
			Issue:  "Hip Hinge",
			Detail: "Maintain a proper hip hinge angle. Your back should be straight and parallel to the ground at the bottom.",
			Exercises: []string{
				"Romanian deadlifts for hip hinge practice",
				"Good mornings with light weight",
				"Hip hinge with dowel rod",
			},
		})
	}

	if backSlope(shoulders, hips) > maxDeadliftBack {
		feedback = append(feedback, Advice{
			Status: StatusWarning,
			Issue:  "Back Position",
			Detail: "Keep your back straight throughout the movement. Current form might lead to lower back strain.",
			Exercises: []string{
				"Plank holds for core strength",
				"Cat-cow stretches",
				"Bird-dog exercise",
			},
		})
	}
	return feedback
}

// backSlope is |dy|/|dx| between shoulders and hips; a vertical back is +Inf, coincident points 0.
func backSlope(shoulders, hips Point) float64 {
	dy := math.Abs(shoulders.Y - hips.Y)
	dx := math.Abs(shoulders.X - hips.X)
	if dx == 0 {
		if dy == 0 {
			return 0
		}
		return math.Inf(1)
	}
	return dy / dx
}
