package poseService

import (
	"PoseBackend/internal/api/pose"
	"PoseBackend/internal/entity"
	"math"
	"os"
	"strconv"
)

const (
	// DefaultThresholdDistance is the pixel distance at which the derived
	// confidence decays to zero. Tuned for the model's native keypoint
	// coordinate scale (roughly 257x200 inputs); recalibrate via
	// POSE_THRESHOLD_DISTANCE if the coordinate scale changes.
	DefaultThresholdDistance = 550.0

	// DefaultAcceptanceThreshold is the minimum confidence for an accepted
	// judgment. The boundary is inclusive.
	DefaultAcceptanceThreshold = 0.1
)

// Engine turns a keypoint set into a closest-wrist judgment. It is a pure
// function over its input: no I/O, no logging, no state.
type Engine struct {
	ThresholdDistance   float64
	AcceptanceThreshold float64
}

func NewEngine(thresholdDistance, acceptanceThreshold float64) Engine {
	return Engine{
		ThresholdDistance:   thresholdDistance,
		AcceptanceThreshold: acceptanceThreshold,
	}
}

// NewEngineFromEnv builds an engine from POSE_THRESHOLD_DISTANCE and
// POSE_ACCEPTANCE_THRESHOLD, keeping the defaults for anything unset or
// unparsable.
func NewEngineFromEnv() Engine {
	return NewEngine(
		envFloat("POSE_THRESHOLD_DISTANCE", DefaultThresholdDistance),
		envFloat("POSE_ACCEPTANCE_THRESHOLD", DefaultAcceptanceThreshold),
	)
}

// Decide computes the judgment for a keypoint set.
//
// A wrist that is absent from the set is treated as infinitely far away, so
// it can never win the comparison and never produces a numeric error. Exact
// ties resolve to the left wrist, including the degenerate both-absent case
// where both distances are +Inf.
func (e Engine) Decide(keypoints entity.KeypointSet) (*entity.Judgment, error) {
	nose, ok := keypoints[entity.PartNose]
	if !ok {
		return nil, pose.ErrMissingAnchor
	}

	distLeft := wristDistance(keypoints, entity.PartLeftWrist, nose)
	distRight := wristDistance(keypoints, entity.PartRightWrist, nose)

	closestHand := entity.PartLeftWrist
	minDist := distLeft
	if distRight < distLeft {
		closestHand = entity.PartRightWrist
		minDist = distRight
	}

	// Written as (t-d)/t rather than 1-d/t so that a wrist exactly at the
	// confidence boundary compares equal to the acceptance threshold
	// instead of falling one ULP short.
	confidence := (e.ThresholdDistance - minDist) / e.ThresholdDistance
	if confidence < 0 {
		confidence = 0
	}

	return &entity.Judgment{
		ClosestHand: closestHand,
		Distance:    roundDistance(minDist),
		Confidence:  confidence,
		// Acceptance is decided on the unrounded confidence; rounding is
		// presentation only.
		Accepted: confidence >= e.AcceptanceThreshold,
	}, nil
}

func wristDistance(keypoints entity.KeypointSet, part string, nose entity.Keypoint) float64 {
	wrist, ok := keypoints[part]
	if !ok {
		return math.Inf(1)
	}
	return math.Hypot(wrist.X-nose.X, wrist.Y-nose.Y)
}

func roundDistance(distance float64) float64 {
	if math.IsInf(distance, 1) {
		return distance
	}
	return math.Round(distance*100) / 100
}

func envFloat(key string, fallback float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return value
}
