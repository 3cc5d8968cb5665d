package poseService

import (
	"PoseBackend/internal/api/pose"
	"PoseBackend/internal/entity"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultEngine() Engine {
	return NewEngine(DefaultThresholdDistance, DefaultAcceptanceThreshold)
}

func keypointAt(part string, x, y float64) entity.Keypoint {
	return entity.Keypoint{Part: part, X: x, Y: y, Confidence: 0.9}
}

func TestDecideClosestWrist(t *testing.T) {
	judgment, err := defaultEngine().Decide(entity.KeypointSet{
		entity.PartNose:       keypointAt(entity.PartNose, 100, 100),
		entity.PartLeftWrist:  keypointAt(entity.PartLeftWrist, 400, 100),
		entity.PartRightWrist: keypointAt(entity.PartRightWrist, 130, 140),
	})
	require.NoError(t, err)

	assert.Equal(t, entity.PartRightWrist, judgment.ClosestHand)
	assert.InDelta(t, 50.0, judgment.Distance, 1e-9, "3-4-5 triangle distance")
	assert.True(t, judgment.Accepted)
}

func TestDecideTieBreakPrefersLeft(t *testing.T) {
	// Both wrists are at exactly distance 10 from the nose; equality must
	// resolve to the left wrist.
	judgment, err := defaultEngine().Decide(entity.KeypointSet{
		entity.PartNose:       keypointAt(entity.PartNose, 0, 0),
		entity.PartLeftWrist:  keypointAt(entity.PartLeftWrist, 10, 0),
		entity.PartRightWrist: keypointAt(entity.PartRightWrist, 0, 10),
	})
	require.NoError(t, err)

	assert.Equal(t, entity.PartLeftWrist, judgment.ClosestHand)
	assert.Equal(t, 10.0, judgment.Distance)
}

func TestDecideMissingNose(t *testing.T) {
	judgment, err := defaultEngine().Decide(entity.KeypointSet{
		entity.PartLeftWrist: keypointAt(entity.PartLeftWrist, 10, 0),
	})

	assert.Nil(t, judgment)
	assert.ErrorIs(t, err, pose.ErrMissingAnchor)
}

func TestDecideAbsentWristNeverWins(t *testing.T) {
	judgment, err := defaultEngine().Decide(entity.KeypointSet{
		entity.PartNose:       keypointAt(entity.PartNose, 0, 0),
		entity.PartRightWrist: keypointAt(entity.PartRightWrist, 400, 0),
	})
	require.NoError(t, err)

	assert.Equal(t, entity.PartRightWrist, judgment.ClosestHand)
	assert.Equal(t, 400.0, judgment.Distance)
	assert.True(t, judgment.Accepted)
}

func TestDecideBothWristsAbsent(t *testing.T) {
	judgment, err := defaultEngine().Decide(entity.KeypointSet{
		entity.PartNose: keypointAt(entity.PartNose, 0, 0),
	})
	require.NoError(t, err)

	assert.Equal(t, entity.PartLeftWrist, judgment.ClosestHand, "min of two infinities resolves left")
	assert.True(t, math.IsInf(judgment.Distance, 1))
	assert.Equal(t, 0.0, judgment.Confidence)
	assert.False(t, judgment.Accepted)
}

func TestDecideAcceptanceBoundaryInclusive(t *testing.T) {
	// Distance 495 with threshold 550 puts the confidence exactly on the
	// acceptance boundary, which is inclusive.
	judgment, err := defaultEngine().Decide(entity.KeypointSet{
		entity.PartNose:      keypointAt(entity.PartNose, 0, 0),
		entity.PartLeftWrist: keypointAt(entity.PartLeftWrist, 495, 0),
	})
	require.NoError(t, err)

	assert.Equal(t, 0.1, judgment.Confidence)
	assert.True(t, judgment.Accepted)
}

func TestDecideJustAboveBoundaryRejected(t *testing.T) {
	judgment, err := defaultEngine().Decide(entity.KeypointSet{
		entity.PartNose:      keypointAt(entity.PartNose, 0, 0),
		entity.PartLeftWrist: keypointAt(entity.PartLeftWrist, 500.5, 0),
	})
	require.NoError(t, err)

	assert.InDelta(t, 0.09, judgment.Confidence, 1e-9)
	assert.False(t, judgment.Accepted)
}

func TestDecideRoundsDistanceNotDecision(t *testing.T) {
	engine := NewEngine(12.3456, DefaultAcceptanceThreshold)

	// The wrist sits exactly at the threshold distance: unrounded
	// confidence is 0, so the judgment is rejected even though the rounded
	// distance (12.35) is above the raw one.
	judgment, err := engine.Decide(entity.KeypointSet{
		entity.PartNose:      keypointAt(entity.PartNose, 0, 0),
		entity.PartLeftWrist: keypointAt(entity.PartLeftWrist, 12.3456, 0),
	})
	require.NoError(t, err)

	assert.Equal(t, 12.35, judgment.Distance, "reported distance rounds to two decimals")
	assert.False(t, judgment.Accepted, "decision must use the unrounded distance")
}

func TestDecideEndToEndScenario(t *testing.T) {
	judgment, err := defaultEngine().Decide(entity.KeypointSet{
		entity.PartNose:      keypointAt(entity.PartNose, 100, 100),
		entity.PartLeftWrist: keypointAt(entity.PartLeftWrist, 120, 100),
	})
	require.NoError(t, err)

	assert.Equal(t, entity.PartLeftWrist, judgment.ClosestHand)
	assert.Equal(t, 20.0, judgment.Distance)
	assert.InDelta(t, 1-20.0/550.0, judgment.Confidence, 1e-9)
	assert.True(t, judgment.Accepted)
}

func TestNewEngineFromEnvOverrides(t *testing.T) {
	t.Setenv("POSE_THRESHOLD_DISTANCE", "100")
	t.Setenv("POSE_ACCEPTANCE_THRESHOLD", "0.5")

	engine := NewEngineFromEnv()
	assert.Equal(t, 100.0, engine.ThresholdDistance)
	assert.Equal(t, 0.5, engine.AcceptanceThreshold)

	t.Setenv("POSE_THRESHOLD_DISTANCE", "not-a-number")
	engine = NewEngineFromEnv()
	assert.Equal(t, DefaultThresholdDistance, engine.ThresholdDistance)
}
