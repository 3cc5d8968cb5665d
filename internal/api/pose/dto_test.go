package pose

import (
	"PoseBackend/internal/entity"
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJudgmentResponseFiniteDistance(t *testing.T) {
	resp := NewJudgmentResponse(&entity.Judgment{
		ClosestHand: entity.PartLeftWrist,
		Distance:    20.0,
		Accepted:    true,
	})

	require.NotNil(t, resp.Distance)
	assert.Equal(t, 20.0, *resp.Distance)

	payload, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"closestHand":"leftWrist","distance":20,"accepted":true}`, string(payload))
}

func TestNewJudgmentResponseInfiniteDistance(t *testing.T) {
	// The both-wrists-absent judgment carries +Inf, which must serialize
	// as null rather than fail to encode.
	resp := NewJudgmentResponse(&entity.Judgment{
		ClosestHand: entity.PartLeftWrist,
		Distance:    math.Inf(1),
		Accepted:    false,
	})

	assert.Nil(t, resp.Distance)

	payload, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"closestHand":"leftWrist","distance":null,"accepted":false}`, string(payload))
}
