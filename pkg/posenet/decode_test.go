package posenet

import (
	"PoseBackend/internal/entity"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func syntheticTensors() (heatmaps, offsets []float32) {
	heatmaps = make([]float32, HeatmapSize*HeatmapSize*NumParts)
	offsets = make([]float32, HeatmapSize*HeatmapSize*NumParts*2)
	return heatmaps, offsets
}

func TestDecodeKeypointsArgmaxWithOffsets(t *testing.T) {
	heatmaps, offsets := syntheticTensors()

	// Put the nose peak at grid cell (y=2, x=3) with a small offset
	// refinement.
	const nose = 0
	cellY, cellX := 2, 3
	heatmaps[(cellY*HeatmapSize+cellX)*NumParts+nose] = 2.0
	cell := (cellY*HeatmapSize + cellX) * NumParts * 2
	offsets[cell+nose] = 5.0          // y offset
	offsets[cell+NumParts+nose] = 7.0 // x offset

	keypoints := decodeKeypoints(heatmaps, offsets, 1, 1)
	require.Len(t, keypoints, NumParts)

	assert.Equal(t, entity.PartNose, keypoints[nose].Part)
	assert.InDelta(t, float64(cellX*OutputStride+7), keypoints[nose].X, 1e-6)
	assert.InDelta(t, float64(cellY*OutputStride+5), keypoints[nose].Y, 1e-6)
	assert.InDelta(t, 0.8808, keypoints[nose].Confidence, 1e-3, "sigmoid of the raw peak score")
}

func TestDecodeKeypointsScalesToSourceImage(t *testing.T) {
	heatmaps, offsets := syntheticTensors()

	const leftWrist = 9
	cellY, cellX := 4, 4
	heatmaps[(cellY*HeatmapSize+cellX)*NumParts+leftWrist] = 1.0

	keypoints := decodeKeypoints(heatmaps, offsets, 2, 0.5)

	assert.Equal(t, entity.PartLeftWrist, keypoints[leftWrist].Part)
	assert.InDelta(t, float64(cellX*OutputStride)*2, keypoints[leftWrist].X, 1e-6)
	assert.InDelta(t, float64(cellY*OutputStride)*0.5, keypoints[leftWrist].Y, 1e-6)
}

func TestDecodeKeypointsFlatHeatmapStillYieldsAllParts(t *testing.T) {
	heatmaps, offsets := syntheticTensors()

	keypoints := decodeKeypoints(heatmaps, offsets, 1, 1)

	require.Len(t, keypoints, NumParts)
	for i, keypoint := range keypoints {
		assert.Equal(t, PartNames[i], keypoint.Part)
		assert.InDelta(t, 0.5, keypoint.Confidence, 1e-6, "sigmoid(0) on a flat map")
	}
}

func TestPrepareInputNormalizesToSignedRange(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 50, 50))
	for y := 0; y < 50; y++ {
		for x := 0; x < 50; x++ {
			img.Set(x, y, color.RGBA{R: 255, G: 0, B: 127, A: 255})
		}
	}

	data := make([]float32, InputSize*InputSize*3)
	prepareInput(img, data)

	// Uniform source stays uniform through the resize; spot-check the
	// channel normalization at both ends of the buffer.
	assert.InDelta(t, 1.0, float64(data[0]), 0.02)
	assert.InDelta(t, -1.0, float64(data[1]), 0.02)
	assert.InDelta(t, float64(127)/127.5-1, float64(data[2]), 0.02)

	last := len(data) - 3
	assert.InDelta(t, 1.0, float64(data[last]), 0.02)
	assert.InDelta(t, -1.0, float64(data[last+1]), 0.02)
}
