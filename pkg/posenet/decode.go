package posenet

import (
	"PoseBackend/internal/entity"

	"github.com/chewxy/math32"
)

// PartNames lists the 17 skeleton keypoints in the order the model emits
// its heatmap channels.
var PartNames = [NumParts]string{
	"nose",
	"leftEye",
	"rightEye",
	"leftEar",
	"rightEar",
	"leftShoulder",
	"rightShoulder",
	"leftElbow",
	"rightElbow",
	"leftWrist",
	"rightWrist",
	"leftHip",
	"rightHip",
	"leftKnee",
	"rightKnee",
	"leftAnkle",
	"rightAnkle",
}

// decodeKeypoints extracts one keypoint per part from the raw heatmap and
// offset tensors. Both tensors are NHWC: heatmaps [1,9,9,17], offsets
// [1,9,9,34] with the first 17 channels holding y offsets and the last 17
// holding x offsets. For each part the highest-scoring grid cell wins, its
// position is refined by the offset vector, and the result is scaled from
// model input space back to source image pixels.
func decodeKeypoints(heatmaps, offsets []float32, scaleX, scaleY float64) []entity.Keypoint {
	keypoints := make([]entity.Keypoint, 0, NumParts)

	for part := 0; part < NumParts; part++ {
		bestY, bestX := 0, 0
		bestScore := math32.Inf(-1)

		for y := 0; y < HeatmapSize; y++ {
			for x := 0; x < HeatmapSize; x++ {
				score := heatmaps[(y*HeatmapSize+x)*NumParts+part]
				if score > bestScore {
					bestScore = score
					bestY, bestX = y, x
				}
			}
		}

		cell := (bestY*HeatmapSize + bestX) * NumParts * 2
		offsetY := offsets[cell+part]
		offsetX := offsets[cell+NumParts+part]

		keypoints = append(keypoints, entity.Keypoint{
			Part:       PartNames[part],
			X:          (float64(bestX*OutputStride) + float64(offsetX)) * scaleX,
			Y:          (float64(bestY*OutputStride) + float64(offsetY)) * scaleY,
			Confidence: float64(sigmoid(bestScore)),
		})
	}

	return keypoints
}

func sigmoid(v float32) float32 {
	return 1 / (1 + math32.Exp(-v))
}
