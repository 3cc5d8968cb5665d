package pose

import (
	"PoseBackend/pkg/response"
	"errors"
	"net/http"
)

// ErrMissingAnchor is the decision engine's only failure mode: the keypoint
// set has no nose to measure against. The handler layer translates it into
// the "Nose not detected" client error.
var ErrMissingAnchor = errors.New("nose keypoint missing from keypoint set")

var (
	ErrNoImageUploaded      = response.NewError(http.StatusBadRequest, "No image uploaded")
	ErrPoseEstimationFailed = response.NewError(http.StatusInternalServerError, "Pose estimation failed")
	ErrHistoryUnavailable   = response.NewError(http.StatusServiceUnavailable, "judgment history is not configured")
)
