package entity

import "time"

const (
	PartNose       = "nose"
	PartLeftWrist  = "leftWrist"
	PartRightWrist = "rightWrist"
)

type Keypoint struct {
	Part       string  `json:"part"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Confidence float64 `json:"confidence"`
}

// KeypointSet maps a landmark name to its keypoint. It is built fresh per
// request and only ever contains the parts the judgment cares about.
type KeypointSet map[string]Keypoint

type Judgment struct {
	ClosestHand string  `json:"closest_hand"`
	Distance    float64 `json:"distance"`
	Confidence  float64 `json:"confidence"`
	Accepted    bool    `json:"accepted"`
}

type JudgmentRecord struct {
	ID          string    `json:"id"`
	ImageDigest string    `json:"image_digest"`
	ClosestHand string    `json:"closest_hand"`
	Distance    float64   `json:"distance"`
	Accepted    bool      `json:"accepted"`
	ArchiveURL  string    `json:"archive_url"`
	CreatedAt   time.Time `json:"created_at"`
}
