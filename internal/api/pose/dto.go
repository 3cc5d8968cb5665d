package pose

import (
	"PoseBackend/internal/entity"
	"math"
	"time"
)

type EstimateRequest struct {
	ImageBase64 string `json:"image_base64" validate:"required"`
}

// JudgmentResponse is the wire form of a judgment. Distance is a pointer
// because the both-wrists-absent case produces +Inf, which JSON cannot
// carry; it is serialized as null instead.
type JudgmentResponse struct {
	ClosestHand string   `json:"closestHand"`
	Distance    *float64 `json:"distance"`
	Accepted    bool     `json:"accepted"`
}

func NewJudgmentResponse(judgment *entity.Judgment) JudgmentResponse {
	resp := JudgmentResponse{
		ClosestHand: judgment.ClosestHand,
		Accepted:    judgment.Accepted,
	}

	if !math.IsInf(judgment.Distance, 1) {
		distance := judgment.Distance
		resp.Distance = &distance
	}

	return resp
}

type HistoryItem struct {
	ID          string    `json:"id"`
	ClosestHand string    `json:"closestHand"`
	Distance    float64   `json:"distance"`
	Accepted    bool      `json:"accepted"`
	CreatedAt   time.Time `json:"created_at"`
}

type HistoryResponse struct {
	Data []HistoryItem `json:"data"`
}

func NewHistoryResponse(records []entity.JudgmentRecord) HistoryResponse {
	items := make([]HistoryItem, 0, len(records))
	for _, record := range records {
		items = append(items, HistoryItem{
			ID:          record.ID,
			ClosestHand: record.ClosestHand,
			Distance:    record.Distance,
			Accepted:    record.Accepted,
			CreatedAt:   record.CreatedAt,
		})
	}
	return HistoryResponse{Data: items}
}
