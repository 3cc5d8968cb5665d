package poseService

import (
	"PoseBackend/internal/api/pose"
	"PoseBackend/internal/entity"
	contextPkg "PoseBackend/pkg/context"
	"PoseBackend/pkg/log"
	"fmt"
	"math"
	"time"

	"golang.org/x/net/context"
)

func (s *poseService) JudgeImage(ctx context.Context, imageBytes []byte) (*entity.Judgment, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if len(imageBytes) == 0 {
		return nil, pose.ErrNoImageUploaded
	}

	digest := s.utils.HashImageBytes(imageBytes)

	if s.cache != nil {
		if judgment, err := s.cache.GetJudgment(ctx, digest); err == nil {
			s.log.WithFields(log.Fields{
				"request_id": requestID,
				"digest":     digest,
			}).Debug("Judgment served from cache")
			return judgment, nil
		}
	}

	img, err := s.utils.DecodeImage(imageBytes)
	if err != nil {
		s.log.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Failed to decode uploaded image")
		return nil, pose.ErrPoseEstimationFailed
	}

	keypoints, err := s.estimator.EstimatePose(ctx, img)
	if err != nil {
		s.log.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Pose estimation failed")
		return nil, pose.ErrPoseEstimationFailed
	}

	judgment, err := s.engine.Decide(FilterKeypoints(keypoints, s.minPartConfidence))
	if err != nil {
		return nil, err
	}

	s.finalizeJudgment(ctx, digest, imageBytes, judgment)

	return judgment, nil
}

// FilterKeypoints reduces the estimator's full skeleton to the three parts
// the decision engine reads, dropping anything below the confidence floor.
func FilterKeypoints(keypoints []entity.Keypoint, minConfidence float64) entity.KeypointSet {
	set := make(entity.KeypointSet, 3)
	for _, keypoint := range keypoints {
		switch keypoint.Part {
		case entity.PartNose, entity.PartLeftWrist, entity.PartRightWrist:
			if keypoint.Confidence >= minConfidence {
				set[keypoint.Part] = keypoint
			}
		}
	}
	return set
}

// finalizeJudgment fans the judgment out to the cache, the archive bucket
// and the history table. All three are best effort: a side-channel failure
// never fails the request that produced the judgment.
func (s *poseService) finalizeJudgment(ctx context.Context, digest string, imageBytes []byte, judgment *entity.Judgment) {
	requestID := contextPkg.GetRequestID(ctx)

	// An infinite distance has no JSON encoding, so the degenerate
	// no-wrists judgment is never cached.
	if s.cache != nil && !math.IsInf(judgment.Distance, 1) {
		if err := s.cache.SetJudgment(ctx, digest, judgment, s.cacheTTL); err != nil {
			s.log.WithFields(log.Fields{
				"request_id": requestID,
				"digest":     digest,
			}).Debug("Failed to cache judgment")
		}
	}

	recordID, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		s.log.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to generate judgment record ID")
		return
	}

	archiveURL := ""
	if s.s3Client != nil && judgment.Accepted {
		location, err := s.s3Client.UploadBytes(fmt.Sprintf("poses/%s.jpg", recordID), imageBytes, "image/jpeg")
		if err != nil {
			s.log.WithFields(log.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Warn("Failed to archive accepted upload")
		} else {
			archiveURL = location
		}
	}

	if s.poseRepository == nil {
		return
	}

	client, err := s.poseRepository.NewClient(false)
	if err != nil {
		s.log.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to open repository client")
		return
	}

	record := entity.JudgmentRecord{
		ID:          recordID,
		ImageDigest: digest,
		ClosestHand: judgment.ClosestHand,
		Distance:    judgment.Distance,
		Accepted:    judgment.Accepted,
		ArchiveURL:  archiveURL,
	}
	if math.IsInf(record.Distance, 1) {
		record.Distance = -1 // sentinel for "no wrist detected"
	}

	if err := client.Judgment.CreateJudgment(ctx, record); err != nil {
		s.log.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to persist judgment")
	}
}

func (s *poseService) RecentJudgments(ctx context.Context, limit int) ([]entity.JudgmentRecord, error) {
	if s.poseRepository == nil {
		return nil, pose.ErrHistoryUnavailable
	}

	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	client, err := s.poseRepository.NewClient(false)
	if err != nil {
		return nil, err
	}

	return client.Judgment.GetRecentJudgments(ctx, limit)
}
