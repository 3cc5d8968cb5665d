package poseService

import (
	poseRepository "PoseBackend/internal/api/pose/repository"
	"PoseBackend/internal/entity"
	redisPkg "PoseBackend/pkg/redis"
	"PoseBackend/pkg/posenet"
	"PoseBackend/pkg/s3"
	"PoseBackend/pkg/utils"
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

// DefaultMinPartConfidence is the score floor below which a keypoint is
// treated as not detected when the judgment input is assembled.
const DefaultMinPartConfidence = 0.5

type IPoseService interface {
	JudgeImage(ctx context.Context, imageBytes []byte) (*entity.Judgment, error)
	RecentJudgments(ctx context.Context, limit int) ([]entity.JudgmentRecord, error)
}

type poseService struct {
	log               *logrus.Logger
	engine            Engine
	estimator         posenet.IPoseNet
	poseRepository    poseRepository.Repository
	cache             redisPkg.IRedis
	s3Client          s3.ItfS3
	utils             utils.IUtils
	minPartConfidence float64
	cacheTTL          time.Duration
}

func NewPoseService(
	log *logrus.Logger,
	engine Engine,
	estimator posenet.IPoseNet,
	repository poseRepository.Repository,
	cache redisPkg.IRedis,
	s3Client s3.ItfS3,
	utils utils.IUtils,
) IPoseService {
	minPartConfidence := DefaultMinPartConfidence
	if raw := os.Getenv("POSE_MIN_PART_CONFIDENCE"); raw != "" {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil {
			minPartConfidence = parsed
		}
	}

	return &poseService{
		log:               log,
		engine:            engine,
		estimator:         estimator,
		poseRepository:    repository,
		cache:             cache,
		s3Client:          s3Client,
		utils:             utils,
		minPartConfidence: minPartConfidence,
		cacheTTL:          10 * time.Minute,
	}
}
