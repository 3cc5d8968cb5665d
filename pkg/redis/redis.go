package redis

import (
	"PoseBackend/internal/entity"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ErrCacheMiss is returned when no judgment is cached for a digest.
var ErrCacheMiss = errors.New("judgment not cached")

type IRedis interface {
	SetJudgment(ctx context.Context, digest string, judgment *entity.Judgment, expiration time.Duration) error
	GetJudgment(ctx context.Context, digest string) (*entity.Judgment, error)
}

type redisClient struct {
	client *redis.Client
}

func New() IRedis {
	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	redisAddr := os.Getenv("REDIS_ADDRESS")
	redisPassword := os.Getenv("REDIS_PASSWORD")

	logrus.Info(fmt.Sprintf("Connecting to Redis at %s...", redisAddr))

	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		logrus.Error(fmt.Sprintf("Failed to connect to Redis: %v", err))
	} else {
		logrus.Info("Successfully connected to Redis")
	}

	return &redisClient{client: client}
}

func judgmentKey(digest string) string {
	return "pose:judgment:" + digest
}

func (r *redisClient) SetJudgment(ctx context.Context, digest string, judgment *entity.Judgment, expiration time.Duration) error {
	payload, err := jsoniter.Marshal(judgment)
	if err != nil {
		return err
	}

	if err := r.client.Set(ctx, judgmentKey(digest), payload, expiration).Err(); err != nil {
		logrus.Debug(fmt.Sprintf("Error caching judgment for %s: %v", digest, err))
		return err
	}

	return nil
}

func (r *redisClient) GetJudgment(ctx context.Context, digest string) (*entity.Judgment, error) {
	payload, err := r.client.Get(ctx, judgmentKey(digest)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	} else if err != nil {
		logrus.Debug(fmt.Sprintf("Error reading cached judgment for %s: %v", digest, err))
		return nil, err
	}

	var judgment entity.Judgment
	if err := jsoniter.Unmarshal(payload, &judgment); err != nil {
		return nil, err
	}

	return &judgment, nil
}
