package config

import (
	"PoseBackend/database/postgres"
	poseHandler "PoseBackend/internal/api/pose/handler"
	poseRepository "PoseBackend/internal/api/pose/repository"
	poseService "PoseBackend/internal/api/pose/service"
	"PoseBackend/internal/middleware"
	"PoseBackend/pkg/posenet"
	"PoseBackend/pkg/redis"
	"PoseBackend/pkg/s3"
	"PoseBackend/pkg/utils"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type ServerOption func(*Server) error

type Server struct {
	engine        *fiber.App
	db            *sqlx.DB
	log           *logrus.Logger
	middleware    middleware.Middleware
	validator     *validator.Validate
	utils         utils.IUtils
	handlers      []handler
	poseEstimator posenet.IPoseNet
	redisServer   redis.IRedis
	s3Client      s3.ItfS3
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if server.poseEstimator == nil {
		return nil, fmt.Errorf("pose estimator is required")
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

// WithDatabase connects the judgment history store. History is optional:
// with no DB_HOST configured the service runs without persistence.
func WithDatabase() ServerOption {
	return func(s *Server) error {
		if os.Getenv("DB_HOST") == "" {
			if s.log != nil {
				s.log.Warn("DB_HOST not set, judgment history disabled")
			}
			return nil
		}

		db, err := postgres.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to connect to database: %v", err)
			}
			return fmt.Errorf("failed to create database connection: %w", err)
		}
		s.db = db
		return nil
	}
}

// WithPoseEstimator loads the PoseNet model handle. This runs before
// Listen, so the server never accepts a request without a ready model.
func WithPoseEstimator() ServerOption {
	return func(s *Server) error {
		estimator, err := posenet.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to load PoseNet model: %v", err)
			}
			return fmt.Errorf("failed to load pose model: %w", err)
		}
		s.poseEstimator = estimator
		return nil
	}
}

func WithRedisServer(redisServer redis.IRedis) ServerOption {
	return func(s *Server) error {
		s.redisServer = redisServer
		return nil
	}
}

// WithS3Client enables archiving of accepted uploads when a bucket is
// configured.
func WithS3Client() ServerOption {
	return func(s *Server) error {
		if os.Getenv("AWS_BUCKET_NAME") == "" {
			if s.log != nil {
				s.log.Info("AWS_BUCKET_NAME not set, upload archiving disabled")
			}
			return nil
		}

		client, err := s3.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to initialize S3 client: %v", err)
			}
			return fmt.Errorf("failed to create S3 client: %w", err)
		}
		s.s3Client = client
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log)
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

func (s *Server) RegisterHandler() {
	var repository poseRepository.Repository
	if s.db != nil {
		repository = poseRepository.New(s.db, s.log)
	}

	engine := poseService.NewEngineFromEnv()
	poseServices := poseService.NewPoseService(s.log, engine, s.poseEstimator, repository, s.redisServer, s.s3Client, s.utils)
	poseHandlers := poseHandler.New(s.log, s.validator, s.middleware, poseServices, s.utils)

	s.setupReadyCheck()
	s.handlers = append(s.handlers, poseHandlers)
}

func (s *Server) Run() error {
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(middleware.LoggerConfig())

	for _, h := range s.handlers {
		h.Start(s.engine)
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3000"
	}

	return s.engine.Listen(fmt.Sprintf(":%s", port))
}

// Shutdown closes the model handle after the HTTP server stops.
func (s *Server) Shutdown() {
	if err := s.engine.Shutdown(); err != nil {
		s.log.Errorf("Error shutting down fiber: %v", err)
	}
	if s.poseEstimator != nil {
		if err := s.poseEstimator.Close(); err != nil {
			s.log.Errorf("Error closing pose estimator: %v", err)
		}
	}
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.log.Errorf("Error closing database: %v", err)
		}
	}
}

func (s *Server) setupReadyCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message":  "PoseNet API ready",
			"endpoint": "/pose",
		})
	})
}
