package poseHandler

import (
	"PoseBackend/internal/api/pose"
	contextPkg "PoseBackend/pkg/context"
	"PoseBackend/pkg/handlerUtil"
	"PoseBackend/pkg/log"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

func (h *PoseHandler) EstimatePose(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 15*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing pose estimation request")

	imageBytes, err := h.readImagePayload(ctx, requestID)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "read_image_payload")
	}

	judgment, err := h.poseService.JudgeImage(c, imageBytes)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "judge_image")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		h.log.WithFields(log.Fields{
			"request_id":   requestID,
			"path":         ctx.Path(),
			"closest_hand": judgment.ClosestHand,
			"accepted":     judgment.Accepted,
		}).Info("Pose judgment successful")
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, pose.NewJudgmentResponse(judgment))
	}
}

// readImagePayload extracts the image from the multipart "image" field, or
// falls back to a JSON body with a base64 payload for clients that cannot
// send multipart forms.
func (h *PoseHandler) readImagePayload(ctx *fiber.Ctx, requestID string) ([]byte, error) {
	file, err := ctx.FormFile("image")
	if err == nil {
		h.log.WithFields(log.Fields{
			"request_id": requestID,
			"path":       ctx.Path(),
			"file_name":  file.Filename,
			"file_size":  file.Size,
		}).Debug("Processing file upload")

		if err := h.utils.ValidateImageFile(file); err != nil {
			return nil, pose.ErrNoImageUploaded
		}

		fileContent, err := file.Open()
		if err != nil {
			return nil, err
		}
		defer fileContent.Close()

		return io.ReadAll(fileContent)
	}

	var req pose.EstimateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return nil, pose.ErrNoImageUploaded
	}
	if err := h.validator.Struct(req); err != nil {
		return nil, pose.ErrNoImageUploaded
	}

	imageBytes, err := h.utils.DecodeBase64Image(req.ImageBase64)
	if err != nil {
		return nil, pose.ErrNoImageUploaded
	}

	return imageBytes, nil
}

func (h *PoseHandler) JudgmentHistory(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	limit := ctx.QueryInt("limit", 20)

	records, err := h.poseService.RecentJudgments(c, limit)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "recent_judgments")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, pose.NewHistoryResponse(records))
}
