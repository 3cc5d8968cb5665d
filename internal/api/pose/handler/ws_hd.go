package poseHandler

import (
	"PoseBackend/internal/api/pose"
	"errors"
	"time"

	"github.com/gofiber/websocket/v2"
	"golang.org/x/net/context"
)

// handlePoseWebSocket judges each binary frame as an independent image and
// writes the judgment (or an error object) back as JSON.
func (h *PoseHandler) handlePoseWebSocket(c *websocket.Conn) {
	h.log.Info("Pose judgment WebSocket client connected")
	defer h.log.Info("Pose judgment WebSocket client disconnected")

	c.SetPingHandler(func(data string) error {
		if err := c.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(5*time.Second)); err != nil {
			h.log.Errorf("Error sending pong: %v", err)
		}
		return nil
	})

	maxReadTimeout := 60 * time.Second

	for {
		if err := c.SetReadDeadline(time.Now().Add(maxReadTimeout)); err != nil {
			h.log.Errorf("Error setting read deadline: %v", err)
			break
		}

		messageType, message, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.Errorf("Pose WebSocket error: %v", err)
			} else {
				h.log.Info("Pose WebSocket connection closed")
			}
			break
		}

		if messageType != websocket.BinaryMessage {
			h.log.Warnf("Received unexpected message type: %d", messageType)
			continue
		}

		frameCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		judgment, err := h.poseService.JudgeImage(frameCtx, message)
		cancel()

		if err != nil {
			errMessage := "Pose estimation failed"
			if errors.Is(err, pose.ErrMissingAnchor) {
				errMessage = "Nose not detected"
			}
			if writeErr := c.WriteJSON(map[string]string{"error": errMessage}); writeErr != nil {
				h.log.Errorf("Error sending error response: %v", writeErr)
				break
			}
			continue
		}

		if err := c.SetWriteDeadline(time.Now().Add(10 * time.Second)); err != nil {
			h.log.Errorf("Error setting write deadline: %v", err)
			break
		}

		if err := c.WriteJSON(pose.NewJudgmentResponse(judgment)); err != nil {
			h.log.Errorf("Error writing JSON response: %v", err)
			break
		}

		if err := c.SetWriteDeadline(time.Time{}); err != nil {
			h.log.Errorf("Error resetting write deadline: %v", err)
			break
		}
	}
}
