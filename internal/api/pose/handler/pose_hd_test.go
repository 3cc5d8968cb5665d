package poseHandler

import (
	"PoseBackend/internal/api/pose"
	"PoseBackend/internal/entity"
	"PoseBackend/internal/middleware"
	"PoseBackend/pkg/utils"
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/context"
)

type fakeService struct {
	judgment   *entity.Judgment
	err        error
	records    []entity.JudgmentRecord
	historyErr error
}

func (f *fakeService) JudgeImage(ctx context.Context, imageBytes []byte) (*entity.Judgment, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.judgment, nil
}

func (f *fakeService) RecentJudgments(ctx context.Context, limit int) ([]entity.JudgmentRecord, error) {
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	return f.records, nil
}

func newTestApp(service *fakeService) *fiber.App {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	app := fiber.New()
	handler := New(logger, validator.New(), middleware.New(logger), service, utils.New())
	handler.Start(app)

	return app
}

func multipartImageRequest(t *testing.T) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="image"; filename="frame.png"`)
	header.Set("Content-Type", "image/png")

	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte("fake image bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/pose", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()

	var payload map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	return payload
}

func TestEstimatePoseSuccess(t *testing.T) {
	app := newTestApp(&fakeService{
		judgment: &entity.Judgment{
			ClosestHand: entity.PartLeftWrist,
			Distance:    20.0,
			Confidence:  0.96,
			Accepted:    true,
		},
	})

	resp, err := app.Test(multipartImageRequest(t))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	payload := decodeBody(t, resp)
	assert.Equal(t, "leftWrist", payload["closestHand"])
	assert.Equal(t, 20.0, payload["distance"])
	assert.Equal(t, true, payload["accepted"])
}

func TestEstimatePoseMissingImage(t *testing.T) {
	app := newTestApp(&fakeService{})

	req := httptest.NewRequest(http.MethodPost, "/pose", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "No image uploaded", decodeBody(t, resp)["error"])
}

func TestEstimatePoseNoseNotDetected(t *testing.T) {
	app := newTestApp(&fakeService{err: pose.ErrMissingAnchor})

	resp, err := app.Test(multipartImageRequest(t))
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Nose not detected", decodeBody(t, resp)["error"])
}

func TestEstimatePoseEstimationFailure(t *testing.T) {
	app := newTestApp(&fakeService{err: pose.ErrPoseEstimationFailed})

	resp, err := app.Test(multipartImageRequest(t))
	require.NoError(t, err)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Pose estimation failed", decodeBody(t, resp)["error"])
}

func TestEstimatePoseBase64Fallback(t *testing.T) {
	app := newTestApp(&fakeService{
		judgment: &entity.Judgment{
			ClosestHand: entity.PartRightWrist,
			Distance:    101.25,
			Confidence:  0.81,
			Accepted:    true,
		},
	})

	encoded := base64.StdEncoding.EncodeToString([]byte("fake image bytes"))
	body := strings.NewReader(`{"image_base64":"` + encoded + `"}`)

	req := httptest.NewRequest(http.MethodPost, "/pose", body)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "rightWrist", decodeBody(t, resp)["closestHand"])
}

func TestJudgmentHistoryUnavailable(t *testing.T) {
	app := newTestApp(&fakeService{historyErr: pose.ErrHistoryUnavailable})

	req := httptest.NewRequest(http.MethodGet, "/pose/history", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestJudgmentHistorySuccess(t *testing.T) {
	app := newTestApp(&fakeService{
		records: []entity.JudgmentRecord{
			{ID: "01HXYZ", ClosestHand: entity.PartLeftWrist, Distance: 42.5, Accepted: true},
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/pose/history?limit=5", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	payload := decodeBody(t, resp)
	data, ok := payload["data"].([]interface{})
	require.True(t, ok)
	require.Len(t, data, 1)
}
