package posenet

import (
	"PoseBackend/internal/entity"
	"context"
	"image"
	"os"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	ort "github.com/yalue/onnxruntime_go"
)

const (
	// InputSize is the square side length of the MobileNetV1 PoseNet input.
	InputSize = 257
	// OutputStride maps heatmap grid cells back to input pixels.
	OutputStride = 32
	// HeatmapSize is the side length of the output grid for a 257 input.
	HeatmapSize = 9
	// NumParts is the number of skeleton keypoints PoseNet predicts.
	NumParts = 17
)

const (
	defaultModelPath  = "./models/posenet_mobilenet_v1.onnx"
	inputTensorName   = "sub_2"
	heatmapTensorName = "float_heatmaps"
	offsetTensorName  = "float_short_offsets"
)

type IPoseNet interface {
	EstimatePose(ctx context.Context, img image.Image) ([]entity.Keypoint, error)
	Close() error
}

// poseNet owns one ONNX Runtime session with a single bound tensor set.
// The session is created once at startup and shared read-only afterwards;
// inference itself is serialized on the mutex because the input and output
// tensors are reused between runs.
type poseNet struct {
	session  *ort.AdvancedSession
	input    *ort.Tensor[float32]
	heatmaps *ort.Tensor[float32]
	offsets  *ort.Tensor[float32]
	mu       sync.Mutex
}

func New() (IPoseNet, error) {
	modelPath := os.Getenv("POSENET_MODEL_PATH")
	if modelPath == "" {
		modelPath = defaultModelPath
	}

	if _, err := os.Stat(modelPath); err != nil {
		return nil, errors.Wrapf(err, "posenet model not found at %s", modelPath)
	}

	if libPath := os.Getenv("ONNXRUNTIME_LIB_PATH"); libPath != "" {
		ort.SetSharedLibraryPath(libPath)
	}

	if !ort.IsInitialized() {
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, errors.Wrap(err, "failed to initialize onnxruntime")
		}
	}

	input, err := ort.NewEmptyTensor[float32](ort.NewShape(1, InputSize, InputSize, 3))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create input tensor")
	}

	heatmaps, err := ort.NewEmptyTensor[float32](ort.NewShape(1, HeatmapSize, HeatmapSize, NumParts))
	if err != nil {
		input.Destroy()
		return nil, errors.Wrap(err, "failed to create heatmap tensor")
	}

	offsets, err := ort.NewEmptyTensor[float32](ort.NewShape(1, HeatmapSize, HeatmapSize, NumParts*2))
	if err != nil {
		input.Destroy()
		heatmaps.Destroy()
		return nil, errors.Wrap(err, "failed to create offset tensor")
	}

	session, err := ort.NewAdvancedSession(
		modelPath,
		[]string{inputTensorName},
		[]string{heatmapTensorName, offsetTensorName},
		[]ort.ArbitraryTensor{input},
		[]ort.ArbitraryTensor{heatmaps, offsets},
		nil,
	)
	if err != nil {
		input.Destroy()
		heatmaps.Destroy()
		offsets.Destroy()
		return nil, errors.Wrapf(err, "failed to create onnx session for %s", modelPath)
	}

	logrus.Infof("PoseNet model loaded from %s", modelPath)

	return &poseNet{
		session:  session,
		input:    input,
		heatmaps: heatmaps,
		offsets:  offsets,
	}, nil
}

// EstimatePose runs single-person pose estimation over the image and
// returns all 17 keypoints in the source image's pixel coordinates.
func (p *poseNet) EstimatePose(ctx context.Context, img image.Image) ([]entity.Keypoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return nil, errors.New("cannot estimate pose on an empty image")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	prepareInput(img, p.input.GetData())

	if err := p.session.Run(); err != nil {
		return nil, errors.Wrap(err, "posenet inference failed")
	}

	scaleX := float64(bounds.Dx()) / float64(InputSize)
	scaleY := float64(bounds.Dy()) / float64(InputSize)

	return decodeKeypoints(p.heatmaps.GetData(), p.offsets.GetData(), scaleX, scaleY), nil
}

func (p *poseNet) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.input != nil {
		p.input.Destroy()
		p.input = nil
	}
	if p.heatmaps != nil {
		p.heatmaps.Destroy()
		p.heatmaps = nil
	}
	if p.offsets != nil {
		p.offsets.Destroy()
		p.offsets = nil
	}
	if p.session != nil {
		p.session.Destroy()
		p.session = nil
	}

	return nil
}
