package posenet

import (
	"image"

	"github.com/nfnt/resize"
)

// prepareInput resizes the image to the model's input resolution and writes
// it into the tensor buffer in NHWC order, normalized to [-1, 1] the way
// the MobileNetV1 PoseNet graph expects.
func prepareInput(img image.Image, data []float32) {
	img = resize.Resize(InputSize, InputSize, img, resize.Lanczos3)

	i := 0
	for y := 0; y < InputSize; y++ {
		for x := 0; x < InputSize; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			data[i] = float32(r>>8)/127.5 - 1
			data[i+1] = float32(g>>8)/127.5 - 1
			data[i+2] = float32(b>>8)/127.5 - 1
			i += 3
		}
	}
}
