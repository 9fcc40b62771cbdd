package vision

import (
	"fmt"

	"gocv.io/x/gocv"
)

// Camera wraps a video capture device.
type Camera struct {
	device int
	webcam *gocv.VideoCapture
}

// OpenCamera opens the given capture device. Non-zero width/height are
// requested from the driver; whether they stick is up to the camera.
func OpenCamera(device, width, height int) (*Camera, error) {
	webcam, err := gocv.VideoCaptureDevice(device)
	if err != nil {
		return nil, fmt.Errorf("opening capture device %d: %w", device, err)
	}
	if width > 0 {
		webcam.Set(gocv.VideoCaptureFrameWidth, float64(width))
	}
	if height > 0 {
		webcam.Set(gocv.VideoCaptureFrameHeight, float64(height))
	}
	return &Camera{device: device, webcam: webcam}, nil
}

// Read grabs the next frame into img. An empty frame is reported as an
// error so the caller can decide whether to retry or bail.
func (c *Camera) Read(img *gocv.Mat) error {
	if ok := c.webcam.Read(img); !ok {
		return fmt.Errorf("capture device %d closed", c.device)
	}
	if img.Empty() {
		return fmt.Errorf("capture device %d returned an empty frame", c.device)
	}
	return nil
}

// Close releases the capture device.
func (c *Camera) Close() error {
	return c.webcam.Close()
}
