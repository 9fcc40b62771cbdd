package vision

import (
	"encoding/json"
	"fmt"
	"os"

	"gocv.io/x/gocv"
)

// Calibration holds intrinsics loaded from a calibration file. The camera
// matrix is row-major 3x3.
type Calibration struct {
	CameraMatrix [9]float64 `json:"camera_matrix"`
	DistCoeffs   []float64  `json:"dist_coeffs"`
}

// LoadCalibration reads a calibration JSON file.
func LoadCalibration(path string) (*Calibration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading calibration file: %w", err)
	}

	var c Calibration
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing calibration file %s: %w", path, err)
	}
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("calibration file %s: %w", path, err)
	}
	return &c, nil
}

func (c *Calibration) validate() error {
	if c.CameraMatrix[0] == 0 || c.CameraMatrix[4] == 0 {
		return fmt.Errorf("camera matrix has zero focal length")
	}
	if len(c.DistCoeffs) != 0 && len(c.DistCoeffs) < 4 {
		return fmt.Errorf("dist_coeffs must be empty or have at least 4 entries, got %d", len(c.DistCoeffs))
	}
	return nil
}

// Mats converts the calibration into OpenCV matrices. The caller owns the
// returned Mats and must Close them.
func (c *Calibration) Mats() (cameraMatrix, distCoeffs gocv.Mat) {
	cameraMatrix = gocv.NewMatWithSize(3, 3, gocv.MatTypeCV64F)
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			cameraMatrix.SetDoubleAt(row, col, c.CameraMatrix[row*3+col])
		}
	}

	n := len(c.DistCoeffs)
	if n == 0 {
		// no distortion
		distCoeffs = gocv.Zeros(1, 5, gocv.MatTypeCV64F)
		return cameraMatrix, distCoeffs
	}

	distCoeffs = gocv.NewMatWithSize(1, n, gocv.MatTypeCV64F)
	for i, v := range c.DistCoeffs {
		distCoeffs.SetDoubleAt(0, i, v)
	}
	return cameraMatrix, distCoeffs
}
