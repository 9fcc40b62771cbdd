// Package vision wraps the camera, the ArUco detector and the preview
// overlay. Everything that touches OpenCV lives here.
package vision

import (
	"fmt"
	"strings"

	"gocv.io/x/gocv"
)

// Detection is one marker found in a frame.
type Detection struct {
	ID      int
	Corners []gocv.Point2f
}

// Centroid returns the mean of the marker's corner coordinates.
func (d Detection) Centroid() (x, y float64) {
	if len(d.Corners) == 0 {
		return 0, 0
	}
	for _, c := range d.Corners {
		x += float64(c.X)
		y += float64(c.Y)
	}
	n := float64(len(d.Corners))
	return x / n, y / n
}

// dictionaries maps config names to the predefined ArUco dictionaries.
var dictionaries = map[string]gocv.ArucoDictionaryCode{
	"4x4_50":   gocv.ArucoDict4x4_50,
	"4x4_100":  gocv.ArucoDict4x4_100,
	"4x4_250":  gocv.ArucoDict4x4_250,
	"4x4_1000": gocv.ArucoDict4x4_1000,
	"5x5_50":   gocv.ArucoDict5x5_50,
	"5x5_100":  gocv.ArucoDict5x5_100,
	"5x5_250":  gocv.ArucoDict5x5_250,
	"6x6_50":   gocv.ArucoDict6x6_50,
	"6x6_250":  gocv.ArucoDict6x6_250,
	"7x7_50":   gocv.ArucoDict7x7_50,
	"original": gocv.ArucoDictArucoOriginal,
}

// ParseDictionary resolves a config dictionary name like "4x4_50".
func ParseDictionary(name string) (gocv.ArucoDictionaryCode, error) {
	code, ok := dictionaries[strings.ToLower(name)]
	if !ok {
		return 0, fmt.Errorf("unknown aruco dictionary %q", name)
	}
	return code, nil
}

// Detector finds ArUco markers in frames.
type Detector struct {
	detector gocv.ArucoDetector
	gray     gocv.Mat
}

// NewDetector creates a detector for the named dictionary.
func NewDetector(dictName string) (*Detector, error) {
	code, err := ParseDictionary(dictName)
	if err != nil {
		return nil, err
	}

	dict := gocv.GetPredefinedDictionary(code)
	params := gocv.NewArucoDetectorParameters()

	return &Detector{
		detector: gocv.NewArucoDetectorWithParams(dict, params),
		gray:     gocv.NewMat(),
	}, nil
}

// Detect returns all markers found in the frame. Detection runs on a
// grayscale copy; rejected candidates are discarded.
func (d *Detector) Detect(img gocv.Mat) []Detection {
	gocv.CvtColor(img, &d.gray, gocv.ColorBGRToGray)
	corners, ids, _ := d.detector.DetectMarkers(d.gray)

	out := make([]Detection, 0, len(ids))
	for i, id := range ids {
		out = append(out, Detection{ID: id, Corners: corners[i]})
	}
	return out
}

// Close releases the underlying detector.
func (d *Detector) Close() error {
	d.gray.Close()
	return d.detector.Close()
}
