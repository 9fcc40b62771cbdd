package vision

import (
	"github.com/go-gl/mathgl/mgl32"
	"gocv.io/x/gocv"
)

// Pose is a marker's position relative to the camera. Units follow the
// marker size given to the estimator (millimeters by default).
type Pose struct {
	Rotation    mgl32.Vec3
	Translation mgl32.Vec3
}

// Distance is the straight-line distance from camera to marker center.
func (p Pose) Distance() float64 {
	return float64(p.Translation.Len())
}

// PoseEstimator solves marker pose from its corner positions and the
// camera intrinsics.
type PoseEstimator struct {
	objectPoints gocv.Point3fVector
	cameraMatrix gocv.Mat
	distCoeffs   gocv.Mat
}

// NewPoseEstimator builds an estimator for square markers of the given
// edge length. Calibration is required; without intrinsics the solver has
// nothing to work with.
func NewPoseEstimator(markerSize float64, calib *Calibration) *PoseEstimator {
	half := float32(markerSize / 2)

	// marker-frame corners in detection order:
	// top-left, top-right, bottom-right, bottom-left
	objectPoints := gocv.NewPoint3fVectorFromPoints([]gocv.Point3f{
		{X: -half, Y: half, Z: 0},
		{X: half, Y: half, Z: 0},
		{X: half, Y: -half, Z: 0},
		{X: -half, Y: -half, Z: 0},
	})

	cameraMatrix, distCoeffs := calib.Mats()

	return &PoseEstimator{
		objectPoints: objectPoints,
		cameraMatrix: cameraMatrix,
		distCoeffs:   distCoeffs,
	}
}

// Estimate solves the pose for one detection. ok is false when the solver
// fails or the detection does not have the four corners of a square marker.
func (e *PoseEstimator) Estimate(det Detection) (Pose, bool) {
	if len(det.Corners) != 4 {
		return Pose{}, false
	}

	imagePoints := gocv.NewPoint2fVectorFromPoints(det.Corners)
	defer imagePoints.Close()

	rvec := gocv.NewMat()
	defer rvec.Close()
	tvec := gocv.NewMat()
	defer tvec.Close()

	if ok := gocv.SolvePnP(e.objectPoints, imagePoints, e.cameraMatrix, e.distCoeffs, &rvec, &tvec, false, 0); !ok {
		return Pose{}, false
	}

	return Pose{
		Rotation: mgl32.Vec3{
			float32(rvec.GetDoubleAt(0, 0)),
			float32(rvec.GetDoubleAt(1, 0)),
			float32(rvec.GetDoubleAt(2, 0)),
		},
		Translation: mgl32.Vec3{
			float32(tvec.GetDoubleAt(0, 0)),
			float32(tvec.GetDoubleAt(1, 0)),
			float32(tvec.GetDoubleAt(2, 0)),
		},
	}, true
}

// Close releases the estimator's OpenCV resources.
func (e *PoseEstimator) Close() {
	e.objectPoints.Close()
	e.cameraMatrix.Close()
	e.distCoeffs.Close()
}
