package vision

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/turretlab/arucotrack/internal/mode"
	"github.com/turretlab/arucotrack/internal/target"
)

var (
	colorMarker   = color.RGBA{0, 255, 0, 0}
	colorCenter   = color.RGBA{255, 0, 0, 0}
	colorLabel    = color.RGBA{0, 255, 255, 0}
	colorBest     = color.RGBA{0, 0, 255, 0}
	colorTrail    = color.RGBA{255, 255, 0, 0}
	colorLegend   = color.RGBA{255, 255, 255, 0}
	colorBackdrop = color.RGBA{32, 32, 32, 0}
)

// DrawMarkers outlines every detected marker.
func DrawMarkers(img *gocv.Mat, dets []Detection) {
	if len(dets) == 0 {
		return
	}
	corners := make([][]gocv.Point2f, len(dets))
	ids := make([]int, len(dets))
	for i, d := range dets {
		corners[i] = d.Corners
		ids[i] = d.ID
	}
	gocv.ArucoDrawDetectedMarkers(*img, corners, ids, colorMarker)
}

// DrawCenterLine draws the vertical reference line deltas are measured from.
func DrawCenterLine(img *gocv.Mat) {
	cx := img.Cols() / 2
	gocv.Line(img, image.Pt(cx, 0), image.Pt(cx, img.Rows()), colorCenter, 1)
}

// DrawLabels puts an ID and offset label next to each candidate's centroid.
func DrawLabels(img *gocv.Mat, cands []target.Candidate) {
	for _, c := range cands {
		label := fmt.Sprintf("ID:%d x:%d dX:%.1f", c.ID, int(c.CentroidX), c.DeltaX)
		gocv.PutText(img, label,
			image.Pt(int(c.CentroidX)+10, int(c.CentroidY)),
			gocv.FontHersheyPlain, 1.2, colorLabel, 2)
	}
}

// DrawBest highlights the most-centered candidate.
func DrawBest(img *gocv.Mat, best target.Candidate) {
	center := image.Pt(int(best.CentroidX), int(best.CentroidY))
	gocv.Circle(img, center, 12, colorBest, 2)
	gocv.PutText(img, fmt.Sprintf("BEST ID:%d dX:%.1f", best.ID, best.DeltaX),
		image.Pt(center.X+16, center.Y-16),
		gocv.FontHersheyPlain, 1.2, colorBest, 2)
}

// DrawTrail connects a marker's smoothed positions, oldest first.
func DrawTrail(img *gocv.Mat, trail []target.Point) {
	for i := 1; i < len(trail); i++ {
		p0 := image.Pt(int(trail[i-1].X), int(trail[i-1].Y))
		p1 := image.Pt(int(trail[i].X), int(trail[i].Y))
		gocv.Line(img, p0, p1, colorTrail, 1)
	}
}

// DrawDistance labels a marker with its solved distance.
func DrawDistance(img *gocv.Mat, det Detection, pose Pose) {
	x, y := det.Centroid()
	gocv.PutText(img, fmt.Sprintf("%.0fmm", pose.Distance()),
		image.Pt(int(x)+10, int(y)+18),
		gocv.FontHersheyPlain, 1.2, colorLabel, 2)
}

// DrawStatus puts the mode legend and frame rate in the top-left corner.
// The legend sits on a dark backing block and the current mode is drawn in
// the highlight color.
func DrawStatus(img *gocv.Mat, m mode.Mode, fps float64) {
	gocv.Rectangle(img, image.Rect(4, 4, 420, 54), colorBackdrop, -1)

	gocv.PutText(img, fmt.Sprintf("[%d] %s  %.1f fps", uint8(m), m, fps),
		image.Pt(10, 24), gocv.FontHersheyPlain, 1.4, colorLegend, 2)

	// legend entries laid out one by one so the active mode can differ
	x := 10
	for _, mm := range mode.All() {
		entry := fmt.Sprintf("%d=%s", uint8(mm), mm)
		c := colorLegend
		if mm == m {
			c = colorMarker
		}
		gocv.PutText(img, entry, image.Pt(x, 46), gocv.FontHersheyPlain, 1.0, c, 1)
		x += 12 * (len(entry) + 2)
	}
	gocv.PutText(img, fmt.Sprintf("%c=quit", mode.QuitKey),
		image.Pt(x, 46), gocv.FontHersheyPlain, 1.0, colorLegend, 1)
}

// DrawSelection lists the currently selected target IDs during selection.
func DrawSelection(img *gocv.Mat, ids []int) {
	gocv.PutText(img, fmt.Sprintf("targets: %v", ids),
		image.Pt(10, 68), gocv.FontHersheyPlain, 1.2, colorLabel, 2)
}
