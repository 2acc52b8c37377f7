package layout

// Fit scales an iw×ih pixel image into a maxW×maxH point box without
// upscaling, preserving aspect ratio. It returns zero sizes when the box or
// the image is empty.
func Fit(iw, ih int, maxW, maxH float64) (w, h float64) {
	if iw <= 0 || ih <= 0 || maxW <= 0 || maxH <= 0 {
		return 0, 0
	}
	scale := min(maxW/float64(iw), maxH/float64(ih), 1)
	return float64(iw) * scale, float64(ih) * scale
}
