package louver

import "math"

// Scrollbar returns thumb geometry for a scrollbar track of the given
// length, in the track's own units (cells for terminals, pixels
// otherwise): the thumb's starting position and its size. The thumb size
// is proportional to the fraction of content in view, never below one so
// it stays visible on huge lists. When the content fits the viewport, the
// thumb fills the track.
func (w Window) Scrollbar(track int) (start, size int) {
	if track <= 0 {
		return 0, 0
	}
	if w.ContentHeight <= 0 || w.MaxScrollY <= 0 {
		return 0, track
	}
	viewport := w.ContentHeight - w.MaxScrollY
	size = int(float64(track) * viewport / w.ContentHeight)
	if size < 1 {
		size = 1
	}
	if size > track {
		size = track
	}
	start = int(math.Round(float64(track-size) * w.ScrollY / w.MaxScrollY))
	return start, size
}
