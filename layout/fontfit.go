package layout

// FitFont finds the largest font size in the closed range [min, start] for
// which fits reports true. Sizes are tested in descending order; because a
// larger font never renders smaller, the first passing size is the maximum.
// The second return value is false when even min does not fit — a fitting
// failure the caller reports against the slide, not an exception.
func FitFont(min, start int, fits func(size int) bool) (int, bool) {
	if start < min {
		start = min
	}
	for size := start; size >= min; size-- {
		if fits(size) {
			return size, true
		}
	}
	return 0, false
}

// clampSize binds a shared search bound into one region's own range: the
// region never shrinks below its minimum and never grows past its start.
func clampSize(size, min, start int) int {
	if size < min {
		return min
	}
	if size > start {
		return start
	}
	return size
}
