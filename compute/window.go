package compute

// Window is the scissor rectangle a pass is restricted to.
type Window struct {
	X, Y          int
	Width, Height int
}

// WindowFor returns the smallest full-width window holding activeCount cells
// laid out row-major in a grid of the given width: origin (0,0), height
// ceil(activeCount/width). The last row may be partially live; it is
// processed whole.
func WindowFor(activeCount, width int) Window {
	if activeCount <= 0 || width <= 0 {
		return Window{}
	}
	return Window{
		Width:  width,
		Height: (activeCount + width - 1) / width,
	}
}

// Cells returns the number of cells covered by the window.
func (w Window) Cells() int { return w.Width * w.Height }

// Empty reports whether the window covers no cells.
func (w Window) Empty() bool { return w.Width <= 0 || w.Height <= 0 }

// Contains reports whether (x, y) lies inside the window.
func (w Window) Contains(x, y int) bool {
	return x >= w.X && x < w.X+w.Width && y >= w.Y && y < w.Y+w.Height
}

// clampTo limits the window to a width x height surface.
func (w Window) clampTo(width, height int) Window {
	if w.X < 0 {
		w.Width += w.X
		w.X = 0
	}
	if w.Y < 0 {
		w.Height += w.Y
		w.Y = 0
	}
	if w.X+w.Width > width {
		w.Width = width - w.X
	}
	if w.Y+w.Height > height {
		w.Height = height - w.Y
	}
	if w.Width < 0 {
		w.Width = 0
	}
	if w.Height < 0 {
		w.Height = 0
	}
	return w
}
