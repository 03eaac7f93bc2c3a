package popup

// Rect is a box in viewport coordinates.
type Rect struct {
	Left, Top     float64
	Width, Height float64
}

// Size is the rendered size of the popup.
type Size struct {
	Width, Height float64
}

// Viewport is the visible window and its scroll offset.
type Viewport struct {
	Width, Height    float64
	ScrollX, ScrollY float64
}

// Point is a position in document coordinates.
type Point struct {
	Left, Top float64
}

// Place positions a popup of size popup next to icon.
func Place(icon Rect, popup Size, vp Viewport) Point {
	top := icon.Top
	if icon.Top+popup.Height > vp.Height {
		top -= popup.Height
	}
	left := icon.Left
	if icon.Left+popup.Width > vp.Width {
		left -= popup.Width
	}
	return Point{Left: left + vp.ScrollX, Top: top + vp.ScrollY}
}
