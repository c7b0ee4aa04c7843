package models

import "image"

// Circle is a located disk in pixel coordinates.
type Circle struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Radius int `json:"radius"`
}

// Center returns the circle center as an image point.
func (c Circle) Center() image.Point {
	return image.Point{X: c.X, Y: c.Y}
}

// Shrink returns the concentric circle with the radius reduced by px.
func (c Circle) Shrink(px int) Circle {
	c.Radius -= px
	return c
}

// Bounds returns the circle's bounding box clipped to frame, matching the
// half-open crop window [x-r, x+r) used for disk crops.
func (c Circle) Bounds(frame image.Rectangle) image.Rectangle {
	r := image.Rect(c.X-c.Radius, c.Y-c.Radius, c.X+c.Radius, c.Y+c.Radius)
	return r.Intersect(frame)
}

// Contour is the ordered outer boundary of one connected foreground region.
type Contour []image.Point

// Bounds returns the smallest rectangle enclosing every contour point.
// Max is exclusive, like image.Rectangle.
func (c Contour) Bounds() image.Rectangle {
	if len(c) == 0 {
		return image.Rectangle{}
	}
	minX, minY := c[0].X, c[0].Y
	maxX, maxY := minX, minY
	for _, p := range c[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}

// Translate returns a copy of the contour shifted by offset.
func (c Contour) Translate(offset image.Point) Contour {
	out := make(Contour, len(c))
	for i, p := range c {
		out[i] = p.Add(offset)
	}
	return out
}
