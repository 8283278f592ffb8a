// Package draw implements the drawing command handlers: entities
// created from clicked points and typed values.
package draw

import "github.com/draftsmith/draftsmith/internal/command"

// Register binds every drawing command to its handler factory.
func Register(r *command.Registry) {
	r.Register(command.Line, func() command.Handler { return &lineHandler{} })
	r.Register(command.Polyline, func() command.Handler { return &polylineHandler{} })
	r.Register(command.Spline, func() command.Handler { return &splineHandler{} })
	r.Register(command.Circle, func() command.Handler { return &circleHandler{} })
	r.Register(command.Arc, func() command.Handler { return &arcHandler{} })
	r.Register(command.Ellipse, func() command.Handler { return &ellipseHandler{} })
	r.Register(command.Donut, func() command.Handler { return &donutHandler{} })
	r.Register(command.Polygon, func() command.Handler { return &polygonHandler{} })
	r.Register(command.Rectangle, func() command.Handler { return &rectangleHandler{} })
	r.Register(command.Point, func() command.Handler { return &pointHandler{} })
	r.Register(command.Ray, func() command.Handler { return &rayHandler{} })
	r.Register(command.XLine, func() command.Handler { return &xlineHandler{} })
	r.Register(command.Text, func() command.Handler { return &textHandler{} })
	r.Register(command.MText, func() command.Handler { return &mtextHandler{} })
	r.Register(command.Table, func() command.Handler { return &tableHandler{} })
	r.Register(command.Hatch, func() command.Handler { return &hatchHandler{} })
}
