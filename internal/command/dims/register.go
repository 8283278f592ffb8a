// Package dims implements the dimension command family: linear,
// aligned, angular, radial and diameter callouts, plus the continue
// and baseline chains that extend an existing dimension run.
package dims

import "github.com/draftsmith/draftsmith/internal/command"

// Register binds every dimension command to its handler factory.
func Register(r *command.Registry) {
	r.Register(command.DimLinear, func() command.Handler { return &linearHandler{} })
	r.Register(command.DimAligned, func() command.Handler { return &linearHandler{aligned: true} })
	r.Register(command.DimAngular, func() command.Handler { return &angularHandler{} })
	r.Register(command.DimRadius, func() command.Handler { return &radialHandler{} })
	r.Register(command.DimDiameter, func() command.Handler { return &radialHandler{diameter: true} })
	r.Register(command.DimContinue, func() command.Handler { return &chainHandler{} })
	r.Register(command.DimBaseline, func() command.Handler { return &chainHandler{baseline: true} })
}
