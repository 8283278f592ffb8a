// Package modify implements the editing command handlers: transforms,
// trim/extend, corner operations, arrays, stretch, join, explode and
// erase.
package modify

import "github.com/draftsmith/draftsmith/internal/command"

// Register binds every modify command to its handler factory.
func Register(r *command.Registry) {
	r.Register(command.Move, func() command.Handler { return &moveHandler{} })
	r.Register(command.Copy, func() command.Handler { return &copyHandler{} })
	r.Register(command.Rotate, func() command.Handler { return &rotateHandler{} })
	r.Register(command.Scale, func() command.Handler { return &scaleHandler{} })
	r.Register(command.Mirror, func() command.Handler { return &mirrorHandler{} })
	r.Register(command.Offset, func() command.Handler { return &offsetHandler{} })
	r.Register(command.Trim, func() command.Handler { return &trimHandler{} })
	r.Register(command.Extend, func() command.Handler { return &extendHandler{} })
	r.Register(command.Fillet, func() command.Handler { return &cornerHandler{fillet: true} })
	r.Register(command.Chamfer, func() command.Handler { return &cornerHandler{} })
	r.Register(command.Array, func() command.Handler { return &arrayHandler{} })
	r.Register(command.Stretch, func() command.Handler { return &stretchHandler{} })
	r.Register(command.Join, func() command.Handler { return &joinHandler{} })
	r.Register(command.Explode, func() command.Handler { return &explodeHandler{} })
	r.Register(command.Erase, func() command.Handler { return &eraseHandler{} })
}
