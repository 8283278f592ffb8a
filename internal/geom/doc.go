// Package geom provides the pure geometry kernel for the drawing engine:
// point and vector arithmetic, planar transforms (translate, rotate, scale,
// mirror), distance queries against drawing primitives, snap-point
// candidates, axis-aligned box classification, trim/extend parameter
// computation, fillet and chamfer solutions, and dimension geometry
// derivation.
//
// Everything in this package is side-effect free and operates on plain
// values. Points carry three components; planar operations preserve Z.
// Degenerate inputs (zero-length directions, near-parallel lines,
// collinear circumcircle points) are reported through ok-style returns
// rather than errors, because the command layer treats them as silent
// aborts.
package geom
