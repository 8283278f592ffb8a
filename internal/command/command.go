// Package command defines the interactive command framework: the
// command names, the multi-step handler interface, the execution
// context handlers mutate the drawing through, and the registry the
// session dispatches by. Per-command handlers live in the draw,
// modify, dims and blocks subpackages.
package command

import "strings"

// Name identifies an interactive command.
type Name string

// Drawing commands.
const (
	Line      Name = "LINE"
	Polyline  Name = "POLYLINE"
	Circle    Name = "CIRCLE"
	Arc       Name = "ARC"
	Ellipse   Name = "ELLIPSE"
	Donut     Name = "DONUT"
	Polygon   Name = "POLYGON"
	Rectangle Name = "RECTANGLE"
	Spline    Name = "SPLINE"
	Point     Name = "POINT"
	Ray       Name = "RAY"
	XLine     Name = "XLINE"
	Text      Name = "TEXT"
	MText     Name = "MTEXT"
	Table     Name = "TABLE"
	Hatch     Name = "HATCH"
)

// Modify commands.
const (
	Move    Name = "MOVE"
	Copy    Name = "COPY"
	Rotate  Name = "ROTATE"
	Scale   Name = "SCALE"
	Mirror  Name = "MIRROR"
	Offset  Name = "OFFSET"
	Trim    Name = "TRIM"
	Extend  Name = "EXTEND"
	Fillet  Name = "FILLET"
	Chamfer Name = "CHAMFER"
	Array   Name = "ARRAY"
	Stretch Name = "STRETCH"
	Join    Name = "JOIN"
	Explode Name = "EXPLODE"
	Erase   Name = "ERASE"
)

// Block commands.
const (
	Block  Name = "BLOCK"
	Insert Name = "INSERT"
	WBlock Name = "WBLOCK"
)

// Dimension commands.
const (
	DimLinear   Name = "DIMLINEAR"
	DimAligned  Name = "DIMALIGNED"
	DimAngular  Name = "DIMANGULAR"
	DimRadius   Name = "DIMRADIUS"
	DimDiameter Name = "DIMDIAMETER"
	DimContinue Name = "DIMCONTINUE"
	DimBaseline Name = "DIMBASELINE"
)

// None is the terminal state: no command active.
const None Name = ""

var drawCommands = map[Name]bool{
	Line: true, Polyline: true, Circle: true, Arc: true, Ellipse: true,
	Donut: true, Polygon: true, Rectangle: true, Spline: true, Point: true,
	Ray: true, XLine: true, Text: true, MText: true, Table: true, Hatch: true,
}

// IsDraw reports whether the command creates fresh geometry from
// clicked points. Starting a draw command clears the selection, and
// object snap is only computed while one is active.
func IsDraw(n Name) bool {
	return drawCommands[n]
}

// Parse resolves a user-typed command name, case-insensitively.
func Parse(s string) (Name, bool) {
	n := Name(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := all[n]; ok {
		return n, true
	}
	return None, false
}

var all = map[Name]bool{
	Line: true, Polyline: true, Circle: true, Arc: true, Ellipse: true,
	Donut: true, Polygon: true, Rectangle: true, Spline: true, Point: true,
	Ray: true, XLine: true, Text: true, MText: true, Table: true, Hatch: true,
	Move: true, Copy: true, Rotate: true, Scale: true, Mirror: true,
	Offset: true, Trim: true, Extend: true, Fillet: true, Chamfer: true,
	Array: true, Stretch: true, Join: true, Explode: true, Erase: true,
	Block: true, Insert: true, WBlock: true,
	DimLinear: true, DimAligned: true, DimAngular: true, DimRadius: true,
	DimDiameter: true, DimContinue: true, DimBaseline: true,
}

// All returns every registered command name (unordered).
func All() []Name {
	names := make([]Name, 0, len(all))
	for n := range all {
		names = append(names, n)
	}
	return names
}
