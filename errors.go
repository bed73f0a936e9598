package slice3d

import "errors"

var (
	// ErrInvalidMesh is returned when a mesh is malformed at construction.
	ErrInvalidMesh = errors.New("slice3d: invalid mesh")
	// ErrInvalidField is returned for fields whose length fits neither
	// vertices nor cells, or whose values are unusable.
	ErrInvalidField = errors.New("slice3d: invalid field")
	ErrInvalidCut   = errors.New("slice3d: invalid slicing function")
	ErrInvalidColor = errors.New("slice3d: invalid color function")
	// ErrInvalidPolygons is returned when counts and points disagree.
	ErrInvalidPolygons = errors.New("slice3d: invalid polygon list")
	ErrInvalidLevels   = errors.New("slice3d: invalid contour levels")
)
