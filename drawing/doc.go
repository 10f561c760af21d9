// Package drawing holds the geometry of recorded strokes and the contract of
// the rendering backends that display them.
//
// A stroke is a Path: a zero-length start dot followed by quadrilateral
// segments. Segments are produced by Filter, a spring-mass-damper simulation
// that turns noisy, over-dense pointer samples into a smooth pen tip
// trajectory (the DynaDraw technique). The filter knows nothing about
// rendering or storage.
//
// Backends are created via the registry, following the database/sql driver
// pattern:
//
//	import _ "github.com/gogpu/screencast/drawing/backends/raster"
//
//	b, err := drawing.NewBackend("raster", 1280, 720)
package drawing
