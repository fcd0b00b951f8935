// Package imaging provides the pixel grids the coin pipeline operates on,
// plus loading and display helpers at the edge of the pipeline.
//
// All grids use a coordinate system where (0,0) is the top-left corner, X
// increases rightward and Y increases downward. Grids are dense: every pixel
// is materialized because morphology and region growing touch arbitrary
// neighbours.
//
// # Grid Types
//
//   - RGBGrid: 3 interleaved 8-bit channels, the decoded photo
//   - BinaryGrid: one 8-bit channel restricted to Background (0) and Foreground (255)
//   - HSBGrid: 3 interleaved float channels, hue in [0,1)
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Grids are not; a grid is
// owned by whichever pipeline stage is currently working on it.
//
// # Error Handling
//
// Functions return errors for inputs that arrive from outside the pipeline,
// such as unreadable files or coordinates supplied by a client. Indexing a
// grid out of range is a programming error and panics.
package imaging
