// Package imaging loads screenshots and provides the pixel operations the
// recognizer and its debugging tools need: gray conversion, cropping,
// Lanczos resampling, binarization, layout overlays and tile collages.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner, X
// increasing rightward and Y increasing downward. Regions are
// image.Rectangle values: Min is inclusive, Max is exclusive.
//
// # Gray Conversion
//
// Every decoded screenshot is reduced to 8-bit gray with the integer
// Rec. 709 luma weights. Images produced by this package have a zero
// origin, so crops can be indexed from (0,0).
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. All other functions are
// stateless and never modify their inputs.
//
// # Error Handling
//
// Screenshot I/O and decoding failures are returned as *DecodeError so
// callers can tell them apart from segmentation failures. Invalid regions
// and encoding failures are returned as plain wrapped errors.
package imaging
