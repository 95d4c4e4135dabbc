// Package crop models the resolution-independent crop rectangle attached to
// a range. Rectangles are stored as fractions of the frame and converted to
// pixel coordinates only at export time, against the source's native
// resolution rather than the preview's rendered size.
package crop
