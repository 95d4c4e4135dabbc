// Package media models source videos: path, duration, fractional frame
// rate, and native pixel dimensions, discovered once on load via ffprobe.
//
// Frame rate is kept in rational form so frame stepping stays exact on
// sources like 30000/1001; a configurable default rate substitutes for
// unusable metadata instead of failing the load.
package media
