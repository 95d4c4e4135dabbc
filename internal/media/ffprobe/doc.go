// Package ffprobe shells out to ffprobe for source video metadata.
package ffprobe
