// Command clipmark marks time ranges on videos and exports them as clips
// with ffmpeg.
package main
