package ffprobe

import (
	"encoding/json"
	"testing"
)

const sampleOutput = `{
  "streams": [
    {"index": 0, "codec_name": "h264", "codec_type": "video", "width": 3840, "height": 2160, "r_frame_rate": "30000/1001", "avg_frame_rate": "30000/1001"},
    {"index": 1, "codec_name": "aac", "codec_type": "audio"}
  ],
  "format": {"filename": "clip.mp4", "nb_streams": 2, "duration": "10.010000", "format_name": "mov,mp4"}
}`

func TestResultHelpers(t *testing.T) {
	var result Result
	if err := json.Unmarshal([]byte(sampleOutput), &result); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	stream, ok := result.VideoStream()
	if !ok {
		t.Fatal("expected a video stream")
	}
	if stream.Width != 3840 || stream.Height != 2160 {
		t.Fatalf("unexpected dimensions: %dx%d", stream.Width, stream.Height)
	}
	if result.DurationSeconds() != 10.01 {
		t.Fatalf("unexpected duration: %v", result.DurationSeconds())
	}
	if result.FrameRateText() != "30000/1001" {
		t.Fatalf("unexpected frame rate: %q", result.FrameRateText())
	}
}

func TestFrameRateTextFallsBackToAverage(t *testing.T) {
	result := Result{Streams: []Stream{{CodecType: "video", RFrameRate: "0/0", AvgFrameRate: "25/1"}}}
	if result.FrameRateText() != "25/1" {
		t.Fatalf("expected avg_frame_rate fallback, got %q", result.FrameRateText())
	}
}

func TestFrameRateTextEmptyWithoutVideo(t *testing.T) {
	result := Result{Streams: []Stream{{CodecType: "audio"}}}
	if result.FrameRateText() != "" {
		t.Fatalf("expected empty frame rate, got %q", result.FrameRateText())
	}
}

func TestDurationFallsBackToStream(t *testing.T) {
	result := Result{
		Streams: []Stream{{CodecType: "video", Duration: "4.5"}},
		Format:  Format{Duration: ""},
	}
	if result.DurationSeconds() != 4.5 {
		t.Fatalf("expected stream duration fallback, got %v", result.DurationSeconds())
	}
}
