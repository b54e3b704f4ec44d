package storage

import (
	"encoding/json"
	"fmt"
	"strconv"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// ProbeDuration đọc thời lượng (giây) của file media bằng ffprobe
func ProbeDuration(path string) (float64, error) {
	out, err := ffmpeg.Probe(path)
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w", path, err)
	}
	return parseProbeDuration(out)
}

// parseProbeDuration lấy format.duration từ output JSON của ffprobe
func parseProbeDuration(out string) (float64, error) {
	var probe struct {
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
	}
	if err := json.Unmarshal([]byte(out), &probe); err != nil {
		return 0, fmt.Errorf("decode ffprobe output: %w", err)
	}
	if probe.Format.Duration == "" {
		return 0, fmt.Errorf("ffprobe output has no duration")
	}
	return strconv.ParseFloat(probe.Format.Duration, 64)
}
