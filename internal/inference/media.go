package inference

import (
	"encoding/base64"
	"regexp"
)

var (
	imageDataURL = regexp.MustCompile(`^data:(image/[a-zA-Z0-9+.\-]+);base64,(.+)$`)
	audioDataURL = regexp.MustCompile(`^data:(audio/[a-zA-Z0-9+.\-]+)[^,]*;base64,(.+)$`)
)

// ParseImageDataURL decodes a base64 image data URL into a media part
func ParseImageDataURL(dataURL string) (MediaPart, bool) {
	return parseDataURL(imageDataURL, dataURL)
}

// ParseAudioDataURL decodes a base64 audio data URL into a media part.
// Codec suffixes in the MIME parameter list are dropped.
func ParseAudioDataURL(dataURL string) (MediaPart, bool) {
	return parseDataURL(audioDataURL, dataURL)
}

func parseDataURL(pattern *regexp.Regexp, dataURL string) (MediaPart, bool) {
	match := pattern.FindStringSubmatch(dataURL)
	if match == nil {
		return MediaPart{}, false
	}
	data, err := base64.StdEncoding.DecodeString(match[2])
	if err != nil {
		return MediaPart{}, false
	}
	return MediaPart{MIME: match[1], Data: data}, true
}
