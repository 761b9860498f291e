package domain

import "fmt"

type MediaKind string

const (
	MediaAudio MediaKind = "audio"
	MediaVideo MediaKind = "video"
)

// MediaKinds lists kinds in publish order.
var MediaKinds = []MediaKind{MediaAudio, MediaVideo}

func ParseMediaKind(s string) (MediaKind, error) {
	switch k := MediaKind(s); k {
	case MediaAudio, MediaVideo:
		return k, nil
	}
	return "", fmt.Errorf("unknown media kind %q", s)
}

type DeviceCategory string

const (
	Camera     DeviceCategory = "camera"
	Microphone DeviceCategory = "microphone"
	Speaker    DeviceCategory = "speaker"
)

func ParseDeviceCategory(s string) (DeviceCategory, error) {
	switch c := DeviceCategory(s); c {
	case Camera, Microphone, Speaker:
		return c, nil
	}
	return "", fmt.Errorf("unknown device category %q", s)
}

// CaptureKind maps a capture category to the media kind it feeds.
// Speakers are render devices and have no kind.
func (c DeviceCategory) CaptureKind() (MediaKind, bool) {
	switch c {
	case Camera:
		return MediaVideo, true
	case Microphone:
		return MediaAudio, true
	}
	return "", false
}

// Device is one enumerated capture or render device.
type Device struct {
	ID       string         `json:"id"`
	Label    string         `json:"label"`
	Category DeviceCategory `json:"category"`
}

// DeviceList is the ordered result of one enumeration.
type DeviceList struct {
	Cameras     []Device `json:"cameras"`
	Microphones []Device `json:"microphones"`
	Speakers    []Device `json:"speakers"`
}

func (l DeviceList) Of(c DeviceCategory) []Device {
	switch c {
	case Camera:
		return l.Cameras
	case Microphone:
		return l.Microphones
	case Speaker:
		return l.Speakers
	}
	return nil
}

// Selections holds the current device id per category; "" means none.
type Selections struct {
	Camera     string `json:"camera"`
	Microphone string `json:"microphone"`
	Speaker    string `json:"speaker"`
}

// Capture returns the selected device for a media kind.
func (s Selections) Capture(kind MediaKind) string {
	switch kind {
	case MediaAudio:
		return s.Microphone
	case MediaVideo:
		return s.Camera
	}
	return ""
}
