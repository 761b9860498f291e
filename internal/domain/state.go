package domain

type ConnectionState int32

const (
	Disconnected ConnectionState = iota
	Connecting
	Connected
	Leaving
)

func (s ConnectionState) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case Leaving:
		return "leaving"
	default:
		return "unknown"
	}
}

func (s ConnectionState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// LocalTrackInfo describes one open local track.
type LocalTrackInfo struct {
	Kind      MediaKind `json:"kind"`
	DeviceID  string    `json:"device_id"`
	Enabled   bool      `json:"enabled"`
	Published bool      `json:"published"`
}

// LocalMediaState is nil per kind when no track of that kind is open.
type LocalMediaState struct {
	Audio *LocalTrackInfo `json:"audio,omitempty"`
	Video *LocalTrackInfo `json:"video,omitempty"`
}
