package rtc

import "github.com/pion/webrtc/v4"

// Signaling message types.
const (
	msgJoin        = "join"
	msgJoined      = "joined"
	msgLeave       = "leave"
	msgError       = "error"
	msgPublish     = "publish"
	msgUnpublish   = "unpublish"
	msgPublished   = "published"
	msgUnpublished = "unpublished"
	msgSubscribe   = "subscribe"
	msgOffer       = "offer"
	msgAnswer      = "answer"
	msgCandidate   = "candidate"
	msgPing        = "ping"
	msgPong        = "pong"
)

type trackInfo struct {
	ID   string `json:"id"`
	Kind string `json:"kind"`
}

// message is the single JSON envelope used in both directions; only the
// fields of its type are set.
type message struct {
	Type    string `json:"type"`
	Channel string `json:"channel,omitempty"`
	Token   string `json:"token,omitempty"`
	UID     string `json:"uid,omitempty"`
	Kind    string `json:"kind,omitempty"`
	Error   string `json:"error,omitempty"`

	Tracks []trackInfo `json:"tracks,omitempty"`

	SDP string `json:"sdp,omitempty"`

	Candidate     string  `json:"candidate,omitempty"`
	SDPMid        string  `json:"sdpMid,omitempty"`
	SDPMLineIndex *uint16 `json:"sdpMLineIndex,omitempty"`
}

func candidateMessage(ci webrtc.ICECandidateInit) message {
	m := message{Type: msgCandidate, Candidate: ci.Candidate, SDPMLineIndex: ci.SDPMLineIndex}
	if ci.SDPMid != nil {
		m.SDPMid = *ci.SDPMid
	}
	return m
}

func (m message) candidateInit() webrtc.ICECandidateInit {
	ci := webrtc.ICECandidateInit{Candidate: m.Candidate, SDPMLineIndex: m.SDPMLineIndex}
	if m.SDPMid != "" {
		mid := m.SDPMid
		ci.SDPMid = &mid
	}
	return ci
}
