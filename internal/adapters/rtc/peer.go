package rtc

import (
	"errors"
	"fmt"
	"sync"

	"github.com/pion/interceptor"
	"github.com/pion/rtcp"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"

	"github.com/aimaster-dev/healthBridge/internal/domain"
)

// errOfferCollision marks a remote offer that crossed a local one. The
// client is the impolite side of the exchange: pion cannot roll back a
// local offer, so the colliding remote offer is dropped and the server is
// expected to yield and answer ours.
var errOfferCollision = errors.New("remote offer collided with local offer")

// NewAPI builds the pion API with default interceptors (NACK, RTCP
// reports, TWCC). setup registers codecs; nil registers the defaults.
func NewAPI(setup func(*webrtc.MediaEngine) error) (*webrtc.API, error) {
	me := &webrtc.MediaEngine{}
	if setup == nil {
		setup = (*webrtc.MediaEngine).RegisterDefaultCodecs
	}
	if err := setup(me); err != nil {
		return nil, fmt.Errorf("register codecs: %w", err)
	}
	ir := &interceptor.Registry{}
	if err := webrtc.RegisterDefaultInterceptors(me, ir); err != nil {
		return nil, fmt.Errorf("register interceptors: %w", err)
	}
	return webrtc.NewAPI(webrtc.WithMediaEngine(me), webrtc.WithInterceptorRegistry(ir)), nil
}

func webrtcConfig(iceServers []string) webrtc.Configuration {
	cfg := webrtc.Configuration{}
	if len(iceServers) > 0 {
		cfg.ICEServers = []webrtc.ICEServer{{URLs: iceServers}}
	}
	return cfg
}

// peer wraps the single PeerConnection of a joined session.
type peer struct {
	pc  *webrtc.PeerConnection
	uid domain.ParticipantID

	onICE         func(webrtc.ICECandidateInit)
	onTrack       func(track *webrtc.TrackRemote, receiver *webrtc.RTPReceiver)
	onNegotiation func()
	onLost        func(state webrtc.PeerConnectionState)

	// negMu serializes offer/answer exchanges.
	negMu sync.Mutex

	mu      sync.Mutex
	pending []webrtc.ICECandidateInit
}

func newPeer(api *webrtc.API, cfg webrtc.Configuration, uid domain.ParticipantID) (*peer, error) {
	pc, err := api.NewPeerConnection(cfg)
	if err != nil {
		return nil, err
	}
	return &peer{pc: pc, uid: uid}, nil
}

// start installs the pion handlers. Callbacks must be set before.
func (p *peer) start() {
	p.pc.OnICEConnectionStateChange(func(s webrtc.ICEConnectionState) {
		log.Info().Str("module", "rtc.peer").Str("uid", string(p.uid)).Str("ice_state", s.String()).Msg("ICE state")
	})

	p.pc.OnConnectionStateChange(func(s webrtc.PeerConnectionState) {
		log.Info().Str("module", "rtc.peer").Str("uid", string(p.uid)).Str("peer_connection_state", s.String()).Msg("Peer state")
		if s == webrtc.PeerConnectionStateFailed || s == webrtc.PeerConnectionStateClosed {
			if p.onLost != nil {
				p.onLost(s)
			}
		}
	})

	p.pc.OnICECandidate(func(cand *webrtc.ICECandidate) {
		if cand != nil && p.onICE != nil {
			p.onICE(cand.ToJSON())
		}
	})

	p.pc.OnNegotiationNeeded(func() {
		if p.onNegotiation != nil {
			p.onNegotiation()
		}
	})

	p.pc.OnTrack(func(track *webrtc.TrackRemote, receiver *webrtc.RTPReceiver) {
		log.Info().
			Str("module", "rtc.peer").
			Str("uid", string(p.uid)).
			Str("kind", track.Kind().String()).
			Str("track_id", track.ID()).
			Str("stream_id", track.StreamID()).
			Msg("OnTrack received")
		if p.onTrack != nil {
			p.onTrack(track, receiver)
		}
	})
}

func (p *peer) applyOfferAndCreateAnswer(sdp string) (*webrtc.SessionDescription, error) {
	p.negMu.Lock()
	defer p.negMu.Unlock()
	if p.pc.SignalingState() == webrtc.SignalingStateHaveLocalOffer {
		return nil, errOfferCollision
	}
	if err := p.pc.SetRemoteDescription(webrtc.SessionDescription{Type: webrtc.SDPTypeOffer, SDP: sdp}); err != nil {
		return nil, err
	}
	p.flushCandidates()
	answer, err := p.pc.CreateAnswer(nil)
	if err != nil {
		return nil, err
	}
	if err := p.pc.SetLocalDescription(answer); err != nil {
		return nil, err
	}
	return p.pc.LocalDescription(), nil
}

func (p *peer) createOffer() (*webrtc.SessionDescription, error) {
	p.negMu.Lock()
	defer p.negMu.Unlock()
	offer, err := p.pc.CreateOffer(nil)
	if err != nil {
		return nil, err
	}
	if err := p.pc.SetLocalDescription(offer); err != nil {
		return nil, err
	}
	return p.pc.LocalDescription(), nil
}

func (p *peer) applyAnswer(sdp string) error {
	p.negMu.Lock()
	defer p.negMu.Unlock()
	if err := p.pc.SetRemoteDescription(webrtc.SessionDescription{Type: webrtc.SDPTypeAnswer, SDP: sdp}); err != nil {
		return err
	}
	p.flushCandidates()
	return nil
}

// addICECandidate queues candidates that arrive before the remote
// description.
func (p *peer) addICECandidate(ci webrtc.ICECandidateInit) error {
	if p.pc.RemoteDescription() == nil {
		p.mu.Lock()
		p.pending = append(p.pending, ci)
		p.mu.Unlock()
		return nil
	}
	return p.pc.AddICECandidate(ci)
}

func (p *peer) flushCandidates() {
	p.mu.Lock()
	pending := p.pending
	p.pending = nil
	p.mu.Unlock()
	for _, ci := range pending {
		if err := p.pc.AddICECandidate(ci); err != nil {
			log.Error().Err(err).Str("module", "rtc.peer").Msg("add queued ice candidate")
		}
	}
}

// addTrack attaches a local track and drains its RTCP so interceptors
// keep running.
func (p *peer) addTrack(track webrtc.TrackLocal) (*webrtc.RTPSender, error) {
	sender, err := p.pc.AddTrack(track)
	if err != nil {
		return nil, err
	}
	go func() {
		buf := make([]byte, 1500)
		for {
			if _, _, err := sender.Read(buf); err != nil {
				return
			}
		}
	}()
	return sender, nil
}

func (p *peer) removeTrack(sender *webrtc.RTPSender) error {
	return p.pc.RemoveTrack(sender)
}

// requestKeyframe asks the sender of ssrc for a full picture.
func (p *peer) requestKeyframe(ssrc webrtc.SSRC) error {
	return p.pc.WriteRTCP([]rtcp.Packet{&rtcp.PictureLossIndication{MediaSSRC: uint32(ssrc)}})
}

func (p *peer) close() {
	if err := p.pc.Close(); err != nil {
		log.Error().Err(err).Str("module", "rtc.peer").Str("uid", string(p.uid)).Msg("close error")
	} else {
		log.Info().Str("module", "rtc.peer").Str("uid", string(p.uid)).Msg("closed")
	}
}
