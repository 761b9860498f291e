package app

import "github.com/aimaster-dev/healthBridge/internal/domain"

// PublishPolicy decides which local tracks a set of selections yields.
// ok is false when the selections do not satisfy the policy at all, in
// which case nothing is published or changed.
type PublishPolicy interface {
	Want(sel domain.Selections) (want map[domain.MediaKind]string, ok bool)
}

// NewPublishPolicy returns CoupledPolicy when both kinds are required.
func NewPublishPolicy(requireAudioAndVideo bool) PublishPolicy {
	if requireAudioAndVideo {
		return CoupledPolicy{}
	}
	return IndependentPolicy{}
}

// CoupledPolicy publishes only when a camera and a microphone are both
// selected.
type CoupledPolicy struct{}

func (CoupledPolicy) Want(sel domain.Selections) (map[domain.MediaKind]string, bool) {
	if sel.Camera == "" || sel.Microphone == "" {
		return nil, false
	}
	return map[domain.MediaKind]string{
		domain.MediaAudio: sel.Microphone,
		domain.MediaVideo: sel.Camera,
	}, true
}

// IndependentPolicy publishes whichever capture selections exist.
type IndependentPolicy struct{}

func (IndependentPolicy) Want(sel domain.Selections) (map[domain.MediaKind]string, bool) {
	return map[domain.MediaKind]string{
		domain.MediaAudio: sel.Microphone,
		domain.MediaVideo: sel.Camera,
	}, true
}
