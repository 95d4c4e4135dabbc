package timeline

// PlayKind enumerates the playback phases.
type PlayKind int

const (
	// KindStopped means playback is paused.
	KindStopped PlayKind = iota
	// KindPlaying means free playback until the end of the video.
	KindPlaying
	// KindPlayingUntil means playback that stops at a target time, used for
	// range preview.
	KindPlayingUntil
)

// PlayState is the tagged playback state. Transitions go through the
// helpers below rather than ad-hoc flag twiddling.
type PlayState struct {
	kind  PlayKind
	until float64
}

// Stopped returns the paused state.
func Stopped() PlayState { return PlayState{kind: KindStopped} }

// Playing returns the free-playback state.
func Playing() PlayState { return PlayState{kind: KindPlaying} }

// PlayingUntil returns a playback state that stops once the position
// reaches the given time.
func PlayingUntil(end float64) PlayState {
	return PlayState{kind: KindPlayingUntil, until: end}
}

// Kind returns the state tag.
func (s PlayState) Kind() PlayKind { return s.kind }

// IsPlaying reports whether playback is active.
func (s PlayState) IsPlaying() bool { return s.kind != KindStopped }

// Until returns the stop target for preview playback.
func (s PlayState) Until() (float64, bool) {
	return s.until, s.kind == KindPlayingUntil
}

// Toggle flips between stopped and free playback; preview playback pauses.
func (s PlayState) Toggle() PlayState {
	if s.IsPlaying() {
		return Stopped()
	}
	return Playing()
}

// Preview seeks to the range start and requests playback until its end is
// reached. This is a request: playback actually stops on a later Advance
// call once the position passes the end.
func (p *Position) Preview(start, end float64) PlayState {
	p.Seek(start)
	return PlayingUntil(end)
}

// Advance moves the position forward by dt seconds of wall time and returns
// the resulting play state. Playback stops at the preview target or at the
// end of the video.
func (p *Position) Advance(dt float64, state PlayState) PlayState {
	if !state.IsPlaying() {
		return state
	}
	p.Seek(p.time + dt)
	if until, ok := state.Until(); ok && p.time >= until {
		return Stopped()
	}
	if p.time >= p.duration {
		return Stopped()
	}
	return state
}
