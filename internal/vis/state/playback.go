package state

import "time"

// PlaybackState scrubs through a solved plan's discrete timesteps. Time
// advances continuously while playing (Advance is driven by wall-clock
// elapsed seconds), but CurrentTime is always snapped to a joint-state
// boundary by StepForward/StepBack and truncated to int when indexing a
// plan, since the domain has no continuous-time semantics (spec.md
// Non-goals).
type PlaybackState struct {
	CurrentTime float64 // Current playback time, in plan timesteps
	MaxTime     float64 // Plan makespan, in timesteps
	Speed       float64 // Playback speed multiplier (1.0 = one timestep/sec)
	Playing     bool    // Whether playback is active
	lastUpdate  time.Time
}

// NewPlaybackState creates a new playback state.
func NewPlaybackState(maxTime float64) *PlaybackState {
	return &PlaybackState{
		CurrentTime: 0,
		MaxTime:     maxTime,
		Speed:       1.0,
		Playing:     false,
		lastUpdate:  time.Now(),
	}
}

// TogglePlay toggles playback on/off.
func (p *PlaybackState) TogglePlay() {
	p.Playing = !p.Playing
	if p.Playing {
		p.lastUpdate = time.Now()
		// Reset to start if at end
		if p.CurrentTime >= p.MaxTime {
			p.CurrentTime = 0
		}
	}
}

// Play starts playback.
func (p *PlaybackState) Play() {
	p.Playing = true
	p.lastUpdate = time.Now()
}

// Pause stops playback.
func (p *PlaybackState) Pause() {
	p.Playing = false
}

// Reset resets to beginning.
func (p *PlaybackState) Reset() {
	p.CurrentTime = 0
	p.Playing = false
}

// Advance advances playback by elapsed time since last update.
func (p *PlaybackState) Advance() {
	if !p.Playing {
		return
	}

	now := time.Now()
	elapsed := now.Sub(p.lastUpdate).Seconds()
	p.lastUpdate = now

	p.CurrentTime += elapsed * p.Speed

	if p.CurrentTime >= p.MaxTime {
		p.CurrentTime = p.MaxTime
		p.Playing = false
	}
}

// SetTime sets the current playback time.
func (p *PlaybackState) SetTime(t float64) {
	if t < 0 {
		t = 0
	}
	if t > p.MaxTime {
		t = p.MaxTime
	}
	p.CurrentTime = t
}

// StepForward advances by exactly one plan timestep, snapping to the
// next joint state.
func (p *PlaybackState) StepForward() {
	p.Pause()
	p.SetTime(float64(int(p.CurrentTime) + 1))
}

// StepBack rewinds by exactly one plan timestep, snapping to the
// previous joint state.
func (p *PlaybackState) StepBack() {
	p.Pause()
	p.SetTime(float64(int(p.CurrentTime) - 1))
}

// SetSpeed sets the playback speed multiplier.
func (p *PlaybackState) SetSpeed(speed float64) {
	if speed < 0.1 {
		speed = 0.1
	}
	if speed > 10 {
		speed = 10
	}
	p.Speed = speed
}

// SetMaxTime updates the playback horizon, clamping the current time to
// it if it now falls outside the new range; Playing is left unchanged —
// used when a fresh plan replaces the one playback was scrubbing through.
func (p *PlaybackState) SetMaxTime(maxTime float64) {
	p.MaxTime = maxTime
	if p.CurrentTime > maxTime {
		p.CurrentTime = maxTime
	}
}

// Progress returns current progress as 0-1.
func (p *PlaybackState) Progress() float64 {
	if p.MaxTime <= 0 {
		return 0
	}
	return p.CurrentTime / p.MaxTime
}
