package placement

import "github.com/zeusync/cardhouse/internal/core/geom"

// Preview is the ghost card. Its displayed position eases toward the latest
// candidate; commits always read the raw candidate.
type Preview struct {
	factor    float64
	target    Candidate
	displayed geom.Vec3
	valid     bool
}

func NewPreview(factor float64) *Preview {
	return &Preview{factor: factor}
}

// Track records a fresh candidate. A frame without one keeps the last.
func (p *Preview) Track(c Candidate, ok bool) {
	if !ok {
		return
	}
	if !p.valid {
		p.displayed = c.Position
	}
	p.target = c
	p.valid = true
}

// Advance moves the displayed position one frame toward the target.
func (p *Preview) Advance() {
	if !p.valid {
		return
	}
	p.displayed = geom.Lerp(p.displayed, p.target.Position, p.factor)
}

// Target is the unsmoothed pose a commit uses.
func (p *Preview) Target() (Candidate, bool) {
	return p.target, p.valid
}

// Displayed is where the ghost is drawn this frame.
func (p *Preview) Displayed() (geom.Vec3, geom.Euler, bool) {
	return p.displayed, p.target.Rotation, p.valid
}

func (p *Preview) Reset() {
	*p = Preview{factor: p.factor}
}
