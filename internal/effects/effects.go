// Package effects renders the decorative precipitation overlay shown behind
// the weather panel. The overlay carries no information beyond the condition
// it was rendered for and never intercepts input.
package effects

import (
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/i474232898/weather-lookup/internal/weather"
)

// ParticleCount is the number of particles in a precipitation layer.
const ParticleCount = 100

const (
	FlashPeriod = 4 * time.Second
	FlashLit    = 150 * time.Millisecond
)

// Kind names the particle style, matching the class the front end animates.
type Kind string

const (
	KindRain Kind = "rain-drop"
	KindSnow Kind = "snow-flake"
)

// Particle is one falling element. LeftPct is its horizontal start in percent
// of the viewport; it falls once per Duration after an initial Delay.
type Particle struct {
	LeftPct  float64       `json:"leftPct"`
	Delay    time.Duration `json:"delay"`
	Duration time.Duration `json:"duration"`
}

type Layer struct {
	Kind      Kind       `json:"kind"`
	Particles []Particle `json:"particles"`
}

// Overlay is the full, pointer-transparent effect stack for one render.
type Overlay struct {
	Dark   bool    `json:"dark"`
	Layers []Layer `json:"layers"`
	Flash  bool    `json:"flash"`
}

// Empty reports whether the overlay draws nothing.
func (o Overlay) Empty() bool {
	return len(o.Layers) == 0 && !o.Flash
}

// timing bounds for a particle style: delay in [0, maxDelay), duration in [minDur, minDur+spread).
type timing struct {
	maxDelay time.Duration
	minDur   time.Duration
	spread   time.Duration
}

var timings = map[Kind]timing{
	KindRain: {maxDelay: 2 * time.Second, minDur: 500 * time.Millisecond, spread: 300 * time.Millisecond},
	KindSnow: {maxDelay: 5 * time.Second, minDur: 3 * time.Second, spread: 2 * time.Second},
}

// Renderer produces overlays. Each Render call draws fresh random particles;
// the random source is seeded once, so a renderer built with the same seed
// replays the same sequence of overlays.
type Renderer struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewRenderer(seed uint64) *Renderer {
	return &Renderer{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Render builds the overlay for a condition category and light/dark flag.
func (r *Renderer) Render(cond weather.Condition, dark bool) Overlay {
	o := Overlay{Dark: dark}

	switch cond {
	case weather.ConditionRain:
		o.Layers = []Layer{r.layer(KindRain)}
	case weather.ConditionThunderstorm:
		o.Layers = []Layer{r.layer(KindRain)}
		o.Flash = true
	case weather.ConditionSnow:
		o.Layers = []Layer{r.layer(KindSnow)}
	}
	return o
}

func (r *Renderer) layer(kind Kind) Layer {
	tm := timings[kind]

	r.mu.Lock()
	defer r.mu.Unlock()

	ps := make([]Particle, ParticleCount)
	for i := range ps {
		ps[i] = Particle{
			LeftPct:  r.rng.Float64() * 100,
			Delay:    time.Duration(r.rng.Float64() * float64(tm.maxDelay)),
			Duration: tm.minDur + time.Duration(r.rng.Float64()*float64(tm.spread)),
		}
	}
	return Layer{Kind: kind, Particles: ps}
}

// FlashingAt reports whether the lightning flash is lit at t.
func (o Overlay) FlashingAt(t time.Duration) bool {
	return o.Flash && t >= 0 && t%FlashPeriod < FlashLit
}

var glyphs = map[Kind]rune{
	KindRain: '|',
	KindSnow: '*',
}

// Frame rasterizes the overlay at animation time t into height rows of width cells.
// A lit flash fills the background.
func (o Overlay) Frame(width, height int, t time.Duration) []string {
	if width <= 0 || height <= 0 {
		return nil
	}

	bg := ' '
	if o.FlashingAt(t) {
		bg = '░'
	}
	grid := make([][]rune, height)
	for y := range grid {
		grid[y] = []rune(strings.Repeat(string(bg), width))
	}

	for _, l := range o.Layers {
		g := glyphs[l.Kind]
		for _, p := range l.Particles {
			elapsed := t - p.Delay
			if elapsed < 0 || p.Duration <= 0 {
				continue
			}
			phase := float64(elapsed%p.Duration) / float64(p.Duration)
			x := min(int(p.LeftPct/100*float64(width)), width-1)
			y := min(int(phase*float64(height)), height-1)
			grid[y][x] = g
		}
	}

	rows := make([]string, height)
	for y := range grid {
		rows[y] = string(grid[y])
	}
	return rows
}
