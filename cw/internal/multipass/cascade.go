package multipass

const (
	maxPasses = 8
	maxWindow = 255
	minWindow = 5
)

// pass holds the O(1) running-sum state for a single moving-average stage.
// ring holds the last `window` raw input samples seen, so the running sum
// can always subtract the true oldest sample rather than an already
// smoothed one — this is what makes in-place processing correct across
// chunk boundaries.
type pass struct {
	ring       [maxWindow]float64
	pos        int
	primed     bool
	runningSum float64
}

// Cascade applies n identical centered moving-average passes in series.
// Window is forced odd and clamped to [5, 255]; passes is clamped to
// [1, 8]. Processing is in-place and allocation-free.
type Cascade struct {
	passes []pass
	window int
}

// NewCascade builds a cascade with the given number of passes and window
// size, normalizing both to the bounds the streaming state can hold.
func NewCascade(passes, window int) *Cascade {
	if passes < 1 {
		passes = 1
	}
	if passes > maxPasses {
		passes = maxPasses
	}
	if window < minWindow {
		window = minWindow
	}
	if window > maxWindow {
		window = maxWindow
	}
	if window%2 == 0 {
		window++
	}

	return &Cascade{
		passes: make([]pass, passes),
		window: window,
	}
}

// Window returns the (odd, clamped) window size in samples.
func (c *Cascade) Window() int { return c.window }

// Passes returns the number of cascaded moving-average stages.
func (c *Cascade) Passes() int { return len(c.passes) }

// Process smooths buf in place through every cascaded pass. Each pass's
// output becomes the next pass's input, and each pass carries its own
// trailing-window state across calls so chunking does not change the
// result.
func (c *Cascade) Process(buf []float64) {
	for i := range c.passes {
		c.passes[i].process(buf, c.window)
	}
}

// Reset clears all carried state; coefficients (window, pass count) are
// unaffected.
func (c *Cascade) Reset() {
	for i := range c.passes {
		c.passes[i] = pass{}
	}
}

// process runs w-point centered moving-average smoothing over data in
// place. A ring buffer of the last w raw input samples tracks what to
// subtract from the running sum, so reading "oldest" never depends on
// data already overwritten with this pass's own output — that would turn
// the FIR box average into a feedback filter.
func (p *pass) process(data []float64, w int) {
	n := len(data)
	if n == 0 {
		return
	}

	if !p.primed {
		for i := 0; i < w; i++ {
			p.ring[i] = data[0]
		}
		p.runningSum = data[0] * float64(w)
		p.pos = 0
		p.primed = true
	}

	invW := 1.0 / float64(w)
	sum := p.runningSum
	pos := p.pos

	for i := 0; i < n; i++ {
		x := data[i]
		oldest := p.ring[pos]
		p.ring[pos] = x
		pos++
		if pos == w {
			pos = 0
		}

		sum += x - oldest
		data[i] = sum * invW
	}

	p.pos = pos
	p.runningSum = sum
}
