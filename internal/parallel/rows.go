package parallel

// MinBandRows is the smallest band Bands hands to a worker.
const MinBandRows = 16

// Bands calls fn for row ranges [y0, y1) covering [0, h), concurrently on
// p. Each range is at least MinBandRows tall except the last.
func (p *Pool) Bands(h int, fn func(y0, y1 int)) {
	if h <= 0 {
		return
	}
	n := min(p.Workers()*2, (h+MinBandRows-1)/MinBandRows)
	if n <= 1 {
		fn(0, h)
		return
	}
	step := (h + n - 1) / n
	work := make([]func(), 0, n)
	for y := 0; y < h; y += step {
		y0, y1 := y, min(y+step, h)
		work = append(work, func() { fn(y0, y1) })
	}
	p.Run(work)
}
