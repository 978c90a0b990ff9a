package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
)

func TestNewPoolWorkers(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{4, 4},
		{1, 1},
		{0, runtime.GOMAXPROCS(0)},
		{-3, runtime.GOMAXPROCS(0)},
	}
	for _, tt := range tests {
		p := NewPool(tt.in)
		if got := p.Workers(); got != tt.want {
			t.Errorf("NewPool(%d).Workers() = %d, want %d", tt.in, got, tt.want)
		}
		p.Close()
	}
}

func TestPoolRun(t *testing.T) {
	p := NewPool(4)
	defer p.Close()

	var n atomic.Int64
	work := make([]func(), 100)
	for i := range work {
		work[i] = func() { n.Add(1) }
	}
	p.Run(work)
	if n.Load() != 100 {
		t.Errorf("ran %d items, want 100", n.Load())
	}
}

func TestNilPoolRunsSerially(t *testing.T) {
	var p *Pool
	var order []int
	p.Run([]func(){
		func() { order = append(order, 0) },
		func() { order = append(order, 1) },
	})
	if len(order) != 2 || order[0] != 0 || order[1] != 1 {
		t.Errorf("order = %v, want [0 1]", order)
	}
	if p.Workers() != 1 {
		t.Errorf("nil Workers() = %d, want 1", p.Workers())
	}
	p.Close()
}

func TestPoolRunAfterClose(t *testing.T) {
	p := NewPool(2)
	p.Close()
	p.Close()

	ran := 0
	p.Run([]func(){func() { ran++ }, func() { ran++ }})
	if ran != 2 {
		t.Errorf("closed pool ran %d items, want 2", ran)
	}
}

func TestBandsCoverRows(t *testing.T) {
	p := NewPool(4)
	defer p.Close()

	for _, h := range []int{0, 1, 15, 16, 17, 100, 1080} {
		var mu sync.Mutex
		seen := make([]int, h)
		p.Bands(h, func(y0, y1 int) {
			mu.Lock()
			defer mu.Unlock()
			for y := y0; y < y1; y++ {
				seen[y]++
			}
		})
		for y, c := range seen {
			if c != 1 {
				t.Errorf("h=%d: row %d visited %d times, want 1", h, y, c)
				break
			}
		}
	}
}

func TestBandsSmallImageSingleBand(t *testing.T) {
	p := NewPool(8)
	defer p.Close()

	calls := 0
	p.Bands(MinBandRows, func(y0, y1 int) {
		calls++
		if y0 != 0 || y1 != MinBandRows {
			t.Errorf("band = [%d,%d), want [0,%d)", y0, y1, MinBandRows)
		}
	})
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func BenchmarkBands(b *testing.B) {
	p := NewPool(0)
	defer p.Close()
	buf := make([]float32, 1920*1080)

	b.ReportAllocs()
	for b.Loop() {
		p.Bands(1080, func(y0, y1 int) {
			for i := y0 * 1920; i < y1*1920; i++ {
				buf[i] = buf[i]*0.5 + 1
			}
		})
	}
}
