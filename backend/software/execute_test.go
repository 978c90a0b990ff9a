package software

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/snapshot"
)

func TestExecuteCopy(t *testing.T) {
	d := New(8, 8)
	c := color.RGBA{200, 100, 50, 255}
	d.SetBackBuffer(uniformImage(8, 8, c))

	out, _ := d.CreateTexture(snapshot.OutputDescriptor("out", 2, 2, snapshot.FilterBilinear))
	seq := snapshot.NewCommandSequence("copy")
	seq.GetTemporary(snapshot.TempCopy, 4, 4, snapshot.FilterBilinear)
	seq.Blit(snapshot.BackBufferTarget(), snapshot.TemporaryTarget(snapshot.TempCopy), nil, 0)
	seq.Blit(snapshot.TemporaryTarget(snapshot.TempCopy), snapshot.TextureTarget(out), nil, 0)
	seq.ReleaseTemporary(snapshot.TempCopy)

	if err := d.Execute(seq); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	checkUniform(t, out.(*Texture).Image(), c, 2)
}

func TestExecuteNil(t *testing.T) {
	if err := New(4, 4).Execute(nil); err != nil {
		t.Errorf("Execute(nil) error = %v", err)
	}
}

func TestExecuteErrors(t *testing.T) {
	d := New(8, 8)
	effect, _ := d.CreateEffectMaterial(nil)
	dead, _ := d.CreateEffectMaterial(nil)
	dead.Destroy()
	gone, _ := d.CreateTexture(snapshot.OutputDescriptor("gone", 4, 4, snapshot.FilterPoint))
	gone.Destroy()

	tmp := snapshot.TemporaryTarget(snapshot.TempEffect1)
	tests := []struct {
		name  string
		build func(seq *snapshot.CommandSequence)
		want  error
	}{
		{"release unknown", func(seq *snapshot.CommandSequence) {
			seq.ReleaseTemporary(snapshot.TempEffect1)
		}, ErrUnknownTemporary},
		{"blit from unknown", func(seq *snapshot.CommandSequence) {
			seq.Blit(tmp, snapshot.BackBufferTarget(), nil, 0)
		}, ErrUnknownTemporary},
		{"foreign texture", func(seq *snapshot.CommandSequence) {
			seq.Blit(snapshot.BackBufferTarget(), snapshot.TextureTarget(foreignTexture{}), nil, 0)
		}, ErrForeignResource},
		{"destroyed texture", func(seq *snapshot.CommandSequence) {
			seq.Blit(snapshot.BackBufferTarget(), snapshot.TextureTarget(gone), nil, 0)
		}, ErrDestroyed},
		{"destroyed material", func(seq *snapshot.CommandSequence) {
			seq.GetTemporary(snapshot.TempEffect1, 4, 4, snapshot.FilterPoint)
			seq.Blit(snapshot.BackBufferTarget(), tmp, dead, snapshot.PassEffect)
		}, ErrDestroyed},
		{"unknown pass", func(seq *snapshot.CommandSequence) {
			seq.GetTemporary(snapshot.TempEffect1, 4, 4, snapshot.FilterPoint)
			seq.Blit(snapshot.BackBufferTarget(), tmp, effect, 7)
		}, ErrUnknownPass},
		{"zero temporary", func(seq *snapshot.CommandSequence) {
			seq.GetTemporary(snapshot.TempEffect1, 0, 4, snapshot.FilterPoint)
		}, snapshot.ErrInvalidSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seq := snapshot.NewCommandSequence(tt.name)
			tt.build(seq)
			if err := d.Execute(seq); !errors.Is(err, tt.want) {
				t.Errorf("Execute() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestExecuteReleasesTemporariesOnError(t *testing.T) {
	d := New(8, 8)
	seq := snapshot.NewCommandSequence("leak")
	seq.GetTemporary(snapshot.TempCopy, 3, 5, snapshot.FilterPoint)
	seq.ReleaseTemporary(snapshot.TempEffect2)

	if err := d.Execute(seq); err == nil {
		t.Fatal("Execute() error = nil, want error")
	}
	if got := len(d.pool[image.Pt(3, 5)]); got != 1 {
		t.Errorf("pooled 3x5 buffers = %d, want 1", got)
	}
}

func TestExecuteGlobalsReachMaterial(t *testing.T) {
	d := New(4, 4)
	var got snapshot.Vec4
	probe := NewMaterial("probe", func(pass int, src, dst *image.RGBA, g Globals) error {
		got = g.Vector(snapshot.PropColorFactor)
		return nil
	})

	seq := snapshot.NewCommandSequence("globals")
	seq.GetTemporary(snapshot.TempEffect1, 4, 4, snapshot.FilterPoint)
	seq.SetGlobalVector(snapshot.PropColorFactor, snapshot.Vec4{0.1, 0.2, 0.3, 0.4})
	seq.Blit(snapshot.BackBufferTarget(), snapshot.TemporaryTarget(snapshot.TempEffect1), probe, 0)

	if err := d.Execute(seq); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if want := (snapshot.Vec4{0.1, 0.2, 0.3, 0.4}); got != want {
		t.Errorf("material saw %v, want %v", got, want)
	}
}

// capture runs one live capture of back through a scheduler on d.
func capture(t *testing.T, d *Device, cfg snapshot.RequestConfig, custom ...snapshot.Material) *Texture {
	t.Helper()
	sched, err := snapshot.NewScheduler(d)
	if err != nil {
		t.Fatalf("NewScheduler() error = %v", err)
	}
	t.Cleanup(func() { _ = sched.Close() })

	req := snapshot.NewRequest(cfg)
	req.SetCustomMaterials(custom...)
	calls := 0
	req.PostAction = func(*snapshot.Request) { calls++ }

	sched.Register(req)
	sched.OnFrameRenderPoint()
	if calls != 0 {
		t.Fatal("live capture completed before EndOfFrame")
	}
	sched.EndOfFrame()
	if calls != 1 {
		t.Fatalf("PostAction calls = %d, want 1 (stats %+v)", calls, sched.Stats())
	}
	tex, ok := req.Texture().(*Texture)
	if !ok {
		t.Fatalf("Texture() = %T, want *Texture", req.Texture())
	}
	return tex
}

func TestCaptureGrayscale(t *testing.T) {
	d := New(256, 128)
	d.SetBackBuffer(uniformImage(256, 128, color.RGBA{255, 0, 0, 255}))

	cfg := snapshot.DefaultConfig()
	cfg.EffectMode = snapshot.EffectGrayscale
	cfg.BlurMode = snapshot.BlurNone

	tex := capture(t, d, cfg)
	if tex.Width() != 128 || tex.Height() != 64 {
		t.Errorf("output = %dx%d, want 128x64", tex.Width(), tex.Height())
	}
	checkUniform(t, tex.Image(), color.RGBA{54, 54, 54, 255}, 2)
}

func TestCaptureBlurKeepsUniformImage(t *testing.T) {
	d := New(200, 100)
	c := color.RGBA{10, 200, 30, 255}
	d.SetBackBuffer(uniformImage(200, 100, c))

	cfg := snapshot.DefaultConfig()
	cfg.BlurMode = snapshot.BlurDetail
	cfg.BlurIterations = 3

	checkUniform(t, capture(t, d, cfg).Image(), c, 2)
}

func TestCaptureBlurWithWorkers(t *testing.T) {
	c := color.RGBA{200, 120, 40, 255}
	cfg := snapshot.DefaultConfig()
	cfg.BlurMode = snapshot.BlurMedium

	serial := New(320, 180)
	serial.SetBackBuffer(uniformImage(320, 180, c))
	banded := New(320, 180, WithWorkers(4))
	defer banded.Close()
	banded.SetBackBuffer(uniformImage(320, 180, c))

	want := capture(t, serial, cfg).Pixels()
	got := capture(t, banded, cfg).Pixels()
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Pixels()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestCaptureCustomMaterial(t *testing.T) {
	d := New(64, 64)
	d.SetBackBuffer(uniformImage(64, 64, color.RGBA{255, 0, 0, 255}))

	invert := NewMaterial("invert", func(pass int, src, dst *image.RGBA, _ Globals) error {
		for i := 0; i < len(dst.Pix); i += 4 {
			a := src.Pix[i+3]
			dst.Pix[i+0] = a - src.Pix[i+0]
			dst.Pix[i+1] = a - src.Pix[i+1]
			dst.Pix[i+2] = a - src.Pix[i+2]
			dst.Pix[i+3] = a
		}
		return nil
	})

	cfg := snapshot.DefaultConfig()
	cfg.BlurMode = snapshot.BlurNone
	cfg.DownSamplingRate = snapshot.SamplingNone
	cfg.ReductionRate = snapshot.SamplingNone

	checkUniform(t, capture(t, d, cfg, invert).Image(), color.RGBA{0, 255, 255, 255}, 1)
}

func TestCapturePreviewIsSynchronous(t *testing.T) {
	d := New(32, 32)
	surface := NewTexture("preview", uniformImage(128, 128, color.RGBA{0, 255, 0, 255}))

	sched, err := snapshot.NewScheduler(d, snapshot.WithPreview(NewPreview(surface)), snapshot.WithContextID("preview"))
	if err != nil {
		t.Fatalf("NewScheduler() error = %v", err)
	}
	defer sched.Close()

	cfg := snapshot.DefaultConfig()
	cfg.BlurMode = snapshot.BlurNone
	req := snapshot.NewRequest(cfg)
	sched.Register(req)
	sched.OnFrameRenderPoint()

	tex, ok := req.Texture().(*Texture)
	if !ok {
		t.Fatalf("Texture() = %T after OnFrameRenderPoint, want *Texture", req.Texture())
	}
	if tex.Width() != 64 || tex.Height() != 64 {
		t.Errorf("output = %dx%d, want 64x64", tex.Width(), tex.Height())
	}
	checkUniform(t, tex.Image(), color.RGBA{0, 255, 0, 255}, 1)
}

func BenchmarkCaptureDefault(b *testing.B) {
	d := New(1280, 720)
	d.SetBackBuffer(uniformImage(1280, 720, color.RGBA{90, 120, 200, 255}))
	sched, _ := snapshot.NewScheduler(d)
	defer sched.Close()
	req := snapshot.NewRequest(snapshot.DefaultConfig())

	b.ReportAllocs()
	for b.Loop() {
		sched.Register(req)
		sched.OnFrameRenderPoint()
		sched.EndOfFrame()
	}
}
