package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/snapshot"
	"github.com/gogpu/snapshot/backend"
	"github.com/gogpu/snapshot/backend/software"
	"github.com/h2non/filetype"
	"github.com/lucasb-eyer/go-colorful"

	// Decoders for the accepted input formats.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// errUnsupportedImage is returned for inputs that are not a decodable image.
var errUnsupportedImage = errors.New("snapshot: unsupported image type")

// supportedInputs are the filetype extensions with a registered decoder.
var supportedInputs = map[string]bool{
	"png": true, "jpg": true, "bmp": true, "tif": true, "webp": true,
}

// options are the command-line settings of one run.
type options struct {
	input, output string
	preset        string
	savePreset    string
	backend       string

	effect, color, blur, sampling string
	tint                          string
	iterations                    int

	preview bool
	dump    bool
}

// backBufferLoader is implemented by devices whose back buffer is a CPU
// image.
type backBufferLoader interface {
	SetBackBuffer(img image.Image)
}

// run renders the input once with the current preset.
func run(opts options, logger *slog.Logger) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	if opts.savePreset != "" {
		if err := snapshot.SavePreset(opts.savePreset, cfg); err != nil {
			return err
		}
	}
	img, err := loadImage(opts.input)
	if err != nil {
		return err
	}

	out, seq, err := capture(img, cfg, opts.backend, opts.preview, logger)
	if err != nil {
		return err
	}
	if opts.dump {
		fmt.Print(seq)
	}
	if err := saveImage(opts.output, out); err != nil {
		return err
	}
	logger.Info("snapshot written", "path", opts.output,
		"width", out.Rect.Dx(), "height", out.Rect.Dy())
	return nil
}

// loadConfig starts from the preset, or the defaults, and applies the flag
// overrides.
func loadConfig(opts options) (snapshot.RequestConfig, error) {
	cfg := snapshot.DefaultConfig()
	if opts.preset != "" {
		var err error
		if cfg, err = snapshot.LoadPreset(opts.preset); err != nil {
			return cfg, err
		}
	}
	if opts.effect != "" {
		if err := cfg.EffectMode.UnmarshalText([]byte(opts.effect)); err != nil {
			return cfg, err
		}
	}
	if opts.color != "" {
		if err := cfg.ColorMode.UnmarshalText([]byte(opts.color)); err != nil {
			return cfg, err
		}
	}
	if opts.blur != "" {
		if err := cfg.BlurMode.UnmarshalText([]byte(opts.blur)); err != nil {
			return cfg, err
		}
	}
	if opts.sampling != "" {
		if err := cfg.DownSamplingRate.UnmarshalText([]byte(opts.sampling)); err != nil {
			return cfg, err
		}
	}
	if opts.tint != "" {
		c, err := colorful.Hex(opts.tint)
		if err != nil {
			return cfg, fmt.Errorf("snapshot: tint: %w", err)
		}
		cfg.EffectColor = snapshot.Color{R: float32(c.R), G: float32(c.G), B: float32(c.B), A: 1}
	}
	if opts.iterations != 0 {
		cfg.SetBlurIterations(opts.iterations)
	}
	return cfg.Normalized(), nil
}

// capture runs one request over img and returns the output pixels and the
// command sequence that produced them.
func capture(img image.Image, cfg snapshot.RequestConfig, name string, preview bool, logger *slog.Logger) (*image.RGBA, *snapshot.CommandSequence, error) {
	b := img.Bounds()
	dev, err := backend.Open(name, backend.Options{Width: b.Dx(), Height: b.Dy(), Workers: -1, Logger: logger})
	if err != nil {
		return nil, nil, err
	}
	if c, ok := dev.(io.Closer); ok {
		defer c.Close()
	}

	var schedOpts []snapshot.Option
	schedOpts = append(schedOpts, snapshot.WithLogger(logger))
	if preview {
		schedOpts = append(schedOpts, snapshot.WithPreview(software.NewPreview(software.NewTexture("preview", img))))
	} else {
		loader, ok := dev.(backBufferLoader)
		if !ok {
			return nil, nil, fmt.Errorf("snapshot: backend %s cannot load an image back buffer", name)
		}
		loader.SetBackBuffer(img)
	}

	sched, err := snapshot.NewScheduler(dev, schedOpts...)
	if err != nil {
		return nil, nil, err
	}
	defer sched.Close()

	req := snapshot.NewRequest(cfg)
	seq, err := sched.BuildCommands(req)
	if err != nil {
		return nil, nil, err
	}
	future := sched.Submit(seq)
	// Preview schedulers have already executed the sequence.
	sched.EndOfFrame()
	if err := future.Wait(context.Background()); err != nil {
		return nil, nil, err
	}
	out, err := readOutput(req.Texture())
	if err != nil {
		return nil, nil, err
	}
	return out, seq, nil
}

// readOutput converts the captured texture into an image.
func readOutput(tex snapshot.Texture) (*image.RGBA, error) {
	if tex == nil {
		return nil, errors.New("snapshot: capture produced no texture")
	}
	reader, ok := tex.(interface{ ReadPixels() ([]byte, error) })
	if !ok {
		return nil, fmt.Errorf("snapshot: cannot read %T", tex)
	}
	pix, err := reader.ReadPixels()
	if err != nil {
		return nil, err
	}
	w, h := tex.Width(), tex.Height()
	if len(pix) != w*h*4 {
		return nil, fmt.Errorf("snapshot: read %d bytes for %dx%d", len(pix), w, h)
	}
	return &image.RGBA{Pix: pix, Stride: w * 4, Rect: image.Rect(0, 0, w, h)}, nil
}

// loadImage decodes path after checking its content type.
func loadImage(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("snapshot: read input: %w", err)
	}
	kind, err := filetype.Match(data)
	if err != nil || !supportedInputs[kind.Extension] {
		return nil, fmt.Errorf("%w: %s (%s)", errUnsupportedImage, path, kind.MIME.Value)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("snapshot: decode %s: %w", path, err)
	}
	return img, nil
}

// saveImage encodes img by the extension of path. The captured pixels are
// premultiplied, which image.RGBA already is.
func saveImage(path string, img *image.RGBA) error {
	var buf bytes.Buffer
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95}); err != nil {
			return fmt.Errorf("snapshot: encode %s: %w", path, err)
		}
	default:
		if err := png.Encode(&buf, img); err != nil {
			return fmt.Errorf("snapshot: encode %s: %w", path, err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("snapshot: write output: %w", err)
	}
	return nil
}
