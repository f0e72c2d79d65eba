package snapshot

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/taigrr/phong/internal/config"
	"github.com/taigrr/phong/internal/driver"
	"github.com/taigrr/phong/internal/scene"
)

func testContext(t *testing.T) (*driver.RenderContext, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := log.New(&buf)

	cfg := config.Default()
	cfg.Width, cfg.Height = 64, 48
	s, err := scene.Load(cfg, logger)
	if err != nil {
		t.Fatal(err)
	}
	return driver.NewRenderContext(cfg, s, logger), &buf
}

func readPNG(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	return img
}

func TestBackendWritesFrame(t *testing.T) {
	rc, buf := testContext(t)
	out := filepath.Join(t.TempDir(), "cube.png")

	d := driver.New(New(out, rc.Logger), rc)
	d.Clock = func() float64 { return 0.5 }
	d.MaxFrames = 1
	if err := d.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	img := readPNG(t, out)
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 48 {
		t.Fatalf("size = %v, want 64x48", b)
	}
	// The cube covers the center of the image.
	if r, g, b, _ := img.At(32, 24).RGBA(); r == 0 && g == 0 && b == 0 {
		t.Error("center pixel is background")
	}
	if r, g, b, _ := img.At(0, 0).RGBA(); r != 0 || g != 0 || b != 0 {
		t.Error("corner pixel should be the black background")
	}
	if !bytes.Contains(buf.Bytes(), []byte("wrote snapshot")) {
		t.Errorf("log = %q", buf.String())
	}
}

func TestBackendLiteralPercentPath(t *testing.T) {
	rc, _ := testContext(t)
	dir := t.TempDir()
	out := filepath.Join(dir, "100%.png")

	d := driver.New(New(out, rc.Logger), rc)
	d.Clock = func() float64 { return 0 }
	d.MaxFrames = 1
	if err := d.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("expected %q to be written: %v", out, err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("files = %v, want only 100%%.png", entries)
	}
}

func TestBackendRejectsEmptySize(t *testing.T) {
	rc, _ := testContext(t)
	rc.Width = 0
	if err := New("x.png", rc.Logger).Init(rc); err == nil {
		t.Error("Init accepted a zero width")
	}
}

func TestFramePath(t *testing.T) {
	tests := []struct {
		pattern string
		i       int
		want    string
	}{
		{"out.png", 2, "out-002.png"},
		{"dir/frame_%04d.png", 12, "dir/frame_0012.png"},
		{"noext", 0, "noext-000"},
		{"100%.png", 1, "100%-001.png"},
		{"50%_%d.png", 7, "50%_7.png"},
		{"%s.png", 3, "%s-003.png"},
	}
	for _, tc := range tests {
		if got := FramePath(tc.pattern, tc.i); got != tc.want {
			t.Errorf("FramePath(%q, %d) = %q, want %q", tc.pattern, tc.i, got, tc.want)
		}
	}
}

func TestSequence(t *testing.T) {
	rc, _ := testContext(t)
	pattern := filepath.Join(t.TempDir(), "spin.png")

	paths, err := Sequence(context.Background(), rc, []float64{0, 1, 2}, pattern)
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 3 {
		t.Fatalf("paths = %v", paths)
	}

	first := readPNG(t, paths[0]).(*image.RGBA)
	second := readPNG(t, paths[1]).(*image.RGBA)
	if bytes.Equal(first.Pix, second.Pix) {
		t.Error("frames at different times rendered identically")
	}
}

func TestSequenceCancelled(t *testing.T) {
	rc, _ := testContext(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Sequence(ctx, rc, []float64{0, 1}, filepath.Join(t.TempDir(), "x.png")); err == nil {
		t.Error("cancelled sequence succeeded")
	}
}
