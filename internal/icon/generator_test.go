package icon

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	ico "github.com/sergeymakinen/go-ico"

	"github.com/Mavwarf/iconbundle/internal/config"
)

// writeSourcePNG writes a w×h RGBA PNG with an opaque gradient to path.
func writeSourcePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{uint8(x), uint8(y), 160, 255})
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

// tempGenerator returns a Generator rooted at a fresh build/ dir.
func tempGenerator(t *testing.T) (*Generator, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Config{
		Source: filepath.Join(dir, "build", "icon.png"),
		ICO:    filepath.Join(dir, "build", "icon.ico"),
		ICNS:   filepath.Join(dir, "build", "icon.icns"),
	}
	var out bytes.Buffer
	return New(cfg, &out), &out
}

type failingEncoder struct {
	err    error
	called bool
}

func (f *failingEncoder) Encode(io.Writer, image.Image) error {
	f.called = true
	return f.err
}

func TestGenerateProducesBothBundles(t *testing.T) {
	g, out := tempGenerator(t)
	writeSourcePNG(t, g.Source, 512, 512)

	res, err := g.Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.Outcome != OutcomeOK {
		t.Errorf("Outcome = %q, want %q", res.Outcome, OutcomeOK)
	}
	if len(res.SourceSum) != 64 {
		t.Errorf("SourceSum = %q, want 64 hex chars", res.SourceSum)
	}

	// ICO: six square entries in order, decodable by an independent reader.
	data, err := os.ReadFile(g.ICOPath)
	if err != nil {
		t.Fatal(err)
	}
	entries, err := ReadICODir(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ReadICODir: %v", err)
	}
	if len(entries) != len(Sizes) {
		t.Fatalf("ICO has %d entries, want %d", len(entries), len(Sizes))
	}
	for i, e := range entries {
		if e.Width != Sizes[i] || e.Height != Sizes[i] {
			t.Errorf("entry %d = %dx%d, want %dx%d", i, e.Width, e.Height, Sizes[i], Sizes[i])
		}
		if e.BitCount != 32 {
			t.Errorf("entry %d BitCount = %d, want 32", i, e.BitCount)
		}
	}
	if _, err := ico.Decode(bytes.NewReader(data)); err != nil {
		t.Errorf("ico.Decode: %v", err)
	}

	// ICNS: "icns" magic followed by the big-endian total length.
	icnsData, err := os.ReadFile(g.ICNSPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(icnsData) < 8 || string(icnsData[:4]) != "icns" {
		t.Fatalf("ICNS header = %q, want icns magic", icnsData[:min(8, len(icnsData))])
	}
	if n := binary.BigEndian.Uint32(icnsData[4:8]); int(n) != len(icnsData) {
		t.Errorf("ICNS length field = %d, file size %d", n, len(icnsData))
	}

	s := out.String()
	for _, want := range []string{"Generated " + g.ICOPath, "Generated " + g.ICNSPath} {
		if !strings.Contains(s, want) {
			t.Errorf("output missing %q:\n%s", want, s)
		}
	}
}

func TestGenerateMissingSource(t *testing.T) {
	g, out := tempGenerator(t)

	res, err := g.Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.Outcome != OutcomeMissing {
		t.Errorf("Outcome = %q, want %q", res.Outcome, OutcomeMissing)
	}
	for _, p := range []string{g.ICOPath, g.ICNSPath} {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Errorf("%s should not exist (err=%v)", p, err)
		}
	}
	s := out.String()
	if !strings.Contains(s, "Error:") || !strings.Contains(s, g.Source) {
		t.Errorf("output should name the missing source, got %q", s)
	}
}

func TestGenerateMissingSourceLeavesExistingOutputs(t *testing.T) {
	g, _ := tempGenerator(t)
	os.MkdirAll(filepath.Dir(g.ICOPath), 0755)
	os.WriteFile(g.ICOPath, []byte("old"), 0644)

	if _, err := g.Generate(); err != nil {
		t.Fatal(err)
	}
	got, _ := os.ReadFile(g.ICOPath)
	if string(got) != "old" {
		t.Errorf("existing ICO modified: %q", got)
	}
}

func TestGenerateICNSFailureIsRecovered(t *testing.T) {
	g, out := tempGenerator(t)
	writeSourcePNG(t, g.Source, 512, 512)
	g.ICNS = &failingEncoder{err: errors.New("simulated icns failure")}

	res, err := g.Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.Outcome != OutcomeICNSFailed {
		t.Errorf("Outcome = %q, want %q", res.Outcome, OutcomeICNSFailed)
	}
	if res.ICNSErr == nil {
		t.Error("ICNSErr should be set")
	}
	if _, err := os.Stat(g.ICOPath); err != nil {
		t.Errorf("ICO should still exist: %v", err)
	}
	if _, err := os.Stat(g.ICNSPath); !os.IsNotExist(err) {
		t.Errorf("ICNS should not exist after failure (err=%v)", err)
	}
	s := out.String()
	if !strings.Contains(s, "Failed to generate ICNS: simulated icns failure") {
		t.Errorf("output missing failure detail:\n%s", s)
	}
	if !strings.Contains(s, "Generated "+g.ICOPath) {
		t.Errorf("output missing ICO confirmation:\n%s", s)
	}
}

func TestGenerateICOFailurePropagates(t *testing.T) {
	g, _ := tempGenerator(t)
	writeSourcePNG(t, g.Source, 64, 64)
	g.ICO = &failingEncoder{err: errors.New("disk full")}
	icns := &failingEncoder{}
	g.ICNS = icns

	res, err := g.Generate()
	if err == nil {
		t.Fatal("expected ICO error to propagate")
	}
	if !strings.Contains(err.Error(), "disk full") {
		t.Errorf("error should wrap encoder error, got %v", err)
	}
	if res.Outcome != OutcomeFailed {
		t.Errorf("Outcome = %q, want %q", res.Outcome, OutcomeFailed)
	}
	if icns.called {
		t.Error("ICNS must not be attempted after an ICO failure")
	}
	if _, err := os.Stat(g.ICOPath); !os.IsNotExist(err) {
		t.Errorf("ICO should not exist (err=%v)", err)
	}
}

func TestGenerateICNSPanicIsRecovered(t *testing.T) {
	g, out := tempGenerator(t)
	writeSourcePNG(t, g.Source, 64, 64)
	g.ICNS = EncoderFunc(func(io.Writer, image.Image) error {
		panic("unsupported image")
	})

	res, err := g.Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.Outcome != OutcomeICNSFailed {
		t.Errorf("Outcome = %q, want %q", res.Outcome, OutcomeICNSFailed)
	}
	if !strings.Contains(out.String(), "Failed to generate ICNS: icns: unsupported image") {
		t.Errorf("output missing panic detail:\n%s", out.String())
	}
	if _, err := os.Stat(g.ICOPath); err != nil {
		t.Errorf("ICO should still exist: %v", err)
	}
}

func TestGenerateICNSWriteFailureIsRecovered(t *testing.T) {
	g, out := tempGenerator(t)
	writeSourcePNG(t, g.Source, 64, 64)
	// Parent of the ICNS path is a regular file, so the write must fail.
	blocker := filepath.Join(filepath.Dir(g.ICNSPath), "mac")
	os.WriteFile(blocker, []byte("file"), 0644)
	g.ICNSPath = filepath.Join(blocker, "icon.icns")
	g.ICNS = EncoderFunc(func(w io.Writer, _ image.Image) error {
		_, err := w.Write([]byte("icns"))
		return err
	})

	res, err := g.Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.Outcome != OutcomeICNSFailed {
		t.Errorf("Outcome = %q, want %q", res.Outcome, OutcomeICNSFailed)
	}
	if res.ICNSErr == nil {
		t.Error("ICNSErr should be set")
	}
	if !strings.Contains(out.String(), "Failed to generate ICNS:") {
		t.Errorf("output missing failure line:\n%s", out.String())
	}
	if _, err := os.Stat(g.ICOPath); err != nil {
		t.Errorf("ICO should still exist: %v", err)
	}
}

func TestGenerateUndecodableSource(t *testing.T) {
	g, _ := tempGenerator(t)
	os.MkdirAll(filepath.Dir(g.Source), 0755)
	os.WriteFile(g.Source, []byte("not an image"), 0644)

	_, err := g.Generate()
	if err == nil {
		t.Fatal("expected decode error")
	}
	if !strings.Contains(err.Error(), "decoding") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestGenerateIsIdempotent(t *testing.T) {
	g, _ := tempGenerator(t)
	writeSourcePNG(t, g.Source, 512, 512)

	if _, err := g.Generate(); err != nil {
		t.Fatal(err)
	}
	ico1, _ := os.ReadFile(g.ICOPath)
	icns1, _ := os.ReadFile(g.ICNSPath)

	if _, err := g.Generate(); err != nil {
		t.Fatal(err)
	}
	ico2, _ := os.ReadFile(g.ICOPath)
	icns2, _ := os.ReadFile(g.ICNSPath)

	if !bytes.Equal(ico1, ico2) {
		t.Error("ICO differs between runs")
	}
	if !bytes.Equal(icns1, icns2) {
		t.Error("ICNS differs between runs")
	}
}

func TestGenerateColorOutput(t *testing.T) {
	g, out := tempGenerator(t)
	g.Color = true

	g.Generate()
	if !strings.Contains(out.String(), "\033[31mError:\033[0m") {
		t.Errorf("expected colored error prefix, got %q", out.String())
	}
}
