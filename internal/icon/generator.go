package icon

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"io"
	"os"

	"github.com/disintegration/imaging"

	"github.com/Mavwarf/iconbundle/internal/config"
	"github.com/Mavwarf/iconbundle/internal/paths"
)

// Outcome summarizes how a Generate run ended.
type Outcome string

const (
	OutcomeOK         Outcome = "ok"
	OutcomeMissing    Outcome = "missing"
	OutcomeICNSFailed Outcome = "icns_failed"
	OutcomeFailed     Outcome = "failed"
)

// Result describes a finished Generate run.
type Result struct {
	Outcome   Outcome
	Source    string
	SourceSum string // hex sha256 of the source file, empty when missing
	ICOPath   string
	ICNSPath  string
	ICNSErr   error
}

// Generator produces both bundles from one source image and prints a status
// line per step to Out.
type Generator struct {
	Source   string
	ICOPath  string
	ICNSPath string
	ICO      Encoder
	ICNS     Encoder
	Out      io.Writer
	Color    bool
}

// New returns a Generator for cfg's paths using the default encoders.
func New(cfg config.Config, out io.Writer) *Generator {
	return &Generator{
		Source:   cfg.Source,
		ICOPath:  cfg.ICO,
		ICNSPath: cfg.ICNS,
		ICO:      ICOEncoder{Sizes: Sizes},
		ICNS:     ICNSEncoder,
		Out:      out,
	}
}

// Generate writes the ICO bundle and then, best-effort, the ICNS bundle.
//
// A missing source is reported on Out and returns OutcomeMissing with a nil
// error; nothing is written. Decode and ICO failures are returned. An ICNS
// failure is reported on Out and recorded in Result.ICNSErr only.
func (g *Generator) Generate() (Result, error) {
	res := Result{Source: g.Source, ICOPath: g.ICOPath, ICNSPath: g.ICNSPath}

	if !paths.Exists(g.Source) {
		fmt.Fprintf(g.Out, "%s %s not found.\n", g.red("Error:"), g.Source)
		res.Outcome = OutcomeMissing
		return res, nil
	}

	data, err := os.ReadFile(g.Source)
	if err != nil {
		res.Outcome = OutcomeFailed
		return res, fmt.Errorf("reading %s: %w", g.Source, err)
	}
	sum := sha256.Sum256(data)
	res.SourceSum = hex.EncodeToString(sum[:])

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		res.Outcome = OutcomeFailed
		return res, fmt.Errorf("decoding %s: %w", g.Source, err)
	}

	var ico bytes.Buffer
	if err := g.ICO.Encode(&ico, img); err != nil {
		res.Outcome = OutcomeFailed
		return res, fmt.Errorf("generating %s: %w", g.ICOPath, err)
	}
	if err := paths.AtomicWrite(g.ICOPath, ico.Bytes()); err != nil {
		res.Outcome = OutcomeFailed
		return res, fmt.Errorf("writing %s: %w", g.ICOPath, err)
	}
	fmt.Fprintf(g.Out, "%s %s\n", g.green("Generated"), g.ICOPath)

	if err := g.writeICNS(img); err != nil {
		fmt.Fprintf(g.Out, "%s %v\n", g.yellow("Failed to generate ICNS:"), err)
		res.ICNSErr = err
		res.Outcome = OutcomeICNSFailed
		return res, nil
	}
	fmt.Fprintf(g.Out, "%s %s\n", g.green("Generated"), g.ICNSPath)

	res.Outcome = OutcomeOK
	return res, nil
}

// writeICNS encodes and writes the ICNS bundle. Encoder panics are
// returned as errors so the step stays best-effort.
func (g *Generator) writeICNS(img image.Image) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("icns: %v", r)
		}
	}()
	var buf bytes.Buffer
	if err := g.ICNS.Encode(&buf, img); err != nil {
		return err
	}
	return paths.AtomicWrite(g.ICNSPath, buf.Bytes())
}

// --- ANSI color helpers (only when Color is set) ---

func (g *Generator) ansi(code, s string) string {
	if !g.Color {
		return s
	}
	return code + s + "\033[0m"
}

func (g *Generator) red(s string) string    { return g.ansi("\033[31m", s) }
func (g *Generator) green(s string) string  { return g.ansi("\033[32m", s) }
func (g *Generator) yellow(s string) string { return g.ansi("\033[33m", s) }
