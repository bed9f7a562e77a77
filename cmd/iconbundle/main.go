package main

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"

	"golang.org/x/term"

	"github.com/Mavwarf/iconbundle/internal/config"
	"github.com/Mavwarf/iconbundle/internal/eventlog"
	"github.com/Mavwarf/iconbundle/internal/icon"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// logDir overrides the run log directory; empty means paths.DataDir().
var logDir = ""

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one invocation and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	configPath := ""

	// Parse flags
	filtered := args[:0:0]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--config", "-c":
			if i+1 < len(args) {
				configPath = args[i+1]
				i++
			} else {
				fmt.Fprintf(stderr, "Error: --config requires a file path\n")
				return 1
			}
		default:
			filtered = append(filtered, args[i])
		}
	}

	cmd := "generate"
	if len(filtered) > 0 {
		cmd = filtered[0]
		filtered = filtered[1:]
	}

	switch cmd {
	case "help", "-h", "--help":
		printUsage(stdout)
		return 0
	case "version", "-V", "--version":
		printVersion(stdout)
		return 0
	case "inspect":
		return inspect(filtered, stdout, stderr)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	switch cmd {
	case "generate":
		return generate(cfg, stdout, stderr)
	case "history":
		return history(cfg, filtered, stdout, stderr)
	default:
		fmt.Fprintf(stderr, "Error: unknown command %q\n", cmd)
		fmt.Fprintf(stderr, "Run 'iconbundle help' for usage.\n")
		return 1
	}
}

// generate builds both bundles. A missing source is reported but exits 0;
// only decode and ICO failures exit non-zero.
func generate(cfg config.Config, stdout, stderr io.Writer) int {
	g := icon.New(cfg, stdout)
	g.Color = useColor(stdout)

	res, err := g.Generate()
	if cfg.Options.Log {
		logRun(cfg, res, err, stderr)
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func logRun(cfg config.Config, res icon.Result, runErr error, stderr io.Writer) {
	store, err := eventlog.Open(cfg, logDir)
	if err != nil {
		fmt.Fprintf(stderr, "eventlog: %v\n", err)
		return
	}
	defer store.Close()

	e := eventlog.Entry{
		Outcome:   string(res.Outcome),
		Source:    res.Source,
		SourceSum: res.SourceSum,
	}
	switch res.Outcome {
	case icon.OutcomeOK:
		e.ICO, e.ICNS = res.ICOPath, res.ICNSPath
	case icon.OutcomeICNSFailed:
		e.ICO = res.ICOPath
		e.Detail = res.ICNSErr.Error()
	case icon.OutcomeFailed:
		if runErr != nil {
			e.Detail = runErr.Error()
		}
	}
	eventlog.Record(store, e, stderr)
}

func history(cfg config.Config, args []string, stdout, stderr io.Writer) int {
	limit := 10
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 {
			fmt.Fprintf(stderr, "Error: history count must be a non-negative number\n")
			return 1
		}
		limit = n
	}

	store, err := eventlog.Open(cfg, logDir)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer store.Close()

	entries, err := store.Entries(limit)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if len(entries) == 0 {
		fmt.Fprintf(stdout, "No runs recorded in %s.\n", store.Path())
		return 0
	}
	for _, e := range entries {
		sum := e.SourceSum
		if len(sum) > 12 {
			sum = sum[:12]
		}
		fmt.Fprintf(stdout, "%s  %-12s %s", e.Time.Local().Format("2006-01-02 15:04:05"), e.Outcome, e.Source)
		if sum != "" {
			fmt.Fprintf(stdout, " (%s)", sum)
		}
		if e.Detail != "" {
			fmt.Fprintf(stdout, "  %s", e.Detail)
		}
		fmt.Fprintln(stdout)
	}
	return 0
}

func inspect(args []string, stdout, stderr io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintf(stderr, "Error: inspect expects one .ico file\n")
		return 1
	}
	f, err := os.Open(args[0])
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer f.Close()

	entries, err := icon.ReadICODir(f)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %s: %v\n", args[0], err)
		return 1
	}
	fmt.Fprintf(stdout, "%s: %d images\n", args[0], len(entries))
	for _, e := range entries {
		fmt.Fprintf(stdout, "  %3dx%-3d  %2d bpp  %7d bytes\n", e.Width, e.Height, e.BitCount, e.Size)
	}
	return 0
}

// useColor reports whether w is an interactive terminal and NO_COLOR is unset.
func useColor(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || os.Getenv("NO_COLOR") != "" {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "iconbundle %s (%s) %s/%s\n", version, buildDate, runtime.GOOS, runtime.GOARCH)
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, "iconbundle %s - Build Windows .ico and macOS .icns bundles from a PNG\n", version)
	fmt.Fprintln(w, `
Usage:
  iconbundle [options] [command]

Options:
  --config, -c <path>    Path to iconbundle-config.json

Commands:
  generate               Build the bundles (default when no command is given)
  inspect <file.ico>     List the images inside an .ico file
  history [N]            Show the last N logged runs (default 10)
  version, -V            Show version and build date
  help, -h, --help       Show this help message

Defaults:
  source  build/icon.png
  ico     build/icon.ico   (16, 32, 48, 64, 128, 256 px)
  icns    build/icon.icns

Config resolution:
  1. --config <path>                     (explicit)
  2. iconbundle-config.json in the working directory
  3. built-in defaults above

Exit status is 0 when the source is missing or only the .icns step fails,
1 when the source cannot be decoded or the .ico cannot be written.`)
}
