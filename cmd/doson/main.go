// doson - DOSON codec CLI tool
//
// Usage:
//
//	doson fmt [--envelope] [file]     Parse DOSON text and print its canonical form
//	doson check [-j N] file...        Strictly parse files and report syntax errors
//	doson to-json [file]              Convert DOSON to structural JSON
//	doson from-json [file]            Convert structural JSON to canonical DOSON
//	doson inspect [--json] [file]     Print datatype, size and weight
//	doson blob [--envelope] <path>    Print a binary!(...) literal for a file
//	doson version                     Print version info
//
// If no file is given, reads from stdin.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/doreadb/doson/doson"
)

const libVersion = "0.1.0"

var (
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#90EE90"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	pathStyle  = lipgloss.NewStyle().Bold(true)
)

// options holds the flags shared by all commands.
type options struct {
	verbose  bool
	envelope bool
	json     bool
	jobs     int
	files    []string
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	switch cmd {
	case "version", "--version":
		fmt.Printf("doson %s\n", libVersion)
		return
	case "help", "-h", "--help":
		printUsage()
		return
	}

	opts, err := parseArgs(os.Args[2:])
	if err != nil {
		fatal("%v", err)
	}

	logger := newLogger(opts.verbose)
	defer logger.Sync()
	doson.SetLogger(logger)

	switch cmd {
	case "fmt":
		err = withInput(opts, func(r io.Reader) error {
			return cmdFmt(r, os.Stdout, opts.envelope)
		})
	case "check":
		var failed int
		color := term.IsTerminal(int(os.Stdout.Fd()))
		failed, err = cmdCheck(context.Background(), opts.files, opts.jobs, os.Stdout, color)
		if err == nil && failed > 0 {
			os.Exit(1)
		}
	case "to-json":
		err = withInput(opts, func(r io.Reader) error {
			return cmdToJSON(r, os.Stdout)
		})
	case "from-json":
		err = withInput(opts, func(r io.Reader) error {
			return cmdFromJSON(r, os.Stdout)
		})
	case "inspect":
		err = withInput(opts, func(r io.Reader) error {
			return cmdInspect(r, os.Stdout, opts.json)
		})
	case "blob":
		if len(opts.files) != 1 {
			fatal("blob: expected exactly one path")
		}
		err = cmdBlob(opts.files[0], os.Stdout, opts.envelope)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fatal("%s: %v", cmd, err)
	}
}

func printUsage() {
	fmt.Fprint(os.Stderr, `doson - DOSON codec CLI tool

Usage:
  doson fmt [--envelope] [file]     Parse DOSON text and print its canonical form
  doson check [-j N] file...        Strictly parse files and report syntax errors
  doson to-json [file]              Convert DOSON to structural JSON
  doson from-json [file]            Convert structural JSON to canonical DOSON
  doson inspect [--json] [file]     Print datatype, size and weight
  doson blob [--envelope] <path>    Print a binary!(...) literal for a file
  doson version                     Print version info

Options:
  -v, --verbose       Log parser diagnostics to stderr
  --envelope          Wrap output as b:<base64>:
  --json              Machine-readable inspect output
  -j N, --jobs=N      Files checked concurrently (default: number of CPUs)

fmt is lossy: text that does not parse prints as "none". Use check for
diagnostics.

If no file is given, reads from stdin.

Examples:
  echo '[1, 2, 3]' | doson fmt
  # Output: [1,2,3]

  echo '{"b":2,"a":1}' | doson fmt --envelope
  # Output: b:eyJhIjoxLCJiIjoyfQ==:

  echo '(true, 1)' | doson inspect
  # Output:
  # datatype: Tuple
  # size: 9
  # weight: 1

  doson check -j 4 testdata/*.doson
`)
}

// parseArgs parses flags and file arguments following the command name.
func parseArgs(args []string) (options, error) {
	opts := options{jobs: runtime.NumCPU()}
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "-v" || arg == "--verbose":
			opts.verbose = true
		case arg == "--envelope":
			opts.envelope = true
		case arg == "--json":
			opts.json = true
		case arg == "-j":
			if i+1 >= len(args) {
				return opts, fmt.Errorf("-j: missing value")
			}
			i++
			n, err := parseJobs(args[i])
			if err != nil {
				return opts, err
			}
			opts.jobs = n
		case strings.HasPrefix(arg, "--jobs="):
			n, err := parseJobs(strings.TrimPrefix(arg, "--jobs="))
			if err != nil {
				return opts, err
			}
			opts.jobs = n
		case arg == "-":
			opts.files = append(opts.files, arg)
		case strings.HasPrefix(arg, "-"):
			return opts, fmt.Errorf("unknown flag: %s", arg)
		default:
			opts.files = append(opts.files, arg)
		}
	}
	return opts, nil
}

func parseJobs(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid job count %q", s)
	}
	return n, nil
}

// newLogger returns a development logger when verbose, otherwise a
// production logger that only reports warnings and above.
func newLogger(verbose bool) *zap.Logger {
	if verbose {
		if l, err := zap.NewDevelopment(); err == nil {
			return l
		}
		return zap.NewNop()
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return l
}

// withInput runs fn on the single input file, or stdin when none is given.
func withInput(opts options, fn func(io.Reader) error) error {
	switch len(opts.files) {
	case 0:
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return fmt.Errorf("no input: pass a file or pipe text to stdin")
		}
		return fn(os.Stdin)
	case 1:
		if opts.files[0] == "-" {
			return fn(os.Stdin)
		}
		f, err := os.Open(opts.files[0])
		if err != nil {
			return fmt.Errorf("open file: %w", err)
		}
		defer f.Close()
		return fn(f)
	default:
		return fmt.Errorf("expected at most one file, got %d", len(opts.files))
	}
}

// cmdFmt: DOSON -> canonical DOSON (or envelope)
func cmdFmt(r io.Reader, w io.Writer, envelope bool) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	v := doson.Parse(string(data))
	if envelope {
		_, err = fmt.Fprintln(w, doson.EncodeEnvelope(v))
	} else {
		_, err = fmt.Fprintln(w, v)
	}
	return err
}

// checkResult is the outcome of strictly parsing one file.
type checkResult struct {
	path string
	err  error
}

// cmdCheck strictly parses every file, at most jobs at a time, and prints one
// line per file in argument order. It returns the number of files that
// failed.
func cmdCheck(ctx context.Context, files []string, jobs int, w io.Writer, color bool) (int, error) {
	if len(files) == 0 {
		return 0, fmt.Errorf("no files given")
	}

	results := make([]checkResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = checkResult{path: path, err: checkFile(path)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	render := func(style lipgloss.Style, s string) string {
		if !color {
			return s
		}
		return style.Render(s)
	}

	failed := 0
	for _, res := range results {
		path := render(pathStyle, res.path)
		if res.err != nil {
			failed++
			fmt.Fprintf(w, "%s: %s\n", path, render(errorStyle, res.err.Error()))
			continue
		}
		fmt.Fprintf(w, "%s: %s\n", path, render(okStyle, "ok"))
	}
	return failed, nil
}

func checkFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	_, err = doson.ParseStrict(string(data))
	return err
}

// cmdToJSON: DOSON -> indented structural JSON
func cmdToJSON(r io.Reader, w io.Writer) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	v, err := doson.ParseStrict(string(data))
	if err != nil {
		return err
	}

	jsonData, err := doson.ToJSON(v)
	if err != nil {
		return fmt.Errorf("convert to JSON: %w", err)
	}

	var out bytes.Buffer
	if err := json.Indent(&out, jsonData, "", "  "); err != nil {
		return fmt.Errorf("indent JSON: %w", err)
	}
	out.WriteByte('\n')
	_, err = w.Write(out.Bytes())
	return err
}

// cmdFromJSON: structural JSON -> canonical DOSON
func cmdFromJSON(r io.Reader, w io.Writer) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	v, err := doson.FromJSON(data)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, v)
	return err
}

// inspection is the --json form of inspect output.
type inspection struct {
	Datatype string       `json:"datatype"`
	Size     int          `json:"size"`
	Weight   *weightField `json:"weight"`
}

// weightField encodes finite weights as JSON numbers and overflowed sums
// (±Inf, NaN) as their DOSON text in a string.
type weightField float64

func (w weightField) MarshalJSON() ([]byte, error) {
	f := float64(w)
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return json.Marshal(doson.Number(f).String())
	}
	return json.Marshal(f)
}

// cmdInspect prints the datatype, size and weight of a lossily parsed value.
func cmdInspect(r io.Reader, w io.Writer, asJSON bool) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	v := doson.Parse(string(data))
	info := inspection{Datatype: v.Datatype(), Size: v.Size()}
	if weight := v.Weight(); weight != doson.NoWeight {
		wf := weightField(weight)
		info.Weight = &wf
	}

	if asJSON {
		enc := json.NewEncoder(w)
		return enc.Encode(info)
	}

	fmt.Fprintf(w, "datatype: %s\n", info.Datatype)
	fmt.Fprintf(w, "size: %d\n", info.Size)
	if info.Weight == nil {
		_, err = fmt.Fprintln(w, "weight: none")
	} else {
		_, err = fmt.Fprintf(w, "weight: %s\n", doson.Number(float64(*info.Weight)))
	}
	return err
}

// cmdBlob prints the binary literal for the file at path.
func cmdBlob(path string, w io.Writer, envelope bool) error {
	b, err := doson.BlobFromFile(path)
	if err != nil {
		return err
	}

	v := doson.Binary(b)
	if envelope {
		_, err = fmt.Fprintln(w, doson.EncodeEnvelope(v))
	} else {
		_, err = fmt.Fprintln(w, v)
	}
	return err
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "doson: "+format+"\n", args...)
	os.Exit(1)
}
