package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/theimaginaryfoundation/pose-wrapper/posewrap"
	"github.com/theimaginaryfoundation/pose-wrapper/posewrap/fileutils"
	"github.com/theimaginaryfoundation/pose-wrapper/posewrap/report"
	"github.com/theimaginaryfoundation/pose-wrapper/posewrap/verify"
)

func main() {
	cfg, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}
	if cfg.PrintSchema {
		b, err := posewrap.WrapperSchema()
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}
		fmt.Fprintln(os.Stdout, string(b))
		return
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	code := run(ctx, cfg, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, cfg Config, stdout, stderr io.Writer) int {
	pattern, err := cfg.Pattern()
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return 2
	}

	paths, err := fileutils.ExpandGlobs(cfg.Inputs)
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return 2
	}
	if len(paths) == 0 {
		fmt.Fprintln(stderr, "no input files found")
		return 2
	}

	res, err := posewrap.WrapFrames(ctx, paths, cfg.OutputDir, posewrap.WrapOptions{
		Pattern:     pattern,
		Diagnostics: newLogger(stderr, cfg.Verbose),
		FileMode:    0o644,
	})
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return 1
	}

	digests := make(map[string]string, len(res.Files))
	if cfg.Verify {
		v, err := verify.New()
		if err != nil {
			fmt.Fprintln(stderr, err.Error())
			return 1
		}
		for _, f := range res.Files {
			rep, err := v.VerifyFile(f.Path)
			if err != nil {
				fmt.Fprintln(stderr, err.Error())
				return 1
			}
			if rep.Recordings != f.Recordings || rep.Frames != f.Frames {
				fmt.Fprintf(stderr, "%s: wrote %d recordings/%d frames, read back %d/%d\n",
					f.Path, f.Recordings, f.Frames, rep.Recordings, rep.Frames)
				return 1
			}
			digests[f.Path] = rep.Digest
		}
	}

	if cfg.Verbose && report.IsTerminal(stdout) {
		fmt.Fprintln(stdout, renderSummary(res, digests))
	}
	outDir := cfg.OutputDir
	if outDir == "" {
		outDir = "."
	}
	fmt.Fprintf(stdout, "sessions_written=%d recordings_written=%d frames_written=%d files_skipped=%d out_dir=%s\n",
		res.SessionsWritten, res.RecordingsWritten, res.FramesWritten, res.FilesSkipped, outDir)
	return 0
}

func renderSummary(res posewrap.WrapResult, digests map[string]string) string {
	headers := []string{"FILE", "RECORDINGS", "FRAMES", "BYTES"}
	aligns := []report.Align{report.AlignLeft, report.AlignRight, report.AlignRight, report.AlignRight}
	if len(digests) > 0 {
		headers = append(headers, "DIGEST")
		aligns = append(aligns, report.AlignLeft)
	}
	rows := make([][]string, 0, len(res.Files))
	for _, f := range res.Files {
		row := []string{
			f.Path,
			strconv.Itoa(f.Recordings),
			strconv.Itoa(f.Frames),
			strconv.FormatInt(f.Bytes, 10),
		}
		if d, ok := digests[f.Path]; ok {
			row = append(row, d[:12])
		}
		rows = append(rows, row)
	}
	return report.RenderTable(headers, rows, aligns)
}

// newLogger routes diagnostics to w: progress and skipped files with -v, warnings always.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func parseFlags(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := defaultConfig()

	// Avoid mutating the global FlagSet if called from tests.
	fs.SetOutput(os.Stderr)

	for _, name := range []string{"o", "out", "output", "outputdir"} {
		fs.StringVar(&cfg.OutputDir, name, cfg.OutputDir, "Directory in which to store the output file(s) (defaults to the working directory)")
	}
	for _, name := range []string{"p", "preset"} {
		fs.StringVar(&cfg.Preset, name, cfg.Preset, "Preset file name pattern: "+strings.Join(posewrap.PresetNames(), "|")+" (ignored when -regex is set)")
	}
	for _, name := range []string{"r", "regex", "regexp"} {
		fs.StringVar(&cfg.Regex, name, cfg.Regex, "Custom pattern with named groups id, camera, width, height, frame (overrides -preset)")
	}
	for _, name := range []string{"v", "verbose"} {
		fs.BoolVar(&cfg.Verbose, name, cfg.Verbose, "Report progress and ignored files on stderr")
	}
	fs.StringVar(&cfg.ConfigPath, "config", "", "Optional TOML config file (preset, regex, output_dir, verbose, verify, [presets])")
	fs.BoolVar(&cfg.Verify, "verify", cfg.Verify, "Validate each written file against the wrapper schema")
	fs.BoolVar(&cfg.PrintSchema, "schema", false, "Print the wrapper file JSON schema and exit")

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage:\n  %s [flags] INPUT_FILE...\n\nCollect OpenPose frame files into per-session wrapper files.\n\nFlags:\n", filepath.Base(os.Args[0]))
		fs.PrintDefaults()
		fmt.Fprintln(fs.Output(), "\nPresets:")
		fmt.Fprintln(fs.Output(), "  filename   ID_CAMERA_WIDTHxHEIGHT_FRAME_keypoints.json")
		fmt.Fprintln(fs.Output(), "  dirname    ID_CAMERA_WIDTHxHEIGHT/VIDEONAME_FRAME_keypoints.json")
		fmt.Fprintln(fs.Output(), "  extracted  ID_CAMERA.WIDTHxHEIGHT.frame_FRAME.keypoints.json")
		fmt.Fprintln(fs.Output(), "\nExamples:")
		fmt.Fprintln(fs.Output(), "  go run ./cmd/openpose-wrap -o wrapped 'openpose/*_keypoints.json'")
		fmt.Fprintln(fs.Output(), "  go run ./cmd/openpose-wrap -preset dirname -verify 'openpose/*/*_keypoints.json'")
	}

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	cfg.Inputs = fs.Args()

	if cfg.ConfigPath != "" {
		cfg.ConfigPath = filepath.Clean(cfg.ConfigPath)
		fc, err := loadFileConfig(cfg.ConfigPath)
		if err != nil {
			return Config{}, err
		}
		set := make(map[string]bool)
		fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
		applyFileConfig(&cfg, fc, func(names ...string) bool {
			for _, n := range names {
				if set[n] {
					return true
				}
			}
			return false
		})
	}

	if cfg.OutputDir != "" {
		cfg.OutputDir = filepath.Clean(cfg.OutputDir)
	}
	return cfg, nil
}
