package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

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
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}
	os.Exit(run(cfg, os.Stdout, os.Stderr))
}

func run(cfg Config, stdout, stderr io.Writer) int {
	paths, err := fileutils.ExpandGlobs(cfg.Inputs)
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return 2
	}
	if len(paths) == 0 {
		fmt.Fprintln(stderr, "no wrapper files found")
		return 2
	}

	v, err := verify.New()
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return 1
	}

	var (
		reports []verify.Report
		invalid int
	)
	for _, path := range paths {
		rep, err := v.VerifyFile(path)
		if err != nil {
			invalid++
			fmt.Fprintf(stderr, "INVALID %v\n", err)
			continue
		}
		reports = append(reports, rep)
	}

	if !cfg.Quiet && len(reports) > 0 {
		if cfg.Table || report.IsTerminal(stdout) {
			fmt.Fprintln(stdout, renderReports(reports))
		} else {
			for _, rep := range reports {
				fmt.Fprintf(stdout, "%s recordings=%d frames=%d sha256=%s\n", rep.Path, rep.Recordings, rep.Frames, rep.Digest)
			}
		}
	}

	fmt.Fprintf(stdout, "files_checked=%d files_valid=%d files_invalid=%d\n", len(paths), len(reports), invalid)
	if invalid > 0 {
		return 1
	}
	return 0
}

func renderReports(reports []verify.Report) string {
	rows := make([][]string, 0, len(reports))
	for _, rep := range reports {
		rows = append(rows, []string{
			rep.Path,
			strconv.Itoa(rep.Recordings),
			strconv.Itoa(rep.Frames),
			rep.Digest,
		})
	}
	return report.RenderTable(
		[]string{"FILE", "RECORDINGS", "FRAMES", "SHA256"},
		rows,
		[]report.Align{report.AlignLeft, report.AlignRight, report.AlignRight, report.AlignLeft},
	)
}

func parseFlags(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := defaultConfig()

	fs.SetOutput(os.Stderr)

	fs.BoolVar(&cfg.Table, "table", cfg.Table, "Always render the report as a table")
	fs.BoolVar(&cfg.Quiet, "q", cfg.Quiet, "Only print failures and the summary line")

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage:\n  %s [flags] WRAPPER_FILE...\n\nValidate .openpose.json wrapper files and print their content digests.\n\nFlags:\n", filepath.Base(os.Args[0]))
		fs.PrintDefaults()
		fmt.Fprintln(fs.Output(), "\nExample:")
		fmt.Fprintln(fs.Output(), "  go run ./cmd/wrapper-verify 'wrapped/*.openpose.json'")
	}

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	cfg.Inputs = fs.Args()
	return cfg, nil
}
