// Command formcheck analyzes one keypoint frame offline and prints the
// report as JSON.
//
// Usage:
//
//	formcheck -in frame.json [-corpus shooters.yaml|shooters.db] [-top 5] [-fixes 3]
//
// The input is the POST /analyze body: {"keypoints": {"right_wrist": {...}, ...}}.
// A bare keypoint map is accepted as well. Exit code 2 means the frame could
// not be analyzed.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	service "github.com/okian/shotform/internal/app"
	"github.com/okian/shotform/internal/domain/corpus"
	"github.com/okian/shotform/internal/domain/keypoint"
	"github.com/okian/shotform/pkg/logger"
)

const (
	exitOK          = 0
	exitError       = 1
	exitUnavailable = 2

	defaultTop   = 5
	defaultFixes = 3
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("formcheck", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		in         = fs.String("in", "", "Keypoint JSON file (- for stdin)")
		corpusPath = fs.String("corpus", "", "Reference corpus: .yaml/.yml or .db/.sqlite (default: builtin)")
		top        = fs.Int("top", defaultTop, "Number of reference matches to report")
		fixes      = fs.Int("fixes", defaultFixes, "Fix list length (0 keeps every issue)")
		verbose    = fs.Bool("verbose", false, "Log pipeline diagnostics to stderr")
	)
	if err := fs.Parse(args); err != nil {
		return exitError
	}
	if *in == "" {
		fmt.Fprintln(stderr, "formcheck: -in is required")
		fs.Usage()
		return exitError
	}

	l := logger.Nop()
	if *verbose {
		if err := logger.InitWithWriter(stderr, logger.FormatText); err != nil {
			fmt.Fprintln(stderr, "formcheck:", err)
			return exitError
		}
		_ = logger.SetLevelString("debug")
		l = logger.Get().Named("formcheck")
	}

	req, err := readRequest(*in)
	if err != nil {
		fmt.Fprintln(stderr, "formcheck:", err)
		return exitError
	}

	c, err := loadCorpus(ctx, *corpusPath)
	if err != nil {
		fmt.Fprintln(stderr, "formcheck:", err)
		return exitError
	}

	svc, err := service.New(
		service.WithLogger(l),
		service.WithCorpus(c),
		service.WithTopMatches(*top),
		service.WithFixListLimit(*fixes),
	)
	if err != nil {
		fmt.Fprintln(stderr, "formcheck:", err)
		return exitError
	}

	report, err := svc.Analyze(ctx, req)
	switch {
	case errors.Is(err, service.ErrAnalysisUnavailable):
		fmt.Fprintln(stderr, "formcheck:", err)
		return exitUnavailable
	case err != nil:
		fmt.Fprintln(stderr, "formcheck:", err)
		return exitError
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		fmt.Fprintln(stderr, "formcheck:", err)
		return exitError
	}
	return exitOK
}

// readRequest accepts either an analyze request or a bare keypoint map.
func readRequest(path string) (service.AnalyzeRequest, error) {
	var (
		b   []byte
		err error
	)
	if path == "-" {
		b, err = io.ReadAll(os.Stdin)
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return service.AnalyzeRequest{}, fmt.Errorf("read input: %w", err)
	}

	var req service.AnalyzeRequest
	if err := json.Unmarshal(b, &req); err == nil && len(req.Keypoints) > 0 {
		return req, nil
	}
	var bare map[string]keypoint.Position
	if err := json.Unmarshal(b, &bare); err != nil {
		return service.AnalyzeRequest{}, fmt.Errorf("decode input: %w", err)
	}
	if len(bare) == 0 {
		return service.AnalyzeRequest{}, errors.New("decode input: no keypoints")
	}
	return service.AnalyzeRequest{Keypoints: bare}, nil
}

func loadCorpus(ctx context.Context, path string) (*corpus.Corpus, error) {
	if path == "" {
		return corpus.Builtin(), nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return corpus.Load(ctx, corpus.SourceSQLite, path)
	default:
		return corpus.Load(ctx, corpus.SourceYAML, path)
	}
}
