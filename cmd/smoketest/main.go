// Command smoketest runs the tokenizer and the numeral converter over every
// .txt file in a directory and reports reconstruction and idempotence
// failures.
package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/az-ai-labs/ru-numtext/internal/mmapfile"
	"github.com/az-ai-labs/ru-numtext/numtext"
	"github.com/az-ai-labs/ru-numtext/tokenizer"
)

const (
	chunkSize      = 4 << 20 // 4 MB per chunk, cut at a newline
	maxWorkers     = 4
	expectedArgs   = 2
	bytesToMBShift = 20
	bytesPerKB     = 1 << 10
)

type fileDensity struct {
	path    string
	runs    int
	bytes   int64
	density float64 // numeral runs per KB
}

// Stats aggregates results across files.
type Stats struct {
	mu              sync.Mutex
	filesScanned    int
	totalBytes      int64
	reconOK         int
	reconFail       int
	idempotentOK    int
	idempotentFail  int
	densityOutliers int
	runs            int
	tokenTypeCounts map[tokenizer.TokenType]int
	densities       []fileDensity
}

type fileState struct {
	path            string
	tokenCounts     map[tokenizer.TokenType]int
	totalBytes      int64
	runs            int
	reconFailed     bool
	reconFailLogged bool
	idemFailed      bool
	idemFailLogged  bool
	log             io.Writer
	conv            *numtext.Converter
}

func main() {
	if len(os.Args) != expectedArgs {
		fmt.Fprintf(os.Stderr, "Usage: %s <directory>\n", os.Args[0])
		os.Exit(1)
	}

	stats, err := run(os.Args[1], os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error walking directory: %v\n", err)
		os.Exit(1)
	}
	printStats(os.Stdout, stats)
	if stats.reconFail > 0 || stats.idempotentFail > 0 {
		os.Exit(1)
	}
}

// run processes every .txt file under dir with a bounded worker pool.
func run(dir string, log io.Writer) (*Stats, error) {
	stats := &Stats{
		tokenTypeCounts: make(map[tokenizer.TokenType]int),
	}

	var filePaths []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".txt") {
			return nil
		}
		filePaths = append(filePaths, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	log = &syncWriter{w: log}
	fmt.Fprintf(log, "Found %d files to process\n", len(filePaths))
	start := time.Now()

	conv := numtext.New()
	semaphore := make(chan struct{}, maxWorkers)
	var wg sync.WaitGroup

	for _, path := range filePaths {
		semaphore <- struct{}{}
		wg.Go(func() {
			defer func() { <-semaphore }()
			processFile(path, stats, conv, log)
		})
	}

	wg.Wait()

	flagDensityOutliers(stats, log)

	fmt.Fprintf(log, "\nCompleted in %s\n\n", time.Since(start).Round(time.Millisecond))
	return stats, nil
}

// syncWriter serializes progress output from the workers.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

func processFile(path string, stats *Stats, conv *numtext.Converter, log io.Writer) {
	fileStart := time.Now()
	state := &fileState{
		path:        path,
		tokenCounts: make(map[tokenizer.TokenType]int),
		log:         log,
		conv:        conv,
	}

	err := mmapfile.With(path, func(data []byte) error {
		fmt.Fprintf(log, "START %s (%d MB)\n", path, len(data)>>bytesToMBShift)
		for len(data) > 0 {
			n := min(chunkSize, len(data))
			if n < len(data) {
				if idx := bytes.LastIndexByte(data[:n], '\n'); idx >= 0 {
					n = idx + 1
				}
			}
			state.processChunk(string(data[:n]))
			data = data[n:]
		}
		return nil
	})
	if err != nil {
		fmt.Fprintf(log, "Error reading %s: %v\n", path, err)
		return
	}

	fmt.Fprintf(log, "DONE  %s in %s (%d MB processed)\n",
		filepath.Base(path), time.Since(fileStart).Round(time.Millisecond), state.totalBytes>>bytesToMBShift)

	mergeFileState(state, stats)
}

func (fs *fileState) processChunk(text string) {
	fs.totalBytes += int64(len(text))

	tokens := tokenizer.WordTokens(text)
	for _, token := range tokens {
		fs.tokenCounts[token.Type]++
	}
	if !fs.reconFailed {
		for _, rebuilt := range []string{tokenizer.Join(tokens), tokenizer.Join(tokenizer.Fields(text))} {
			if rebuilt != text {
				fs.reconFailed = true
				if !fs.reconFailLogged {
					logFailure(fs.log, "RECON_FAIL", fs.path, text, rebuilt)
					fs.reconFailLogged = true
				}
				break
			}
		}
	}

	fs.runs += len(fs.conv.Find(text))

	if !fs.idemFailed {
		once := fs.conv.Convert(text)
		if twice := fs.conv.Convert(once); twice != once {
			fs.idemFailed = true
			if !fs.idemFailLogged {
				logFailure(fs.log, "IDEMPOTENCE_FAIL", fs.path, once, twice)
				fs.idemFailLogged = true
			}
		}
	}
}

func mergeFileState(fs *fileState, stats *Stats) {
	stats.mu.Lock()
	defer stats.mu.Unlock()

	stats.filesScanned++
	stats.totalBytes += fs.totalBytes
	stats.runs += fs.runs

	if fs.reconFailed {
		stats.reconFail++
	} else {
		stats.reconOK++
	}
	if fs.idemFailed {
		stats.idempotentFail++
	} else {
		stats.idempotentOK++
	}

	for tokenType, count := range fs.tokenCounts {
		stats.tokenTypeCounts[tokenType] += count
	}

	density := 0.0
	if fs.totalBytes > 0 {
		density = float64(fs.runs) / (float64(fs.totalBytes) / bytesPerKB)
	}
	stats.densities = append(stats.densities, fileDensity{
		path:    fs.path,
		runs:    fs.runs,
		bytes:   fs.totalBytes,
		density: density,
	})
}

func logFailure(w io.Writer, kind, path, want, got string) {
	pos, g, wb := firstDivergence(want, got)
	fmt.Fprintf(w, "%s: %s: first divergence at byte %d (got 0x%02x, want 0x%02x)\n",
		kind, path, pos, g, wb)
}

// flagDensityOutliers computes the median numeral-run density across all
// files and flags any file whose density exceeds 3x the median.
func flagDensityOutliers(stats *Stats, log io.Writer) {
	if len(stats.densities) == 0 {
		return
	}

	values := make([]float64, len(stats.densities))
	for i, fd := range stats.densities {
		values[i] = fd.density
	}
	med := computeMedian(values)

	for _, fd := range stats.densities {
		if med > 0 && fd.density > 3*med {
			stats.densityOutliers++
			fmt.Fprintf(log, "DENSITY_OUTLIER: %s: %d runs in %d bytes (%.2f/KB, median %.2f)\n",
				fd.path, fd.runs, fd.bytes, fd.density, med)
		}
	}
}

// firstDivergence finds the byte position where two strings first differ.
// Returns the position and the differing bytes from each string.
func firstDivergence(original, reconstructed string) (pos int, got, want byte) {
	n := min(len(original), len(reconstructed))
	for i := range n {
		if original[i] != reconstructed[i] {
			return i, reconstructed[i], original[i]
		}
	}
	pos = n
	if pos < len(reconstructed) {
		got = reconstructed[pos]
	}
	if pos < len(original) {
		want = original[pos]
	}
	return pos, got, want
}

func computeMedian(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2 //nolint:mnd // arithmetic mean of two middle values
	}
	return sorted[mid]
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintf(w, "Files scanned:           %d\n", stats.filesScanned)
	fmt.Fprintf(w, "Total bytes:             %d\n", stats.totalBytes)
	fmt.Fprintf(w, "Reconstruction OK:       %d\n", stats.reconOK)
	fmt.Fprintf(w, "Reconstruction FAIL:     %d\n", stats.reconFail)
	fmt.Fprintf(w, "Idempotence OK:          %d\n", stats.idempotentOK)
	fmt.Fprintf(w, "Idempotence FAIL:        %d\n", stats.idempotentFail)
	fmt.Fprintf(w, "Numeral runs:            %d\n", stats.runs)
	fmt.Fprintf(w, "Density outliers:        %d\n", stats.densityOutliers)
	fmt.Fprintln(w)

	totalTokens := 0
	for _, count := range stats.tokenTypeCounts {
		totalTokens += count
	}

	fmt.Fprintln(w, "Token type distribution:")
	for _, tt := range []tokenizer.TokenType{tokenizer.Word, tokenizer.Number, tokenizer.Punctuation, tokenizer.Space, tokenizer.Symbol} {
		printTokenTypeStats(w, tt, stats.tokenTypeCounts, totalTokens)
	}
}

func printTokenTypeStats(w io.Writer, tokenType tokenizer.TokenType, counts map[tokenizer.TokenType]int, total int) {
	count := counts[tokenType]
	percentage := 0.0
	if total > 0 {
		percentage = float64(count) / float64(total) * 100
	}
	fmt.Fprintf(w, "  %-15s %d  (%.1f%%)\n", tokenType.String()+":", count, percentage)
}
