package altsv

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/unkn0wn-root/altsv/internal/util"
)

// minConcurrentLines is the document size under which concurrent decoding
// falls back to a plain loop.
const minConcurrentLines = 64

// DecodeDocument decodes every line of text, in order. Lines end with "\n"
// or "\r\n"; the final line ending is optional and an empty text yields no
// records. An empty line in the middle of the text yields an empty Record.
func DecodeDocument(text string) []Record {
	lines := splitLines(text)
	out := make([]Record, len(lines))
	for i, l := range lines {
		out[i] = DecodeLine(l)
	}
	return out
}

// DecodeDocumentConcurrent returns the same records as DecodeDocument, decoding
// lines on up to workers goroutines. workers <= 1 decodes sequentially.
func DecodeDocumentConcurrent(text string, workers int) []Record {
	lines := splitLines(text)
	out := make([]Record, len(lines))
	decodeLines(lines, out, workers, nil)
	return out
}

func decodeLines(lines []string, out []Record, workers int, dropped func(line, n int)) {
	if workers <= 1 || len(lines) < minConcurrentLines {
		for i, l := range lines {
			var n int
			out[i], n = decodeLine(l)
			if n > 0 && dropped != nil {
				dropped(i+1, n)
			}
		}
		return
	}

	counts := make([]int, len(lines))
	chunk := (len(lines) + workers - 1) / workers
	var g errgroup.Group
	g.SetLimit(workers)
	for lo := 0; lo < len(lines); lo += chunk {
		hi := min(lo+chunk, len(lines))
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				out[i], counts[i] = decodeLine(lines[i])
			}
			return nil
		})
	}
	_ = g.Wait() // decoding is total

	if dropped != nil {
		for i, n := range counts {
			if n > 0 {
				dropped(i+1, n)
			}
		}
	}
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := make([]string, 0, strings.Count(text, "\n")+1)
	for len(text) > 0 {
		i := strings.IndexByte(text, '\n')
		if i < 0 {
			lines = append(lines, text)
			break
		}
		lines = append(lines, strings.TrimSuffix(text[:i], "\r"))
		text = text[i+1:]
	}
	return lines
}

type loadOptions struct {
	logger  Logger
	workers int
}

// LoadOption configures Parse and Load.
type LoadOption func(*loadOptions)

// WithLogger reports dropped fields and document summaries to l.
func WithLogger(l Logger) LoadOption {
	return func(o *loadOptions) { o.logger = l }
}

// WithWorkers decodes lines on up to n goroutines once the whole input is read.
func WithWorkers(n int) LoadOption {
	return func(o *loadOptions) { o.workers = n }
}

// Parse reads r to the end and decodes one Record per line.
func Parse(r io.Reader, opts ...LoadOption) ([]Record, error) {
	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}
	o.logger = util.Coalesce[Logger](o.logger, NopLogger{})

	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}

	out := make([]Record, len(lines))
	decodeLines(lines, out, o.workers, func(line, n int) {
		o.logger.Warn("altsv: dropped fields with empty key", Fields{"line": line, "dropped": n})
	})
	o.logger.Debug("altsv: document decoded", Fields{"lines": len(lines), "workers": o.workers})
	return out, nil
}

// Load opens the file at path and parses it.
func Load(path string, opts ...LoadOption) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("altsv: load: %w", err)
	}
	defer f.Close()

	recs, err := Parse(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("altsv: load %s: %w", path, err)
	}
	return recs, nil
}

// readLines reads whole lines without a length limit.
func readLines(r io.Reader) ([]string, error) {
	br := bufio.NewReader(r)
	var lines []string
	for {
		l, err := br.ReadString('\n')
		if len(l) > 0 {
			l = strings.TrimSuffix(strings.TrimSuffix(l, "\n"), "\r")
			lines = append(lines, l)
		}
		if errors.Is(err, io.EOF) {
			return lines, nil
		}
		if err != nil {
			return nil, fmt.Errorf("altsv: read: %w", err)
		}
	}
}
