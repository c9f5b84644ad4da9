package gcode

import (
	"bufio"
	"context"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/modtower/pkg/errors"
	"github.com/matzehuels/modtower/pkg/observability"
)

// Slicer markers, matched against a whole line without its terminator.
var (
	layerCountPattern = regexp.MustCompile(`^;LAYER_COUNT:(\d+)$`)
	layerPattern      = regexp.MustCompile(`^;LAYER:(\d+)$`)
)

// LineSource supplies the lines to write after a layer marker.
// *layer.Matcher implements it.
type LineSource interface {
	LinesForLayer(layer, totalLayers int) ([]string, error)
}

// Options configures an injection run. The zero value reads the layer count
// from the file.
type Options struct {
	// LayerCount, when positive, is used as the total layer count and the
	// file's ;LAYER_COUNT: marker is echoed without being interpreted.
	LayerCount int
}

// Stats summarizes an injection run.
type Stats struct {
	Lines         int // lines read from the input
	LayerCount    int // total layer count in effect, 0 if none was found
	Layers        int // layer markers seen after the layer count
	InjectedLines int // lines written after layer markers
}

// Inject copies r to w and writes the lines src returns for each layer
// marker directly after that marker.
//
// The input is read once. Lines up to and including the ;LAYER_COUNT:
// marker are echoed unchanged; from then on every ;LAYER:N marker is followed
// by src.LinesForLayer(N, total). Injected lines use the marker's line ending.
// Input lines are always written byte for byte.
//
// If the input has no layer count marker, every line is still echoed and
// Inject fails with errors.ErrCodeMissingLayerCount. A marker whose number
// does not fit an int fails with errors.ErrCodeInvalidMarker. Cancelling ctx stops the
// run between lines and returns ctx.Err(). Output already written is not
// rolled back on failure.
func Inject(ctx context.Context, r io.Reader, w io.Writer, src LineSource, opts Options) (stats Stats, err error) {
	start := time.Now()
	hooks := observability.Inject()
	defer func() {
		hooks.OnComplete(ctx, observability.InjectStats(stats), time.Since(start), err)
	}()

	in := bufio.NewReader(r)
	out := &lineWriter{w: bufio.NewWriter(w)}
	defer func() {
		if flushErr := out.flush(); err == nil && flushErr != nil {
			err = errors.Wrap(errors.ErrCodeIO, flushErr, "write output")
		}
	}()

	total := opts.LayerCount
	if total > 0 {
		stats.LayerCount = total
		hooks.OnLayerCount(ctx, total)
	} else {
		total, err = copyHeader(ctx, in, out, &stats)
		if err != nil {
			return stats, err
		}
		stats.LayerCount = total
		hooks.OnLayerCount(ctx, total)
	}

	for {
		line, readErr := readLine(ctx, in)
		if line != "" {
			stats.Lines++
			out.write(line)
			if err := injectAfter(ctx, line, total, src, out, &stats); err != nil {
				return stats, err
			}
			if out.err != nil {
				return stats, errors.Wrap(errors.ErrCodeIO, out.err, "write output")
			}
		}
		if readErr == io.EOF {
			return stats, nil
		}
		if readErr != nil {
			return stats, readErr
		}
	}
}

// copyHeader echoes lines up to and including the layer count marker and
// returns the count.
func copyHeader(ctx context.Context, in *bufio.Reader, out *lineWriter, stats *Stats) (int, error) {
	for {
		line, readErr := readLine(ctx, in)
		if line != "" {
			stats.Lines++
			out.write(line)
			if out.err != nil {
				return 0, errors.Wrap(errors.ErrCodeIO, out.err, "write output")
			}
			if m := layerCountPattern.FindStringSubmatch(trimEOL(line)); m != nil {
				total, err := strconv.Atoi(m[1])
				if err != nil {
					return 0, errors.Wrap(errors.ErrCodeInvalidMarker, err, "line %d: layer count %s out of range", stats.Lines, m[1])
				}
				return total, nil
			}
		}
		if readErr == io.EOF {
			return 0, errors.New(errors.ErrCodeMissingLayerCount,
				"no ;LAYER_COUNT: marker found after %d lines", stats.Lines)
		}
		if readErr != nil {
			return 0, readErr
		}
	}
}

func injectAfter(ctx context.Context, line string, total int, src LineSource, out *lineWriter, stats *Stats) error {
	m := layerPattern.FindStringSubmatch(trimEOL(line))
	if m == nil {
		return nil
	}
	layer, err := strconv.Atoi(m[1])
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidMarker, err, "line %d: layer number %s out of range", stats.Lines, m[1])
	}
	stats.Layers++

	lines, err := src.LinesForLayer(layer, total)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		return nil
	}

	eol := "\n"
	switch {
	case strings.HasSuffix(line, "\r\n"):
		eol = "\r\n"
	case !strings.HasSuffix(line, "\n"):
		out.write(eol)
	}
	for _, l := range lines {
		out.write(l)
		out.write(eol)
	}
	stats.InjectedLines += len(lines)
	observability.Inject().OnInject(ctx, layer, lines)
	return nil
}

// readLine returns the next line including its terminator. The final line
// may lack one and is returned together with io.EOF.
func readLine(ctx context.Context, in *bufio.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	line, err := in.ReadString('\n')
	if err != nil && err != io.EOF {
		return line, errors.Wrap(errors.ErrCodeIO, err, "read input")
	}
	return line, err
}

func trimEOL(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}

// lineWriter keeps the first write error so callers can check once per line.
type lineWriter struct {
	w   *bufio.Writer
	err error
}

func (lw *lineWriter) write(s string) {
	if lw.err == nil {
		_, lw.err = lw.w.WriteString(s)
	}
}

func (lw *lineWriter) flush() error {
	if lw.err != nil {
		return lw.err
	}
	return lw.w.Flush()
}
