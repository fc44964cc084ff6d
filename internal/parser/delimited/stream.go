package delimited

import (
	"bufio"
	"context"
	"errors"
	"io"
	"math/rand"
	"os"
	"strings"

	"tabular/internal/config"
	"tabular/internal/sniff"
	"tabular/pkg/frame"
)

// randFloat is the Bernoulli-sampling source. Package var so tests can
// pin it for deterministic retention.
var randFloat = rand.Float64

// Stream parses the file incrementally, buffering only the accumulated
// (possibly sampled) rows plus one csv record at a time.
//
// Phases:
//
//	(a) when no delimiter is supplied, only the first post-skip line is
//	    read to sniff it; the file is then reopened for the real pass.
//	(b) records stream through the csv reader: rows before skip_rows are
//	    discarded, the first surviving row always becomes the header, and
//	    subsequent rows go through the shared coercion step. With
//	    sample_rate set, each row is independently kept with that
//	    probability. Reaching max_rows force-closes the underlying file
//	    and finalizes immediately; a partially-read trailing record is
//	    always dropped because rows only count once the csv reader
//	    returns them whole.
//
// Cancellation: ctx is checked between records; there is no other way to
// abort a read in flight.
func Stream(ctx context.Context, path string, opt config.Options) (*frame.DataFrame, error) {
	encoding := opt.String("encoding", "")
	skipRows := opt.Int("skip_rows", 0)

	delim := opt.Rune("delimiter", 0)
	if delim == 0 {
		line, err := firstLineAfterSkip(path, encoding, skipRows)
		if err != nil {
			return nil, err
		}
		delim = sniff.Delimiter(line)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := DecodeReader(bufio.NewReaderSize(f, 64<<10), encoding)
	if err != nil {
		return nil, err
	}

	cr := newCSVReader(dec, delim)
	co := coerceOptions(opt)
	maxRows := opt.Int("max_rows", 0)
	sampleRate := opt.Float("sample_rate", 0)

	var b *frame.Builder
	line := 0
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		rec, err := cr.Read()
		line++
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &ParseError{Path: path, Line: line, Err: err}
		}

		if line <= skipRows {
			continue
		}

		if b == nil {
			// First row after skipping is always the header.
			b = frame.NewBuilder(trimCells(rec))
			continue
		}

		if sampleRate > 0 && sampleRate < 1 && randFloat() >= sampleRate {
			continue
		}

		appendRecord(b, rec, co)

		if maxRows > 0 && b.Rows() >= maxRows {
			// Force-close the source and finalize; anything still
			// buffered inside the csv reader is abandoned.
			_ = f.Close()
			break
		}
	}

	if b == nil {
		return frame.Empty(), nil
	}
	df := b.Frame()
	if err := df.Validate(); err != nil {
		return nil, err
	}
	return df, nil
}

// firstLineAfterSkip reads just enough of the file to return the line the
// header will come from, without buffering anything else.
func firstLineAfterSkip(path, encoding string, skipRows int) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	dec, err := DecodeReader(bufio.NewReader(f), encoding)
	if err != nil {
		return "", err
	}

	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 0, 64<<10), 1<<20)
	for i := 0; sc.Scan(); i++ {
		if i >= skipRows {
			return strings.TrimRight(sc.Text(), "\r"), nil
		}
	}
	if err := sc.Err(); err != nil {
		return "", err
	}
	return "", nil
}
