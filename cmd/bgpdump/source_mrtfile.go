package main

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/pobradovic08/bgpdecode/bgp"
	"github.com/pobradovic08/bgpdecode/mrt"
	"go.uber.org/zap"
)

// readMRTFile streams an MRT archive (RFC 6396), transparently decompressing
// .gz/.zst files by extension, framing records with mrt.Split, and decoding
// each one. Used for offline inspection of routeviews/RIPE RIS archives, a
// mode the teacher's Kafka-only pipeline never needed.
func readMRTFile(path string, opts *bgp.DecoderOptions, logger *zap.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	r, closer, err := decompressingReader(path, f)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer()
	}

	const source = "mrtfile"
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	scanner.Split(mrt.Split)

	count := 0
	for scanner.Scan() {
		raw := scanner.Bytes()
		FramesReceivedTotal.WithLabelValues(source).Inc()
		BytesProcessed.WithLabelValues(source).Add(float64(len(raw)))

		start := time.Now()
		rec, _, err := mrt.DecodeRecord(raw, opts)
		if err != nil {
			DecodeErrorsTotal.WithLabelValues(source, "mrt").Inc()
			logger.Debug("mrt file: record decode failed", zap.Error(err))
			continue
		}
		DecodeDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())

		if rec.BGP4MP != nil && rec.BGP4MP.BGP != nil {
			if rec.BGP4MP.Truncated {
				TruncatedMessagesTotal.WithLabelValues(source).Inc()
			}
			reportBGP(source, rec.BGP4MP.BGP)
		}
		count++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanning %s: %w", path, err)
	}

	logger.Info("mrt file: done", zap.String("path", path), zap.Int("records", count))
	return nil
}

// decompressingReader wraps f in a gzip or zstd reader based on the file
// extension, or returns it unchanged for a plain .mrt file. The second
// return value, when non-nil, must be called to release decoder resources.
func decompressingReader(path string, f *os.File) (io.Reader, func(), error) {
	switch {
	case strings.HasSuffix(path, ".gz"):
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, nil, fmt.Errorf("opening gzip stream: %w", err)
		}
		return gz, func() { gz.Close() }, nil
	case strings.HasSuffix(path, ".zst"):
		zr, err := zstd.NewReader(f)
		if err != nil {
			return nil, nil, fmt.Errorf("opening zstd stream: %w", err)
		}
		return zr, zr.Close, nil
	default:
		return f, nil, nil
	}
}
