package source

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"

	"github.com/Nao-Mk2/done-log-analyzer/internal/parser"
)

// Stdin is the path that reads standard input.
const Stdin = "-"

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// File reads a local log file. Gzip and zstd content is detected from the
// leading bytes and decompressed transparently.
type File struct {
	Path string
}

func (f File) Name() string {
	if f.Path == Stdin {
		return "stdin"
	}
	return f.Path
}

func (f File) Lines(ctx context.Context) ([]string, error) {
	rc, err := Open(f.Path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	lines, err := parser.ReadLines(rc)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", f.Name())
	}
	return lines, nil
}

// Open opens path (or stdin for "-") and returns a reader over its
// decompressed content.
func Open(path string) (io.ReadCloser, error) {
	var f *os.File
	if path == Stdin {
		f = os.Stdin
	} else {
		var err error
		if f, err = os.Open(path); err != nil {
			return nil, errors.Wrapf(err, "open %s", path)
		}
	}
	rc, err := Decompress(f)
	if err != nil {
		_ = f.Close()
		return nil, errors.Wrapf(err, "open %s", path)
	}
	return rc, nil
}

// Decompress sniffs r and wraps it in a gzip or zstd decoder when needed.
// Closing the result closes r.
func Decompress(r io.ReadCloser) (io.ReadCloser, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(zstdMagic))
	if err != nil && err != io.EOF {
		return nil, err
	}
	switch {
	case bytes.HasPrefix(head, gzipMagic):
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, err
		}
		return &multiCloser{Reader: zr, closers: []io.Closer{zr, r}}, nil
	case bytes.HasPrefix(head, zstdMagic):
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, err
		}
		dec := zr.IOReadCloser()
		return &multiCloser{Reader: dec, closers: []io.Closer{dec, r}}, nil
	}
	return &multiCloser{Reader: br, closers: []io.Closer{r}}, nil
}

type multiCloser struct {
	io.Reader
	closers []io.Closer
}

func (m *multiCloser) Close() error {
	var first error
	for _, c := range m.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
