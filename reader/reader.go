// Package reader opens compressed OSM files.
package reader

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4"
	"github.com/pkg/errors"
	"github.com/ulikunitz/xz"
	pb "gopkg.in/cheggaaa/pb.v1"

	"github.com/omniscale/osmrender/logging"
	"github.com/omniscale/osmrender/parser"
	"github.com/omniscale/osmrender/parser/osmxml"
	"github.com/omniscale/osmrender/parser/pbf"
)

var log = logging.NewLogger("reader")

var ErrUnknownFormat = errors.New("unknown file format, expected .osm, .xml or .pbf")

type Format int

const (
	XML Format = iota
	PBF
)

// DetectFormat returns the format of filename, ignoring any compression
// suffix.
func DetectFormat(filename string) (Format, error) {
	base, _ := splitCompression(filename)
	switch strings.ToLower(filepath.Ext(base)) {
	case ".osm", ".xml":
		return XML, nil
	case ".pbf":
		return PBF, nil
	}
	return 0, errors.Wrap(ErrUnknownFormat, filename)
}

type codec func(io.Reader) (io.Reader, error)

var codecs = map[string]codec{
	".xz": func(r io.Reader) (io.Reader, error) {
		return xz.NewReader(r)
	},
	".gz": func(r io.Reader) (io.Reader, error) {
		return gzip.NewReader(r)
	},
	".zst": func(r io.Reader) (io.Reader, error) {
		d, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return d.IOReadCloser(), nil
	},
	".lz4": func(r io.Reader) (io.Reader, error) {
		return lz4.NewReader(r), nil
	},
	".bz2": func(r io.Reader) (io.Reader, error) {
		return bzip2.NewReader(r, nil)
	},
}

func splitCompression(filename string) (string, codec) {
	ext := strings.ToLower(filepath.Ext(filename))
	if c, ok := codecs[ext]; ok {
		return strings.TrimSuffix(filename, filepath.Ext(filename)), c
	}
	return filename, nil
}

// file is the decompressed content of a file. Close closes the
// decompressor and the file.
type file struct {
	io.Reader
	closers []io.Closer
	bar     *pb.ProgressBar
}

func (f *file) Close() error {
	var err error
	for _, c := range f.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	if f.bar != nil {
		// make sure newline is not printed by Finish()
		f.bar.Output = nil
		f.bar.NotPrint = true
		f.bar.Finish()
		f.bar = nil
	}
	return err
}

// Open opens filename and decompresses it depending on the file suffix
// (.xz, .gz, .zst, .lz4 or .bz2). With progress, a progress bar of the
// compressed bytes read is printed to stderr.
func Open(filename string, progress bool) (io.ReadCloser, error) {
	fh, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	f := &file{Reader: fh, closers: []io.Closer{fh}}

	if progress {
		fi, err := fh.Stat()
		if err != nil {
			fh.Close()
			return nil, err
		}
		f.bar = pb.New(int(fi.Size())).SetUnits(pb.U_BYTES).SetWidth(80)
		f.bar.Output = os.Stderr
		f.bar.Start()
		f.Reader = f.bar.NewProxyReader(fh)
	}

	if _, c := splitCompression(filename); c != nil {
		r, err := c(f.Reader)
		if err != nil {
			f.Close()
			return nil, errors.Wrapf(err, "decompressing %s", filename)
		}
		if rc, ok := r.(io.Closer); ok {
			// close decompressor before the file
			f.closers = append([]io.Closer{rc}, f.closers...)
		}
		f.Reader = r
	}
	return f, nil
}

// NewTokenizer returns the tokenizer for the format of filename. The
// tokenizer closes r when it is closed.
func NewTokenizer(ctx context.Context, r io.Reader, filename string) (parser.Tokenizer, error) {
	format, err := DetectFormat(filename)
	if err != nil {
		return nil, err
	}
	if format == PBF {
		return pbf.New(ctx, r), nil
	}
	return osmxml.New(r), nil
}

// Opener returns a new tokenizer for each pass over an input.
type Opener func(ctx context.Context) (parser.Tokenizer, error)

// File returns an Opener for filename.
func File(filename string, progress bool) Opener {
	return func(ctx context.Context) (parser.Tokenizer, error) {
		r, err := Open(filename, progress)
		if err != nil {
			return nil, err
		}
		t, err := NewTokenizer(ctx, r, filename)
		if err != nil {
			r.Close()
			return nil, err
		}
		log.Debugf("opened %s", filename)
		return t, nil
	}
}
