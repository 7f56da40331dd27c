package sstable

import (
	"fmt"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"github.com/dreamvrutik/vrootkv/pkg/bloom"
	"github.com/dreamvrutik/vrootkv/pkg/config"
	"github.com/dreamvrutik/vrootkv/pkg/fileio"
	"github.com/dreamvrutik/vrootkv/pkg/manifest"
	"github.com/dreamvrutik/vrootkv/pkg/sstable/block"
	"github.com/dreamvrutik/vrootkv/pkg/sstable/footer"
	"github.com/dreamvrutik/vrootkv/pkg/sstable/index"
)

// blockFlagRaw/blockFlagCompressed is a one-byte prefix on every written
// data block recording whether it was zstd-compressed, so the reader never
// has to guess from the bytes themselves.
const (
	blockFlagRaw        = 0
	blockFlagCompressed = 1
)

// Writer streams a sorted sequence of key/value pairs into an immutable
// SSTable file: [data blocks][filter block][index block][footer]. Keys
// must be added in strictly increasing order.
type Writer struct {
	files   *fileio.FileManager
	file    fileio.WritableFile
	path    string
	tmpPath string

	blockSize       int
	restartInterval int
	compress        bool
	enc             *zstd.Encoder

	blk        *block.Builder
	idx        *index.Builder
	filter     *bloom.Filter
	offset     uint64
	blockFirst []byte

	firstKey, lastKey []byte
	entriesAdded      uint32
	finished          bool
}

// Option configures a Writer.
type Option func(*Writer)

// WithBlockSize overrides the default data-block flush threshold.
func WithBlockSize(n int) Option {
	return func(w *Writer) { w.blockSize = n }
}

// WithRestartInterval overrides the default data-block restart interval.
func WithRestartInterval(n int) Option {
	return func(w *Writer) { w.restartInterval = n }
}

// WithCompression enables zstd compression of data blocks before they are
// written to disk.
func WithCompression() Option {
	return func(w *Writer) { w.compress = true }
}

// NewWriter opens path for writing via files, sized for expectedEntries
// keys at the given target Bloom false-positive rate.
func NewWriter(files *fileio.FileManager, path string, expectedEntries int, targetFPR float64, opts ...Option) (*Writer, error) {
	tmpPath := filepath.Join(filepath.Dir(path), fmt.Sprintf(".%s.tmp", filepath.Base(path)))
	f, err := files.Create(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("sstable: create temp file: %w", err)
	}

	w := &Writer{
		files:           files,
		file:            f,
		path:            path,
		tmpPath:         tmpPath,
		blockSize:       DefaultBlockSize,
		restartInterval: DefaultRestartInterval,
		idx:             index.NewBuilder(),
		filter:          bloom.New(expectedEntries, targetFPR),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.blk = block.NewBuilderWithRestartInterval(w.restartInterval)

	if w.compress {
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, fmt.Errorf("sstable: new zstd encoder: %w", err)
		}
		w.enc = enc
	}
	return w, nil
}

// NewWriterFromConfig is NewWriter with block size, restart interval, and
// Bloom target FPR taken from cfg rather than passed individually.
func NewWriterFromConfig(files *fileio.FileManager, path string, expectedEntries int, cfg *config.Config) (*Writer, error) {
	return NewWriter(files, path, expectedEntries, cfg.BloomTargetFPR,
		WithBlockSize(cfg.SSTableBlockSize),
		WithRestartInterval(cfg.SSTableRestartSize),
	)
}

// Add appends key/value. Keys must be strictly increasing across the
// lifetime of the writer.
func (w *Writer) Add(key, value []byte) error {
	if w.entriesAdded == 0 {
		w.firstKey = append([]byte(nil), key...)
	}
	w.lastKey = append([]byte(nil), key...)

	if w.blk.Entries() == 0 {
		w.blockFirst = append([]byte(nil), key...)
	}
	if err := w.blk.Add(key, value); err != nil {
		return fmt.Errorf("sstable: add to block: %w", err)
	}
	w.filter.Add(key)
	w.entriesAdded++

	if w.blk.EstimatedSize() >= w.blockSize {
		return w.flushBlock()
	}
	return nil
}

// AddTombstone records a deletion marker for key. Equivalent to
// Add(key, nil).
func (w *Writer) AddTombstone(key []byte) error {
	return w.Add(key, nil)
}

func (w *Writer) flushBlock() error {
	if w.blk.Entries() == 0 {
		return nil
	}
	raw := w.blk.Finish()
	data := make([]byte, 0, len(raw)+1)
	if w.compress {
		data = append(data, blockFlagCompressed)
		data = w.enc.EncodeAll(raw, data)
	} else {
		data = append(data, blockFlagRaw)
		data = append(data, raw...)
	}

	n, err := w.file.Write(data)
	if err != nil {
		return fmt.Errorf("sstable: write block: %w", err)
	}
	if n != len(data) {
		return fmt.Errorf("sstable: wrote incomplete block: %d of %d bytes", n, len(data))
	}

	if err := w.idx.Add(w.blockFirst, footer.BlockHandle{Offset: w.offset, Size: uint64(n)}); err != nil {
		return fmt.Errorf("sstable: add index entry: %w", err)
	}
	w.offset += uint64(n)
	w.blk = block.NewBuilderWithRestartInterval(w.restartInterval)
	return nil
}

// Finish flushes any pending block, appends the filter, index, and footer,
// syncs, and atomically renames the temp file into place.
func (w *Writer) Finish() error {
	if w.finished {
		return nil
	}
	if err := w.flushBlock(); err != nil {
		return err
	}

	filterBytes := w.filter.Encode()
	filterHandle := footer.BlockHandle{Offset: w.offset, Size: uint64(len(filterBytes))}
	if err := w.write(filterBytes); err != nil {
		return fmt.Errorf("sstable: write filter block: %w", err)
	}

	indexBytes := w.idx.Finish()
	indexHandle := footer.BlockHandle{Offset: w.offset, Size: uint64(len(indexBytes))}
	if err := w.write(indexBytes); err != nil {
		return fmt.Errorf("sstable: write index block: %w", err)
	}

	ft := footer.Footer{FilterHandle: filterHandle, IndexHandle: indexHandle}
	if err := w.write(ft.Encode()); err != nil {
		return fmt.Errorf("sstable: write footer: %w", err)
	}

	if err := w.file.Sync(); err != nil {
		return fmt.Errorf("sstable: sync: %w", err)
	}
	if err := w.file.Close(); err != nil {
		return fmt.Errorf("sstable: close: %w", err)
	}
	if err := w.files.Rename(w.tmpPath, w.path); err != nil {
		return fmt.Errorf("sstable: finalize rename: %w", err)
	}
	w.finished = true
	return nil
}

func (w *Writer) write(b []byte) error {
	n, err := w.file.Write(b)
	if err != nil {
		return err
	}
	if n != len(b) {
		return fmt.Errorf("wrote incomplete data: %d of %d bytes", n, len(b))
	}
	w.offset += uint64(n)
	return nil
}

// Abort discards the in-progress file without finalizing it.
func (w *Writer) Abort() error {
	if w.finished {
		return nil
	}
	_ = w.file.Close()
	return w.files.Remove(w.tmpPath)
}

// Entries returns the number of key/value pairs added so far.
func (w *Writer) Entries() uint32 { return w.entriesAdded }

// KeyRange returns the smallest and largest keys added so far.
func (w *Writer) KeyRange() (min, max []byte) { return w.firstKey, w.lastKey }

// Size returns the number of bytes written so far.
func (w *Writer) Size() uint64 { return w.offset }

// CatalogEntry builds a manifest.TableEntry describing this table, for
// registration in the catalog once Finish has completed and the file's
// digest can be computed. id should come from manifest.NewTableID.
func (w *Writer) CatalogEntry(id, path string) (manifest.TableEntry, error) {
	digest, err := manifest.DigestFile(path)
	if err != nil {
		return manifest.TableEntry{}, err
	}
	return manifest.TableEntry{
		ID:         id,
		Path:       path,
		MinKey:     w.firstKey,
		MaxKey:     w.lastKey,
		NumEntries: int64(w.entriesAdded),
		SizeBytes:  int64(w.offset),
		Digest:     digest,
	}, nil
}
