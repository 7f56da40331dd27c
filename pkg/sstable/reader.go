package sstable

import (
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/dreamvrutik/vrootkv/pkg/bloom"
	"github.com/dreamvrutik/vrootkv/pkg/fileio"
	"github.com/dreamvrutik/vrootkv/pkg/sstable/block"
	"github.com/dreamvrutik/vrootkv/pkg/sstable/footer"
	"github.com/dreamvrutik/vrootkv/pkg/sstable/index"
)

// Reader opens an immutable SSTable file for point lookups and iteration.
// It reads the whole file into memory once; block/index/filter readers
// hold borrowed views over that buffer.
type Reader struct {
	data    []byte
	idx     *index.Reader
	filter  *bloom.Filter
	dec     *zstd.Decoder
	footer  footer.Footer
	dataEnd uint64
	metrics Metrics
}

// SetMetrics installs the telemetry sink used for filter-check and
// block-fetch instrumentation.
func (r *Reader) SetMetrics(metrics Metrics) {
	if metrics == nil {
		metrics = NewNoopMetrics()
	}
	r.metrics = metrics
}

// Open reads path in full via files and parses its footer, index, and
// filter blocks.
func Open(files *fileio.FileManager, path string) (*Reader, error) {
	f, err := files.OpenRead(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	size, err := f.Size()
	if err != nil {
		return nil, err
	}
	buf := make([]byte, size)
	if _, err := f.ReadAt(buf, 0); err != nil {
		return nil, err
	}
	return OpenBytes(buf)
}

// OpenBytes parses an already-loaded SSTable image.
func OpenBytes(data []byte) (*Reader, error) {
	ft, err := footer.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	indexEnd := ft.IndexHandle.Offset + ft.IndexHandle.Size
	if indexEnd > uint64(len(data)) {
		return nil, ErrCorrupt
	}
	idxReader, err := index.NewReader(data[ft.IndexHandle.Offset:indexEnd])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	filterEnd := ft.FilterHandle.Offset + ft.FilterHandle.Size
	if filterEnd > uint64(len(data)) {
		return nil, ErrCorrupt
	}
	filter, err := bloom.Decode(data[ft.FilterHandle.Offset:filterEnd])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}

	return &Reader{
		data:    data,
		idx:     idxReader,
		filter:  filter,
		dec:     dec,
		footer:  ft,
		dataEnd: ft.FilterHandle.Offset,
		metrics: NewNoopMetrics(),
	}, nil
}

// blockAt decodes the raw bytes of a data block, transparently
// decompressing it if its leading flag byte says it was written with
// compression.
func (r *Reader) blockAt(h footer.BlockHandle) ([]byte, error) {
	start := time.Now()
	if h.Offset+h.Size > uint64(len(r.data)) || h.Size < 1 {
		return nil, ErrCorrupt
	}
	flagged := r.data[h.Offset : h.Offset+h.Size]
	flag, body := flagged[0], flagged[1:]
	switch flag {
	case blockFlagCompressed:
		decoded, err := r.dec.DecodeAll(body, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		r.metrics.RecordBlockFetch(time.Since(start), int64(len(decoded)))
		return decoded, nil
	case blockFlagRaw:
		r.metrics.RecordBlockFetch(time.Since(start), int64(len(body)))
		return body, nil
	default:
		return nil, ErrCorrupt
	}
}

// Get performs filter -> index -> data-block routing for key.
func (r *Reader) Get(key []byte) ([]byte, error) {
	mayContain := r.filter.MayContain(key)
	r.metrics.RecordFilterCheck(mayContain)
	if !mayContain {
		return nil, ErrNotFound
	}
	handle, ok := r.idx.Find(key)
	if !ok {
		return nil, ErrNotFound
	}
	blockData, err := r.blockAt(handle)
	if err != nil {
		return nil, err
	}
	br, err := block.NewReader(blockData)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	value, err := br.Get(key)
	if err == block.ErrNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return value, nil
}

// NumDataBlocks exposes the parsed index's entry count (one per data block,
// not one per key) for diagnostics.
func (r *Reader) NumDataBlocks() int { return r.idx.Entries() }

// Footer returns the parsed footer handles.
func (r *Reader) Footer() footer.Footer { return r.footer }
