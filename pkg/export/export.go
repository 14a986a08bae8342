// Package export names output files and packages block audio into archives.
package export

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"time"
)

const (
	// ZipFileName is the archive of every generated block.
	ZipFileName = "narrations.zip"
	// MergedFileName is the single compressed narration.
	MergedFileName = "full_narration.mp3"
)

// ErrFinalized is returned when a packager is used after Finalize.
var ErrFinalized = errors.New("packager already finalized")

// BlockFileName returns the playable file name for the block at a zero-based
// index. Names are 1-based: block_1.wav, block_2.wav, ...
func BlockFileName(index int) string {
	return fmt.Sprintf("block_%d.wav", index+1)
}

// Packager collects named files and produces one archive.
type Packager interface {
	Add(name string, data []byte) error
	Finalize() ([]byte, error)
}

// ZipPackager writes a zip archive in memory. Entries keep insertion order.
type ZipPackager struct {
	buf       bytes.Buffer
	zw        *zip.Writer
	modified  time.Time
	count     int
	finalized bool
}

var _ Packager = (*ZipPackager)(nil)

// NewZipPackager creates an empty archive. Entries are stamped with the
// creation time.
func NewZipPackager() *ZipPackager {
	p := &ZipPackager{modified: time.Now()}
	p.zw = zip.NewWriter(&p.buf)
	return p
}

// Add appends one deflated entry.
func (p *ZipPackager) Add(name string, data []byte) error {
	if p.finalized {
		return ErrFinalized
	}

	w, err := p.zw.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: p.modified,
	})
	if err != nil {
		return fmt.Errorf("create zip entry %s: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write zip entry %s: %w", name, err)
	}
	p.count++
	return nil
}

// Count returns the number of entries added.
func (p *ZipPackager) Count() int {
	return p.count
}

// Finalize closes the archive and returns its bytes.
func (p *ZipPackager) Finalize() ([]byte, error) {
	if p.finalized {
		return nil, ErrFinalized
	}
	p.finalized = true

	if err := p.zw.Close(); err != nil {
		return nil, fmt.Errorf("close zip: %w", err)
	}
	return p.buf.Bytes(), nil
}
