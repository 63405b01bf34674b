/*
Package source loads the bytes to be rendered from the filesystem.

Several files may be given, in which case their contents are concatenated in
order. Files compressed with Zstandard (.zst) are decompressed transparently
and a CUE sheet (.cue) is replaced with the user data of its first data track.
*/
package source

import (
	"bytes"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/vchimishuk/chub/cue"
)

const (
	sectorHeader = 16
	sectorSize   = 2048
	rawSector    = 2352
)

var errNoDataTrack = errors.New("source: CUE sheet has no data track")

// Open reads every file named in paths and returns their concatenated
// contents.
func Open(paths ...string) ([]byte, error) {
	var b bytes.Buffer
	for _, path := range paths {
		if err := readFile(&b, path); err != nil {
			return nil, err
		}
	}
	return b.Bytes(), nil
}

func readFile(w io.Writer, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cue":
		return readCue(w, path)
	case ".zst":
		return readZstd(w, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(w, f)
	return err
}

func readZstd(w io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	d, err := zstd.NewReader(f)
	if err != nil {
		return err
	}
	defer d.Close()

	if _, err := io.Copy(w, d); err != nil {
		return fmt.Errorf("source: %s: %w", path, err)
	}
	return nil
}

func firstDataTrack(sheet *cue.Sheet) (string, cue.TrackDataType, error) {
	for _, file := range sheet.Files {
		for _, track := range file.Tracks {
			switch track.DataType {
			case cue.DataTypeMode1_2048, cue.DataTypeMode1_2352:
				return file.Name, track.DataType, nil
			}
		}
	}
	return "", cue.DataTypeAudio, errNoDataTrack
}

func readCue(w io.Writer, path string) error {
	sheet, err := cue.ParseFile(path)
	if err != nil {
		return err
	}

	name, dataType, err := firstDataTrack(sheet)
	if err != nil {
		return err
	}

	f, err := os.Open(filepath.Join(filepath.Dir(path), name))
	if err != nil {
		return err
	}
	defer f.Close()

	if dataType != cue.DataTypeMode1_2352 {
		_, err = io.Copy(w, f)
		return err
	}

	// Strip the sync, header, EDC and ECC from each raw sector
	var sector [rawSector]byte
	for {
		n, err := io.ReadFull(f, sector[:])
		switch err {
		case nil:
		case io.EOF:
			return nil
		case io.ErrUnexpectedEOF:
			// Truncated final sector, keep whatever payload there is
			if n <= sectorHeader {
				return nil
			}
			end := n
			if end > sectorHeader+sectorSize {
				end = sectorHeader + sectorSize
			}
			_, err := w.Write(sector[sectorHeader:end])
			return err
		default:
			return err
		}

		if _, err := w.Write(sector[sectorHeader : sectorHeader+sectorSize]); err != nil {
			return err
		}
	}
}

func Checksum(b []byte) string {
	return fmt.Sprintf("%.*X", crc32.Size<<1, crc32.ChecksumIEEE(b))
}
