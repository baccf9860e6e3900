package media

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

var ErrNoDuration = errors.New("media: no duration found")

// ProbeDuration reads the duration in seconds out of an MP4/ISO-BMFF file
// by locating the mvhd box inside moov. Non-MP4 files report ErrNoDuration.
func ProbeDuration(localPath string) (float64, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return 0, fmt.Errorf("media: open %s: %w", localPath, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, err
	}
	return scanBoxes(f, 0, info.Size())
}

// scanBoxes walks top-level boxes in [start, end), descending into moov.
func scanBoxes(r io.ReaderAt, start, end int64) (float64, error) {
	offset := start
	for offset+8 <= end {
		var header [8]byte
		if _, err := r.ReadAt(header[:], offset); err != nil {
			return 0, ErrNoDuration
		}
		size := int64(binary.BigEndian.Uint32(header[:4]))
		boxType := string(header[4:8])
		headerLen := int64(8)

		switch size {
		case 0:
			size = end - offset
		case 1:
			var large [8]byte
			if _, err := r.ReadAt(large[:], offset+8); err != nil {
				return 0, ErrNoDuration
			}
			size = int64(binary.BigEndian.Uint64(large[:]))
			headerLen = 16
		}
		if size < headerLen {
			return 0, ErrNoDuration
		}

		switch boxType {
		case "moov":
			return scanBoxes(r, offset+headerLen, offset+size)
		case "mvhd":
			return parseMvhd(r, offset+headerLen)
		}
		offset += size
	}
	return 0, ErrNoDuration
}

func parseMvhd(r io.ReaderAt, offset int64) (float64, error) {
	var versionFlags [4]byte
	if _, err := r.ReadAt(versionFlags[:], offset); err != nil {
		return 0, ErrNoDuration
	}

	var timescale uint32
	var duration uint64
	switch versionFlags[0] {
	case 0:
		// creation(4) + modification(4) precede timescale
		var buf [12]byte
		if _, err := r.ReadAt(buf[:], offset+4); err != nil {
			return 0, ErrNoDuration
		}
		timescale = binary.BigEndian.Uint32(buf[8:12])
		var dur [4]byte
		if _, err := r.ReadAt(dur[:], offset+16); err != nil {
			return 0, ErrNoDuration
		}
		duration = uint64(binary.BigEndian.Uint32(dur[:]))
	case 1:
		// creation(8) + modification(8) precede timescale
		var ts [4]byte
		if _, err := r.ReadAt(ts[:], offset+20); err != nil {
			return 0, ErrNoDuration
		}
		timescale = binary.BigEndian.Uint32(ts[:])
		var dur [8]byte
		if _, err := r.ReadAt(dur[:], offset+24); err != nil {
			return 0, ErrNoDuration
		}
		duration = binary.BigEndian.Uint64(dur[:])
	default:
		return 0, ErrNoDuration
	}

	if timescale == 0 {
		return 0, ErrNoDuration
	}
	return float64(duration) / float64(timescale), nil
}
