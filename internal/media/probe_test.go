package media

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func box(boxType string, payload []byte) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, uint32(8+len(payload)))
	buf.WriteString(boxType)
	buf.Write(payload)
	return buf.Bytes()
}

func mvhdV0(timescale, duration uint32) []byte {
	var buf bytes.Buffer
	buf.Write([]byte{0, 0, 0, 0})                       // version 0 + flags
	binary.Write(&buf, binary.BigEndian, uint32(0))     // creation time
	binary.Write(&buf, binary.BigEndian, uint32(0))     // modification time
	binary.Write(&buf, binary.BigEndian, timescale)
	binary.Write(&buf, binary.BigEndian, duration)
	return box("mvhd", buf.Bytes())
}

func mvhdV1(timescale uint32, duration uint64) []byte {
	var buf bytes.Buffer
	buf.Write([]byte{1, 0, 0, 0})                       // version 1 + flags
	binary.Write(&buf, binary.BigEndian, uint64(0))     // creation time
	binary.Write(&buf, binary.BigEndian, uint64(0))     // modification time
	binary.Write(&buf, binary.BigEndian, timescale)
	binary.Write(&buf, binary.BigEndian, duration)
	return box("mvhd", buf.Bytes())
}

func writeTempFile(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.mp4")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestProbeDuration_Version0(t *testing.T) {
	t.Parallel()

	ftyp := box("ftyp", []byte("isom\x00\x00\x02\x00"))
	moov := box("moov", mvhdV0(1000, 12500))
	path := writeTempFile(t, append(ftyp, moov...))

	dur, err := ProbeDuration(path)
	require.NoError(t, err)
	assert.InDelta(t, 12.5, dur, 0.001)
}

func TestProbeDuration_Version1(t *testing.T) {
	t.Parallel()

	ftyp := box("ftyp", []byte("isom\x00\x00\x02\x00"))
	moov := box("moov", mvhdV1(600, 3661*600))
	path := writeTempFile(t, append(ftyp, moov...))

	dur, err := ProbeDuration(path)
	require.NoError(t, err)
	assert.InDelta(t, 3661, dur, 0.001)
}

func TestProbeDuration_MvhdAfterOtherBoxes(t *testing.T) {
	t.Parallel()

	ftyp := box("ftyp", []byte("isom\x00\x00\x02\x00"))
	free := box("free", make([]byte, 32))
	moovPayload := append(box("iods", make([]byte, 8)), mvhdV0(90000, 90000*7)...)
	moov := box("moov", moovPayload)

	data := append(ftyp, free...)
	data = append(data, moov...)
	path := writeTempFile(t, data)

	dur, err := ProbeDuration(path)
	require.NoError(t, err)
	assert.InDelta(t, 7, dur, 0.001)
}

func TestProbeDuration_NotAnMP4(t *testing.T) {
	t.Parallel()

	path := writeTempFile(t, []byte("definitely not video data"))

	_, err := ProbeDuration(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoDuration)
}

func TestProbeDuration_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := ProbeDuration(filepath.Join(t.TempDir(), "nope.mp4"))
	require.Error(t, err)
}
