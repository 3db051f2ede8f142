package testsupport

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

// mpegFrameHeader is an MPEG-1 Layer III frame sync at 128 kbps, 44.1 kHz.
var mpegFrameHeader = []byte{0xFF, 0xFB, 0x90, 0x00}

// WriteFile writes data to path, creating parent directories.
func WriteFile(t testing.TB, path string, data []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteAudio writes an untagged MP3 stub that tag readers and writers accept.
// It is long enough for ID3v1 probing, which seeks 128 bytes from the end.
func WriteAudio(t testing.TB, path string) {
	t.Helper()

	data := make([]byte, 0, len(mpegFrameHeader)+1024)
	data = append(data, mpegFrameHeader...)
	data = append(data, make([]byte, 1024)...)
	WriteFile(t, path, data)
}

// WriteM4A writes an untagged MP4 audio stub: an M4A ftyp, a small mdat and a
// moov holding only the movie header.
func WriteM4A(t testing.TB, path string) {
	t.Helper()

	var data []byte
	data = append(data, mp4Box("ftyp", []byte("M4A \x00\x00\x00\x00M4A isom"))...)
	data = append(data, mp4Box("mdat", make([]byte, 64))...)

	mvhd := make([]byte, 100)
	binary.BigEndian.PutUint32(mvhd[12:], 1000)       // timescale
	binary.BigEndian.PutUint32(mvhd[20:], 0x00010000) // rate 1.0
	binary.BigEndian.PutUint16(mvhd[24:], 0x0100)     // volume 1.0
	for i, v := range []uint32{0x00010000, 0, 0, 0, 0x00010000, 0, 0, 0, 0x40000000} {
		binary.BigEndian.PutUint32(mvhd[36+4*i:], v)
	}
	binary.BigEndian.PutUint32(mvhd[96:], 1) // next track id
	data = append(data, mp4Box("moov", mp4Box("mvhd", mvhd))...)

	WriteFile(t, path, data)
}

func mp4Box(kind string, payload []byte) []byte {
	box := make([]byte, 8, 8+len(payload))
	binary.BigEndian.PutUint32(box, uint32(8+len(payload)))
	copy(box[4:], kind)
	return append(box, payload...)
}

// MustExist fails the test when path is missing.
func MustExist(t testing.TB, path string) {
	t.Helper()
	if _, err := os.Lstat(path); err != nil {
		t.Fatalf("expected %s to exist: %v", path, err)
	}
}

// MustNotExist fails the test when path is present.
func MustNotExist(t testing.TB, path string) {
	t.Helper()
	if _, err := os.Lstat(path); !os.IsNotExist(err) {
		t.Fatalf("expected %s to be absent, stat err=%v", path, err)
	}
}
