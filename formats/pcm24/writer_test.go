package pcm24

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/ik5/tonemix/internal/audiotest"
)

func TestWritePCM24_ByteLength(t *testing.T) {
	t.Parallel()

	for _, n := range []int{1, 4, 8191, 8192, 8193, 20000} {
		samples := make([]float64, n)
		buf := new(bytes.Buffer)

		written, err := WritePCM24(buf, samples)
		if err != nil {
			t.Fatalf("WritePCM24(%d samples) error = %v", n, err)
		}
		if written != n*BytesPerSample || buf.Len() != n*BytesPerSample {
			t.Errorf("WritePCM24(%d samples) wrote %d (buffer %d), want %d", n, written, buf.Len(), n*BytesPerSample)
		}
	}
}

func TestWritePCM24_MatchesEncode(t *testing.T) {
	t.Parallel()

	samples := make([]float64, 10000)
	for i := range samples {
		samples[i] = float64(i%200)/100 - 1
	}

	buf := new(bytes.Buffer)
	if _, err := WritePCM24(buf, samples); err != nil {
		t.Fatalf("WritePCM24() error = %v", err)
	}

	if !bytes.Equal(buf.Bytes(), Encode(samples)) {
		t.Error("WritePCM24 output differs from Encode")
	}
}

func TestWritePCM24_Empty(t *testing.T) {
	t.Parallel()

	buf := new(bytes.Buffer)
	n, err := WritePCM24(buf, nil)
	if err != nil || n != 0 || buf.Len() != 0 {
		t.Errorf("WritePCM24(nil) = %d, %v (buffer %d); want 0, nil, 0", n, err, buf.Len())
	}
}

func TestWritePCM24_WriterError(t *testing.T) {
	t.Parallel()

	w := &audiotest.FailingWriter{After: 1}
	_, err := WritePCM24(w, make([]float64, 20000))
	if !errors.Is(err, audiotest.ErrWriteFailed) {
		t.Errorf("WritePCM24() error = %v, want ErrWriteFailed", err)
	}
}

func TestWriteBytes_ShortWrite(t *testing.T) {
	t.Parallel()

	w := &audiotest.ShortWriter{Limit: 2}
	n, err := WriteBytes(w, []byte{1, 2, 3, 4, 5, 6})
	if !errors.Is(err, io.ErrShortWrite) {
		t.Errorf("WriteBytes() error = %v, want io.ErrShortWrite", err)
	}
	if n != 2 {
		t.Errorf("WriteBytes() n = %d, want 2", n)
	}
}
