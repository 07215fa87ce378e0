// SPDX-License-Identifier: EPL-2.0

package pcm24

import (
	"fmt"
	"io"
)

// WriteBytes writes data to w in full. A writer that accepts fewer bytes
// without an error yields io.ErrShortWrite.
func WriteBytes(w io.Writer, data []byte) (int, error) {
	n, err := w.Write(data)
	if err != nil {
		return n, fmt.Errorf("%w", err)
	}
	if n != len(data) {
		return n, io.ErrShortWrite
	}

	return n, nil
}

// WritePCM24 encodes samples as raw big-endian unsigned 24-bit PCM and
// writes them to w without any header. Large inputs are written in chunks
// so only a small scratch buffer is held beside the samples.
func WritePCM24(w io.Writer, samples []float64) (int, error) {
	const chunkSize = 8192 // samples per write
	if len(samples) == 0 {
		return 0, nil
	}

	buf := make([]byte, min(len(samples), chunkSize)*BytesPerSample)

	written := 0
	for i := 0; i < len(samples); i += chunkSize {
		end := min(i+chunkSize, len(samples))
		chunk := EncodeInto(buf, samples[i:end])

		n, err := WriteBytes(w, chunk)
		written += n
		if err != nil {
			return written, err
		}
	}

	return written, nil
}
