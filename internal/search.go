package internal

import (
	"bytes"
	"io"
)

// LastIndex returns the offset of the first byte after the last occurrence of pattern in data.
// Returns -1 if the pattern was not found.
func LastIndex(data, pattern []byte) int {
	if len(pattern) == 0 {
		return -1
	}
	idx := bytes.LastIndex(data, pattern)
	if idx < 0 {
		return -1
	}
	return idx + len(pattern)
}

// SeekLastPattern searches the reader backwards for the last occurrence of pattern.
// The input is read in chunks of window bytes, starting at the end.
// Consecutive chunks overlap by len(pattern)-1 bytes, so patterns crossing a chunk border are found as well.
//
// On success, the next byte coming from the reader will be the first byte after the pattern ended,
// and the absolute offset of that byte is returned.
// Returns -1 if the pattern was not found.
func SeekLastPattern(in io.ReadSeeker, pattern []byte, window int) (int64, error) {
	if len(pattern) == 0 || window <= 0 {
		return -1, nil
	}
	size, err := in.Seek(0, io.SeekEnd)
	if err != nil {
		return -1, err
	}

	pLen := int64(len(pattern))
	buf := make([]byte, int64(window)+pLen-1)

	// [start, end) are the positions a match may start at during this iteration
	end := size
	for end > 0 {
		start := end - int64(window)
		if start < 0 {
			start = 0
		}
		stop := end + pLen - 1
		if stop > size {
			stop = size
		}
		chunk := buf[:stop-start]

		if _, err := in.Seek(start, io.SeekStart); err != nil {
			return -1, err
		}
		if _, err := io.ReadFull(in, chunk); err != nil {
			return -1, err
		}

		if idx := LastIndex(chunk, pattern); idx >= 0 {
			offset := start + int64(idx)
			if _, err := in.Seek(offset, io.SeekStart); err != nil {
				return -1, err
			}
			return offset, nil
		}
		end = start
	}
	return -1, nil
}
