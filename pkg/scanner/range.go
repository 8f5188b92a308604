// Package scanner splits block ranges into the bounded windows the log fetcher queries.
package scanner

import (
	"errors"
	"fmt"
)

// ErrInvalidRange is returned when a range cannot be split.
var ErrInvalidRange = errors.New("invalid block range")

const maxPrealloc = 4096

// Chunk is an inclusive block window [Lo, Hi].
type Chunk struct {
	Lo uint64
	Hi uint64
}

// Size returns the number of blocks covered by the chunk.
func (c Chunk) Size() uint64 {
	return c.Hi - c.Lo + 1
}

func (c Chunk) String() string {
	return fmt.Sprintf("[%d,%d]", c.Lo, c.Hi)
}

// SplitRange partitions [start, end] into contiguous, non-overlapping chunks of at most
// maxChunk blocks. The last chunk is clipped to end.
func SplitRange(start, end, maxChunk uint64) ([]Chunk, error) {
	if maxChunk == 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive", ErrInvalidRange)
	}
	if start > end {
		return nil, fmt.Errorf("%w: start %d is after end %d", ErrInvalidRange, start, end)
	}

	// (end-start)/maxChunk+1 is ceil((end-start+1)/maxChunk) without overflowing at MaxUint64
	count := (end-start)/maxChunk + 1
	if count > maxPrealloc {
		count = maxPrealloc
	}

	chunks := make([]Chunk, 0, count)
	for lo := start; ; {
		hi := end
		if end-lo >= maxChunk {
			hi = lo + maxChunk - 1
		}
		chunks = append(chunks, Chunk{Lo: lo, Hi: hi})
		if hi == end {
			break
		}
		lo = hi + 1
	}

	return chunks, nil
}

// LookbackRange returns the window of lookback blocks behind head, ending at head.
// The start saturates at the genesis block.
func LookbackRange(head, lookback uint64) (start, end uint64) {
	if lookback > head {
		return 0, head
	}
	return head - lookback, head
}
