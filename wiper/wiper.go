package wiper

import (
	"fmt"
	"io"

	"github.com/aarsakian/ImageSanitizer/interval"
	"github.com/aarsakian/ImageSanitizer/logger"
)

const DefaultChunkSize = 4 * 1024 * 1024

// Wiper executes a zero plan against a writable target. It never touches a
// byte outside the supplied ranges, partial sectors at range edges are left
// alone by shrinking each range inward to sector alignment.
type Wiper struct {
	SectorSize uint64
	ChunkSize  int
}

// AlignInward shrinks the range to whole sectors, start rounded up and end
// rounded down. A range narrower than one sector vanishes.
func (w Wiper) AlignInward(iv interval.Interval) interval.Interval {
	sectorSize := w.SectorSize
	start := (iv.Start + sectorSize - 1) / sectorSize * sectorSize
	end := iv.End / sectorSize * sectorSize
	if start >= end {
		return interval.Interval{}
	}
	return interval.Interval{Start: start, End: end}
}

// ZeroRanges overwrites the given byte ranges with zeros and returns the
// number of bytes written.
func (w Wiper) ZeroRanges(target io.WriterAt, ranges []interval.Interval) (uint64, error) {
	chunkSize := w.ChunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	zeros := make([]byte, chunkSize)

	var written uint64
	for _, iv := range ranges {
		aligned := w.AlignInward(iv)
		if aligned.Length() == 0 {
			logger.SanitizerLogger.Warning(fmt.Sprintf("range %s narrower than one sector, skipped", iv))
			continue
		}

		offset := aligned.Start
		for offset < aligned.End {
			length := uint64(chunkSize)
			if remaining := aligned.End - offset; remaining < length {
				length = remaining
			}
			n, err := target.WriteAt(zeros[:length], int64(offset))
			written += uint64(n)
			if err != nil {
				return written, fmt.Errorf("zeroing [%d, %d): %w", offset, offset+length, err)
			}
			offset += length
		}
		logger.SanitizerLogger.Info(fmt.Sprintf("zeroed %s", aligned))
	}
	return written, nil
}
