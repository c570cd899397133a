// Package chunks splits a byte count into the ordered ranges used by both
// transfer directions.
package chunks

import "errors"

var (
	ErrInvalidChunkSize = errors.New("chunk size must be positive")
	ErrInvalidTotalSize = errors.New("total size must not be negative")
)

// Chunk is an inclusive byte range, except for the last chunk of a Plan whose
// EndByte equals the total size. Servers clamp the extra byte.
type Chunk struct {
	Index     int
	StartByte int64
	EndByte   int64
}

// Len is the number of bytes the chunk actually covers in a file of totalSize.
func (c Chunk) Len(totalSize int64) int64 {
	end := min(c.EndByte, totalSize-1)
	if end < c.StartByte {
		return 0
	}
	return end - c.StartByte + 1
}

type Plan []Chunk

func (p Plan) Count() int {
	return len(p)
}

// Count returns ceil(totalSize / chunkSize), with a minimum of one.
func Count(totalSize, chunkSize int64) int {
	if chunkSize <= 0 || totalSize <= 0 {
		return 1
	}
	return int((totalSize + chunkSize - 1) / chunkSize)
}

// NewPlan covers [0, totalSize) with consecutive chunks of chunkSize bytes.
// The last chunk ends at totalSize rather than totalSize-1.
func NewPlan(totalSize, chunkSize int64) (Plan, error) {
	if chunkSize <= 0 {
		return nil, ErrInvalidChunkSize
	}
	if totalSize < 0 {
		return nil, ErrInvalidTotalSize
	}
	if totalSize == 0 {
		return Plan{{Index: 0, StartByte: 0, EndByte: 0}}, nil
	}
	n := Count(totalSize, chunkSize)
	plan := make(Plan, 0, n)
	for i := range n {
		plan = append(plan, Chunk{
			Index:     i,
			StartByte: int64(i) * chunkSize,
			EndByte:   int64(i+1)*chunkSize - 1,
		})
	}
	plan[n-1].EndByte = totalSize
	return plan, nil
}
