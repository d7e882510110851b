package ingestion

import "github.com/poiesic/milvusprovider/core"

// Batch normalizes data and splits it into chunks of at most size records.
// A size below 1 yields a single chunk.
func Batch(data any, size int) ([][]core.Record, error) {
	records, err := core.NormalizeRecords(data)
	if err != nil {
		return nil, err
	}
	if size < 1 || size >= len(records) {
		return [][]core.Record{records}, nil
	}

	batches := make([][]core.Record, 0, (len(records)+size-1)/size)
	for start := 0; start < len(records); start += size {
		end := min(start+size, len(records))
		batches = append(batches, records[start:end])
	}
	return batches, nil
}
