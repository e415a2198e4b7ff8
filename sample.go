package csvoptimizer

import (
	"io"
	"math"
	"math/rand"
)

// sampleSize is the number of rows drawn for a fraction of n rows,
// rounding half to even.
func sampleSize(n int, frac float64) int {
	k := int(math.RoundToEven(frac * float64(n)))
	if k > n {
		k = n
	}
	return k
}

// sampleRows draws a uniform random subset of rows without
// replacement.  The generator is reseeded on every call, so equal
// inputs give equal samples.
func sampleRows(rows [][]string, frac float64, seed int64) [][]string {
	k := sampleSize(len(rows), frac)
	if k == 0 {
		return nil
	}
	r := rand.New(rand.NewSource(seed))
	perm := r.Perm(len(rows))
	out := make([][]string, k)
	for i := 0; i < k; i++ {
		out[i] = rows[perm[i]]
	}
	return out
}

// sampleChunks reads rdr in chunks of chunkSize rows, samples every
// chunk and concatenates the samples.  Unless singleStage is set the
// concatenation is sampled once more with the same fraction and seed.
func sampleChunks(rdr RecordReader, chunkSize int, frac float64, seed int64, singleStage bool) ([][]string, int, error) {

	var sample [][]string
	nrows := 0
	for {
		chunk, err := rdr.ReadRecords(chunkSize)
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, 0, err
		}
		nrows += len(chunk)
		sample = append(sample, sampleRows(chunk, frac, seed)...)
	}

	if !singleStage {
		sample = sampleRows(sample, frac, seed)
	}

	return sample, nrows, nil
}
