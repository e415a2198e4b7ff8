//go:build ignore

package main

// Generate data files for testing.

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"
)

func genMixed(words []string, fname string, nrow int) {

	r := rand.New(rand.NewSource(99))

	fid, err := os.Create(filepath.Join("data", fname))
	if err != nil {
		panic("Unable to open file.")
	}
	defer fid.Close()

	w := csv.NewWriter(fid)

	if err := w.Write([]string{"id", "flag", "value", "word", "day", "note"}); err != nil {
		panic(err)
	}

	base := time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)
	rowdata := make([]string, 6)

	for i := 0; i < nrow; i++ {

		rowdata[0] = fmt.Sprintf("%d", i+1)
		rowdata[1] = fmt.Sprintf("%d", r.Int63n(2))
		if r.Float64() < 0.1 {
			rowdata[2] = ""
		} else {
			rowdata[2] = fmt.Sprintf("%.3f", r.Float64())
		}
		rowdata[3] = words[r.Int63n(int64(len(words)))]
		rowdata[4] = base.AddDate(0, 0, int(r.Int63n(3000))).Format("2006-01-02")
		rowdata[5] = fmt.Sprintf("note-%d", i+1)

		if err := w.Write(rowdata); err != nil {
			panic(err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		panic(err)
	}
}

func main() {

	words := []string{"apple", "dog", "pear", "crocodile"}
	genMixed(words, "mixed.csv", 2500)
}
