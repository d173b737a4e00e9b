// bench - CROUS throughput runner
//
// Generates a synthetic document and measures the four hot paths:
//   - parse   (text -> tree)
//   - emit    (tree -> text)
//   - encode  (tree -> FLUX)
//   - decode  (FLUX -> tree)
//
// Output: one line per path with ns/op and MB/s.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/crous-format/crous/crous"
)

var words = []string{
	"alpha", "beacon", "cedar", "delta", "ember",
	"fjord", "galley", "harbor", "ingot", "jetty",
	"krill", "lumen", "meadow", "nadir", "onyx",
}

type result struct {
	name    string
	iters   int
	nsPerOp float64
	mbPerS  float64
}

func main() {
	var (
		scale = flag.Int("scale", 200, "records per synthetic document")
		iters = flag.Int("iters", 50, "iterations per measurement")
		seed  = flag.Int64("seed", 1, "PRNG seed for the synthetic document")
	)
	flag.Parse()

	fmt.Fprintf(os.Stderr, "CROUS Throughput Runner\n")
	fmt.Fprintf(os.Stderr, "=======================\n")

	tree := syntheticTree(rand.New(rand.NewSource(*seed)), *scale)
	text := crous.Emit(tree)
	bin, err := crous.Encode(tree)
	if err != nil {
		fmt.Fprintf(os.Stderr, "encode failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "Document: %d records, %d text bytes, %d FLUX bytes\n\n",
		*scale, len(text), len(bin))

	results := []result{
		measure("parse", *iters, len(text), func() error {
			_, err := crous.Parse(text)
			return err
		}),
		measure("emit", *iters, len(text), func() error {
			crous.Emit(tree)
			return nil
		}),
		measure("encode", *iters, len(bin), func() error {
			_, err := crous.Encode(tree)
			return err
		}),
		measure("decode", *iters, len(bin), func() error {
			_, err := crous.Decode(bin)
			return err
		}),
	}

	fmt.Printf("=== RESULTS ===\n")
	for _, r := range results {
		fmt.Printf("%-8s %6d iters %12.0f ns/op %10.1f MB/s\n",
			r.name, r.iters, r.nsPerOp, r.mbPerS)
	}
}

func measure(name string, iters, size int, op func() error) result {
	start := time.Now()
	for i := 0; i < iters; i++ {
		if err := op(); err != nil {
			fmt.Fprintf(os.Stderr, "%s failed: %v\n", name, err)
			os.Exit(1)
		}
	}
	elapsed := time.Since(start)
	return result{
		name:    name,
		iters:   iters,
		nsPerOp: float64(elapsed.Nanoseconds()) / float64(iters),
		mbPerS:  float64(size) * float64(iters) / elapsed.Seconds() / (1 << 20),
	}
}

func syntheticTree(rng *rand.Rand, records int) *crous.Value {
	items := crous.ListCap(records)
	for i := 0; i < records; i++ {
		items.Append(record(rng, i))
	}
	return crous.Dict(
		crous.Pair("version", crous.Int(1)),
		crous.Pair("generator", crous.Str("bench")),
		crous.Pair("records", items),
	)
}

func record(rng *rand.Rand, i int) *crous.Value {
	blob := make([]byte, 16)
	rng.Read(blob)
	return crous.Dict(
		crous.Pair("id", crous.Int(int64(i))),
		crous.Pair("name", crous.Str(words[rng.Intn(len(words))])),
		crous.Pair("score", crous.Float(rng.Float64()*1000)),
		crous.Pair("active", crous.Bool(i%3 == 0)),
		crous.Pair("pos", crous.Tuple(crous.Float(rng.Float64()), crous.Float(rng.Float64()))),
		crous.Pair("blob", crous.Bytes(blob)),
		crous.Pair("labels", crous.Tagged(uint32(i%5), crous.List(
			crous.Str(words[rng.Intn(len(words))]),
			crous.Int(int64(rng.Intn(100))),
		))),
	)
}
