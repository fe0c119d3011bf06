// Package terrain draws the scrolling desert background.
//
// Every screen row maps to a scroll index (row minus the whole part of the
// distance travelled). A row is drawn from a PCG generator seeded from the
// session seed and that index, so the same row always comes out the same
// within a session no matter what else was drawn in between.
package terrain

import (
	"encoding/binary"
	"math"
	"math/rand/v2"

	"github.com/cespare/xxhash/v2"
)

// DefaultAlphabet repeats the blank so open sand dominates.
const DefaultAlphabet = "  .,"

type Generator struct {
	seed     int64
	alphabet []rune
}

// New builds a generator. Repeated characters in alphabet are proportionally
// more likely; an empty alphabet draws blanks.
func New(seed int64, alphabet string) *Generator {
	runes := []rune(alphabet)
	if len(runes) == 0 {
		runes = []rune{' '}
	}
	return &Generator{seed: seed, alphabet: runes}
}

func (g *Generator) Seed() int64 { return g.seed }

// Row draws cols characters for the given scroll index.
func (g *Generator) Row(scrollIndex, cols int) []rune {
	if cols <= 0 {
		return nil
	}
	rng := g.rowRand(scrollIndex)
	row := make([]rune, cols)
	for i := range row {
		row[i] = g.alphabet[rng.IntN(len(g.alphabet))]
	}
	return row
}

// Cell is the first draw of the row for scrollIndex.
func (g *Generator) Cell(scrollIndex int) rune {
	return g.alphabet[g.rowRand(scrollIndex).IntN(len(g.alphabet))]
}

func (g *Generator) rowRand(scrollIndex int) *rand.Rand {
	var key [16]byte
	binary.LittleEndian.PutUint64(key[:8], uint64(g.seed))
	binary.LittleEndian.PutUint64(key[8:], uint64(int64(scrollIndex)))
	return rand.New(rand.NewPCG(xxhash.Sum64(key[:]), uint64(int64(scrollIndex))))
}

// ScrollIndex maps a screen row to its terrain index at the given distance.
func ScrollIndex(row int, distance float64) int {
	return row - int(math.Floor(distance))
}
