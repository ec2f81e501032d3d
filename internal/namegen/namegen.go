// Package namegen generates human-readable names such as
// "brave-teal-otter-042". Names are for display only and never serve as
// identifiers.
package namegen

import (
	"fmt"
	"math/rand/v2"
	"sync"
)

var adjectives = []string{
	"agile", "bold", "brave", "calm", "clever", "eager", "fancy", "gentle",
	"happy", "jolly", "keen", "lively", "mighty", "nimble", "proud", "quick",
	"quiet", "rapid", "shiny", "steady", "swift", "tidy", "vivid", "witty",
}

var colors = []string{
	"amber", "azure", "black", "blue", "bronze", "coral", "crimson", "cyan",
	"gold", "green", "indigo", "ivory", "jade", "lime", "magenta", "olive",
	"orange", "pink", "purple", "red", "silver", "teal", "violet", "white",
}

var nouns = []string{
	"badger", "bear", "falcon", "fox", "gecko", "heron", "ibis", "jaguar",
	"koala", "lemur", "lynx", "marten", "newt", "otter", "owl", "panda",
	"puffin", "quail", "raven", "salmon", "tiger", "walrus", "wolf", "yak",
}

// Generator produces names from its own random source.
// It is safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New returns a generator. A zero seed draws from a random source;
// any other seed makes the sequence of names deterministic.
func New(seed int64) *Generator {
	var src rand.Source
	if seed == 0 {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	} else {
		src = rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15)
	}
	return &Generator{rng: rand.New(src)}
}

// Next returns the next name: adjective-color-noun-NNN.
func (g *Generator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return fmt.Sprintf("%s-%s-%s-%03d",
		adjectives[g.rng.IntN(len(adjectives))],
		colors[g.rng.IntN(len(colors))],
		nouns[g.rng.IntN(len(nouns))],
		g.rng.IntN(1000),
	)
}
