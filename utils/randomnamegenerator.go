package utils

import (
	"math/rand"

	"github.com/Pallinder/go-randomdata"
)

// RandomNameGenerator hands out names that were not handed out or reserved
// before. The sequence is seeded, so the same input gives the same names.
type RandomNameGenerator map[string]struct{}

func (rng *RandomNameGenerator) init() {
	if *rng == nil {
		*rng = make(map[string]struct{})
		randomdata.CustomRand(rand.New(rand.NewSource(0)))
	}
}

// Reserve marks the name as taken and reports whether it was free.
func (rng *RandomNameGenerator) Reserve(name string) bool {
	rng.init()
	if _, exists := (*rng)[name]; exists {
		return false
	}
	(*rng)[name] = struct{}{}
	return true
}

func (rng *RandomNameGenerator) RandomName() string {
	rng.init()
	for {
		name := randomdata.SillyName()
		// avoid duplicate names
		if rng.Reserve(name) {
			return name
		}
	}
}

// Unique returns name when it is non-empty and free, otherwise a generated one.
func (rng *RandomNameGenerator) Unique(name string) string {
	if name != "" && rng.Reserve(name) {
		return name
	}
	return rng.RandomName()
}
