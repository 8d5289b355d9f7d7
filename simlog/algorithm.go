// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simlog

import (
	"fmt"
	"strconv"
	"strings"
)

// An Algorithm is a cache replacement algorithm known to the
// simulator log format.
type Algorithm uint8

const (
	Batch Algorithm = iota
	Delay
	Prob
	AGE
	ARC
	TwoQ
	FR
	DelayFR
	Random
	FIFO
	LRU

	numAlgorithms
)

// paramKind selects how the configuration suffix of an algorithm is
// decoded into Record fields.
type paramKind uint8

const (
	paramNone paramKind = iota
	paramScale
	paramVariant
	paramClock
	paramDualClock
)

// algorithms is indexed by Algorithm. Every Algorithm must have an
// entry; TestAlgorithmTable checks this.
var algorithms = [numAlgorithms]struct {
	id     string // identifier printed by the simulator
	name   string // canonical display name
	params paramKind
}{
	Batch:   {"lpFIFO_batch", "Batch", paramScale},
	Delay:   {"LRU_delay", "Delay", paramScale},
	Prob:    {"lpLRU_prob", "Prob", paramScale},
	AGE:     {"AGE", "AGE", paramScale},
	ARC:     {"ARC", "ARC", paramVariant},
	TwoQ:    {"TwoQ", "TwoQ", paramVariant},
	FR:      {"Clock", "FR", paramClock},
	DelayFR: {"DelayFR", "D-FR", paramDualClock},
	Random:  {"Random", "Random", paramScale},
	FIFO:    {"FIFO", "FIFO", paramNone},
	LRU:     {"LRU", "LRU", paramNone},
}

var algorithmIDs = func() map[string]Algorithm {
	m := make(map[string]Algorithm, len(algorithms))
	for a := Algorithm(0); a < numAlgorithms; a++ {
		m[algorithms[a].id] = a
	}
	return m
}()

// LookupAlgorithm returns the Algorithm printed by the simulator as id.
func LookupAlgorithm(id string) (Algorithm, bool) {
	a, ok := algorithmIDs[id]
	return a, ok
}

// ID returns the identifier the simulator uses for a.
func (a Algorithm) ID() string {
	if a >= numAlgorithms {
		return fmt.Sprintf("Algorithm(%d)", a)
	}
	return algorithms[a].id
}

// String returns the canonical display name of a.
func (a Algorithm) String() string {
	if a >= numAlgorithms {
		return fmt.Sprintf("Algorithm(%d)", a)
	}
	return algorithms[a].name
}

// An UnknownAlgorithmError reports an algorithm identifier that is not
// in the algorithm table. This indicates the logs were produced by a
// simulator this package does not understand.
type UnknownAlgorithmError struct {
	ID string
}

func (e *UnknownAlgorithmError) Error() string {
	return fmt.Sprintf("unknown algorithm %q", e.ID)
}

// decodeConfig fills the algorithm-specific fields of rec from its
// configuration suffix. hasConfig distinguishes an absent suffix from
// an empty one.
func (a Algorithm) decodeConfig(rec *Record, config string, hasConfig bool) error {
	if a >= numAlgorithms {
		return fmt.Errorf("no config decoder for %s", a)
	}
	switch k := algorithms[a].params; k {
	case paramNone:
		return nil
	case paramVariant:
		rec.Variant = config
		return nil
	case paramScale:
		if !hasConfig {
			return fmt.Errorf("%s: missing scale", a.ID())
		}
		scale, err := parseParam(a, "scale", config)
		if err != nil {
			return err
		}
		rec.Scale = scale
		return nil
	case paramClock, paramDualClock:
		if !hasConfig {
			return fmt.Errorf("%s: missing bit width", a.ID())
		}
		segs := strings.Split(config, "-")
		bit, err := parseParam(a, "bit width", segs[0])
		if err != nil {
			return err
		}
		rec.Bit = bit
		if k == paramClock {
			return nil
		}
		if len(segs) < 2 {
			return fmt.Errorf("%s-%s: missing scale", a.ID(), config)
		}
		scale, err := parseParam(a, "scale", segs[1])
		if err != nil {
			return err
		}
		rec.Scale = scale
		return nil
	default:
		return fmt.Errorf("no config decoder for %s (kind %d)", a.ID(), k)
	}
}

func parseParam(a Algorithm, what, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: bad %s %q", a.ID(), what, s)
	}
	return v, nil
}
