// Package reference issues short tracking codes such as SR-LZ8K2F1A04 for
// accepted service requests, outage reports and streetlight reports.
package reference

import (
	"math/rand/v2"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

type Prefix string

const (
	PrefixServiceRequest Prefix = "SR"
	PrefixOutage         Prefix = "OUT"
	PrefixStreetlight    Prefix = "SL"
)

// seqSpace bounds the per-process sequence suffix to three base-36 digits.
const seqSpace = 36 * 36 * 36

// Generator derives codes from the current millisecond plus a rolling
// sequence, so codes issued within the same millisecond stay distinct.
type Generator struct {
	now func() time.Time
	seq atomic.Uint64
}

func NewGenerator() *Generator {
	return newGenerator(time.Now, rand.Uint64N(seqSpace))
}

func newGenerator(now func() time.Time, start uint64) *Generator {
	g := &Generator{now: now}
	g.seq.Store(start)
	return g
}

// Next returns PREFIX-<token>, where token is the upper-cased base-36 unix
// millisecond followed by a fixed-width base-36 sequence.
func (g *Generator) Next(prefix Prefix) string {
	ms := g.now().UnixMilli()
	seq := g.seq.Add(1) % seqSpace

	suffix := strconv.FormatUint(seq, 36)
	if pad := 3 - len(suffix); pad > 0 {
		suffix = strings.Repeat("0", pad) + suffix
	}

	token := strconv.FormatInt(ms, 36) + suffix
	return string(prefix) + "-" + strings.ToUpper(token)
}
