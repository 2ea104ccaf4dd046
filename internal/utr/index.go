package utr

// DefaultMinLength is the shortest annotated 3'UTR (End - Start) that is kept.
const DefaultMinLength = 25

// Index maps transcript IDs to their best 3'UTR region.
// It is read-only once returned by Builder.Index.
type Index struct {
	regions   map[string]Region
	dropped   int
	regrouped int
}

// Lookup returns the region for a transcript, if annotated.
func (x *Index) Lookup(transcriptID string) (Region, bool) {
	r, ok := x.regions[transcriptID]
	return r, ok
}

// Len returns the number of annotated transcripts.
func (x *Index) Len() int {
	return len(x.regions)
}

// Dropped returns how many regions were discarded as too short.
func (x *Index) Dropped() int {
	return x.dropped
}

// Regrouped returns how many transcript groups overwrote an earlier,
// non-contiguous group with the same ID.
func (x *Index) Regrouped() int {
	return x.regrouped
}

// Builder reduces a stream of UTR regions, grouped by transcript ID, to one
// region per transcript: the one with the smallest start.
//
// Input must be contiguous per transcript. When a transcript's regions are
// split across the stream, the last run wins.
type Builder struct {
	minLength int
	current   string
	group     []Region
	regions   map[string]Region
	dropped   int
	regrouped int
}

// NewBuilder creates a builder that discards regions shorter than minLength.
func NewBuilder(minLength int) *Builder {
	return &Builder{
		minLength: minLength,
		regions:   make(map[string]Region),
	}
}

// Add feeds the next region. Short regions are dropped without affecting
// the current group.
func (b *Builder) Add(r Region) {
	if r.Length() < b.minLength {
		b.dropped++
		return
	}

	if len(b.group) > 0 && r.TranscriptID != b.current {
		b.flush()
	}

	b.current = r.TranscriptID
	b.group = append(b.group, r)
}

// flush stores the minimum-start region of the buffered group.
func (b *Builder) flush() {
	if len(b.group) == 0 {
		return
	}

	best := b.group[0]
	for _, r := range b.group[1:] {
		if r.Start < best.Start {
			best = r
		}
	}

	if _, exists := b.regions[b.current]; exists {
		b.regrouped++
	}
	b.regions[b.current] = best
	b.group = b.group[:0]
}

// Index flushes the final group and returns the built index.
// The builder must not be used afterwards.
func (b *Builder) Index() *Index {
	b.flush()
	return &Index{
		regions:   b.regions,
		dropped:   b.dropped,
		regrouped: b.regrouped,
	}
}

// BuildIndex builds an index from regions in stream order.
func BuildIndex(regions []Region, minLength int) *Index {
	b := NewBuilder(minLength)
	for _, r := range regions {
		b.Add(r)
	}
	return b.Index()
}
