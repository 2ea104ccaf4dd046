package utr

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildIndex_DropsShortRegions(t *testing.T) {
	idx := BuildIndex([]Region{
		{TranscriptID: "a", Start: 100, End: 124, Strand: Forward}, // 24
		{TranscriptID: "b", Start: 100, End: 125, Strand: Forward}, // 25
		{TranscriptID: "c", Start: 1, End: 2, Strand: Reverse},
	}, DefaultMinLength)

	_, ok := idx.Lookup("a")
	assert.False(t, ok)
	_, ok = idx.Lookup("c")
	assert.False(t, ok)

	r, ok := idx.Lookup("b")
	require.True(t, ok)
	assert.Equal(t, 25, r.Length())
	assert.Equal(t, 2, idx.Dropped())
	assert.Equal(t, 1, idx.Len())
}

func TestBuildIndex_KeepsMinimumStart(t *testing.T) {
	idx := BuildIndex([]Region{
		{TranscriptID: "t1", Start: 500, End: 900, Strand: Forward},
		{TranscriptID: "t1", Start: 300, End: 400, Strand: Forward},
		{TranscriptID: "t1", Start: 700, End: 800, Strand: Forward},
		{TranscriptID: "t2", Start: 50, End: 100, Strand: Reverse},
		{TranscriptID: "t2", Start: 40, End: 41, Strand: Reverse}, // too short, ignored
	}, DefaultMinLength)

	r, ok := idx.Lookup("t1")
	require.True(t, ok)
	assert.Equal(t, 300, r.Start)
	assert.Equal(t, 400, r.End)

	r, ok = idx.Lookup("t2")
	require.True(t, ok)
	assert.Equal(t, 50, r.Start)
	assert.Equal(t, Reverse, r.Strand)
}

func TestBuildIndex_ShortRegionDoesNotSplitGroup(t *testing.T) {
	idx := BuildIndex([]Region{
		{TranscriptID: "t1", Start: 500, End: 900, Strand: Forward},
		{TranscriptID: "t2", Start: 1, End: 5, Strand: Forward},
		{TranscriptID: "t1", Start: 200, End: 300, Strand: Forward},
	}, DefaultMinLength)

	r, ok := idx.Lookup("t1")
	require.True(t, ok)
	assert.Equal(t, 200, r.Start)
	assert.Zero(t, idx.Regrouped())
}

func TestBuildIndex_NonContiguousLastRunWins(t *testing.T) {
	idx := BuildIndex([]Region{
		{TranscriptID: "t1", Start: 100, End: 200, Strand: Forward},
		{TranscriptID: "t2", Start: 100, End: 200, Strand: Forward},
		{TranscriptID: "t1", Start: 400, End: 500, Strand: Forward},
	}, DefaultMinLength)

	r, ok := idx.Lookup("t1")
	require.True(t, ok)
	assert.Equal(t, 400, r.Start)
	assert.Equal(t, 1, idx.Regrouped())
}

func TestBuildIndex_Empty(t *testing.T) {
	idx := BuildIndex(nil, DefaultMinLength)
	assert.Zero(t, idx.Len())
}

const sampleGFF = `##gff-version 3
Tr1	transdecoder	gene	1	1200	.	+	.	ID=GENE.Tr1
Tr1	transdecoder	CDS	1	900	.	+	0	ID=cds.Tr1.p1
Tr1	transdecoder	three_prime_UTR	901	1200	.	+	.	ID=Tr1.p1.utr3p1
Tr1	transdecoder	three_prime_UTR	950	1200	.	+	.	ID=Tr1.p2.utr3p1

Tr2	transdecoder	three_prime_UTR	1	200	.	-	.	ID=Tr2.p1.utr3p1
Tr3	transdecoder	three_prime_UTR	10	20	.	+	.	ID=Tr3.p1.utr3p1
`

func TestLoader_ParseGFF(t *testing.T) {
	l := NewLoader("")
	idx, err := l.parseGFF(strings.NewReader(sampleGFF))
	require.NoError(t, err)

	assert.Equal(t, 2, idx.Len())

	r, ok := idx.Lookup("Tr1")
	require.True(t, ok)
	assert.Equal(t, Region{TranscriptID: "Tr1", Start: 901, End: 1200, Strand: Forward}, r)

	r, ok = idx.Lookup("Tr2")
	require.True(t, ok)
	assert.Equal(t, Reverse, r.Strand)

	_, ok = idx.Lookup("Tr3")
	assert.False(t, ok, "10-20 is shorter than the minimum")
}

func TestLoader_MinLengthOverride(t *testing.T) {
	l := NewLoader("")
	l.SetMinLength(5)
	idx, err := l.parseGFF(strings.NewReader(sampleGFF))
	require.NoError(t, err)

	_, ok := idx.Lookup("Tr3")
	assert.True(t, ok)
}

func TestLoader_MalformedStrandIsFatal(t *testing.T) {
	gff := "Tr1\ttransdecoder\tthree_prime_UTR\t1\t200\t.\t.\t.\tID=x\n"
	_, err := NewLoader("").parseGFF(strings.NewReader(gff))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidStrand)

	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 1, pe.Line)
}

func TestLoader_MalformedCoordinates(t *testing.T) {
	gff := "##gff-version 3\nTr1\ttransdecoder\tthree_prime_UTR\tabc\t200\t.\t+\t.\tID=x\n"
	_, err := NewLoader("").parseGFF(strings.NewReader(gff))

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 2, pe.Line)
}

func TestLoader_MissingFile(t *testing.T) {
	_, err := NewLoader(filepath.Join(t.TempDir(), "missing.gff3")).Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoader_LoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transdecoder.gff3")
	require.NoError(t, os.WriteFile(path, []byte(sampleGFF), 0o644))

	idx, err := NewLoader(path).Load()
	require.NoError(t, err)
	assert.Equal(t, 2, idx.Len())
}
