package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSplitterDefaults(t *testing.T) {
	s := NewSplitter(0, -1)
	assert.Equal(t, DefaultChunkSize, s.chunkSize)
	assert.Equal(t, DefaultChunkOverlap, s.chunkOverlap)
}

func TestNewSplitterOverlapExceedsSize(t *testing.T) {
	s := NewSplitter(100, 150)
	assert.Less(t, s.chunkOverlap, s.chunkSize)
}

func TestSplitEmptyInput(t *testing.T) {
	s := NewSplitter(100, 20)
	assert.Nil(t, s.Split(""))
	assert.Nil(t, s.Split("   \n\n  "))
}

func TestSplitSmallInput(t *testing.T) {
	s := NewSplitter(100, 20)
	chunks := s.Split("A short paragraph that fits in one chunk.")
	require.Len(t, chunks, 1)
	assert.Equal(t, "A short paragraph that fits in one chunk.", chunks[0])
}

func TestSplitRespectsChunkSize(t *testing.T) {
	s := NewSplitter(50, 10)

	var sb strings.Builder
	for i := 0; i < 40; i++ {
		sb.WriteString("some words that will need splitting here ")
	}

	chunks := s.Split(sb.String())
	require.NotEmpty(t, chunks)
	for i, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 50, "chunk %d exceeds chunk size: %q", i, chunk)
	}
}

func TestSplitPrefersParagraphBoundaries(t *testing.T) {
	s := NewSplitter(40, 0)
	text := "First paragraph here.\n\nSecond paragraph here.\n\nThird paragraph here."

	chunks := s.Split(text)
	require.NotEmpty(t, chunks)
	assert.Contains(t, chunks[0], "First paragraph here.")
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 40)
	}
}

func TestSplitDeterministic(t *testing.T) {
	s := NewSplitter(80, 20)
	text := strings.Repeat("A sentence about nothing in particular. ", 30)

	first := s.Split(text)
	second := s.Split(text)
	assert.Equal(t, first, second)
}

func TestSplitCarriesOverlap(t *testing.T) {
	s := NewSplitter(30, 10)
	text := "aaaa bbbb cccc dddd eeee ffff gggg hhhh iiii jjjj kkkk llll"

	chunks := s.Split(text)
	require.Greater(t, len(chunks), 1)

	// Each chunk after the first must start with text already seen at
	// the end of the previous chunk.
	for i := 1; i < len(chunks); i++ {
		firstWord := strings.Fields(chunks[i])[0]
		assert.Contains(t, chunks[i-1], firstWord,
			"chunk %d does not overlap with its predecessor", i)
	}
}

func TestSplitLongTokenEmittedUnsplit(t *testing.T) {
	s := NewSplitter(20, 5)
	longToken := strings.Repeat("x", 45)
	text := "short " + longToken + " tail"

	chunks := s.Split(text)
	require.NotEmpty(t, chunks)

	// A token with no internal separator may exceed the chunk size but
	// must never be truncated.
	found := false
	for _, chunk := range chunks {
		if strings.Contains(chunk, longToken) {
			found = true
		}
	}
	assert.True(t, found, "long token was truncated or dropped")

	for _, chunk := range chunks {
		if !strings.Contains(chunk, longToken) {
			assert.LessOrEqual(t, len(chunk), 20)
		}
	}
}

func TestSplitNoContentLost(t *testing.T) {
	s := NewSplitter(60, 15)
	text := "Clause one applies.\nClause two applies.\nClause three applies.\nClause four applies."

	chunks := s.Split(text)
	for _, line := range strings.Split(text, "\n") {
		found := false
		for _, chunk := range chunks {
			if strings.Contains(chunk, line) {
				found = true
				break
			}
		}
		assert.True(t, found, "line %q missing from all chunks", line)
	}
}
