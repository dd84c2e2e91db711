package cluedata

import (
	"bytes"
	"encoding/binary"
	"errors"
	"strings"
	"testing"
)

// datasetBuilder assembles binary datasets for tests.
type datasetBuilder struct {
	buf bytes.Buffer
}

func (b *datasetBuilder) u32(v uint32)  { binary.Write(&b.buf, binary.LittleEndian, v) }
func (b *datasetBuilder) i16(v int16)   { binary.Write(&b.buf, binary.LittleEndian, v) }
func (b *datasetBuilder) i8(v int8)     { binary.Write(&b.buf, binary.LittleEndian, v) }
func (b *datasetBuilder) str(s string)  { b.buf.WriteByte(byte(len(s))); b.buf.WriteString(s) }
func (b *datasetBuilder) bytes() []byte { return b.buf.Bytes() }

func (b *datasetBuilder) words(words ...string) {
	b.u32(uint32(len(words)))
	for _, w := range words {
		b.str(w)
	}
}

func (b *datasetBuilder) clues(clues ...Clue) {
	b.u32(uint32(len(clues)))
	for _, c := range clues {
		b.str(c.Text)
		b.u32(uint32(len(c.Traps)))
		for _, trap := range c.Traps {
			b.u32(trap)
		}
	}
}

func (b *datasetBuilder) usage(u Usage) {
	b.u32(uint32(u.WordIndex))
	b.i16(int16(u.Count))
	b.i16(int16(u.Difficulty))
	b.i16(int16(u.Year))
	themed := int8(0)
	if u.Themed {
		themed = 1
	}
	b.i8(themed)
	b.i8(int8(u.Publication))
	b.u32(uint32(u.ClueIndex))
}

func buildDataset() []byte {
	var b datasetBuilder
	b.words("hello", "WORLD", "THEME")
	b.clues(
		Clue{Text: "A greeting"},
		Clue{Text: "The earth", Traps: []uint32{0, 4}},
	)
	// HELLO: NYT usage, weighted five-fold.
	b.usage(Usage{WordIndex: 0, Count: 3, Difficulty: 2, Year: 2019, Publication: 8, ClueIndex: 0})
	// WORLD: plain usage.
	b.usage(Usage{WordIndex: 1, Count: 4, Difficulty: 1, Year: 2020, Publication: 3, ClueIndex: 1})
	// THEME: themed usages never score, so the word is dropped.
	b.usage(Usage{WordIndex: 2, Count: 9, Difficulty: 3, Year: 2021, Themed: true, Publication: 8, ClueIndex: 0})
	return b.bytes()
}

func TestParse(t *testing.T) {
	data, err := Parse(bytes.NewReader(buildDataset()))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	wantWords := []string{"HELLO", "WORLD", "THEME"}
	if len(data.Words) != len(wantWords) {
		t.Fatalf("parsed %d words, want %d", len(data.Words), len(wantWords))
	}
	for i, w := range wantWords {
		if data.Words[i] != w {
			t.Errorf("Words[%d] = %q, want %q", i, data.Words[i], w)
		}
	}

	if len(data.Clues) != 2 {
		t.Fatalf("parsed %d clues, want 2", len(data.Clues))
	}
	if data.Clues[1].Text != "The earth" || len(data.Clues[1].Traps) != 2 {
		t.Errorf("Clues[1] = %+v, want text 'The earth' with 2 traps", data.Clues[1])
	}

	if len(data.Usages) != 3 {
		t.Fatalf("parsed %d usages, want 3", len(data.Usages))
	}
	u := data.Usages[0]
	if u.WordIndex != 0 || u.Count != 3 || u.Year != 2019 || u.Publication != 8 || u.Themed {
		t.Errorf("Usages[0] = %+v", u)
	}
	if !data.Usages[2].Themed {
		t.Error("Usages[2].Themed = false, want true")
	}
}

func TestScoredWords(t *testing.T) {
	data, err := Parse(bytes.NewReader(buildDataset()))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	scored := data.ScoredWords()
	want := []ScoredWord{
		{Text: "HELLO", Score: 15}, // 3 appearances x 5 for NYT
		{Text: "WORLD", Score: 4},
	}
	if len(scored) != len(want) {
		t.Fatalf("ScoredWords() returned %d words, want %d (themed-only words drop)", len(scored), len(want))
	}
	for i, w := range want {
		if scored[i] != w {
			t.Errorf("scored[%d] = %v, want %v", i, scored[i], w)
		}
	}
}

func TestUsagesByWord(t *testing.T) {
	data, err := Parse(bytes.NewReader(buildDataset()))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	byWord := data.UsagesByWord()
	if len(byWord["HELLO"]) != 1 || len(byWord["WORLD"]) != 1 || len(byWord["THEME"]) != 1 {
		t.Errorf("UsagesByWord() = %v", byWord)
	}
}

func TestWriteWordlist(t *testing.T) {
	data, err := Parse(bytes.NewReader(buildDataset()))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	var out strings.Builder
	if err := data.WriteWordlist(&out); err != nil {
		t.Fatalf("WriteWordlist() error = %v", err)
	}
	want := "HELLO;15\nWORLD;4\n"
	if out.String() != want {
		t.Errorf("WriteWordlist() = %q, want %q", out.String(), want)
	}
}

func TestParse_Malformed(t *testing.T) {
	full := buildDataset()

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"truncated word block", full[:7]},
		{"truncated clue block", full[:len(full)-50]},
		{"truncated usage record", full[:len(full)-5]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(bytes.NewReader(tt.data))
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("Parse() error = %v, want ErrMalformed", err)
			}
		})
	}
}

func TestParse_BadReferences(t *testing.T) {
	var b datasetBuilder
	b.words("AB")
	b.clues(Clue{Text: "x"})
	b.usage(Usage{WordIndex: 7, Count: 1, ClueIndex: 0})

	if _, err := Parse(bytes.NewReader(b.bytes())); !errors.Is(err, ErrMalformed) {
		t.Errorf("Parse() with bad word index error = %v, want ErrMalformed", err)
	}

	b = datasetBuilder{}
	b.words("AB")
	b.clues(Clue{Text: "x"})
	b.usage(Usage{WordIndex: 0, Count: 1, ClueIndex: 9})

	if _, err := Parse(bytes.NewReader(b.bytes())); !errors.Is(err, ErrMalformed) {
		t.Errorf("Parse() with bad clue index error = %v, want ErrMalformed", err)
	}
}
