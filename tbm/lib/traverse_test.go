package lib

import (
	"errors"
	"testing"

	"github.com/paulmatencio/tbm/tbm/lib/tbmtest"
	"github.com/paulmatencio/tbm/unpack"
)

func corruptError(t *testing.T, err error) *CorruptError {
	t.Helper()
	if !errors.Is(err, ErrCorruptArchive) {
		t.Fatalf("expected a corrupt archive error, got %v", err)
	}
	var ce *CorruptError
	if !errors.As(err, &ce) {
		t.Fatalf("expected a *CorruptError, got %T", err)
	}
	return ce
}

func twoFiles(t *testing.T) *tbmtest.Archive {
	return tbmtest.Build(t,
		tbmtest.FileSpec{ID: "00001", Records: []int{4, 2}},
		tbmtest.FileSpec{ID: "00002", Records: []int{16, 16}},
	)
}

func TestTwoFiles(t *testing.T) {
	b := twoFiles(t)
	files, err := Traverse(b.Buf, Options{Start: b.Start})
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %d", len(files))
	}
	for i, want := range []struct {
		name    string
		bits    uint64
		records int
	}{
		// 240 bits padded to 256, then 120 padded to 384
		{"NCARSYSTEMHD00001", 384, 2},
		// 960 bits already aligned, then 960 more and an empty word
		{"NCARSYSTEMHD00002", 1984, 2},
	} {
		f := files[i]
		if f.Index != i || f.Name() != want.name {
			t.Errorf("file %d: index %d name %q", i, f.Index, f.Name())
		}
		if f.DataStart != b.DataStarts[i] {
			t.Errorf("file %d: data start %d, want %d", i, f.DataStart, b.DataStarts[i])
		}
		if f.Bits != want.bits || f.Size != int64(want.bits/8) || f.Records != want.records {
			t.Errorf("file %d: %d bits %d bytes %d records", i, f.Bits, f.Size, f.Records)
		}
		if f.Header2 == nil || f.EOF1 == nil || f.EOF1.Magic != MagicEOF1 || f.EOF1.Name() != want.name {
			t.Errorf("file %d: missing labels", i)
		}
	}
	if files[0].DataStart >= files[1].DataStart {
		t.Errorf("files out of order")
	}
}

func TestDeterministic(t *testing.T) {
	b := twoFiles(t)
	first, err := Traverse(b.Buf, Options{Start: b.Start})
	if err != nil {
		t.Fatal(err)
	}
	second, err := Traverse(b.Buf, Options{Start: b.Start})
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != len(second) {
		t.Fatalf("%d files then %d", len(first), len(second))
	}
	for i := range first {
		if first[i].DataStart != second[i].DataStart || first[i].Bits != second[i].Bits {
			t.Errorf("file %d differs between runs", i)
		}
	}
}

func TestCorruptVolumeLabel(t *testing.T) {
	b := twoFiles(t)
	b.Buf[b.Vol1/8] ^= 0x80 >> (b.Vol1 % 8)
	files, err := Traverse(b.Buf, Options{Start: b.Start})
	ce := corruptError(t, err)
	if ce.Check != CheckVolumeLabel || ce.Offset != b.Vol1 {
		t.Errorf("check %s at %d, want %s at %d", ce.Check, ce.Offset, CheckVolumeLabel, b.Vol1)
	}
	if len(files) != 0 {
		t.Errorf("expected no files, got %d", len(files))
	}
}

func TestCorruptSecondFile(t *testing.T) {
	b := twoFiles(t)
	tbmtest.Set(t, b.Buf, b.DataStarts[1], tbmtest.DBFWord(tbmtest.RecordStart|tbmtest.EOF|tbmtest.ELG, 8, 1))
	files, err := Traverse(b.Buf, Options{Start: b.Start})
	ce := corruptError(t, err)
	if ce.Check != CheckEndLabelGroup || ce.Offset != b.DataStarts[1] {
		t.Errorf("check %s at %d", ce.Check, ce.Offset)
	}
	if len(files) != 1 || files[0].Bits != 384 {
		t.Errorf("the first file must survive, got %d files", len(files))
	}
}

func TestLabelGroupInsideData(t *testing.T) {
	b := twoFiles(t)
	tbmtest.Set(t, b.Buf, b.Records[0][1], tbmtest.DBFWord(tbmtest.EOF|tbmtest.ELG, 5, 3))
	_, err := Traverse(b.Buf, Options{Start: b.Start})
	if ce := corruptError(t, err); ce.Check != CheckDataFlags {
		t.Errorf("check %s", ce.Check)
	}
}

func TestZeroNextPointer(t *testing.T) {
	b := twoFiles(t)
	tbmtest.Set(t, b.Buf, b.Records[0][0], tbmtest.DBFWord(tbmtest.RecordStart, 1, 0))
	_, err := Traverse(b.Buf, Options{Start: b.Start})
	ce := corruptError(t, err)
	if ce.Check != CheckNextPointer || ce.Offset != b.Records[0][0] {
		t.Errorf("check %s at %d", ce.Check, ce.Offset)
	}
}

func flip(buf []byte, bit uint64) { buf[bit/8] ^= 0x80 >> (bit % 8) }

func TestCorruptLabels(t *testing.T) {
	// label offsets relative to the DBF closing a header group, and to the
	// end of file mark of the data
	hdr1 := func(b *tbmtest.Archive, i int) uint64 { return b.DataStarts[i] - 17*WordBits }
	hdr2 := func(b *tbmtest.Archive, i int) uint64 { return b.DataStarts[i] - 8*WordBits }
	eof := func(b *tbmtest.Archive, i int) uint64 { return b.Records[i][len(b.Records[i])-1] }

	for _, tc := range []struct {
		name   string
		damage func(t *testing.T, b *tbmtest.Archive) uint64
		check  string
		files  int
	}{
		{"hdr1 magic", func(t *testing.T, b *tbmtest.Archive) uint64 {
			flip(b.Buf, hdr1(b, 0))
			return hdr1(b, 0)
		}, CheckHeader1, 0},
		{"hdr1 NCARSY", func(t *testing.T, b *tbmtest.Archive) uint64 {
			flip(b.Buf, hdr1(b, 0)+24)
			return hdr1(b, 0)
		}, CheckNCARSY, 0},
		{"hdr1 STEMHD of the second file", func(t *testing.T, b *tbmtest.Archive) uint64 {
			flip(b.Buf, hdr1(b, 1)+60)
			return hdr1(b, 1)
		}, CheckSTEMHD, 1},
		{"hdr2 magic", func(t *testing.T, b *tbmtest.Archive) uint64 {
			flip(b.Buf, hdr2(b, 0))
			return hdr2(b, 0)
		}, CheckHeader2, 0},
		{"eof1 magic", func(t *testing.T, b *tbmtest.Archive) uint64 {
			off := eof(b, 0) + 2*WordBits
			flip(b.Buf, off)
			return off
		}, CheckEOFHeader1, 1},
		{"eof1 data set id", func(t *testing.T, b *tbmtest.Archive) uint64 {
			off := eof(b, 0) + 2*WordBits
			flip(b.Buf, off+24)
			return off
		}, CheckEOFDataSetID, 1},
		{"dbf after eof1", func(t *testing.T, b *tbmtest.Archive) uint64 {
			off := eof(b, 0) + 10*WordBits
			tbmtest.Set(t, b.Buf, off, tbmtest.DBFWord(tbmtest.LabelFollows, 9, 1))
			return off
		}, CheckEOFLabelGroup, 1},
	} {
		t.Run(tc.name, func(t *testing.T) {
			b := twoFiles(t)
			want := tc.damage(t, b)
			files, err := Traverse(b.Buf, Options{Start: b.Start})
			ce := corruptError(t, err)
			if ce.Check != tc.check || ce.Offset != want {
				t.Errorf("check %s at %d, want %s at %d", ce.Check, ce.Offset, tc.check, want)
			}
			if len(files) != tc.files {
				t.Errorf("expected %d files, got %d", tc.files, len(files))
			}
		})
	}
}

func TestEndOfDataInsideFile(t *testing.T) {
	b := twoFiles(t)
	tbmtest.Set(t, b.Buf, b.Records[1][1], tbmtest.DBFWord(tbmtest.EOD, 17, 1))
	files, err := Traverse(b.Buf, Options{Start: b.Start})
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 || files[0].Name() != "NCARSYSTEMHD00001" {
		t.Errorf("expected the first file only, got %d files", len(files))
	}
}

func TestIterationLimit(t *testing.T) {
	b := twoFiles(t)
	_, err := Traverse(b.Buf, Options{Start: b.Start, MaxSteps: 5})
	if !errors.Is(err, ErrIterationLimit) {
		t.Fatalf("expected the iteration limit, got %v", err)
	}
	if ce := corruptError(t, err); ce.Check != CheckIterations {
		t.Errorf("check %s", ce.Check)
	}
}

func TestMaxFiles(t *testing.T) {
	b := twoFiles(t)
	files, err := Traverse(b.Buf, Options{Start: b.Start, MaxFiles: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 || files[0].EOF1 != nil {
		t.Errorf("expected to stop right after the first file, got %d files", len(files))
	}
}

func TestTruncated(t *testing.T) {
	b := twoFiles(t)
	files, err := Traverse(b.Buf[:b.DataStarts[1]/8], Options{Start: b.Start})
	if !errors.Is(err, unpack.ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
	if len(files) != 1 {
		t.Errorf("expected 1 file, got %d", len(files))
	}
}

func TestAdvance(t *testing.T) {
	for _, tc := range []struct {
		w, payload uint64
		first, eof bool
		want       uint64
	}{
		{0, 240, true, false, 256},
		{0, 960, true, false, 960},
		{960, 960, false, false, 1984},
		{1984, 0, false, true, 1984},
		{256, 120, false, true, 384},
		{0, 0, true, true, 0},
	} {
		if got := advance(tc.w, tc.payload, tc.first, tc.eof); got != tc.want {
			t.Errorf("advance(%d, %d, %v, %v) = %d, want %d", tc.w, tc.payload, tc.first, tc.eof, got, tc.want)
		}
	}
}

func TestStateString(t *testing.T) {
	if ExpectDBFAfterEOFHeader1.String() != "ExpectDBFAfterEOFHeader1" || State(42).String() != "State(42)" {
		t.Error("state names")
	}
}
