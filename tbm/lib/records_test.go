package lib

import (
	"testing"

	"github.com/paulmatencio/tbm/dpc"
	"github.com/paulmatencio/tbm/tbm/lib/tbmtest"
	"github.com/paulmatencio/tbm/unpack"
)

func TestLayoutSizes(t *testing.T) {
	for _, tc := range []struct {
		l     *Layout
		words int
	}{
		{SystemLabelLayout, 32},
		{VolumeLayout, 8},
		{Header1Layout, 8},
		{Header2Layout, 8},
		{FCPLayout, 1},
		{FileHistoryLayout, 8},
		{BCPLayout, 1},
		{DBFLayout, 1},
	} {
		if tc.l.Bits() != uint64(tc.words)*WordBits {
			t.Errorf("%s: %d bits, want %d words", tc.l.Name, tc.l.Bits(), tc.words)
		}
	}
	for _, tc := range []struct {
		l     *TextLayout
		words int
	}{
		{SystemLabelText, 32},
		{VolumeText, 8},
		{Header1Text, 8},
		{Header2Text, 8},
		{FileHistoryText, 8},
	} {
		if tc.l.Bits() != uint64(tc.words)*WordBits {
			t.Errorf("%s text: %d bits, want %d words", tc.l.Name, tc.l.Bits(), tc.words)
		}
	}
}

func TestMagicNumbers(t *testing.T) {
	for _, tc := range []struct {
		text  string
		magic uint64
	}{
		{"VOL1", MagicVOL1},
		{"HDR1", MagicHDR1},
		{"HDR2", MagicHDR2},
		{"EOF1", MagicEOF1},
		{"NCARSY", MagicNCARSY},
		{"STEMHD", MagicSTEMHD},
		{"1000", Magic1000},
		{"1", Magic1},
	} {
		if got := dpc.MustWord(tc.text); got != tc.magic {
			t.Errorf("%s: encodes to %#x, table holds %#x", tc.text, got, tc.magic)
		}
	}
}

func TestReadDBF(t *testing.T) {
	buf := make([]byte, 8)
	if err := unpack.Pack(buf, 0, WordBits, []uint64{0x0000DC13AA00048}); err != nil {
		t.Fatal(err)
	}
	d, err := ReadDBF(buf, 0)
	if err != nil {
		t.Fatal(err)
	}
	if d.NextPtrOffset != 72 || d.PrevPtrOffset != 133589 || d.RecordDataMode != 27 || d.NumBits != 0 {
		t.Errorf("unexpected pointers %+v", d)
	}
	if d.IsRecordStart || d.IsEOD || d.IsEOF || d.EndLabelGroup || d.RecordIsShorter {
		t.Errorf("unexpected flags %s", flags(d))
	}
	if d.Next() != 72*WordBits || d.Payload() != 71*WordBits {
		t.Errorf("next %d payload %d", d.Next(), d.Payload())
	}
}

func TestReadDBFFlags(t *testing.T) {
	buf := make([]byte, 16)
	if err := unpack.Pack(buf, 4, WordBits, []uint64{tbmtest.DBFWord(tbmtest.RecordStart|tbmtest.EOF|tbmtest.ELG, 9, 1)}); err != nil {
		t.Fatal(err)
	}
	d, err := ReadDBF(buf, 4)
	if err != nil {
		t.Fatal(err)
	}
	if !d.IsRecordStart || !d.IsEOF || !d.EndLabelGroup || d.IsEOD || d.LabelRecordFollows {
		t.Errorf("unexpected flags %s", flags(d))
	}
	if d.PrevPtrOffset != 9 || d.NextPtrOffset != 1 {
		t.Errorf("prev %d next %d", d.PrevPtrOffset, d.NextPtrOffset)
	}
}

func TestReadSystemLabel(t *testing.T) {
	b := tbmtest.Build(t, tbmtest.FileSpec{ID: "00001", Records: []int{1}})
	s, err := ReadSystemLabel(b.Buf, 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Validate(); err != nil {
		t.Fatal(err)
	}
	if s.MachineType != MachineCray1 || s.Density != 3 || s.NumTracks != 9 || s.BK != tbmtest.BK ||
		s.NumBKBlocks != 5 || s.LabelBufLen != 32 || s.FirstFCPOff != tbmtest.FirstFCP {
		t.Errorf("unexpected word 0 fields %+v", s)
	}
	if MachineTypeName(s.MachineType) != "Cray-1" || DensityName(s.Density) != "1600 BPI" {
		t.Errorf("labels %s %s", MachineTypeName(s.MachineType), DensityName(s.Density))
	}
	if s.Volume.VolSerialName != "TAPE01" || s.Volume.AccountingNum != "12345678" ||
		s.Volume.SciNum != "42" || s.Volume.TBMVolSerial != "T00001" || s.Volume.SysLevelCode != 'A' {
		t.Errorf("unexpected volume label %q", s.Volume.Text.String())
	}
	if s.Header1.Name() != "NCARSYSTEMHD10001" || s.Header1.CreationDate != "790101" || s.Header1.SysCode != "CRAY1SYSTEM01" {
		t.Errorf("unexpected header %q", s.Header1.Text.String())
	}
	if got := s.Text.Get("hdr2.label")[:12]; got != "SYSTEM LABEL" {
		t.Errorf("hdr2 label %q", got)
	}
	if s.DataStart() != BlockSize*WordBits*tbmtest.BK {
		t.Errorf("data start %d", s.DataStart())
	}
}

func TestValidateReportsField(t *testing.T) {
	b := tbmtest.Build(t, tbmtest.FileSpec{ID: "00001", Records: []int{1}})
	// dataSetID character 17 sits in word 14
	tbmtest.Set(t, b.Buf, 14*WordBits, dpc.MustWord("2")<<54)
	s, err := ReadSystemLabel(b.Buf, 0)
	if err != nil {
		t.Fatal(err)
	}
	ce := corruptError(t, s.Validate())
	if ce.Check != Check1 || ce.Offset != 12*WordBits {
		t.Errorf("unexpected check %s at %d", ce.Check, ce.Offset)
	}
}

func TestReadFileHistory(t *testing.T) {
	b := tbmtest.Build(t, tbmtest.FileSpec{ID: "ABCDE", Records: []int{1}})
	fcp, err := ReadFCP(b.Buf, tbmtest.FirstFCP*WordBits)
	if err != nil {
		t.Fatal(err)
	}
	if fcp.IsEOF || fcp.NextFCPOff != 9 || fcp.DataBlkNum != 1 ||
		FileTypeName(fcp.FileType) != "sequential access" || SecondaryFileTypeName(fcp.SecondaryFileType) != "new" {
		t.Errorf("unexpected fcp %+v", fcp)
	}
	h, err := ReadFileHistory(b.Buf, (tbmtest.FirstFCP+1)*WordBits)
	if err != nil {
		t.Fatal(err)
	}
	if h.Name() != "NCARSYSTEMHDABCDE" || h.WritePasswd != "WPASS" || h.ReadPasswd != "RPASS" ||
		h.CreationYear != "79" || h.CreationDay != "123" || h.ExpirationYear != "80" || h.ExpirationDay != "001" {
		t.Errorf("unexpected history %q", h.Text.String())
	}
}

func TestLabelFallback(t *testing.T) {
	if DataTypeName(200) != "--" || FileDispositionName(1) != "delete at close" {
		t.Errorf("label lookup")
	}
}
