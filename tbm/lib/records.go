package lib

import (
	"fmt"
	"strings"
)

// Binary field tables, stream order. Each group of fields adds up to one 60-bit word.
var (
	vol1Fields = []Field{
		{"magic", 24}, {"volSerialName", 36},
		{"acc", 6}, blank(54),
		blank(60),
		blank(42), {"acntNum1_3", 18},
		{"acntNum4_8", 30}, {"sciNum", 12}, blank(18),
		blank(60),
		blank(60),
		{"tbmVolSerial", 36}, blank(18), {"sysLevelCode", 6},
	}
	hdr1Fields = []Field{
		{"magic", 24}, {"dataSetID1_6", 36},
		{"dataSetID7_12", 36}, {"dataSetID13_16", 24},
		{"dataSetID17", 6}, {"volSerialName", 36}, {"fileSecNum1_3", 18},
		{"fileSecNum4", 6}, {"fileSeqNum", 24}, {"generationNum", 24}, {"versionNum1", 6},
		{"versionNum2", 6}, {"creationDate", 36}, {"expDate1_3", 18},
		{"expDate4_6", 18}, {"accChar", 6}, {"blockCount", 36},
		{"sysCode1_10", 60},
		{"sysCode11_13", 18}, blank(42),
	}
	hdr2Fields = []Field{
		{"magic", 24}, blank(36),
		blank(60), blank(60), blank(60), blank(60), blank(60), blank(60), blank(60),
	}

	VolumeLayout  = NewLayout("vol1", vol1Fields...)
	Header1Layout = NewLayout("hdr1", hdr1Fields...)
	Header2Layout = NewLayout("hdr2", hdr2Fields...)

	SystemLabelLayout = NewLayout("syslbn", concat(
		[]Field{
			{"machineType", 4}, {"density", 4}, {"dataType", 8}, {"numTracks", 4},
			{"bk", 8}, {"numBKBlocks", 12}, {"labelBufLen", 20},
			blank(60), blank(60), blank(60),
		},
		prefixed("vol1", vol1Fields),
		prefixed("hdr1", hdr1Fields),
		prefixed("hdr2", hdr2Fields),
		[]Field{
			{"fileCtrlPtrOff", 30}, {"blkCtrlPtrOff", 30},
			{"firstFCPOff", 30}, {"ctrlCardOpenOff", 30},
			{"openMergeAreaOff", 30}, {"curCtrlCardOpenOff", 30},
			blank(30), {"fcpToBlkCtrlOff", 30},
		},
	)...)

	FCPLayout = NewLayout("fcp",
		Field{"isEOF", 1}, Field{"isObsolete", 1}, Field{"secondaryFileType", 3},
		Field{"fileDisposition", 3}, Field{"fileType", 3}, blank(4),
		Field{"bufferPtrOffset", 21}, Field{"dataBlkNum", 12}, Field{"nextFCPOff", 12},
	)

	FileHistoryLayout = NewLayout("fhw",
		Field{"dataSetID1_10", 60},
		Field{"dataSetID11_12", 12}, Field{"dataSetID13_17", 30}, blank(18),
		Field{"lastReadTime", 15}, Field{"lastReadDay", 9}, Field{"lastReadYear", 6},
		Field{"lastWriteTime", 15}, Field{"lastWriteDay", 9}, Field{"lastWriteYear", 6},
		blank(36), Field{"useCount", 12}, Field{"versionNum", 12},
		Field{"writePasswd", 30}, Field{"readPasswd", 30},
		Field{"recordLen", 30}, Field{"maxRecordNum", 30},
		Field{"creationYear", 12}, Field{"creationDay", 18}, Field{"expirationYear", 12}, Field{"expirationDay", 18},
		blank(60),
	)

	BCPLayout = NewLayout("bcp",
		Field{"noRecordStartsHere", 1}, blank(2), Field{"checksum", 12},
		Field{"lastRecord", 21}, Field{"wordsToFirstPtr", 24},
	)

	DBFLayout = NewLayout("dbf",
		Field{"isRecordStart", 1}, Field{"isEOD", 1}, Field{"isEOF", 1}, Field{"isLoadPoint", 1},
		Field{"labelRecordFollows", 1}, Field{"endLabelGroup", 1}, Field{"sourceParityError", 1},
		Field{"recordNotWritten", 1}, Field{"recordIsShorter", 1},
		Field{"numBits", 6}, Field{"recordDataMode", 6},
		Field{"prevPtrOffset", 18}, Field{"nextPtrOffset", 21},
	)
)

// Text field tables, widths in characters.
var (
	vol1Text = []Field{
		{"magic", 4}, {"volSerialName", 6}, {"acc", 1}, blank(26),
		{"accountingNum", 8}, {"sciNum", 2}, blank(23),
		{"tbmVolSerial", 6}, blank(3), {"sysLevelCode", 1},
	}
	hdr1Text = []Field{
		{"magic", 4}, {"dataSetID", 17}, {"volSerialName", 6},
		{"fileSectionNum", 4}, {"fileSequenceNum", 4}, {"generationNum", 4},
		{"versionNum", 2}, {"creationDate", 6}, {"expirationDate", 6},
		{"accChar", 1}, {"blockCount", 6}, {"sysCode", 13}, blank(7),
	}
	hdr2Text = []Field{{"magic", 4}, {"label", 76}}

	VolumeText  = NewTextLayout("vol1", vol1Text...)
	Header1Text = NewTextLayout("hdr1", hdr1Text...)
	Header2Text = NewTextLayout("hdr2", hdr2Text...)

	SystemLabelText = NewTextLayout("syslbn", concat(
		[]Field{blank(40)},
		prefixed("vol1", vol1Text),
		prefixed("hdr1", hdr1Text),
		prefixed("hdr2", hdr2Text),
		[]Field{
			{"fileCtrlPtrOff", 5}, {"blkCtrlPtrOff", 5},
			{"firstFCPOff", 5}, {"ctrlCardOpenOff", 5},
			{"openMergeAreaOff", 5}, {"curCtrlCardOpenOff", 5},
			blank(5), {"fcpToBlkCtrlOff", 5},
		},
	)...)

	FileHistoryText = NewTextLayout("fhw",
		Field{"dataSetID", 17}, blank(19),
		Field{"useCount", 2}, Field{"versionNum", 2},
		Field{"writePasswd", 5}, Field{"readPasswd", 5},
		Field{"recordLen", 5}, Field{"maxRecordNum", 5},
		Field{"creationYear", 2}, Field{"creationDay", 3},
		Field{"expirationYear", 2}, Field{"expirationDay", 3},
		blank(10),
	)
)

// VolumeLabel is the VOL1 label, 8 words.
type VolumeLabel struct {
	Offset        uint64
	Magic         uint64
	VolSerialName string
	Accessibility byte
	AccountingNum string
	SciNum        string
	TBMVolSerial  string
	SysLevelCode  byte
	Data          Values
	Text          Text
}

func ReadVolumeLabel(buf []byte, off uint64) (*VolumeLabel, error) {
	d, t, err := readBoth(buf, off, VolumeLayout, VolumeText)
	if err != nil {
		return nil, err
	}
	return &VolumeLabel{
		Offset:        off,
		Magic:         d.Get("magic"),
		VolSerialName: t.Get("volSerialName"),
		Accessibility: t.Get("acc")[0],
		AccountingNum: t.Get("accountingNum"),
		SciNum:        t.Get("sciNum"),
		TBMVolSerial:  t.Get("tbmVolSerial"),
		SysLevelCode:  t.Get("sysLevelCode")[0],
		Data:          d,
		Text:          t,
	}, nil
}

// Header1 is a HDR1 label or, with a different magic, the EOF1 label closing a file.
type Header1 struct {
	Offset          uint64
	Magic           uint64
	DataSetID       string
	VolSerialName   string
	FileSectionNum  string
	FileSequenceNum string
	GenerationNum   string
	VersionNum      string
	CreationDate    string
	ExpirationDate  string
	AccChar         byte
	BlockCount      string
	SysCode         string
	Data            Values
	Text            Text
}

func ReadHeader1(buf []byte, off uint64) (*Header1, error) {
	d, t, err := readBoth(buf, off, Header1Layout, Header1Text)
	if err != nil {
		return nil, err
	}
	return &Header1{
		Offset:          off,
		Magic:           d.Get("magic"),
		DataSetID:       t.Get("dataSetID"),
		VolSerialName:   t.Get("volSerialName"),
		FileSectionNum:  t.Get("fileSectionNum"),
		FileSequenceNum: t.Get("fileSequenceNum"),
		GenerationNum:   t.Get("generationNum"),
		VersionNum:      t.Get("versionNum"),
		CreationDate:    t.Get("creationDate"),
		ExpirationDate:  t.Get("expirationDate"),
		AccChar:         t.Get("accChar")[0],
		BlockCount:      t.Get("blockCount"),
		SysCode:         t.Get("sysCode"),
		Data:            d,
		Text:            t,
	}, nil
}

// Name returns the data set identifier without trailing blanks.
func (h *Header1) Name() string { return strings.TrimRight(h.DataSetID, " ") }

type Header2 struct {
	Offset uint64
	Magic  uint64
	Label  string
	Data   Values
	Text   Text
}

func ReadHeader2(buf []byte, off uint64) (*Header2, error) {
	d, t, err := readBoth(buf, off, Header2Layout, Header2Text)
	if err != nil {
		return nil, err
	}
	return &Header2{Offset: off, Magic: d.Get("magic"), Label: t.Get("label"), Data: d, Text: t}, nil
}

// SystemLabel is the SYSLBN block, 32 words, at the start of every archive.
type SystemLabel struct {
	Offset             uint64
	MachineType        uint8
	Density            uint8
	DataType           uint8
	NumTracks          uint8
	BK                 uint8
	NumBKBlocks        uint16
	LabelBufLen        uint32
	Volume             *VolumeLabel
	Header1            *Header1
	Header2            *Header2
	FileCtrlPtrOff     uint32
	BlkCtrlPtrOff      uint32
	FirstFCPOff        uint32
	CtrlCardOpenOff    uint32
	OpenMergeAreaOff   uint32
	CurCtrlCardOpenOff uint32
	FCPToBlkCtrlOff    uint32
	Data               Values
	Text               Text
}

func ReadSystemLabel(buf []byte, off uint64) (*SystemLabel, error) {
	d, t, err := readBoth(buf, off, SystemLabelLayout, SystemLabelText)
	if err != nil {
		return nil, err
	}
	s := &SystemLabel{
		Offset:             off,
		MachineType:        uint8(d.Get("machineType")),
		Density:            uint8(d.Get("density")),
		DataType:           uint8(d.Get("dataType")),
		NumTracks:          uint8(d.Get("numTracks")),
		BK:                 uint8(d.Get("bk")),
		NumBKBlocks:        uint16(d.Get("numBKBlocks")),
		LabelBufLen:        uint32(d.Get("labelBufLen")),
		FileCtrlPtrOff:     uint32(d.Get("fileCtrlPtrOff")),
		BlkCtrlPtrOff:      uint32(d.Get("blkCtrlPtrOff")),
		FirstFCPOff:        uint32(d.Get("firstFCPOff")),
		CtrlCardOpenOff:    uint32(d.Get("ctrlCardOpenOff")),
		OpenMergeAreaOff:   uint32(d.Get("openMergeAreaOff")),
		CurCtrlCardOpenOff: uint32(d.Get("curCtrlCardOpenOff")),
		FCPToBlkCtrlOff:    uint32(d.Get("fcpToBlkCtrlOff")),
		Data:               d,
		Text:               t,
	}
	if s.Volume, err = ReadVolumeLabel(buf, off+4*WordBits); err != nil {
		return nil, err
	}
	if s.Header1, err = ReadHeader1(buf, off+12*WordBits); err != nil {
		return nil, err
	}
	if s.Header2, err = ReadHeader2(buf, off+20*WordBits); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks the magic numbers of the embedded labels.
func (s *SystemLabel) Validate() error {
	checks := []struct {
		name      string
		got, want uint64
		off       uint64
	}{
		{CheckVolumeLabel, s.Volume.Magic, MagicVOL1, s.Volume.Offset},
		{CheckHeader1, s.Header1.Magic, MagicHDR1, s.Header1.Offset},
		{CheckNCARSY, s.Header1.Data.Get("dataSetID1_6"), MagicNCARSY, s.Header1.Offset},
		{CheckSTEMHD, s.Header1.Data.Get("dataSetID7_12"), MagicSTEMHD, s.Header1.Offset},
		{Check1000, s.Header1.Data.Get("dataSetID13_16"), Magic1000, s.Header1.Offset},
		{Check1, s.Header1.Data.Get("dataSetID17"), Magic1, s.Header1.Offset},
		{CheckHeader2, s.Header2.Magic, MagicHDR2, s.Header2.Offset},
	}
	for _, c := range checks {
		if c.got != c.want {
			return corrupt(c.name, c.off, "got %#x, want %#x", c.got, c.want)
		}
	}
	return nil
}

// DataStart returns the bit offset of the first data block, where a full
// archive scan begins.
func (s *SystemLabel) DataStart() uint64 {
	return s.Offset + uint64(s.BK)*BlockSize*WordBits
}

// FileControlPointer locates one file of the archive, 1 word.
type FileControlPointer struct {
	Offset            uint64
	IsEOF             bool
	IsObsolete        bool
	SecondaryFileType uint8
	FileDisposition   uint8
	FileType          uint8
	BufferPtrOffset   uint32
	DataBlkNum        uint16
	NextFCPOff        uint16
	Data              Values
}

func ReadFCP(buf []byte, off uint64) (*FileControlPointer, error) {
	d, err := FCPLayout.Read(buf, off)
	if err != nil {
		return nil, err
	}
	return &FileControlPointer{
		Offset:            off,
		IsEOF:             d.Bool("isEOF"),
		IsObsolete:        d.Bool("isObsolete"),
		SecondaryFileType: uint8(d.Get("secondaryFileType")),
		FileDisposition:   uint8(d.Get("fileDisposition")),
		FileType:          uint8(d.Get("fileType")),
		BufferPtrOffset:   uint32(d.Get("bufferPtrOffset")),
		DataBlkNum:        uint16(d.Get("dataBlkNum")),
		NextFCPOff:        uint16(d.Get("nextFCPOff")),
		Data:              d,
	}, nil
}

// Stamp is a last-read or last-write time of a file history.
type Stamp struct {
	Time uint16
	Day  uint16
	Year uint8 // years since 1976
}

func (s Stamp) String() string {
	return fmt.Sprintf("%d/%03d %05d", 1976+int(s.Year), s.Day, s.Time)
}

// FileHistory is the 8-word history block that follows each file control pointer.
type FileHistory struct {
	Offset         uint64
	DataSetID      string
	LastRead       Stamp
	LastWrite      Stamp
	UseCount       uint16
	VersionNum     uint16
	WritePasswd    string
	ReadPasswd     string
	RecordLen      uint32
	MaxRecordNum   uint32
	CreationYear   string
	CreationDay    string
	ExpirationYear string
	ExpirationDay  string
	Data           Values
	Text           Text
}

func ReadFileHistory(buf []byte, off uint64) (*FileHistory, error) {
	d, t, err := readBoth(buf, off, FileHistoryLayout, FileHistoryText)
	if err != nil {
		return nil, err
	}
	return &FileHistory{
		Offset:    off,
		DataSetID: t.Get("dataSetID"),
		LastRead: Stamp{
			Time: uint16(d.Get("lastReadTime")),
			Day:  uint16(d.Get("lastReadDay")),
			Year: uint8(d.Get("lastReadYear")),
		},
		LastWrite: Stamp{
			Time: uint16(d.Get("lastWriteTime")),
			Day:  uint16(d.Get("lastWriteDay")),
			Year: uint8(d.Get("lastWriteYear")),
		},
		UseCount:       uint16(d.Get("useCount")),
		VersionNum:     uint16(d.Get("versionNum")),
		WritePasswd:    t.Get("writePasswd"),
		ReadPasswd:     t.Get("readPasswd"),
		RecordLen:      uint32(d.Get("recordLen")),
		MaxRecordNum:   uint32(d.Get("maxRecordNum")),
		CreationYear:   t.Get("creationYear"),
		CreationDay:    t.Get("creationDay"),
		ExpirationYear: t.Get("expirationYear"),
		ExpirationDay:  t.Get("expirationDay"),
		Data:           d,
		Text:           t,
	}, nil
}

func (h *FileHistory) Name() string { return strings.TrimRight(h.DataSetID, " ") }

// BlockControlPointer heads each data block, 1 word.
type BlockControlPointer struct {
	Offset             uint64
	NoRecordStartsHere bool
	Checksum           uint16
	LastRecord         uint32
	WordsToFirstPtr    uint32
	Data               Values
}

func ReadBCP(buf []byte, off uint64) (*BlockControlPointer, error) {
	d, err := BCPLayout.Read(buf, off)
	if err != nil {
		return nil, err
	}
	return &BlockControlPointer{
		Offset:             off,
		NoRecordStartsHere: d.Bool("noRecordStartsHere"),
		Checksum:           uint16(d.Get("checksum")),
		LastRecord:         uint32(d.Get("lastRecord")),
		WordsToFirstPtr:    uint32(d.Get("wordsToFirstPtr")),
		Data:               d,
	}, nil
}

// DBF is the data buffer flags word that precedes every record of the archive.
// Pointer offsets are in words.
type DBF struct {
	Offset             uint64
	IsRecordStart      bool
	IsEOD              bool
	IsEOF              bool
	IsLoadPoint        bool
	LabelRecordFollows bool
	EndLabelGroup      bool
	SourceParityError  bool
	RecordNotWritten   bool
	RecordIsShorter    bool
	NumBits            uint8
	RecordDataMode     uint8
	PrevPtrOffset      uint32
	NextPtrOffset      uint32
	Data               Values
}

func ReadDBF(buf []byte, off uint64) (*DBF, error) {
	d, err := DBFLayout.Read(buf, off)
	if err != nil {
		return nil, err
	}
	return &DBF{
		Offset:             off,
		IsRecordStart:      d.Bool("isRecordStart"),
		IsEOD:              d.Bool("isEOD"),
		IsEOF:              d.Bool("isEOF"),
		IsLoadPoint:        d.Bool("isLoadPoint"),
		LabelRecordFollows: d.Bool("labelRecordFollows"),
		EndLabelGroup:      d.Bool("endLabelGroup"),
		SourceParityError:  d.Bool("sourceParityError"),
		RecordNotWritten:   d.Bool("recordNotWritten"),
		RecordIsShorter:    d.Bool("recordIsShorter"),
		NumBits:            uint8(d.Get("numBits")),
		RecordDataMode:     uint8(d.Get("recordDataMode")),
		PrevPtrOffset:      uint32(d.Get("prevPtrOffset")),
		NextPtrOffset:      uint32(d.Get("nextPtrOffset")),
		Data:               d,
	}, nil
}

// Next returns the bit offset of the following DBF.
func (d *DBF) Next() uint64 { return d.Offset + uint64(d.NextPtrOffset)*WordBits }

// Payload returns the number of data bits between this DBF and the next.
func (d *DBF) Payload() uint64 {
	if d.NextPtrOffset == 0 {
		return 0
	}
	return uint64(d.NextPtrOffset-1) * WordBits
}

func readBoth(buf []byte, off uint64, l *Layout, tl *TextLayout) (Values, Text, error) {
	d, err := l.Read(buf, off)
	if err != nil {
		return Values{}, Text{}, err
	}
	t, err := tl.Read(buf, off)
	if err != nil {
		return Values{}, Text{}, err
	}
	return d, t, nil
}
