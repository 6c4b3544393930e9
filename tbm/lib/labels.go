package lib

// Label magic numbers, display code packed MSB first.
const (
	MagicVOL1   = 0x58F31C    // "VOL1"
	MagicHDR1   = 0x20449C    // "HDR1"
	MagicHDR2   = 0x20449D    // "HDR2"
	MagicEOF1   = 0x14F19C    // "EOF1"
	MagicNCARSY = 0x3830524D9 // "NCARSY"
	MagicSTEMHD = 0x4D414D204 // "STEMHD"
	Magic1000   = 0x71B6DB    // "1000"
	Magic1      = 0x1C        // "1"
)

const (
	MachineCDC7600 = iota
	MachineCray1
	MachineFrontEnd
)

var machineTypes = []string{"CDC 7600", "Cray-1", "Front end"}

var densities = []string{"200 BPI", "556 BPI", "800 BPI", "1600 BPI"}

const (
	DataBCDAsDPC = iota
	DataBinaryBitSerial
	DataBCDNoConversion
	DataASCII
	DataEBCDIC
	DataBinaryInteger
	DataFloatingPoint
	DataDPCCardImage
	DataTransparent
)

var dataTypes = []string{
	"BCD as DPC",
	"Binary bit-serial",
	"BCD, no conversion from channel stage-in",
	"ASCII",
	"EBCDIC",
	"binary integer",
	"floating-point",
	"dpc card image",
	"transparent",
}

var secondaryFileTypes = []string{"--", "old", "new", "--", "scratch"}

var fileDispositions = []string{"keep", "delete at close", "delete at termination"}

var fileTypes = []string{"undefined", "sequential access", "direct access", "mixed access"}

func label(table []string, v uint8) string {
	if int(v) < len(table) {
		return table[v]
	}
	return "--"
}

func MachineTypeName(v uint8) string       { return label(machineTypes, v) }
func DensityName(v uint8) string           { return label(densities, v) }
func DataTypeName(v uint8) string          { return label(dataTypes, v) }
func SecondaryFileTypeName(v uint8) string { return label(secondaryFileTypes, v) }
func FileDispositionName(v uint8) string   { return label(fileDispositions, v) }
func FileTypeName(v uint8) string          { return label(fileTypes, v) }

// IsText reports whether records of data mode v hold display code characters.
func IsText(v uint8) bool {
	return v == DataBCDAsDPC || v == DataDPCCardImage
}
