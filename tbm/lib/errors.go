package lib

import (
	"errors"
	"fmt"
)

var (
	ErrCorruptArchive = errors.New("corrupt archive")
	ErrIterationLimit = errors.New("iteration limit exceeded")
)

// Names of the structural checks reported in a CorruptError.
const (
	CheckBlockSize     = "syslbn.bk"
	CheckVolumeLabel   = "vol1.magic"
	CheckHeader1       = "hdr1.magic"
	CheckNCARSY        = "hdr1.dataSetID1_6"
	CheckSTEMHD        = "hdr1.dataSetID7_12"
	Check1000          = "hdr1.dataSetID13_16"
	Check1             = "hdr1.dataSetID17"
	CheckHeader2       = "hdr2.magic"
	CheckEndLabelGroup = "dbf.endLabelGroup"
	CheckDataFlags     = "dbf.data"
	CheckEOFHeader1    = "eof1.magic"
	CheckEOFDataSetID  = "eof1.dataSetID"
	CheckEOFLabelGroup = "dbf.eofLabelGroup"
	CheckNextPointer   = "dbf.nextPtrOffset"
	CheckNextFCP       = "fcp.nextFCPOff"
	CheckIterations    = "iterations"
)

// CorruptError reports a failed structural check and the bit offset of the
// record that failed it.
type CorruptError struct {
	Check  string
	Offset uint64
	Detail string
	limit  bool
}

func (e *CorruptError) Error() string {
	msg := fmt.Sprintf("%v: check %s failed at bit %d (word %d+%d)", ErrCorruptArchive, e.Check, e.Offset, e.Offset/WordBits, e.Offset%WordBits)
	if e.limit {
		msg = fmt.Sprintf("%v: %v", ErrIterationLimit, msg)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *CorruptError) Is(target error) bool {
	return target == ErrCorruptArchive || e.limit && target == ErrIterationLimit
}

func corrupt(check string, off uint64, format string, args ...interface{}) *CorruptError {
	return &CorruptError{Check: check, Offset: off, Detail: fmt.Sprintf(format, args...)}
}

func iterationLimit(off uint64, steps int) *CorruptError {
	return &CorruptError{Check: CheckIterations, Offset: off, Detail: fmt.Sprintf("no end after %d records", steps), limit: true}
}
