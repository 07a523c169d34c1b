package buttonswitch

// Status bit positions within the packed 32-bit status word. Bits not
// owned by a variant must be read/written as zero.
const (
	bitIsOn       = 0
	bitIsEnabled  = 1
	bitPilotOn    = 2
	bitWarningOn  = 3
	bitIsVoided   = 4
	bitIsOnScndry = 5
	otptValShift  = 16
	otptValMask   = 0xFFFF
)

// OutputFlags is the decoded form of the packed status word.
type OutputFlags struct {
	IsOn        bool
	IsEnabled   bool
	PilotOn     bool
	WarningOn   bool
	IsVoided    bool
	IsOnScndry  bool
	OtptCurVal  uint16
	HasOtptVal  bool // true if this variant owns the slider value field
}

func setBit(word uint32, bit uint, v bool) uint32 {
	if v {
		return word | (1 << bit)
	}
	return word &^ (1 << bit)
}

func getBit(word uint32, bit uint) bool {
	return word&(1<<bit) != 0
}

// EncodeStatus packs a flag tuple into the 32-bit status word. It is a
// pure function of its input.
func EncodeStatus(f OutputFlags) uint32 {
	var word uint32
	word = setBit(word, bitIsOn, f.IsOn)
	word = setBit(word, bitIsEnabled, f.IsEnabled)
	word = setBit(word, bitPilotOn, f.PilotOn)
	word = setBit(word, bitWarningOn, f.WarningOn)
	word = setBit(word, bitIsVoided, f.IsVoided)
	word = setBit(word, bitIsOnScndry, f.IsOnScndry)
	if f.HasOtptVal {
		word |= uint32(f.OtptCurVal) << otptValShift
	}
	return word
}

// DecodeStatus is the inverse mapping of EncodeStatus: decode(encode(tuple))
// == tuple for every field except HasOtptVal (and OtptCurVal when the
// encoded tuple had HasOtptVal false, where it decodes as 0).
// HasOtptVal is always reported true on decode since the caller
// who cares about the slider field already knows whether the source variant
// owns it; decode recovers whatever bits 16-31 happened to carry.
func DecodeStatus(word uint32) OutputFlags {
	return OutputFlags{
		IsOn:       getBit(word, bitIsOn),
		IsEnabled:  getBit(word, bitIsEnabled),
		PilotOn:    getBit(word, bitPilotOn),
		WarningOn:  getBit(word, bitWarningOn),
		IsVoided:   getBit(word, bitIsVoided),
		IsOnScndry: getBit(word, bitIsOnScndry),
		OtptCurVal: uint16((word >> otptValShift) & otptValMask),
		HasOtptVal: true,
	}
}
