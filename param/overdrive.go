package param

// Identifiers of the overdrive controls.
const (
	IDDrive  = "drive"
	IDRange  = "range"
	IDBlend  = "blend"
	IDVolume = "volume"
)

const (
	overdriveStep      = 0.0001
	overdriveRangeSkew = 0.25
	maxRange           = 1500.0
	maxVolume          = 3.0
)

// OverdriveDescriptors returns the four overdrive controls in declaration
// order: drive, range, blend, volume. All default to 1.
func OverdriveDescriptors() []Descriptor {
	return []Descriptor{
		NewFloat(IDDrive, "Drive", "", LinearRange(0, 1, overdriveStep), 1),
		NewFloat(IDRange, "Range", "", SkewedRange(0, maxRange, overdriveStep, overdriveRangeSkew), 1),
		NewFloat(IDBlend, "Blend", "", LinearRange(0, 1, overdriveStep), 1),
		NewFloat(IDVolume, "Volume", "", LinearRange(0, maxVolume, overdriveStep), 1),
	}
}

// NewOverdriveStore returns a Store with the overdrive controls declared.
func NewOverdriveStore() (*Store, error) {
	s := NewStore()

	for _, d := range OverdriveDescriptors() {
		if _, err := s.Declare(d); err != nil {
			return nil, err
		}
	}

	return s, nil
}
