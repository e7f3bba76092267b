package enums

import "fmt"

// ContainerSize is the canonical serving size for a sale line.
type ContainerSize string

const (
	ContainerSizeSmall  ContainerSize = "small"
	ContainerSizeMedium ContainerSize = "medium"
	ContainerSizeLarge  ContainerSize = "large"
)

var validContainerSizes = []ContainerSize{
	ContainerSizeSmall,
	ContainerSizeMedium,
	ContainerSizeLarge,
}

// Serving volumes in milliliters per container size.
const (
	smallVolumeML  = 300.0
	mediumVolumeML = 500.0
	largeVolumeML  = 1000.0
)

// IsValid reports whether the value matches the canonical container size enum.
func (c ContainerSize) IsValid() bool {
	for _, candidate := range validContainerSizes {
		if candidate == c {
			return true
		}
	}
	return false
}

// VolumeML returns the serving volume in milliliters for the size.
func (c ContainerSize) VolumeML() float64 {
	switch c {
	case ContainerSizeSmall:
		return smallVolumeML
	case ContainerSizeMedium:
		return mediumVolumeML
	case ContainerSizeLarge:
		return largeVolumeML
	default:
		return 0
	}
}

// ContainerSizes returns the canonical ordering of serving sizes.
func ContainerSizes() []ContainerSize {
	return append([]ContainerSize{}, validContainerSizes...)
}

// ParseContainerSize converts the raw string to ContainerSize.
func ParseContainerSize(value string) (ContainerSize, error) {
	for _, candidate := range validContainerSizes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid container size %q", value)
}
