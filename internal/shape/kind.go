package shape

import (
	"fmt"
	"strings"
)

// Kind selects a point distribution.
type Kind uint8

const (
	Cloud Kind = iota
	Flow
	Sphere
	Core
	VoidSphere
	VoidCube
	HollowSphere
	Grid
	Disk
	Clusters
	Helix
)

var kindNames = [...]string{
	Cloud:        "cloud",
	Flow:         "flow",
	Sphere:       "sphere",
	Core:         "core",
	VoidSphere:   "void-sphere",
	VoidCube:     "void-cube",
	HollowSphere: "hollow-sphere",
	Grid:         "grid",
	Disk:         "disk",
	Clusters:     "clusters",
	Helix:        "helix",
}

// Kinds lists every supported distribution in declaration order.
func Kinds() []Kind {
	out := make([]Kind, len(kindNames))
	for i := range kindNames {
		out[i] = Kind(i)
	}
	return out
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// ParseKind accepts the names used in preset files, case-insensitively.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range kindNames {
		if n == name {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

func (k Kind) MarshalText() ([]byte, error) {
	if int(k) >= len(kindNames) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, k)
	}
	return []byte(kindNames[k]), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
