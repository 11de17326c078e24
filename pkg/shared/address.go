package shared

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var ErrInvalidEntityID = errors.New("invalid Hedera entity ID")

var entityIDRegex = regexp.MustCompile(`^(0|[1-9]\d*)\.(0|[1-9]\d*)\.(0|[1-9]\d*)$`)

// NormalizeEntityID validates a shard.realm.num identifier and strips an
// optional "-abcde" checksum suffix.
func NormalizeEntityID(identifier string) (string, error) {
	trimmed := strings.TrimSpace(identifier)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidEntityID)
	}

	base, checksum, hasChecksum := strings.Cut(trimmed, "-")
	if !entityIDRegex.MatchString(base) {
		return "", fmt.Errorf("%w: %s", ErrInvalidEntityID, identifier)
	}
	if hasChecksum {
		if len(checksum) != 5 {
			return "", fmt.Errorf("%w: %s", ErrInvalidEntityID, identifier)
		}
		for _, character := range checksum {
			if character < 'a' || character > 'z' {
				return "", fmt.Errorf("%w: %s", ErrInvalidEntityID, identifier)
			}
		}
	}

	return base, nil
}
