package util

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateID returns a millisecond timestamp followed by nine random hex
// characters, so ids sort roughly by creation time.
func GenerateID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return strconv.FormatInt(time.Now().UnixMilli(), 10) + suffix
}
