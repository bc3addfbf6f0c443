package model

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

type IDType string

const (
	IDTypeCard    IDType = "card"
	IDTypeSection IDType = "sect"
)

var validIDTypes = map[IDType]bool{
	IDTypeCard:    true,
	IDTypeSection: true,
}

var idRegex = regexp.MustCompile(`^(card|sect)_([0-9]{10})_[0-9a-f]{8}$`)

// GenerateID produces ids of the form <type>_<unixts>_<hex8>. The timestamp
// prefix keeps ids sortable by creation time.
func GenerateID(idType IDType) (string, error) {
	if !validIDTypes[idType] {
		return "", fmt.Errorf("invalid ID type: %s", idType)
	}

	timestamp := time.Now().Unix()
	randomBytes := make([]byte, 4)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	return fmt.Sprintf("%s_%010d_%s", idType, timestamp, hex.EncodeToString(randomBytes)), nil
}

func ValidateID(id string) bool {
	return idRegex.MatchString(id)
}

func ParseIDType(id string) (IDType, error) {
	match := idRegex.FindStringSubmatch(id)
	if match == nil {
		return "", fmt.Errorf("invalid ID format: %s", id)
	}
	return IDType(match[1]), nil
}

// ParseIDTimestamp recovers the creation time encoded in an id.
func ParseIDTimestamp(id string) (time.Time, error) {
	match := idRegex.FindStringSubmatch(id)
	if match == nil {
		return time.Time{}, fmt.Errorf("invalid ID format: %s", id)
	}
	ts, err := strconv.ParseInt(match[2], 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid ID timestamp: %s", id)
	}
	return time.Unix(ts, 0), nil
}
