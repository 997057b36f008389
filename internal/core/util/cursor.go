package util

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"os"
	"strings"

	"serenity/internal/core/model/response"
)

var (
	ErrCursorFormat    = errors.New("invalid cursor format")
	ErrCursorSignature = errors.New("invalid cursor signature")
	ErrCursorUnknown   = errors.New("cursor does not match any entry")
)

func hmacSignature(encoded string) string {
	mac := hmac.New(sha256.New, []byte(os.Getenv("CURSOR_SECRET_KEY")))
	mac.Write([]byte(encoded))
	return base64.URLEncoding.EncodeToString(mac.Sum(nil))
}

func verifySignature(encoded string, signature string) bool {
	expectedSignature := hmacSignature(encoded)
	return hmac.Equal([]byte(signature), []byte(expectedSignature))
}

// EncodeCursor signs a (datetime, id) position so clients can hand it back
// without being able to forge one.
func EncodeCursor(date string, id string) string {
	data := response.CursorData{Datetime: date, ID: id}
	jsonData, _ := json.Marshal(data)
	encoded := base64.URLEncoding.EncodeToString(jsonData)
	signature := hmacSignature(encoded)

	return encoded + "." + signature
}

func DecodeCursor(token string) (string, string, error) {
	parts := strings.Split(token, ".")

	if len(parts) != 2 {
		return "", "", ErrCursorFormat
	}

	if !verifySignature(parts[0], parts[1]) {
		return "", "", ErrCursorSignature
	}

	decoded, err := base64.URLEncoding.DecodeString(parts[0])

	if err != nil {
		return "", "", err
	}

	var cursor response.CursorData

	if err := json.Unmarshal(decoded, &cursor); err != nil {
		return "", "", ErrCursorFormat
	}

	return cursor.Datetime, cursor.ID, nil
}
