package util

import (
	"testing"

	. "github.com/onsi/gomega"
)

func TestEncodeDecodeCursor(t *testing.T) {
	RegisterTestingT(t)
	t.Setenv("CURSOR_SECRET_KEY", "test-secret-key-123")

	testDate := "2025-09-12T10:37:52.26483-03:00"

	encoded := EncodeCursor(testDate, "1757684272264abc123def")

	date, id, err := DecodeCursor(encoded)

	Expect(err).To(BeNil())
	Expect(date).To(Equal(testDate))
	Expect(id).To(Equal("1757684272264abc123def"))
}

func TestDecodeInvalidCursor(t *testing.T) {
	RegisterTestingT(t)
	t.Setenv("CURSOR_SECRET_KEY", "test-secret-key-123")

	_, _, err := DecodeCursor("invalid-cursor")
	Expect(err).To(MatchError(ErrCursorFormat))

	_, _, err = DecodeCursor("eyJkYXRldGltZSI6IjIwMjUtMDktMTJUMTA6Mzc6NTItMDM6MDAifQ==.invalid-signature")
	Expect(err).To(MatchError(ErrCursorSignature))
}

func TestDecodeCursor_RejectsOtherSecret(t *testing.T) {
	RegisterTestingT(t)

	t.Setenv("CURSOR_SECRET_KEY", "first")
	encoded := EncodeCursor("2025-01-01T00:00:00Z", "1")

	t.Setenv("CURSOR_SECRET_KEY", "second")
	_, _, err := DecodeCursor(encoded)

	Expect(err).To(MatchError(ErrCursorSignature))
}

func TestGenerateID(t *testing.T) {
	RegisterTestingT(t)

	a := GenerateID()
	b := GenerateID()

	Expect(a).ToNot(Equal(b))
	Expect(len(a)).To(BeNumerically(">", 9))
}

func TestPassword(t *testing.T) {
	RegisterTestingT(t)

	encrypted, err := GenerateEncrypt("12345678")
	Expect(err).To(BeNil())

	Expect(ComparePassword("12345678", encrypted)).To(Succeed())
	Expect(ComparePassword("wrong", encrypted)).ToNot(Succeed())
}
