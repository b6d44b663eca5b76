package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeCursor(t *testing.T) {
	// Test case 1: Standard values
	occurredAt := time.Date(2023, 5, 15, 14, 30, 45, 123456789, time.UTC)
	token := EncodeCursor(occurredAt, "2b1c3f8e-0000-4000-8000-000000000001")
	assert.NotEmpty(t, token, "Token should not be empty")

	decodedAt, decodedID, err := DecodeCursor(token)
	assert.NoError(t, err, "Decoding should not return an error")
	assert.Equal(t, occurredAt, decodedAt, "Timestamp should match after decode")
	assert.Equal(t, "2b1c3f8e-0000-4000-8000-000000000001", decodedID, "ID should match after decode")

	// Test case 2: Current time values
	now := time.Now().UTC()
	decodedNow, _, err := DecodeCursor(EncodeCursor(now, "x"))
	assert.NoError(t, err, "Decoding current time should not return an error")
	assert.True(t, now.Equal(decodedNow), "Current time should match after decode")
}

func TestDecodeCursorError(t *testing.T) {
	// Test invalid base64
	_, _, err := DecodeCursor("this is not base64!")
	assert.Error(t, err, "Should return an error for invalid base64")
	assert.Contains(t, err.Error(), "base64 decode", "Error should mention base64 decoding")

	// Test missing separator
	noSeparator := base64.StdEncoding.EncodeToString([]byte("2023-05-15T00:00:00Z"))
	_, _, err = DecodeCursor(noSeparator)
	assert.Error(t, err, "Should return an error for invalid token format")
	assert.Contains(t, err.Error(), "split", "Error should mention splitting issue")

	// Test empty id
	emptyID := base64.StdEncoding.EncodeToString([]byte("2023-05-15T00:00:00Z|"))
	_, _, err = DecodeCursor(emptyID)
	assert.Error(t, err, "Should return an error for an empty id")

	// Test invalid timestamp
	badTime := base64.StdEncoding.EncodeToString([]byte("notadate|abc"))
	_, _, err = DecodeCursor(badTime)
	assert.Error(t, err, "Should return an error for invalid date format")
	assert.Contains(t, err.Error(), "time parse", "Error should mention time parsing issue")
}
