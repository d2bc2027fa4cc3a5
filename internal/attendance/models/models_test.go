package models

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geomark/pkg/platform/httputil"
)

func strPtr(s string) *string { return &s }

func TestAllowedPhotoName(t *testing.T) {
	allowed := []string{"me.png", "me.jpg", "me.jpeg", "me.PNG", "a.b.JPeG"}
	for _, name := range allowed {
		assert.True(t, AllowedPhotoName(name), name)
	}

	denied := []string{"me.gif", "me.png.exe", "me", "png", ".", "me."}
	for _, name := range denied {
		assert.False(t, AllowedPhotoName(name), name)
	}
}

func TestParseSubmission(t *testing.T) {
	now := time.Unix(1700000000, 0)

	valid := RawSubmission{
		Latitude:  strPtr("12.80147378887274"),
		Longitude: strPtr("80.22372835171538"),
		Filename:  "selfie.jpg",
		HasPhoto:  true,
		ClientKey: "10.0.0.1",
	}

	t.Run("valid input normalizes", func(t *testing.T) {
		sub, failure := ParseSubmission(valid, now)
		require.Nil(t, failure)
		assert.InDelta(t, 12.80147378887274, sub.Latitude, 1e-12)
		assert.InDelta(t, 80.22372835171538, sub.Longitude, 1e-12)
		assert.Equal(t, "selfie.jpg", sub.Filename)
		assert.Equal(t, now, sub.ReceivedAt)
	})

	t.Run("absent coordinates", func(t *testing.T) {
		raw := valid
		raw.Latitude = nil
		_, failure := ParseSubmission(raw, now)
		require.NotNil(t, failure)
		assert.Equal(t, ReasonMissingCoords, failure.Reason)
	})

	t.Run("non-numeric coordinates", func(t *testing.T) {
		raw := valid
		raw.Longitude = strPtr("east-ish")
		_, failure := ParseSubmission(raw, now)
		require.NotNil(t, failure)
		assert.Equal(t, ReasonInvalidCoords, failure.Reason)
	})

	t.Run("missing photo", func(t *testing.T) {
		raw := valid
		raw.HasPhoto = false
		_, failure := ParseSubmission(raw, now)
		require.NotNil(t, failure)
		assert.Equal(t, ReasonMissingPhoto, failure.Reason)

		raw = valid
		raw.Filename = ""
		_, failure = ParseSubmission(raw, now)
		require.NotNil(t, failure)
		assert.Equal(t, ReasonMissingPhoto, failure.Reason)
	})

	t.Run("bad file type", func(t *testing.T) {
		raw := valid
		raw.Filename = "selfie.webp"
		_, failure := ParseSubmission(raw, now)
		require.NotNil(t, failure)
		assert.Equal(t, ReasonBadFileType, failure.Reason)
	})

	t.Run("coordinate check precedes photo check", func(t *testing.T) {
		raw := valid
		raw.Latitude = strPtr("not-a-number")
		raw.HasPhoto = false
		_, failure := ParseSubmission(raw, now)
		require.NotNil(t, failure)
		assert.Equal(t, ReasonInvalidCoords, failure.Reason)
	})
}

func TestCoerceCoordinate(t *testing.T) {
	v, ok := CoerceCoordinate(12.5)
	assert.True(t, ok)
	assert.Equal(t, 12.5, v)

	v, ok = CoerceCoordinate("  -80.25 ")
	assert.True(t, ok)
	assert.Equal(t, -80.25, v)

	_, ok = CoerceCoordinate("north")
	assert.False(t, ok)

	_, ok = CoerceCoordinate(nil)
	assert.False(t, ok)

	_, ok = CoerceCoordinate([]any{12.5})
	assert.False(t, ok)
}

func TestSubmissionErrorStatusMapping(t *testing.T) {
	expected := map[FailReason]int{
		ReasonMissingCoords:    http.StatusBadRequest,
		ReasonInvalidCoords:    http.StatusBadRequest,
		ReasonMissingPhoto:     http.StatusBadRequest,
		ReasonBadFileType:      http.StatusBadRequest,
		ReasonRateLimited:      http.StatusTooManyRequests,
		ReasonOutsideRadius:    http.StatusForbidden,
		ReasonSaveFailed:       http.StatusInternalServerError,
		ReasonRecognitionError: http.StatusInternalServerError,
		ReasonNotRecognized:    http.StatusUnauthorized,
		ReasonDBError:          http.StatusInternalServerError,
	}
	for reason, status := range expected {
		assert.Equal(t, status, httputil.StatusForCode(Failure(reason).Code()), string(reason))
	}
}

func TestRecordValidate(t *testing.T) {
	userID := "user42"
	record := &Record{
		ID:             1,
		UserID:         &userID,
		Timestamp:      1700000000,
		Latitude:       12.8,
		Longitude:      80.2,
		Distance:       12.5,
		Confidence:     0.95,
		StagedFilename: "1700000000_ab12_selfie.jpg",
	}
	require.NoError(t, record.Validate())

	bad := *record
	bad.Distance = -1
	assert.Error(t, bad.Validate())

	bad = *record
	bad.Confidence = 1.5
	assert.Error(t, bad.Validate())

	bad = *record
	bad.Timestamp = 0
	assert.Error(t, bad.Validate())
}
