package controllers

import (
	"errors"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleet_tracker/internal/models"
)

func TestNextRating(t *testing.T) {
	r := nextRating(models.Rating{}, 3)
	assert.Equal(t, models.Rating{Value: 3, Counts: 1}, r)

	r = nextRating(models.Rating{Value: 4, Counts: 1}, 5)
	assert.Equal(t, models.Rating{Value: 4.5, Counts: 2}, r)

	r = nextRating(models.Rating{Value: 4.5, Counts: 2}, 0)
	assert.InDelta(t, 3.0, r.Value, 1e-9)
	assert.Equal(t, 3, r.Counts)
}

func TestPrefixPattern(t *testing.T) {
	assert.Equal(t, "kim%", prefixPattern("kim"))
	assert.Equal(t, `50\%%`, prefixPattern("50%"))
	assert.Equal(t, `a\_b%`, prefixPattern("a_b"))
	assert.Equal(t, `c:\\tmp%`, prefixPattern(`c:\tmp`))
	assert.Equal(t, "%", prefixPattern(""))
}

func TestParseDayRange(t *testing.T) {
	start, end, err := parseDayRange("2024-03-01", "2024-03-03")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), end)

	// Missing "to" collapses to the single day
	start, end, err = parseDayRange("2024-03-01", "")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), end)

	_, _, err = parseDayRange("", "")
	assert.Error(t, err)

	_, _, err = parseDayRange("01/03/2024", "")
	assert.Error(t, err)

	_, _, err = parseDayRange("2024-03-05", "2024-03-01")
	assert.Error(t, err)
}

func TestValidateCarPayload(t *testing.T) {
	valid := func() models.CarInfo {
		return models.CarInfo{
			Name:      "Fleet 7",
			GPSDevice: "864893031234567",
			TankSize:  60,
			GroupID:   11,
			AccountID: 1,
		}
	}

	info := valid()
	assert.NoError(t, validateCarPayload(&info))

	info = valid()
	info.Name = "ab"
	assert.Error(t, validateCarPayload(&info))

	info = valid()
	info.GPSDevice = ""
	assert.Error(t, validateCarPayload(&info))

	info = valid()
	info.TankSize = 0
	assert.Error(t, validateCarPayload(&info))

	info = valid()
	info.GroupID = 0
	assert.Error(t, validateCarPayload(&info))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, isUniqueViolation(nil))
	assert.False(t, isUniqueViolation(errors.New("connection refused")))

	assert.True(t, isUniqueViolation(&pq.Error{Code: "23505"}))
	assert.False(t, isUniqueViolation(&pq.Error{Code: "23503"}))

	// pgx surfaces the constraint violation only through its message
	assert.True(t, isUniqueViolation(errors.New(
		`ERROR: duplicate key value violates unique constraint "idx_groups_account_name" (SQLSTATE 23505)`)))
}
