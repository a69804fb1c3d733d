package db_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bibler-backend/internal/platform/db"
)

func TestDate_ScanAcceptsDriverShapes(t *testing.T) {
	want := time.Date(2024, 1, 22, 0, 0, 0, 0, time.UTC)
	for _, src := range []any{
		"2024-01-22",
		[]byte("2024-01-22"),
		"2024-01-22 00:00:00+00:00",
		time.Date(2024, 1, 22, 0, 0, 0, 0, time.FixedZone("", 0)),
	} {
		var d db.Date
		require.NoError(t, d.Scan(src), "%#v", src)
		assert.Equal(t, want, d.Time)
	}

	var d db.Date
	assert.Error(t, d.Scan(nil))
	assert.Error(t, d.Scan(42))
}

func TestNullDate_JSON(t *testing.T) {
	var n db.NullDate
	require.NoError(t, n.Scan(nil))
	b, err := json.Marshal(n)
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))

	require.NoError(t, n.Scan("2024-03-01"))
	b, err = json.Marshal(struct {
		R db.NullDate `json:"return_date"`
	}{n})
	require.NoError(t, err)
	assert.JSONEq(t, `{"return_date":"2024-03-01"}`, string(b))

	v, err := n.Value()
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", v)
}
