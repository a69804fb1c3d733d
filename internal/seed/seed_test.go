package seed

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bibler-backend/internal/catalog/borrowers"
	"bibler-backend/internal/circulation/stats"
	"bibler-backend/internal/platform/clock"
	"bibler-backend/internal/platform/db"
	"bibler-backend/internal/platform/db/dbtest"
)

func TestRun(t *testing.T) {
	conn := dbtest.Open(t)
	ctx := context.Background()
	clk := clock.Fixed(time.Date(2024, 5, 6, 8, 0, 0, 0, time.UTC))

	wrote, err := Run(ctx, conn, db.DriverSQLite, clk)
	require.NoError(t, err)
	assert.True(t, wrote)

	st := stats.NewService(conn, db.DriverSQLite).WithClock(clk)
	count := func(read func(context.Context) (int64, error)) int64 {
		n, err := read(ctx)
		require.NoError(t, err)
		return n
	}
	assert.Equal(t, int64(len(Books)), count(st.BookCount))
	assert.Equal(t, int64(len(Borrowers)), count(st.BorrowerCount))
	assert.Equal(t, int64(len(Borrows)+1), count(st.OpenCount))
	assert.Equal(t, int64(1), count(st.OpenOverdueCount))

	lukas, err := borrowers.NewStore(conn).Get(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, "Lukas", lukas.Firstname)

	held, err := st.BooksForBorrower(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, held, 4)

	avail, err := st.AvailableBooks(ctx)
	require.NoError(t, err)
	require.Len(t, avail, 1)
	assert.Equal(t, "Sabriel", avail[0].Title)

	wrote, err = Run(ctx, conn, db.DriverSQLite, clk)
	require.NoError(t, err)
	assert.False(t, wrote)
	assert.Equal(t, int64(len(Books)), count(st.BookCount))
}
