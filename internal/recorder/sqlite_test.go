package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"OilLens/internal/model"
)

func openTemp(t *testing.T) *SQLiteRecorder {
	t.Helper()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func count(t *testing.T, r *SQLiteRecorder, table string) int {
	t.Helper()
	var n int
	require.NoError(t, r.db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

func TestSQLiteRecorder_RecordLoadAndView(t *testing.T) {
	r := openTemp(t)

	require.NoError(t, r.RecordLoad(&LoadEvent{
		Version: 3,
		Report:  model.LoadReport{Source: "brent.csv", Rows: 10, Kept: 8, DroppedPrice: 2},
	}))
	require.NoError(t, r.RecordView(&ViewRequest{
		Command:  "trend",
		Start:    model.MustDate("2020-01-01"),
		End:      model.MustDate("2020-12-31"),
		Params:   "windows=30",
		Points:   366,
		Channel:  "http",
		Duration: 1500 * time.Microsecond,
	}))
	require.NoError(t, r.RecordView(&ViewRequest{Command: "stats", Channel: "cli"}))

	assert.Equal(t, 1, count(t, r, "load_events"))
	assert.Equal(t, 2, count(t, r, "view_requests"))

	var kept int
	var start string
	require.NoError(t, r.db.QueryRow("SELECT kept FROM load_events").Scan(&kept))
	require.NoError(t, r.db.QueryRow("SELECT start_date FROM view_requests WHERE command = 'trend'").Scan(&start))
	assert.Equal(t, 8, kept)
	assert.Equal(t, "2020-01-01", start)
}

func TestSQLiteRecorder_Quotes(t *testing.T) {
	r := openTemp(t)
	base := time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)
	for i, p := range []float64{82.1, 82.5, 83.0} {
		require.NoError(t, r.RecordQuote(&model.Quote{
			Source: "mock", Symbol: "BZ=F", Display: "x", Price: p,
			FetchedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	quotes, err := r.RecentQuotes(2)
	require.NoError(t, err)
	require.Len(t, quotes, 2)
	assert.Equal(t, 83.0, quotes[0].Price)
	assert.Equal(t, 82.5, quotes[1].Price)
	assert.True(t, quotes[0].FetchedAt.Equal(base.Add(2*time.Hour)))
}

func TestSQLiteRecorder_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	r, err := NewSQLiteRecorder(path)
	require.NoError(t, err)
	require.NoError(t, r.RecordQuote(&model.Quote{Source: "mock", Price: 1}))
	require.NoError(t, r.Close())

	r, err = NewSQLiteRecorder(path)
	require.NoError(t, err)
	defer r.Close()
	quotes, err := r.RecentQuotes(10)
	require.NoError(t, err)
	assert.Len(t, quotes, 1)
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoopRecorder()
	assert.NoError(t, r.RecordLoad(&LoadEvent{}))
	assert.NoError(t, r.RecordQuote(&model.Quote{}))
	assert.NoError(t, r.RecordView(&ViewRequest{}))
	quotes, err := r.RecentQuotes(5)
	assert.NoError(t, err)
	assert.Empty(t, quotes)
	assert.NoError(t, r.Close())
}
