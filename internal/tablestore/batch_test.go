package tablestore

import (
	"context"
	"errors"
	"testing"

	"loctext/internal/language"
	"loctext/internal/store"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingDB captures batch sizes; Exec fails on the failAt-th statement overall.
type recordingDB struct {
	batches []int
	execs   int
	failAt  int
}

func (db *recordingDB) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag("CREATE TABLE"), nil
}

func (db *recordingDB) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("not supported")
}

func (db *recordingDB) SendBatch(_ context.Context, b *pgx.Batch) pgx.BatchResults {
	db.batches = append(db.batches, b.Len())
	return &recordingResults{db: db}
}

type recordingResults struct {
	db *recordingDB
}

func (r *recordingResults) Exec() (pgconn.CommandTag, error) {
	r.db.execs++
	if r.db.failAt > 0 && r.db.execs == r.db.failAt {
		return pgconn.CommandTag{}, errors.New("connection reset")
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (r *recordingResults) Query() (pgx.Rows, error) { return nil, errors.New("not supported") }
func (r *recordingResults) QueryRow() pgx.Row        { return nil }
func (r *recordingResults) Close() error             { return nil }

func numberedEntries(n int) []store.Entry {
	out := make([]store.Entry, n)
	for i := range out {
		out[i] = store.Entry{Key: store.Key(i), Text: "t"}
	}
	return out
}

func TestUpsertSplitsIntoBatches(t *testing.T) {
	db := &recordingDB{}
	ts := NewTableStore(db)
	ts.batchSize = 2

	written, err := ts.Upsert(context.Background(), language.English, numberedEntries(5))
	require.NoError(t, err)
	assert.Equal(t, 5, written)
	assert.Equal(t, []int{2, 2, 1}, db.batches)
}

func TestUpsertDefaultBatchSize(t *testing.T) {
	db := &recordingDB{}
	written, err := NewTableStore(db).Upsert(context.Background(), language.English, numberedEntries(DefaultBatchSize+1))
	require.NoError(t, err)
	assert.Equal(t, DefaultBatchSize+1, written)
	assert.Equal(t, []int{DefaultBatchSize, 1}, db.batches)
}

func TestUpsertEmpty(t *testing.T) {
	db := &recordingDB{}
	written, err := NewTableStore(db).Upsert(context.Background(), language.English, nil)
	require.NoError(t, err)
	assert.Zero(t, written)
	assert.Empty(t, db.batches)
}

func TestUpsertStopsAtFailedBatch(t *testing.T) {
	db := &recordingDB{failAt: 4}
	ts := NewTableStore(db)
	ts.batchSize = 2

	written, err := ts.Upsert(context.Background(), language.French, numberedEntries(6))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.Equal(t, 3, written)
	assert.Equal(t, []int{2, 2}, db.batches)
}

func TestEnsureSchema(t *testing.T) {
	require.NoError(t, NewTableStore(&recordingDB{}).EnsureSchema(context.Background()))
}
