package trm

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Commit(ctx context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	t.rolledBack = true
	return nil
}

type fakeBeginner struct {
	begun []*fakeTx
	opts  []pgx.TxOptions
}

func (b *fakeBeginner) Begin(ctx context.Context) (pgx.Tx, error) {
	tx := &fakeTx{}
	b.begun = append(b.begun, tx)
	return tx, nil
}

func (b *fakeBeginner) BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error) {
	b.opts = append(b.opts, opts)
	return b.Begin(ctx)
}

func TestManager_CommitOnSuccess(t *testing.T) {
	db := &fakeBeginner{}
	m := New(db)

	err := m.Do(context.Background(), func(ctx context.Context) error {
		_, ok := ctx.Value(TxKey).(pgx.Tx)
		assert.True(t, ok, "tx must be stored in context")
		return nil
	})

	require.NoError(t, err)
	require.Len(t, db.begun, 1)
	assert.True(t, db.begun[0].committed)
	assert.False(t, db.begun[0].rolledBack)
}

func TestManager_RollbackOnError(t *testing.T) {
	db := &fakeBeginner{}
	m := New(db)
	boom := errors.New("replace tiers failed")

	err := m.Do(context.Background(), func(ctx context.Context) error { return boom })

	assert.ErrorIs(t, err, boom)
	assert.True(t, db.begun[0].rolledBack)
	assert.False(t, db.begun[0].committed)
}

func TestManager_RollbackOnPanic(t *testing.T) {
	db := &fakeBeginner{}
	m := New(db)

	assert.Panics(t, func() {
		_ = m.Do(context.Background(), func(ctx context.Context) error { panic("boom") })
	})
	assert.True(t, db.begun[0].rolledBack)
}

func TestManager_NestedReusesTx(t *testing.T) {
	db := &fakeBeginner{}
	m := New(db)

	err := m.Do(context.Background(), func(ctx context.Context) error {
		return m.Do(ctx, func(ctx context.Context) error { return nil })
	})

	require.NoError(t, err)
	assert.Len(t, db.begun, 1)
}

func TestManager_DoReadOnly(t *testing.T) {
	db := &fakeBeginner{}
	m := New(db)

	require.NoError(t, m.DoReadOnly(context.Background(), func(ctx context.Context) error { return nil }))
	require.Len(t, db.opts, 1)
	assert.Equal(t, pgx.ReadOnly, db.opts[0].AccessMode)
	assert.Equal(t, pgx.RepeatableRead, db.opts[0].IsoLevel)
}

func TestTxOrDB(t *testing.T) {
	tx := &fakeTx{}
	ctx := context.WithValue(context.Background(), TxKey, pgx.Tx(tx))
	assert.Same(t, tx, TxOrDB(ctx, nil))
	assert.Nil(t, TxOrDB(context.Background(), nil))
}
