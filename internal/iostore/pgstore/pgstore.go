// Package pgstore implements store.Store on PostgreSQL. Entries live in
// the name_entries table. Reads rely on MVCC and take no locks, writes to
// a bucket are serialized with a transaction-level advisory lock on the
// hash of its key, so several gnidx processes can share one index.
package pgstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gnames/gnfmt"
	"github.com/gnames/gnidx/internal/ioschema"
	"github.com/gnames/gnidx/pkg/db"
	"github.com/gnames/gnidx/pkg/names"
	"github.com/gnames/gnidx/pkg/schema"
	"github.com/gnames/gnidx/pkg/store"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const lockSQL = "SELECT pg_advisory_xact_lock(hashtextextended($1, 0))"

var (
	selectSQL = "SELECT id, key, name_uuid::text, code, rank, " +
		"uninomial, genus, infrageneric_epithet, specific_epithet, " +
		"infraspecific_epithet, scientific_name, authorship::text " +
		"FROM name_entries "

	insertSQL = fmt.Sprintf(
		"INSERT INTO name_entries (%s) VALUES ($1, $2, $3, $4, $5, $6, "+
			"$7, $8, $9, $10, $11) RETURNING id",
		strings.Join(schema.Columns[1:], ", "),
	)
)

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type pgstore struct {
	op     db.Operator
	pool   *pgxpool.Pool
	closed atomic.Bool
}

// Open migrates the schema of the index and returns a store that uses
// the connection pool of op. The store closes op on Close.
func Open(ctx context.Context, op db.Operator) (store.Store, error) {
	if op.Pool() == nil {
		return nil, OpenError(errors.New("database is not connected"))
	}
	err := ioschema.NewManager(op).Migrate(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("PostgreSQL store opened")
	return &pgstore{op: op, pool: op.Pool()}, nil
}

func (s *pgstore) Lookup(ctx context.Context, key string) ([]names.Entry, error) {
	if s.closed.Load() {
		return nil, ClosedError()
	}
	res, err := lookup(ctx, s.pool, key)
	if err != nil {
		return nil, ReadError(key, err)
	}
	return res, nil
}

func (s *pgstore) Get(ctx context.Context, id int64) (names.Entry, error) {
	if s.closed.Load() {
		return names.Entry{}, ClosedError()
	}
	rows, err := s.pool.Query(ctx, selectSQL+"WHERE id = $1", id)
	if err != nil {
		return names.Entry{}, ReadError(fmt.Sprintf("id %d", id), err)
	}
	res, err := pgx.CollectExactlyOneRow(rows, scanEntry)
	if errors.Is(err, pgx.ErrNoRows) {
		return names.Entry{}, fmt.Errorf("id %d: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return names.Entry{}, ReadError(fmt.Sprintf("id %d", id), err)
	}
	return res, nil
}

func (s *pgstore) Insert(
	ctx context.Context,
	entry names.Entry,
) (names.Entry, error) {
	var res names.Entry
	err := s.Update(ctx, entry.Key, func(tx store.BucketTx) error {
		var err error
		res, err = tx.Insert(entry)
		return err
	})
	return res, err
}

func (s *pgstore) BackfillAuthorship(
	ctx context.Context,
	id int64,
	au names.Authorship,
) (names.Entry, error) {
	if s.closed.Load() {
		return names.Entry{}, ClosedError()
	}
	var key string
	err := s.pool.QueryRow(ctx,
		"SELECT key FROM name_entries WHERE id = $1", id).Scan(&key)
	if errors.Is(err, pgx.ErrNoRows) {
		return names.Entry{}, fmt.Errorf("id %d: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return names.Entry{}, ReadError(fmt.Sprintf("id %d", id), err)
	}

	var res names.Entry
	err = s.Update(ctx, key, func(tx store.BucketTx) error {
		var err error
		res, _, err = tx.BackfillAuthorship(id, au)
		return err
	})
	return res, err
}

// Update runs fn inside a database transaction that holds the advisory
// lock of the key. The lock is released on commit or rollback.
func (s *pgstore) Update(
	ctx context.Context,
	key string,
	fn func(store.BucketTx) error,
) error {
	if s.closed.Load() {
		return ClosedError()
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return WriteError(key, err)
	}
	defer tx.Rollback(ctx)

	if _, err = tx.Exec(ctx, lockSQL, key); err != nil {
		return WriteError(key, err)
	}
	entries, err := lookup(ctx, tx, key)
	if err != nil {
		return ReadError(key, err)
	}

	ptx := &pgTx{ctx: ctx, tx: tx, key: key, entries: entries}
	if err = fn(ptx); err != nil {
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return WriteError(key, err)
	}
	return nil
}

// BulkLoad copies entries with the COPY protocol in one transaction.
func (s *pgstore) BulkLoad(
	ctx context.Context,
	entries []names.Entry,
) (int, error) {
	if s.closed.Load() {
		return 0, ClosedError()
	}
	rows := make([][]any, 0, len(entries))
	for i := range entries {
		row, err := values(entries[i])
		if err != nil {
			return 0, err
		}
		rows = append(rows, row)
	}

	n, err := s.pool.CopyFrom(
		ctx,
		pgx.Identifier{schema.NameEntry{}.TableName()},
		schema.Columns[1:],
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return 0, WriteError("bulk load", err)
	}
	return int(n), nil
}

func (s *pgstore) Size(ctx context.Context) (int, error) {
	if s.closed.Load() {
		return 0, ClosedError()
	}
	var res int64
	err := s.pool.QueryRow(ctx, "SELECT count(*) FROM name_entries").Scan(&res)
	if err != nil {
		return 0, ReadError("size", err)
	}
	return int(res), nil
}

// Compact runs VACUUM ANALYZE on the table of entries. VACUUM cannot
// run inside a transaction block, so it goes straight to the pool.
func (s *pgstore) Compact(ctx context.Context) error {
	if s.closed.Load() {
		return ClosedError()
	}
	start := time.Now()
	if _, err := s.pool.Exec(ctx, "VACUUM ANALYZE name_entries"); err != nil {
		return CompactError(err)
	}
	slog.Info("PostgreSQL store vacuumed",
		"duration", time.Since(start).String(),
	)
	return nil
}

func (s *pgstore) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	slog.Info("PostgreSQL store closed")
	return s.op.Close()
}

type pgTx struct {
	ctx     context.Context
	tx      pgx.Tx
	key     string
	entries []names.Entry
}

func (t *pgTx) Bucket() []names.Entry {
	return slices.Clone(t.entries)
}

func (t *pgTx) Insert(entry names.Entry) (names.Entry, error) {
	entry.Key = t.key
	row, err := values(entry)
	if err != nil {
		return names.Entry{}, err
	}
	err = t.tx.QueryRow(t.ctx, insertSQL, row...).Scan(&entry.ID)
	if err != nil {
		return names.Entry{}, WriteError(t.key, err)
	}
	t.entries = append(t.entries, entry)
	return entry, nil
}

func (t *pgTx) BackfillAuthorship(
	id int64,
	au names.Authorship,
) (names.Entry, bool, error) {
	idx := slices.IndexFunc(t.entries, func(e names.Entry) bool {
		return e.ID == id
	})
	if idx < 0 {
		return names.Entry{}, false, fmt.Errorf("id %d: %w", id, store.ErrNotFound)
	}
	res, changed := t.entries[idx].Authorship.Backfill(au)
	if !changed {
		return t.entries[idx], false, nil
	}

	auJSON, err := gnfmt.GNjson{}.Encode(res)
	if err != nil {
		return names.Entry{}, false, EncodeError(t.key, err)
	}
	_, err = t.tx.Exec(t.ctx,
		"UPDATE name_entries SET authorship = $2 WHERE id = $1",
		id, string(auJSON),
	)
	if err != nil {
		return names.Entry{}, false, WriteError(t.key, err)
	}
	t.entries[idx].Authorship = res
	return t.entries[idx], true, nil
}

func lookup(ctx context.Context, q querier, key string) ([]names.Entry, error) {
	rows, err := q.Query(ctx, selectSQL+"WHERE key = $1 ORDER BY id", key)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanEntry)
}

func scanEntry(row pgx.CollectableRow) (names.Entry, error) {
	var res names.Entry
	var nameUUID, auJSON string
	var code, rank int16
	err := row.Scan(
		&res.ID, &res.Key, &nameUUID, &code, &rank,
		&res.Uninomial, &res.Genus, &res.InfragenericEpithet,
		&res.SpecificEpithet, &res.InfraspecificEpithet,
		&res.ScientificName, &auJSON,
	)
	if err != nil {
		return res, err
	}
	res.Code = names.Code(code)
	res.Rank = names.Rank(rank)
	if res.NameUUID, err = uuid.Parse(nameUUID); err != nil {
		return res, DecodeError(res.Key, err)
	}
	if err = (gnfmt.GNjson{}).Decode([]byte(auJSON), &res.Authorship); err != nil {
		return res, DecodeError(res.Key, err)
	}
	return res, nil
}

// values returns the columns of the entry without its ID, in the order
// of schema.Columns.
func values(e names.Entry) ([]any, error) {
	auJSON, err := gnfmt.GNjson{}.Encode(e.Authorship)
	if err != nil {
		return nil, EncodeError(e.Key, err)
	}
	return []any{
		e.Key, e.NameUUID.String(), int16(e.Code), int16(e.Rank),
		e.Uninomial, e.Genus, e.InfragenericEpithet,
		e.SpecificEpithet, e.InfraspecificEpithet,
		e.ScientificName, string(auJSON),
	}, nil
}
