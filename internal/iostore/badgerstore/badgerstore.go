// Package badgerstore implements store.Store on top of Badger v4, a
// memory-mapped LSM key-value store. It is the default backend for
// production indices of millions of names.
//
// Every entry is kept under its own key:
//
//	b:<bucket key>\x00<8-byte big-endian id> -> gob encoded names.Entry
//	i:<8-byte big-endian id>                 -> bucket key
//
// so appending to a bucket never rewrites the entries that are already
// there, and a bucket is read with a single prefix scan.
package badgerstore

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/gnames/gnfmt"
	"github.com/gnames/gnidx/internal/iostore/keylock"
	"github.com/gnames/gnidx/pkg/names"
	"github.com/gnames/gnidx/pkg/store"
	"github.com/gnames/gnsys"
)

const (
	bucketPrefix = "b:"
	idPrefix     = "i:"
	seqKey       = "m:seq"
	seqBandwidth = 1000

	gcDiscardRatio = 0.5

	// bulkChunk is the number of entries written by one transaction of
	// BulkLoad.
	bulkChunk = 1000
)

type badgerstore struct {
	dir    string
	db     *badger.DB
	seq    *badger.Sequence
	locks  *keylock.Locks
	size   atomic.Int64
	closed atomic.Bool
}

// Open opens or creates a badger index in dir. If syncWrites is true,
// every write is synced to disk before it returns.
func Open(dir string, syncWrites bool, lockStripes int) (store.Store, error) {
	err := gnsys.MakeDir(dir)
	if err != nil {
		return nil, OpenError(dir, err)
	}

	options := badger.DefaultOptions(dir).WithSyncWrites(syncWrites)
	options.Logger = nil // Disable badger's internal logging

	db, err := badger.Open(options)
	if err != nil {
		return nil, OpenError(dir, err)
	}

	seq, err := db.GetSequence([]byte(seqKey), seqBandwidth)
	if err != nil {
		db.Close()
		return nil, OpenError(dir, err)
	}

	res := &badgerstore{
		dir:   dir,
		db:    db,
		seq:   seq,
		locks: keylock.New(lockStripes),
	}

	size, err := res.count()
	if err != nil {
		seq.Release()
		db.Close()
		return nil, OpenError(dir, err)
	}
	res.size.Store(int64(size))

	slog.Info("Badger store opened",
		"dir", dir,
		"entries", size,
		"sync_writes", syncWrites,
	)
	return res, nil
}

func (s *badgerstore) Lookup(_ context.Context, key string) ([]names.Entry, error) {
	if s.closed.Load() {
		return nil, ClosedError()
	}
	var res []names.Entry
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		res, err = readBucket(txn, key)
		return err
	})
	if err != nil {
		return nil, ReadError(key, err)
	}
	return res, nil
}

func (s *badgerstore) Get(_ context.Context, id int64) (names.Entry, error) {
	if s.closed.Load() {
		return names.Entry{}, ClosedError()
	}
	var res names.Entry
	err := s.db.View(func(txn *badger.Txn) error {
		key, err := keyOf(txn, id)
		if err != nil {
			return err
		}
		res, err = readEntry(txn, key, id)
		return err
	})
	if err != nil {
		return names.Entry{}, ReadError(fmt.Sprintf("id %d", id), err)
	}
	return res, nil
}

func (s *badgerstore) Insert(
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

func (s *badgerstore) BackfillAuthorship(
	ctx context.Context,
	id int64,
	au names.Authorship,
) (names.Entry, error) {
	if s.closed.Load() {
		return names.Entry{}, ClosedError()
	}
	var key string
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		key, err = keyOf(txn, id)
		return err
	})
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

// Update runs fn inside a badger read-write transaction while the lock
// of the key is held. The transaction is committed, and synced if
// configured, when fn succeeds.
func (s *badgerstore) Update(
	_ context.Context,
	key string,
	fn func(store.BucketTx) error,
) error {
	if s.closed.Load() {
		return ClosedError()
	}
	unlock := s.locks.Lock(key)
	defer unlock()

	var inserted int
	err := s.db.Update(func(txn *badger.Txn) error {
		entries, err := readBucket(txn, key)
		if err != nil {
			return ReadError(key, err)
		}
		tx := &badgerTx{s: s, txn: txn, key: key, entries: entries}
		if err = fn(tx); err != nil {
			return err
		}
		inserted = tx.inserted
		return nil
	})
	if err != nil {
		return err
	}
	s.size.Add(int64(inserted))
	return nil
}

// BulkLoad writes entries in chunks of bulkChunk, each chunk in its own
// transaction, so both keys of an entry are always committed together.
// Locks of all buckets of a chunk are held while it is written. On
// failure it returns the number of entries of committed chunks.
func (s *badgerstore) BulkLoad(
	ctx context.Context,
	entries []names.Entry,
) (int, error) {
	if s.closed.Load() {
		return 0, ClosedError()
	}

	var count int
	for chunk := range slices.Chunk(entries, bulkChunk) {
		if err := ctx.Err(); err != nil {
			return count, err
		}
		if err := s.loadChunk(chunk); err != nil {
			return count, err
		}
		count += len(chunk)
		s.size.Add(int64(len(chunk)))
	}
	return count, nil
}

func (s *badgerstore) loadChunk(chunk []names.Entry) error {
	keys := make([]string, len(chunk))
	for i := range chunk {
		keys[i] = chunk[i].Key
	}
	unlock := s.locks.LockAll(keys)
	defer unlock()

	return s.db.Update(func(txn *badger.Txn) error {
		for _, e := range chunk {
			id, err := s.nextID()
			if err != nil {
				return WriteError(e.Key, err)
			}
			e.ID = id
			val, err := gnfmt.GNgob{}.Encode(e)
			if err != nil {
				return EncodeError(e.Key, err)
			}
			if err = txn.Set(entryKey(e.Key, id), val); err != nil {
				return WriteError(e.Key, err)
			}
			if err = txn.Set(idKey(id), []byte(e.Key)); err != nil {
				return WriteError(e.Key, err)
			}
		}
		return nil
	})
}

func (s *badgerstore) Size(_ context.Context) (int, error) {
	if s.closed.Load() {
		return 0, ClosedError()
	}
	return int(s.size.Load()), nil
}

// Compact flattens the levels of the LSM tree and runs value log
// garbage collection until there is nothing left to rewrite.
func (s *badgerstore) Compact(ctx context.Context) error {
	if s.closed.Load() {
		return ClosedError()
	}
	start := time.Now()
	if err := s.db.Flatten(runtime.NumCPU()); err != nil {
		return CompactError(s.dir, err)
	}

	var rounds int
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := s.db.RunValueLogGC(gcDiscardRatio)
		if errors.Is(err, badger.ErrNoRewrite) ||
			errors.Is(err, badger.ErrRejected) {
			break
		}
		if err != nil {
			return CompactError(s.dir, err)
		}
		rounds++
	}

	slog.Info("Badger store compacted",
		"dir", s.dir,
		"gc_rounds", rounds,
		"duration", time.Since(start).String(),
	)
	return nil
}

func (s *badgerstore) Close() error {
	if s.closed.Swap(true) {
		slog.Warn("Badger store is already closed")
		return nil
	}
	if err := s.seq.Release(); err != nil {
		slog.Error("Cannot release id sequence", "error", err)
	}
	if err := s.db.Close(); err != nil {
		return CloseError(s.dir, err)
	}
	slog.Info("Badger store closed", "dir", s.dir)
	return nil
}

func (s *badgerstore) nextID() (int64, error) {
	n, err := s.seq.Next()
	if err != nil {
		return 0, err
	}
	// badger sequences start from 0, IDs start from 1.
	return int64(n) + 1, nil
}

func (s *badgerstore) count() (int, error) {
	var res int
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(idPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			res++
		}
		return nil
	})
	return res, err
}

type badgerTx struct {
	s        *badgerstore
	txn      *badger.Txn
	key      string
	entries  []names.Entry
	inserted int
}

func (tx *badgerTx) Bucket() []names.Entry {
	return slices.Clone(tx.entries)
}

func (tx *badgerTx) Insert(entry names.Entry) (names.Entry, error) {
	id, err := tx.s.nextID()
	if err != nil {
		return names.Entry{}, WriteError(tx.key, err)
	}
	entry.ID = id
	entry.Key = tx.key
	if err = tx.write(entry); err != nil {
		return names.Entry{}, err
	}
	err = tx.txn.Set(idKey(id), []byte(tx.key))
	if err != nil {
		return names.Entry{}, WriteError(tx.key, err)
	}
	tx.entries = append(tx.entries, entry)
	tx.inserted++
	return entry, nil
}

func (tx *badgerTx) BackfillAuthorship(
	id int64,
	au names.Authorship,
) (names.Entry, bool, error) {
	idx := slices.IndexFunc(tx.entries, func(e names.Entry) bool {
		return e.ID == id
	})
	if idx < 0 {
		return names.Entry{}, false, fmt.Errorf("id %d: %w", id, store.ErrNotFound)
	}
	res, changed := tx.entries[idx].Authorship.Backfill(au)
	if !changed {
		return tx.entries[idx], false, nil
	}
	tx.entries[idx].Authorship = res
	if err := tx.write(tx.entries[idx]); err != nil {
		return names.Entry{}, false, err
	}
	return tx.entries[idx], true, nil
}

func (tx *badgerTx) write(e names.Entry) error {
	val, err := gnfmt.GNgob{}.Encode(e)
	if err != nil {
		return EncodeError(tx.key, err)
	}
	if err = tx.txn.Set(entryKey(tx.key, e.ID), val); err != nil {
		return WriteError(tx.key, err)
	}
	return nil
}

func readBucket(txn *badger.Txn, key string) ([]names.Entry, error) {
	var res []names.Entry
	prefix := bucketKeyPrefix(key)
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	it := txn.NewIterator(opts)
	defer it.Close()

	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		var e names.Entry
		err := it.Item().Value(func(val []byte) error {
			return gnfmt.GNgob{}.Decode(val, &e)
		})
		if err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	return res, nil
}

func readEntry(txn *badger.Txn, key string, id int64) (names.Entry, error) {
	var res names.Entry
	item, err := txn.Get(entryKey(key, id))
	if err == badger.ErrKeyNotFound {
		return res, fmt.Errorf("id %d: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return res, err
	}
	err = item.Value(func(val []byte) error {
		return gnfmt.GNgob{}.Decode(val, &res)
	})
	return res, err
}

func keyOf(txn *badger.Txn, id int64) (string, error) {
	item, err := txn.Get(idKey(id))
	if err == badger.ErrKeyNotFound {
		return "", fmt.Errorf("id %d: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return "", err
	}
	val, err := item.ValueCopy(nil)
	if err != nil {
		return "", err
	}
	return string(val), nil
}

func bucketKeyPrefix(key string) []byte {
	res := make([]byte, 0, len(bucketPrefix)+len(key)+1)
	res = append(res, bucketPrefix...)
	res = append(res, key...)
	return append(res, 0)
}

func entryKey(key string, id int64) []byte {
	return binary.BigEndian.AppendUint64(bucketKeyPrefix(key), uint64(id))
}

func idKey(id int64) []byte {
	return binary.BigEndian.AppendUint64([]byte(idPrefix), uint64(id))
}
