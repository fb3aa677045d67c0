// Package nameindex matches scientific names against the name index and
// registers new names in it.
//
// Matching is optimistic: a query is first classified against a snapshot
// of its bucket taken without locks. Only if the outcome needs a write
// (insert of a new entry or a backfill of authorship) the classification
// is repeated inside store.Update against the locked bucket, so a worker
// that lost an insert race finds the winner's entry and matches it.
package nameindex

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/gnames/gnidx/pkg/authorship"
	"github.com/gnames/gnidx/pkg/canonical"
	"github.com/gnames/gnidx/pkg/names"
	"github.com/gnames/gnidx/pkg/store"
	"github.com/prometheus/client_golang/prometheus"
)

// NameIndex is the public surface of the name index.
type NameIndex interface {
	// Match classifies the query against the index. If allowInsert is
	// true, unknown names are inserted and missing authorship of a
	// single compatible entry is backfilled. If verbose is false,
	// results carry only the number of alternatives.
	Match(
		ctx context.Context,
		q names.Query,
		allowInsert, verbose bool,
	) (names.Match, error)

	// AddAll bulk-loads queries into the index without matching them.
	// Queries that produce no key are skipped. It returns the number of
	// inserted entries.
	AddAll(ctx context.Context, qs []names.Query) (int, error)

	// Size returns the number of entries in the index.
	Size(ctx context.Context) (int, error)

	// Stats summarizes matches done by this instance.
	Stats() (Stats, error)

	// Close closes the underlying store.
	Close() error
}

// Option configures a NameIndex.
type Option func(*nameindex)

// OptRegistry sets the prometheus registry for match metrics. By default
// every NameIndex has its own registry.
func OptRegistry(reg *prometheus.Registry) Option {
	return func(n *nameindex) {
		if reg != nil {
			n.reg = reg
		}
	}
}

type nameindex struct {
	store   store.Store
	reg     *prometheus.Registry
	metrics *metrics
}

// New creates a NameIndex on top of an opened store. The NameIndex
// owns the store and closes it on Close.
func New(s store.Store, opts ...Option) NameIndex {
	res := &nameindex{store: s, reg: prometheus.NewRegistry()}
	for _, opt := range opts {
		opt(res)
	}
	res.metrics = newMetrics(res.reg)
	return res
}

func (n *nameindex) Match(
	ctx context.Context,
	q names.Query,
	allowInsert, verbose bool,
) (names.Match, error) {
	start := time.Now()
	res, err := n.match(ctx, q, allowInsert)
	if err != nil {
		return names.Match{}, err
	}
	n.metrics.observe(res.Type, time.Since(start))

	res.AlternativesNum = len(res.Alternatives)
	if !verbose {
		res.Alternatives = nil
	}
	return res, nil
}

func (n *nameindex) match(
	ctx context.Context,
	q names.Query,
	allowInsert bool,
) (names.Match, error) {
	q.Authorship = q.Authorship.Clean()
	key := canonical.Build(q)
	if key.IsEmpty() {
		return names.Match{Type: names.None}, nil
	}
	k := key.String()

	bucket, err := n.store.Lookup(ctx, k)
	if err != nil {
		return names.Match{}, err
	}
	d := decide(q, key, bucket, allowInsert)
	if d.act == actNone {
		return d.match, nil
	}

	var res names.Match
	var w written
	err = n.store.Update(ctx, k, func(tx store.BucketTx) error {
		d := decide(q, key, tx.Bucket(), allowInsert)
		var err error
		res, w, err = n.apply(tx, d, q, k)
		return err
	})
	if err != nil {
		return names.Match{}, err
	}

	// counted only after the store committed the change
	switch w {
	case writtenInsert:
		n.metrics.inserts.Inc()
	case writtenBackfill:
		n.metrics.backfills.Inc()
	}
	return res, nil
}

// written tells which change apply made to a bucket.
type written int

const (
	writtenNothing written = iota
	writtenInsert
	writtenBackfill
)

// apply runs the write a decision asks for inside a bucket transaction.
func (n *nameindex) apply(
	tx store.BucketTx,
	d decision,
	q names.Query,
	key string,
) (names.Match, written, error) {
	var w written
	switch d.act {
	case actInsert:
		e, err := tx.Insert(names.NewEntry(q, key))
		if err != nil {
			return names.Match{}, w, err
		}
		w = writtenInsert
		slog.Debug("Inserted name", "id", e.ID, "key", key, "name", e.FullName())
		d.match.Entry = &e
	case actBackfill:
		e, changed, err := tx.BackfillAuthorship(d.match.Entry.ID, q.Authorship)
		if err != nil {
			return names.Match{}, w, err
		}
		if changed {
			w = writtenBackfill
			slog.Debug("Backfilled authorship",
				"id", e.ID, "authorship", e.Authorship.String())
		}
		d.match.Entry = &e
	}
	return d.match, w, nil
}

func (n *nameindex) AddAll(ctx context.Context, qs []names.Query) (int, error) {
	entries := make([]names.Entry, 0, len(qs))
	for i := range qs {
		key := canonical.Build(qs[i])
		if key.IsEmpty() {
			slog.Debug("Skipping name without key", "name", qs[i].FullName())
			continue
		}
		entries = append(entries, names.NewEntry(qs[i], key.String()))
	}
	if len(entries) == 0 {
		return 0, nil
	}
	return n.store.BulkLoad(ctx, entries)
}

func (n *nameindex) Size(ctx context.Context) (int, error) {
	return n.store.Size(ctx)
}

func (n *nameindex) Close() error {
	return n.store.Close()
}

type action int

const (
	actNone action = iota
	actInsert
	actBackfill
)

// decision is the outcome of classifying a query against a bucket. If
// act is not actNone, the match is completed by a write.
type decision struct {
	match names.Match
	act   action
}

// decide classifies a query against the entries of its bucket.
func decide(
	q names.Query,
	key canonical.Key,
	bucket []names.Entry,
	allowInsert bool,
) decision {
	var equal, compatible, conflicting []names.Entry
	for _, e := range bucket {
		if !sameCode(key, q.Code, e.Code) {
			continue
		}
		if key.IsVerbatim() {
			equal = append(equal, e)
			continue
		}
		switch authorship.Compare(q.Authorship, e.Authorship) {
		case authorship.Equal:
			equal = append(equal, e)
		case authorship.Compatible:
			compatible = append(compatible, e)
		default:
			conflicting = append(conflicting, e)
		}
	}

	switch {
	case len(equal) == 1:
		e := equal[0]
		tp := names.Variant
		if key.IsVerbatim() || q.FullName() == e.FullName() {
			tp = names.Exact
		}
		return decision{match: names.Match{Type: tp, Entry: &e}}

	case len(equal) == 0 && len(compatible) == 1:
		e := compatible[0]
		tp := names.Variant
		if q.FullName() == e.FullName() && q.Authorship.Equal(e.Authorship) {
			tp = names.Exact
		}
		res := decision{match: names.Match{Type: tp, Entry: &e}}
		if _, changed := e.Authorship.Backfill(q.Authorship); changed && allowInsert {
			res.act = actBackfill
		}
		return res

	case len(equal)+len(compatible) > 1:
		alts := slices.Concat(equal, compatible)
		slices.SortFunc(alts, func(a, b names.Entry) int {
			return cmp.Compare(a.ID, b.ID)
		})
		return decision{match: names.Match{Type: names.Ambiguous, Alternatives: alts}}

	case allowInsert:
		return decision{
			match: names.Match{Type: names.Inserted, Alternatives: conflicting},
			act:   actInsert,
		}

	default:
		return decision{match: names.Match{Type: names.None}}
	}
}

// sameCode reports if an entry filed under a code may match a query with
// the given code. Verbatim names require identical codes, other names
// only exclude two different specified codes.
func sameCode(key canonical.Key, q, e names.Code) bool {
	if key.IsVerbatim() {
		return q == e
	}
	return q.Compatible(e)
}
