// Package parserpool provides a pool of gnparser instances that turn
// name-strings into queries of the name index.
// This is a pure package - parsing is computation, not I/O.
package parserpool

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/gnames/gnidx/pkg/names"
	"github.com/gnames/gnlib/ent/nomcode"
	"github.com/gnames/gnparser"
	"github.com/gnames/gnparser/ent/parsed"
)

// Pool provides a pool of gnparser instances for concurrent parsing.
// It maintains separate pools for botanical and zoological nomenclatural codes.
type Pool interface {
	// Parse parses a scientific name string using the specified nomenclatural code.
	// This method is safe for concurrent use.
	Parse(nameString string, code nomcode.Code) (parsed.Parsed, error)

	// Query parses a name-string and decomposes it into a query. Rank
	// and code are hints given by a data source. Names that cannot be
	// decomposed (unparsed names, viruses, hybrid formulas, surrogates)
	// become verbatim queries that only carry ScientificName.
	Query(nameString string, rank names.Rank, code names.Code) names.Query

	// Close shuts down the parser pools and releases resources.
	// After calling Close, the pool should not be used.
	Close()
}

// PoolImpl implements the Pool interface using gnparser.NewPool.
type PoolImpl struct {
	botanicalCh  chan gnparser.GNparser
	zoologicalCh chan gnparser.GNparser
	poolSize     int
}

// NewPool creates a new parser pool with the specified number of workers.
// If jobsNum is 0, it defaults to runtime.NumCPU().
// Total parsers created = 2 * poolSize (one pool per nomenclatural code).
func NewPool(jobsNum int) Pool {
	poolSize := jobsNum
	if poolSize == 0 {
		poolSize = runtime.NumCPU()
	}

	// WithDetails(true) is required to populate the Words field.
	botanicalCfg := gnparser.NewConfig(
		gnparser.OptCode(nomcode.Botanical),
		gnparser.OptWithDetails(true),
	)
	botanicalCh := gnparser.NewPool(botanicalCfg, poolSize)

	zoologicalCfg := gnparser.NewConfig(
		gnparser.OptCode(nomcode.Zoological),
		gnparser.OptWithDetails(true),
	)
	zoologicalCh := gnparser.NewPool(zoologicalCfg, poolSize)

	return &PoolImpl{
		botanicalCh:  botanicalCh,
		zoologicalCh: zoologicalCh,
		poolSize:     poolSize,
	}
}

// Parse parses a scientific name string using the specified nomenclatural code.
// It blocks while all parsers of the code are busy.
func (p *PoolImpl) Parse(nameString string, code nomcode.Code) (parsed.Parsed, error) {
	var ch chan gnparser.GNparser
	switch code {
	case nomcode.Botanical:
		ch = p.botanicalCh
	case nomcode.Zoological:
		ch = p.zoologicalCh
	default:
		return parsed.Parsed{}, fmt.Errorf("unsupported nomenclatural code: %v", code)
	}

	parser := <-ch
	result := parser.ParseName(nameString)
	ch <- parser

	return result, nil
}

// Query parses a name-string with the botanical parser for botanical and
// cultivar names and with the zoological parser for everything else.
func (p *PoolImpl) Query(
	nameString string,
	rank names.Rank,
	code names.Code,
) names.Query {
	res := names.Query{
		Rank:           rank,
		Code:           code,
		ScientificName: strings.TrimSpace(nameString),
	}

	nc := nomcode.Zoological
	if code.NomCode() == nomcode.Botanical {
		nc = nomcode.Botanical
	}
	prsd, err := p.Parse(res.ScientificName, nc)
	if err != nil {
		return res
	}
	return toQuery(prsd, res)
}

// Close shuts down both parser pools and releases resources.
func (p *PoolImpl) Close() {
	if p.botanicalCh != nil {
		close(p.botanicalCh)
		for range p.botanicalCh {
		}
	}

	if p.zoologicalCh != nil {
		close(p.zoologicalCh)
		for range p.zoologicalCh {
		}
	}
}

// toQuery fills name parts of res from a parsing result. Names with more
// than three name elements are kept verbatim, the index has no keys for
// them.
func toQuery(p parsed.Parsed, res names.Query) names.Query {
	if !p.Parsed || p.Virus || p.Hybrid != nil || p.Surrogate != nil ||
		p.Cardinality == 0 || p.Cardinality > 3 {
		return res
	}

	var uninomial string
	for _, w := range p.Words {
		switch w.Type {
		case parsed.UninomialType:
			// the last uninomial is the name, earlier ones are its parents
			uninomial = w.Normalized
		case parsed.GenusType:
			if res.Genus == "" {
				res.Genus = w.Normalized
			}
		case parsed.SubgenusType:
			res.InfragenericEpithet = w.Normalized
		case parsed.SpEpithetType:
			res.SpecificEpithet = w.Normalized
		case parsed.InfraspEpithetType:
			res.InfraspecificEpithet = w.Normalized
		case parsed.RankType:
			if res.Rank == names.Unranked {
				res.Rank = names.NewRank(w.Normalized)
			}
		}
	}
	if res.Genus == "" {
		res.Uninomial = uninomial
	}

	if res.Rank == names.Unranked {
		switch p.Cardinality {
		case 2:
			res.Rank = names.Species
		case 3:
			res.Rank = names.Subspecies
		}
	}

	res.Authorship = authorship(p.Authorship)
	return res
}

// authorship converts parsed authorship. GNparser keeps the authors of
// the original combination in Original and the authors of a new
// combination in Combination. A parenthesized authorship without
// combination authors is a basionym authorship.
func authorship(au *parsed.Authorship) names.Authorship {
	if au == nil {
		return names.Authorship{}
	}

	var comb, bas *parsed.AuthGroup
	switch {
	case au.Combination != nil:
		comb, bas = au.Combination, au.Original
	case strings.HasPrefix(au.Normalized, "("):
		bas = au.Original
	default:
		comb = au.Original
	}

	res := names.Authorship{
		Combination: authGroup(comb),
		Basionym:    authGroup(bas),
	}
	return res.Clean()
}

func authGroup(g *parsed.AuthGroup) names.AuthorGroup {
	if g == nil {
		return names.AuthorGroup{}
	}
	res := names.AuthorGroup{Authors: g.Authors}
	if g.Year != nil {
		res.Year = g.Year.Value
	}
	if g.ExAuthors != nil {
		res.ExAuthors = g.ExAuthors.Authors
	}
	return res
}
