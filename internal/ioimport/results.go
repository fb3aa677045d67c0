package ioimport

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gnames/gnfmt"
	"github.com/gnames/gnidx/pkg/names"
	"github.com/gnames/gnidx/pkg/sfga"
	"github.com/gnames/gnsys"
)

// Result is one line of the import results of a dataset.
type Result struct {
	// RecordID is the ID of the name in the dataset.
	RecordID string `json:"recordId"`

	// Name is the name-string of the dataset.
	Name string `json:"name"`

	MatchType names.MatchType `json:"matchType"`

	// EntryID is the ID of the matched or inserted index entry.
	EntryID int64 `json:"entryId,omitempty"`

	// MatchedName is the full name of the matched or inserted entry.
	MatchedName string `json:"matchedName,omitempty"`

	// AlternativeIDs are IDs of alternative entries, if verbose mode
	// is on.
	AlternativeIDs []int64 `json:"alternativeIds,omitempty"`

	AlternativesNum int `json:"alternativesNum,omitempty"`
}

func newResult(rec sfga.Record, m names.Match) Result {
	res := Result{
		RecordID:        rec.ID,
		Name:            rec.ScientificName,
		MatchType:       m.Type,
		AlternativesNum: m.AlternativesNum,
	}
	if m.Entry != nil {
		res.EntryID = m.Entry.ID
		res.MatchedName = m.Entry.FullName()
	}
	for _, e := range m.Alternatives {
		res.AlternativeIDs = append(res.AlternativeIDs, e.ID)
	}
	return res
}

// resultsWriter writes results of a dataset as JSON lines.
type resultsWriter struct {
	path string
	f    *os.File
	w    *bufio.Writer
	enc  gnfmt.GNjson
}

func newResultsWriter(dir string, sourceID int) (*resultsWriter, error) {
	path := filepath.Join(dir, fmt.Sprintf("%04d.jsonl", sourceID))
	if err := gnsys.MakeDir(dir); err != nil {
		return nil, ResultsError(path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, ResultsError(path, err)
	}
	return &resultsWriter{path: path, f: f, w: bufio.NewWriter(f)}, nil
}

func (rw *resultsWriter) Path() string {
	return rw.path
}

func (rw *resultsWriter) Write(r Result) error {
	bs, err := rw.enc.Encode(r)
	if err != nil {
		return ResultsError(rw.path, err)
	}
	bs = append(bs, '\n')
	if _, err = rw.w.Write(bs); err != nil {
		return ResultsError(rw.path, err)
	}
	return nil
}

// Close flushes and closes the file. It is safe to call it more than
// once.
func (rw *resultsWriter) Close() error {
	if rw.f == nil {
		return nil
	}
	err := rw.w.Flush()
	if cerr := rw.f.Close(); err == nil {
		err = cerr
	}
	rw.f = nil
	if err != nil {
		return ResultsError(rw.path, err)
	}
	return nil
}
