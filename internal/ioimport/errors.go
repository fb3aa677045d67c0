package ioimport

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnidx/pkg/errcode"
)

// NoSourcesError creates an error for when no matching
// sources are found.
func NoSourcesError(requestedIDs []int) error {
	msg := `No sources found matching requested IDs

<em>Requested IDs:</em> %v

<em>How to fix:</em>
  1. Check available sources: review sources.yaml
  2. Verify source IDs are correct`

	vars := []any{requestedIDs}

	return &gn.Error{
		Code: errcode.ImportNoSourcesError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("no sources found matching IDs: %v", requestedIDs),
	}
}

// CacheError creates an error for SFGA cache failures.
func CacheError(dir string, err error) error {
	msg := `Cannot prepare SFGA cache directory <em>%s</em>`
	vars := []any{dir}

	return &gn.Error{
		Code: errcode.ImportCacheError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("cache operation failed: %w", err),
	}
}

// ResultsError creates an error for when import results
// cannot be saved.
func ResultsError(path string, err error) error {
	msg := `Cannot save import results to <em>%s</em>`
	vars := []any{path}

	return &gn.Error{
		Code: errcode.ImportResultsError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("cannot write results: %w", err),
	}
}

// CancelledError creates an error for when import
// is cancelled.
func CancelledError(err error) error {
	msg := "Import was cancelled"

	return &gn.Error{
		Code: errcode.ImportCancelledError,
		Msg:  msg,
		Err:  fmt.Errorf("import cancelled: %w", err),
	}
}

// AllSourcesFailedError creates an error for when all
// sources fail to process.
func AllSourcesFailedError(count int) error {
	msg := `Failed number of sources: <em>%d</em>`
	vars := []any{count}

	plural := "s"
	if count == 1 {
		plural = ""
	}

	return &gn.Error{
		Code: errcode.ImportAllSourcesFailedError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("%d source%s failed to process", count, plural),
	}
}
