package iosfga

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnidx/pkg/config"
	"github.com/gnames/gnidx/pkg/errcode"
)

// FileNotFoundError creates an error for when SFGA file
// cannot be found.
func FileNotFoundError(sourceID int, parent string, err error) error {
	msg := `SFGA file not found for data source

<em>Data Source ID:</em> %d
<em>Parent location:</em> %s

<em>How to fix:</em>
  1. Check parent directory/URL exists
  2. Verify SFGA file naming: %04d*.{sql,sqlite}{,.zip}`

	vars := []any{sourceID, parent, sourceID}

	return &gn.Error{
		Code: errcode.ImportSFGAFileNotFoundError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("SFGA file not found: %w", err),
	}
}

// ReadError creates an error for when SFGA file cannot be read.
func ReadError(path string, err error) error {
	msg := `Cannot read SFGA file <em>%s</em>`
	vars := []any{path}

	return &gn.Error{
		Code: errcode.ImportSFGAReadError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to read SFGA file: %w", err),
	}
}

// VersionError creates an error for SFGA version reading error.
func VersionError(sourceID int, err error) error {
	msg := `Failed to get version of SFGA data source <em>%d</em>`
	vars := []any{sourceID}

	return &gn.Error{
		Code: errcode.ImportSFGAVersionError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to get SFGA version: %w", err),
	}
}

func NotVersionError(sourceID int, version string) error {
	msg := `Cannot parse SFGA version <em>%s</em> for data source <em>%d</em>`
	vars := []any{version, sourceID}

	return &gn.Error{
		Code: errcode.ImportSFGAVersionError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("string '%s' is not a semantic version", version),
	}
}

func VersionTooOldError(sourceID int, version string) error {
	msg := `The SFGA <em>%s</em> is not supported (data source <em>#%d</em>).
Supported SFGA versions are equal or greater than <em>%s</em>`
	vars := []any{version, sourceID, config.MinVersionSFGA}

	return &gn.Error{
		Code: errcode.ImportSFGAVersionTooOldError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("too old SFGA version '%s'", version),
	}
}
