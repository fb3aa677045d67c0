package iosources

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnidx/pkg/errcode"
)

// SourcesConfigError creates an error for when sources.yaml
// cannot be loaded.
func SourcesConfigError(path string, err error) error {
	msg := `Cannot load sources configuration

<em>Configuration file:</em> %s

<em>Possible causes:</em>
  - File does not exist
  - Invalid YAML format
  - Parent directory of a source does not exist

<em>How to fix:</em>
  1. Check if file exists: <em>ls -l %s</em>
  2. Validate YAML syntax and 'parent' paths
  3. Run <em>gnidx</em> once to create an example file`

	vars := []any{path, path}

	return &gn.Error{
		Code: errcode.ImportSourcesConfigError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to load sources config: %w", err),
	}
}
