package sources

import (
	"fmt"

	"github.com/gnames/gnidx/pkg/names"
)

// Validate checks the configuration for errors. Problems that do not
// prevent an import are collected in Warnings.
func (c *SourcesConfig) Validate() error {
	if len(c.DataSources) == 0 {
		return fmt.Errorf("no data sources specified in configuration")
	}

	seen := make(map[int]struct{}, len(c.DataSources))
	for i := range c.DataSources {
		warnings, err := c.DataSources[i].Validate()
		if err != nil {
			return fmt.Errorf("data source %d: %w", i+1, err)
		}
		id := c.DataSources[i].ID
		if _, ok := seen[id]; ok {
			return fmt.Errorf("data source %d: duplicate id %d", i+1, id)
		}
		seen[id] = struct{}{}
		c.Warnings = append(c.Warnings, warnings...)
	}

	return nil
}

// Validate checks a single data source configuration. Existence of the
// parent directory is checked by the I/O layer.
func (d *DataSourceConfig) Validate() ([]ValidationWarning, error) {
	var warnings []ValidationWarning
	if d.ID <= 0 {
		return nil, fmt.Errorf("id must be a positive number")
	}

	if d.Parent == "" {
		return nil, fmt.Errorf("parent directory or URL is required")
	}

	if d.Code != "" && names.NewCode(d.Code) == names.Unspecified {
		warnings = append(warnings, ValidationWarning{
			DataSourceID: d.ID,
			Field:        "code",
			Message:      fmt.Sprintf("unknown nomenclatural code '%s'", d.Code),
			Suggestion: "Use one of: zoological, botanical, bacterial, " +
				"virus, cultivars; or remove the field",
		})
		d.Code = ""
	}

	return warnings, nil
}
