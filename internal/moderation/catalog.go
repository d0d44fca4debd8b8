// Package moderation holds the catalog of report reasons.
package moderation

import (
	"embed"
	"fmt"

	"launchit/internal/domain/models"

	"gopkg.in/yaml.v3"
)

//go:embed config/reasons.yaml
var configFiles embed.FS

const reasonsFile = "config/reasons.yaml"

// Catalog is the read-only list of report reasons.
// Safe for concurrent use after construction.
type Catalog struct {
	reasons []ReasonDefinition
	byName  map[models.ReportReason]ReasonDefinition
}

// NewCatalog loads the embedded reason catalog
func NewCatalog() (*Catalog, error) {
	data, err := configFiles.ReadFile(reasonsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", reasonsFile, err)
	}
	return ParseCatalog(data)
}

// ParseCatalog builds a catalog from YAML. Every models.ReportReason must
// be defined exactly once and no unknown reasons are allowed.
func ParseCatalog(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal reason catalog: %w", err)
	}

	c := &Catalog{
		reasons: file.Reasons,
		byName:  make(map[models.ReportReason]ReasonDefinition, len(file.Reasons)),
	}

	for _, def := range file.Reasons {
		if !def.Reason.Valid() {
			return nil, fmt.Errorf("unknown report reason %q in catalog", def.Reason)
		}
		if _, dup := c.byName[def.Reason]; dup {
			return nil, fmt.Errorf("report reason %q defined twice", def.Reason)
		}
		if def.Label == "" {
			return nil, fmt.Errorf("report reason %q has no label", def.Reason)
		}
		c.byName[def.Reason] = def
	}

	for _, reason := range models.ReportReasons {
		if _, ok := c.byName[reason]; !ok {
			return nil, fmt.Errorf("report reason %q missing from catalog", reason)
		}
	}

	return c, nil
}

// Reasons returns every reason in display order
func (c *Catalog) Reasons() []ReasonDefinition {
	out := make([]ReasonDefinition, len(c.reasons))
	copy(out, c.reasons)
	return out
}

// Get returns the definition of reason
func (c *Catalog) Get(reason models.ReportReason) (ReasonDefinition, bool) {
	def, ok := c.byName[reason]
	return def, ok
}

// RequiresDescription reports whether reports with this reason need a description
func (c *Catalog) RequiresDescription(reason models.ReportReason) bool {
	return c.byName[reason].RequiresDescription
}
