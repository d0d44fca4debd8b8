package moderation

import "launchit/internal/domain/models"

// ReasonDefinition describes one report reason as shown to users
type ReasonDefinition struct {
	Reason              models.ReportReason `yaml:"reason" json:"reason"`
	Label               string              `yaml:"label" json:"label"`
	Description         string              `yaml:"description" json:"description"`
	RequiresDescription bool                `yaml:"requires_description" json:"requires_description"`
}

// catalogFile is the YAML document layout
type catalogFile struct {
	Reasons []ReasonDefinition `yaml:"reasons"`
}
