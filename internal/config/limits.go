package config

const (
	// MaxCommentLength is the maximum length of a comment body in characters.
	MaxCommentLength = 2000

	// MaxReportDescriptionLength is the maximum length of a report description.
	MaxReportDescriptionLength = 200

	// MaxSweepPasses bounds how many times the tombstone sweeper repeats in one run.
	// Each pass can expose one more level of childless tombstones.
	MaxSweepPasses = 32
)
