package moderation

import (
	"testing"

	"launchit/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCatalog_Embedded(t *testing.T) {
	c, err := NewCatalog()
	require.NoError(t, err)

	reasons := c.Reasons()
	require.Len(t, reasons, len(models.ReportReasons))
	for i, reason := range models.ReportReasons {
		assert.Equal(t, reason, reasons[i].Reason, "display order")
	}

	assert.True(t, c.RequiresDescription(models.ReportReasonOther))
	assert.False(t, c.RequiresDescription(models.ReportReasonSpam))

	def, ok := c.Get(models.ReportReasonCopyright)
	require.True(t, ok)
	assert.NotEmpty(t, def.Label)

	_, ok = c.Get(models.ReportReason("boring"))
	assert.False(t, ok)
}

func TestParseCatalog_Errors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "malformed",
			yaml:    "reasons: [",
			wantErr: "unmarshal",
		},
		{
			name: "unknown reason",
			yaml: `
reasons:
  - reason: boring
    label: Boring
`,
			wantErr: `unknown report reason "boring"`,
		},
		{
			name: "duplicate",
			yaml: `
reasons:
  - reason: spam
    label: Spam
  - reason: spam
    label: Spam again
`,
			wantErr: "defined twice",
		},
		{
			name: "missing reason",
			yaml: `
reasons:
  - reason: spam
    label: Spam
`,
			wantErr: "missing from catalog",
		},
		{
			name: "missing label",
			yaml: `
reasons:
  - reason: spam
`,
			wantErr: "has no label",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCatalog_ReasonsReturnsCopy(t *testing.T) {
	c, err := NewCatalog()
	require.NoError(t, err)

	reasons := c.Reasons()
	reasons[0].Label = "changed"

	assert.NotEqual(t, "changed", c.Reasons()[0].Label)
}
