package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterRender(t *testing.T) {
	exporter := NewCSVExporter()

	payload, err := exporter.Render(Dataset{
		Headers: []string{"ID", "Periods"},
		Rows:    [][]string{{"od-1", "3,4"}},
	})
	require.NoError(t, err)

	body := string(payload)
	lines := strings.Split(strings.TrimSpace(body), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "ID,Periods", lines[0])
	assert.Equal(t, `od-1,"3,4"`, lines[1])
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	exporter := NewCSVExporter()

	_, err := exporter.Render(Dataset{})
	assert.Error(t, err)
}

func TestCSVExporterPadsShortRows(t *testing.T) {
	exporter := NewCSVExporter()

	payload, err := exporter.Render(Dataset{
		Headers: []string{"A", "B", "C"},
		Rows:    [][]string{{"1"}},
	})
	require.NoError(t, err)
	assert.Contains(t, string(payload), "1,,")
}

func TestPDFExporterRender(t *testing.T) {
	exporter := NewPDFExporter()

	payload, err := exporter.Render(Dataset{
		Headers: []string{"ID", "Status"},
		Rows:    [][]string{{"od-1", "approved"}},
	}, "OD Requests")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(payload), "%PDF"))
}
