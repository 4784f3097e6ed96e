package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.TemplateFile = "haushalt.txt"
	cfg.CategoryOrder = []string{"Lebensmittel", "Miete"}
	cfg.CSV.Encoding = "latin1"

	path := filepath.Join(t.TempDir(), "dkbparse.yaml")
	err := Save(path, cfg)
	require.NoError(t, err)

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, cfg.CategoriesFile, got.CategoriesFile)
	assert.Equal(t, cfg.AssignmentsFile, got.AssignmentsFile)
	assert.Equal(t, "haushalt.txt", got.TemplateFile)
	assert.Equal(t, cfg.OutputFormat, got.OutputFormat)
	assert.Equal(t, []string{"Lebensmittel", "Miete"}, got.CategoryOrder)
	assert.Equal(t, cfg.RunLogFile, got.RunLogFile)
	assert.Equal(t, ";", got.CSV.Delimiter)
	assert.Equal(t, 4, got.CSV.SkipRows)
	assert.Equal(t, "latin1", got.CSV.Encoding)
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "categories.json", cfg.CategoriesFile)
	assert.Equal(t, "manual-assignments.json", cfg.AssignmentsFile)
	assert.Empty(t, cfg.TemplateFile)
	assert.Equal(t, "excel", cfg.OutputFormat)
	assert.Equal(t, "logs/runs.csv", cfg.RunLogFile)
	assert.Equal(t, ";", cfg.CSV.Delimiter)
	assert.Equal(t, 4, cfg.CSV.SkipRows)
	assert.Equal(t, "utf-8", cfg.CSV.Encoding)
	assert.Empty(t, cfg.CategoryOrder)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestYAMLFormat(t *testing.T) {
	cfg := Default()
	path := filepath.Join(t.TempDir(), "dkbparse.yaml")
	err := Save(path, cfg)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "categories_file: categories.json")
	assert.Contains(t, contents, "output_format: excel")
	assert.Contains(t, contents, "delimiter: ;")
	assert.Contains(t, contents, "skip_rows: 4")
	assert.NotContains(t, contents, "template_file", "empty optional fields stay out of the file")
}

func TestValidFormat(t *testing.T) {
	assert.True(t, ValidFormat("excel"))
	assert.True(t, ValidFormat("summary"))
	assert.True(t, ValidFormat("household"))
	assert.True(t, ValidFormat("all"))
	assert.False(t, ValidFormat("csv"))
	assert.False(t, ValidFormat(""))
}
