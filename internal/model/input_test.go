package model

import (
	"os"
	"path"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	file := path.Join(t.TempDir(), "config.json")
	assert.NoError(t, os.WriteFile(file, []byte(content), 0644))
	return file
}

func TestConfigFromJson(t *testing.T) {
	// Arrange
	file := writeConfigFile(t, `{
		"Departments": {"CSE": {"2": 3, "3": 1}},
		"Blocks": {"CSE": "B"},
		"BudgetMinutes": 2,
		"Seed": 99,
		"Workers": 4
	}`)

	// Act
	config, err := ConfigFromJson(file)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, map[string]map[int]int{"CSE": {2: 3, 3: 1}}, config.Departments)
	assert.Equal(t, "B", config.Blocks["CSE"])
	assert.Equal(t, 2*time.Minute, config.Budget)
	assert.Equal(t, int64(99), config.Seed)
	assert.Equal(t, 4, config.Workers)
	// The grid keeps its default when the file omits it
	assert.Equal(t, DefaultGrid().Days, config.Grid.Days)
}

func TestConfigFromJsonDefaults(t *testing.T) {
	// Arrange: an empty file keeps every default
	file := writeConfigFile(t, `{}`)

	// Act
	config, err := ConfigFromJson(file)

	// Assert
	assert.NoError(t, err)
	defaults := DefaultConfig()
	assert.Equal(t, defaults.Departments, config.Departments)
	assert.Equal(t, defaults.Budget, config.Budget)
	assert.Equal(t, defaults.Workers, config.Workers)
}

func TestConfigFromJsonRejectsBadInput(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := ConfigFromJson(path.Join(t.TempDir(), "missing.json"))
		assert.Error(t, err)
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := ConfigFromJson(writeConfigFile(t, `{not json`))
		assert.Error(t, err)
	})

	t.Run("non-numeric year", func(t *testing.T) {
		_, err := ConfigFromJson(writeConfigFile(t, `{"Departments": {"CSE": {"second": 3}}}`))
		assert.Error(t, err)
	})

	t.Run("negative section count", func(t *testing.T) {
		_, err := ConfigFromJson(writeConfigFile(t, `{"Departments": {"CSE": {"2": -1}}}`))
		assert.Error(t, err)
	})
}

func TestStudentGroupsDeterministic(t *testing.T) {
	// Arrange
	config := DefaultConfig()
	config.Departments = map[string]map[int]int{
		"CSE": {2: 2, 3: 1},
		"ECE": {2: 1},
	}

	// Act
	first := config.StudentGroups()
	second := config.StudentGroups()

	// Assert: 4 sections, stable ids and names across calls
	assert.Len(t, first, 4)
	for i := range first {
		assert.Equal(t, first[i].Id, second[i].Id)
		assert.Equal(t, first[i].Name, second[i].Name)
	}
	assert.Equal(t, "CSE-2A", first[0].Name)
	assert.Equal(t, "CSE-2B", first[1].Name)
	assert.Equal(t, "CSE-3A", first[2].Name)
	assert.Equal(t, "ECE-2A", first[3].Name)
	assert.Equal(t, uint64(1), first[0].Id)
	assert.Equal(t, ClassStrength, first[0].Strength)
}
