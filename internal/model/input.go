package model

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/mitchellh/mapstructure"
)

// RawConfig mirrors the JSON configuration file layout. Year keys are strings
// in the file ("2", "3", "4") and are normalized during processing.
type RawConfig struct {
	Departments   map[string]map[string]int
	Blocks        map[string]string
	Grid          *GridTemplate
	BudgetMinutes int
	Seed          int64
	Workers       int
}

// Config is the processed run configuration: department section counts, block
// preferences, the weekly grid and the solver knobs.
type Config struct {
	Departments map[string]map[int]int // dept -> year -> parallel sections
	Blocks      map[string]string      // dept -> preferred building block
	Grid        GridTemplate
	Budget      time.Duration
	Seed        int64
	Workers     int
}

// DefaultConfig carries the institutional department/section table and block
// preferences used when no config file is supplied.
func DefaultConfig() Config {
	return Config{
		Departments: map[string]map[int]int{
			"CSE-CS": {2: 2, 3: 1},
			"CSE":    {2: 10, 3: 6, 4: 5},
			"CSBS":   {2: 2, 3: 2, 4: 2},
			"CSD":    {2: 1, 3: 1, 4: 1},
			"IT":     {2: 5, 3: 4, 4: 3},
			"AIML":   {2: 4, 3: 3, 4: 3},
			"AIDS":   {2: 5, 3: 3, 4: 1},
			"ECE":    {2: 6, 3: 4, 4: 4},
			"EEE":    {2: 2, 3: 2, 4: 2},
			"AERO":   {2: 1, 3: 1, 4: 1},
			"AUTO":   {2: 1, 3: 1, 4: 1},
			"MCT":    {2: 1, 3: 1, 4: 1},
			"MECH":   {2: 2, 3: 2, 4: 2},
			"BT":     {2: 3, 3: 3, 4: 3},
			"BME":    {2: 2, 3: 2, 4: 2},
			"R&A":    {2: 1, 3: 1, 4: 1},
			"FT":     {2: 1, 3: 1, 4: 1},
			"CIVIL":  {2: 1, 3: 1, 4: 1},
			"CHEM":   {2: 1, 3: 1, 4: 1},
		},
		Blocks: map[string]string{
			"CSE":  "A",
			"CSBS": "A",
			"CSD":  "A",
			"AIML": "A",
		},
		Grid:    DefaultGrid(),
		Budget:  5 * time.Minute,
		Seed:    1,
		Workers: 1,
	}
}

// ConfigFromJson loads a configuration file; fields absent from the file keep
// their defaults.
func ConfigFromJson(file string) (Config, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return Config{}, fmt.Errorf("cannot read config file: %w", err)
	}

	var configJson map[string]any
	if err := json.Unmarshal(bytes, &configJson); err != nil {
		return Config{}, fmt.Errorf("cannot parse config file: %w", err)
	}

	var rawConfig RawConfig
	if err := mapstructure.Decode(configJson, &rawConfig); err != nil {
		return Config{}, fmt.Errorf("cannot decode config file: %w", err)
	}
	return processRawConfig(rawConfig)
}

func processRawConfig(rawConfig RawConfig) (Config, error) {
	config := DefaultConfig()

	if len(rawConfig.Departments) > 0 {
		departments := make(map[string]map[int]int, len(rawConfig.Departments))
		for dept, years := range rawConfig.Departments {
			departments[dept] = make(map[int]int, len(years))
			for yearKey, sections := range years {
				year, err := strconv.Atoi(yearKey)
				if err != nil {
					return Config{}, fmt.Errorf("invalid year %q for department %v: %w", yearKey, dept, err)
				}
				if sections < 0 {
					return Config{}, fmt.Errorf("negative section count for department %v year %v", dept, year)
				}
				departments[dept][year] = sections
			}
		}
		config.Departments = departments
	}
	if len(rawConfig.Blocks) > 0 {
		config.Blocks = rawConfig.Blocks
	}
	if rawConfig.Grid != nil {
		config.Grid = *rawConfig.Grid
	}
	if rawConfig.BudgetMinutes > 0 {
		config.Budget = time.Duration(rawConfig.BudgetMinutes) * time.Minute
	}
	if rawConfig.Seed != 0 {
		config.Seed = rawConfig.Seed
	}
	if rawConfig.Workers > 0 {
		config.Workers = rawConfig.Workers
	}

	return config, nil
}

// StudentGroups materializes the section instances from the department table,
// deterministically ordered so identical configs yield identical group ids.
func (config Config) StudentGroups() []*StudentGroup {
	departments := make([]string, 0, len(config.Departments))
	for dept := range config.Departments {
		departments = append(departments, dept)
	}
	slices.Sort(departments)

	groups := make([]*StudentGroup, 0)
	var id uint64 = 1
	for _, dept := range departments {
		years := make([]int, 0, len(config.Departments[dept]))
		for year := range config.Departments[dept] {
			years = append(years, year)
		}
		slices.Sort(years)

		for _, year := range years {
			for section := 0; section < config.Departments[dept][year]; section++ {
				name := fmt.Sprintf("%v-%d%c", dept, year, rune('A'+section))
				groups = append(groups, NewStudentGroup(id, name, dept, year, ClassStrength))
				id++
			}
		}
	}
	return groups
}
