package harness

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ScenarioOutcome is the result of one scenario file in a suite.
type ScenarioOutcome struct {
	Path   string  `json:"path"`
	Name   string  `json:"name,omitempty"`
	Result *Result `json:"result,omitempty"`
	// Err is set when the file could not be loaded or run.
	Err string `json:"error,omitempty"`
}

// Passed reports whether the scenario loaded, ran, and passed.
func (o ScenarioOutcome) Passed() bool {
	return o.Err == "" && o.Result != nil && o.Result.Pass
}

// FindScenarios returns the YAML files under path in lexical order.
// A file path is returned as is.
func FindScenarios(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(p)) {
		case ".yaml", ".yml":
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", path, err)
	}
	sort.Strings(files)
	return files, nil
}

// RunSuite loads and runs every scenario under path. Load and run failures
// are recorded per file; the returned error covers only discovery.
func RunSuite(path string, logger *slog.Logger) ([]ScenarioOutcome, error) {
	files, err := FindScenarios(path)
	if err != nil {
		return nil, err
	}

	outcomes := make([]ScenarioOutcome, 0, len(files))
	for _, file := range files {
		out := ScenarioOutcome{Path: file}
		scenario, err := LoadScenario(file)
		if err != nil {
			out.Err = err.Error()
			outcomes = append(outcomes, out)
			continue
		}
		out.Name = scenario.Name
		result, err := RunWithLogger(scenario, logger)
		if err != nil {
			out.Err = err.Error()
		}
		out.Result = result
		outcomes = append(outcomes, out)
	}
	return outcomes, nil
}
