// Package scenario replays scripted user commands against a piggy bank.
//
// A scenario is a YAML document:
//
//	name: evening
//	steps:
//	  - at: 0s
//	    command: toggle
//	  - at: 3s
//	    command: insert
package scenario

import (
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

// A Command is something the user can ask the bank to do.
type Command string

// The commands a scenario can issue.
const (
	CommandToggle    Command = "toggle"
	CommandReset     Command = "reset"
	CommandCalibrate Command = "calibrate"
	CommandInsert    Command = "insert"
)

func (c Command) valid() bool {
	switch c {
	case CommandToggle, CommandReset, CommandCalibrate, CommandInsert:
		return true
	default:
		return false
	}
}

// A Step issues a command at a time relative to the start of the scenario.
type Step struct {
	At      time.Duration `yaml:"at"`
	Command Command       `yaml:"command"`
}

// A Scenario is a list of steps, ordered by time.
type Scenario struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// Load reads a scenario from a YAML file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}

	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return s, nil
}

// Parse decodes and checks a scenario. Steps at the same time keep the
// order they are written in.
func Parse(data []byte) (*Scenario, error) {
	s := &Scenario{}

	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}

	for i, step := range s.Steps {
		if !step.Command.valid() {
			return nil, fmt.Errorf("step %d: unknown command %q",
				i, step.Command)
		}

		if step.At < 0 {
			return nil, fmt.Errorf("step %d: negative time %s", i, step.At)
		}
	}

	sort.SliceStable(s.Steps, func(i, j int) bool {
		return s.Steps[i].At < s.Steps[j].At
	})

	return s, nil
}

// Duration returns the time of the last step.
func (s *Scenario) Duration() time.Duration {
	if len(s.Steps) == 0 {
		return 0
	}

	return s.Steps[len(s.Steps)-1].At
}
