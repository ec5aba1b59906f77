package game

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/beka-birhanu/glade/game/maze"
	"gopkg.in/yaml.v3"
)

// Settings errors.
var (
	ErrInvalidProbability = errors.New("probability must be within [0, 1]")
	ErrInvalidInterval    = errors.New("interval must be positive")
	ErrInvalidCount       = errors.New("count must not be negative")
	ErrUnknownDifficulty  = errors.New("unknown difficulty")
)

//go:embed presets.yaml
var defaultPresets []byte

// Settings tunes one game. Durations are written in YAML as Go duration strings ("5s", "450ms").
type Settings struct {
	Width                 int           `yaml:"width"`                   // Board columns
	Height                int           `yaml:"height"`                  // Board rows
	CellSize              int           `yaml:"cell_size"`               // Pixels per cell; read by renderers only
	GateCount             int           `yaml:"gate_count"`              // Gates in the glade ring
	MoveDelay             time.Duration `yaml:"move_delay"`              // Cooldown after an accepted player move
	GateChangeInterval    time.Duration `yaml:"gate_change_interval"`    // Gate toggling cadence while in the glade
	GateChangeProbability float64       `yaml:"gate_change_probability"` // Per-gate flip chance
	ExitChangeInterval    time.Duration `yaml:"exit_change_interval"`    // Exit relocation cadence; 0 means twice the gate interval
	MazeChangeInterval    time.Duration `yaml:"maze_change_interval"`    // Morph cadence while outside the glade
	MazeChangeProbability float64       `yaml:"maze_change_probability"` // Per-cell flip chance
	PursuerCount          int           `yaml:"pursuer_count"`           // Adversaries on the board
	PursuerInterval       time.Duration `yaml:"pursuer_interval"`        // Pursuer decision cadence
}

// Validate checks the settings and fills derived defaults.
func (s *Settings) Validate() error {
	if s.Width < maze.MinDimension || s.Height < maze.MinDimension {
		return fmt.Errorf("%w: %dx%d, minimum %d", maze.ErrBoardTooSmall, s.Width, s.Height, maze.MinDimension)
	}
	if s.GateChangeProbability < 0 || s.GateChangeProbability > 1 ||
		s.MazeChangeProbability < 0 || s.MazeChangeProbability > 1 {
		return ErrInvalidProbability
	}
	if s.MoveDelay < 0 || s.GateChangeInterval <= 0 || s.MazeChangeInterval <= 0 ||
		s.PursuerInterval <= 0 || s.ExitChangeInterval < 0 {
		return ErrInvalidInterval
	}
	if s.PursuerCount < 0 || s.GateCount < 0 {
		return ErrInvalidCount
	}
	if s.ExitChangeInterval == 0 {
		s.ExitChangeInterval = 2 * s.GateChangeInterval
	}
	return nil
}

// Presets is a named set of difficulties.
type Presets struct {
	Default      string              `yaml:"default"`
	Difficulties map[string]Settings `yaml:"difficulties"`
}

// LoadPresets reads presets from path, or the built-in presets when path is empty.
func LoadPresets(path string) (*Presets, error) {
	if path == "" {
		return ParsePresets(defaultPresets)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading presets: %w", err)
	}
	return ParsePresets(data)
}

// ParsePresets decodes and validates YAML presets.
func ParsePresets(data []byte) (*Presets, error) {
	var p Presets
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decoding presets: %w", err)
	}
	if len(p.Difficulties) == 0 {
		return nil, errors.New("presets define no difficulty")
	}

	normalized := make(map[string]Settings, len(p.Difficulties))
	for name, s := range p.Difficulties {
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("difficulty %q: %w", name, err)
		}
		normalized[strings.ToLower(name)] = s
	}
	p.Difficulties = normalized
	p.Default = strings.ToLower(p.Default)

	if _, ok := p.Difficulties[p.Default]; !ok {
		return nil, fmt.Errorf("default difficulty %q: %w", p.Default, ErrUnknownDifficulty)
	}
	return &p, nil
}

// Lookup returns the settings of a difficulty. An empty name selects the default.
func (p *Presets) Lookup(name string) (string, Settings, error) {
	if name == "" {
		name = p.Default
	}
	name = strings.ToLower(name)
	s, ok := p.Difficulties[name]
	if !ok {
		return "", Settings{}, fmt.Errorf("%w: %s", ErrUnknownDifficulty, name)
	}
	return name, s, nil
}

// Names lists the difficulties in alphabetical order.
func (p *Presets) Names() []string {
	names := make([]string, 0, len(p.Difficulties))
	for name := range p.Difficulties {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
