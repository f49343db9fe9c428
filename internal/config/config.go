package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/aretw0/drunkard/pkg/domain"
	"github.com/aretw0/drunkard/pkg/field"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid experiment config")

// ScatterConfig sizes the final-location scatter.
type ScatterConfig struct {
	Steps  int `mapstructure:"steps" yaml:"steps" json:"steps"`
	Trials int `mapstructure:"trials" yaml:"trials" json:"trials"`
}

// TraceConfig sizes the long traced walk and the wormholes it runs through.
type TraceConfig struct {
	Steps     int                   `mapstructure:"steps" yaml:"steps" json:"steps"`
	Wormholes *field.WormholeConfig `mapstructure:"wormholes" yaml:"wormholes,omitempty" json:"wormholes,omitempty"`
}

// Experiment is the full description of a simulation run.
type Experiment struct {
	Trials   int             `mapstructure:"trials" yaml:"trials" json:"trials"`
	Steps    []int           `mapstructure:"steps" yaml:"steps" json:"steps"`
	Policies []domain.Policy `mapstructure:"policies" yaml:"policies" json:"policies"`
	// Seed of the master random source; 0 seeds from entropy.
	Seed    uint64        `mapstructure:"seed" yaml:"seed" json:"seed"`
	Workers int           `mapstructure:"workers" yaml:"workers" json:"workers"`
	Scatter ScatterConfig `mapstructure:"scatter" yaml:"scatter" json:"scatter"`
	Trace   TraceConfig   `mapstructure:"trace" yaml:"trace" json:"trace"`
	// Anomaly, when set, replaces the plain field of sweeps and scatters.
	Anomaly *field.WormholeConfig `mapstructure:"anomaly" yaml:"anomaly,omitempty" json:"anomaly,omitempty"`
}

// Default returns the classic experiment: three policies, 100 trials per
// batch, step counts from 10 to 100000, a 100-step scatter of 200 walks and a
// 1000-step trace through 500 wormholes in a 400x400 box.
func Default() Experiment {
	return Experiment{
		Trials:   100,
		Steps:    []int{10, 100, 1000, 10000, 100000},
		Policies: domain.AllPolicies(),
		Workers:  1,
		Scatter:  ScatterConfig{Steps: 100, Trials: 200},
		Trace: TraceConfig{
			Steps:     1000,
			Wormholes: &field.WormholeConfig{Holes: 500, XRange: 200, YRange: 200},
		},
	}
}

// Load reads an experiment file (YAML, or JSON by extension) on top of Default.
func Load(path string) (Experiment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Experiment{}, fmt.Errorf("failed to read experiment config: %w", err)
	}

	raw := map[string]any{}
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".json" {
		if err := json.Unmarshal(data, &raw); err != nil {
			return Experiment{}, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	} else {
		// Default to YAML
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return Experiment{}, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	}

	cfg := Default()
	if err := Decode(raw, &cfg); err != nil {
		return Experiment{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	if err := cfg.Validate(); err != nil {
		return Experiment{}, err
	}
	return cfg, nil
}

// Decode overlays the generic map m onto cfg. Keys absent from m keep their
// current value; lists in m replace lists in cfg. Unknown keys are rejected.
func Decode(m map[string]any, cfg *Experiment) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.ComposeDecodeHookFunc(policyHook),
		WeaklyTypedInput: true,
		ZeroFields:       true,
		ErrorUnused:      true,
		Result:           cfg,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(m); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

var policyType = reflect.TypeOf(domain.Policy(0))

// policyHook turns policy names into domain.Policy values.
func policyHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != policyType || from.Kind() != reflect.String {
		return data, nil
	}
	return domain.ParsePolicy(data.(string))
}

// Validate checks every field and reports the first problem.
func (e Experiment) Validate() error {
	if e.Trials <= 0 {
		return fmt.Errorf("%w: trials: %w", ErrInvalidConfig, domain.ErrInvalidTrials)
	}
	if len(e.Steps) == 0 {
		return fmt.Errorf("%w: steps: at least one step count is required", ErrInvalidConfig)
	}
	for _, s := range e.Steps {
		if s < 0 {
			return fmt.Errorf("%w: steps: %w", ErrInvalidConfig, domain.ErrInvalidSteps)
		}
	}
	if len(e.Policies) == 0 {
		return fmt.Errorf("%w: policies: at least one policy is required", ErrInvalidConfig)
	}
	for _, p := range e.Policies {
		if !p.Valid() {
			return fmt.Errorf("%w: policies: %w: %d", ErrInvalidConfig, domain.ErrUnknownPolicy, int(p))
		}
	}
	if e.Workers < 0 {
		return fmt.Errorf("%w: workers must be >= 0", ErrInvalidConfig)
	}
	if e.Scatter.Steps < 0 {
		return fmt.Errorf("%w: scatter.steps: %w", ErrInvalidConfig, domain.ErrInvalidSteps)
	}
	if e.Scatter.Trials <= 0 {
		return fmt.Errorf("%w: scatter.trials: %w", ErrInvalidConfig, domain.ErrInvalidTrials)
	}
	if e.Trace.Steps < 0 {
		return fmt.Errorf("%w: trace.steps: %w", ErrInvalidConfig, domain.ErrInvalidSteps)
	}
	if e.Trace.Wormholes != nil {
		if err := e.Trace.Wormholes.Validate(); err != nil {
			return fmt.Errorf("%w: trace.wormholes: %w", ErrInvalidConfig, err)
		}
	}
	if e.Anomaly != nil {
		if err := e.Anomaly.Validate(); err != nil {
			return fmt.Errorf("%w: anomaly: %w", ErrInvalidConfig, err)
		}
	}
	return nil
}

// WriteYAML encodes e as YAML.
func (e Experiment) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(e); err != nil {
		return err
	}
	return enc.Close()
}
