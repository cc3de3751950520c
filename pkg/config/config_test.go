package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/YuminosukeSato/gdlinear/loss"
	"github.com/YuminosukeSato/gdlinear/pkg/errors"
)

func TestLoad_Defaults(t *testing.T) {
	v := New()
	v.Set(KeyData, "housing.csv")
	v.Set(KeyTarget, "median_house_value")

	cfg, err := Load(v, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Loss != "mse" || cfg.Penalty != "none" {
		t.Errorf("loss=%q penalty=%q", cfg.Loss, cfg.Penalty)
	}
	if cfg.Epochs != 300 || cfg.LearningRate != 1e-5 {
		t.Errorf("epochs=%d learning rate=%v", cfg.Epochs, cfg.LearningRate)
	}
	if !cfg.Bias || !cfg.Normalize || cfg.BatchSize != 0 {
		t.Errorf("bias=%v normalize=%v batch=%d", cfg.Bias, cfg.Normalize, cfg.BatchSize)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "train.yaml")
	content := `data: data.csv
target: y
loss: mae
penalty: l2
reg-coef: 0.1
epochs: 50
learning-rate: 0.01
batch-size: 16
drop:
  - id
ratio:
  - density=population/households
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(New(), path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Loss != "mae" || cfg.Penalty != "l2" || cfg.RegCoef != 0.1 {
		t.Errorf("loss settings = %+v", cfg)
	}
	if cfg.Epochs != 50 || cfg.BatchSize != 16 {
		t.Errorf("epochs=%d batch=%d", cfg.Epochs, cfg.BatchSize)
	}
	if len(cfg.Drop) != 1 || cfg.Drop[0] != "id" {
		t.Errorf("drop = %v", cfg.Drop)
	}

	m, err := cfg.Metric()
	if err != nil {
		t.Fatalf("Metric: %v", err)
	}
	reg, ok := m.(*loss.Regularized)
	if !ok || reg.Kind() != loss.L2 || reg.Coefficient() != 0.1 {
		t.Errorf("Metric() = %#v", m)
	}
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("GDLINEAR_DATA", "env.csv")
	t.Setenv("GDLINEAR_TARGET", "price")
	t.Setenv("GDLINEAR_LEARNING_RATE", "0.5")

	cfg, err := Load(New(), "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Data != "env.csv" || cfg.Target != "price" || cfg.LearningRate != 0.5 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Data: "d.csv", Target: "y", Loss: "mse", Penalty: "none",
			Epochs: 10, LearningRate: 0.1, LogLevel: "info",
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing data", func(c *Config) { c.Data = "" }},
		{"missing target", func(c *Config) { c.Target = "" }},
		{"unknown loss", func(c *Config) { c.Loss = "huber" }},
		{"unknown penalty", func(c *Config) { c.Penalty = "elastic" }},
		{"negative coef", func(c *Config) { c.RegCoef = -1 }},
		{"negative epochs", func(c *Config) { c.Epochs = -1 }},
		{"zero learning rate", func(c *Config) { c.LearningRate = 0 }},
		{"negative batch", func(c *Config) { c.BatchSize = -2 }},
		{"bad ratio", func(c *Config) { c.Ratio = []string{"density"} }},
		{"bad log level", func(c *Config) { c.LogLevel = "trace" }},
	}

	base := valid()
	if err := base.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			var valErr *errors.ValidationError
			if err := cfg.Validate(); !errors.As(err, &valErr) {
				t.Errorf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestParseRatio(t *testing.T) {
	name, num, den, err := ParseRatio(" density = population / households ")
	if err != nil {
		t.Fatalf("ParseRatio: %v", err)
	}
	if name != "density" || num != "population" || den != "households" {
		t.Errorf("got %q %q %q", name, num, den)
	}

	for _, bad := range []string{"", "a=b", "=b/c", "a=/c", "a=b/"} {
		if _, _, _, err := ParseRatio(bad); err == nil {
			t.Errorf("ParseRatio(%q) should fail", bad)
		}
	}
}
