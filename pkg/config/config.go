// Package config は学習パイプラインの設定を viper 経由で読み込む。
//
// 値の優先順位はフラグ > 環境変数（GDLINEAR_ 接頭辞）> 設定ファイル > 既定値。
package config

import (
	"strings"

	"github.com/YuminosukeSato/gdlinear/loss"
	"github.com/YuminosukeSato/gdlinear/pkg/errors"
	"github.com/YuminosukeSato/gdlinear/pkg/log"
	"github.com/spf13/viper"
)

// EnvPrefix は環境変数の接頭辞
const EnvPrefix = "GDLINEAR"

// 設定キー（フラグ名と同じ）
const (
	KeyData         = "data"
	KeyTarget       = "target"
	KeyLoss         = "loss"
	KeyPenalty      = "penalty"
	KeyRegCoef      = "reg-coef"
	KeyEpochs       = "epochs"
	KeyLearningRate = "learning-rate"
	KeyBatchSize    = "batch-size"
	KeyShuffle      = "shuffle"
	KeySeed         = "seed"
	KeyBias         = "bias"
	KeyDrop         = "drop"
	KeyRatio        = "ratio"
	KeyNormalize    = "normalize"
	KeyPlotDir      = "plot-dir"
	KeyLogLevel     = "log-level"
)

var keys = []string{
	KeyData, KeyTarget, KeyLoss, KeyPenalty, KeyRegCoef, KeyEpochs,
	KeyLearningRate, KeyBatchSize, KeyShuffle, KeySeed, KeyBias, KeyDrop,
	KeyRatio, KeyNormalize, KeyPlotDir, KeyLogLevel,
}

// Config は train コマンドの全設定
type Config struct {
	Data   string `mapstructure:"data"`
	Target string `mapstructure:"target"`

	Loss    string  `mapstructure:"loss"`
	Penalty string  `mapstructure:"penalty"`
	RegCoef float64 `mapstructure:"reg-coef"`

	Epochs       int     `mapstructure:"epochs"`
	LearningRate float64 `mapstructure:"learning-rate"`
	// BatchSize が0なら全バッチで学習する
	BatchSize int `mapstructure:"batch-size"`

	Shuffle bool  `mapstructure:"shuffle"`
	Seed    int64 `mapstructure:"seed"`

	// Bias が真なら "ones" 列を追加して切片として使う
	Bias      bool     `mapstructure:"bias"`
	Drop      []string `mapstructure:"drop"`
	Ratio     []string `mapstructure:"ratio"` // "name=numerator/denominator"
	Normalize bool     `mapstructure:"normalize"`

	PlotDir  string `mapstructure:"plot-dir"`
	LogLevel string `mapstructure:"log-level"`
}

// SetDefaults は既定値を登録する
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyLoss, "mse")
	v.SetDefault(KeyPenalty, "none")
	v.SetDefault(KeyRegCoef, 0.0)
	v.SetDefault(KeyEpochs, 300)
	v.SetDefault(KeyLearningRate, 1e-5)
	v.SetDefault(KeyBatchSize, 0)
	v.SetDefault(KeyShuffle, false)
	v.SetDefault(KeySeed, 0)
	v.SetDefault(KeyBias, true)
	v.SetDefault(KeyNormalize, true)
	v.SetDefault(KeyLogLevel, "info")
}

// New は環境変数を読む viper インスタンスを作成する
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	// 既定値のないキーも Unmarshal で環境変数を拾えるように登録しておく
	for _, key := range keys {
		_ = v.BindEnv(key)
	}
	SetDefaults(v)
	return v
}

// Load は file が空でなければ読み込み、v の内容を Config に展開して検証する
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config %s", file)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate は設定値を検証する
func (c *Config) Validate() error {
	if c.Data == "" {
		return errors.NewValidationError(KeyData, "path to a CSV file is required", c.Data)
	}
	if c.Target == "" {
		return errors.NewValidationError(KeyTarget, "target column is required", c.Target)
	}
	if _, err := loss.ParseBase(c.Loss); err != nil {
		return err
	}
	if _, _, err := loss.ParseKind(c.Penalty); err != nil {
		return err
	}
	if c.RegCoef < 0 {
		return errors.NewValidationError(KeyRegCoef, "must be non-negative", c.RegCoef)
	}
	if c.Epochs < 0 {
		return errors.NewValidationError(KeyEpochs, "must be non-negative", c.Epochs)
	}
	if !(c.LearningRate > 0) {
		return errors.NewValidationError(KeyLearningRate, "must be positive", c.LearningRate)
	}
	if c.BatchSize < 0 {
		return errors.NewValidationError(KeyBatchSize, "must be non-negative (0 means full batch)", c.BatchSize)
	}
	for _, r := range c.Ratio {
		if _, _, _, err := ParseRatio(r); err != nil {
			return err
		}
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Metric は設定に対応する損失関数を組み立てる。重みは学習器が結び付ける。
func (c *Config) Metric() (loss.Metric, error) {
	base, err := loss.ParseBase(c.Loss)
	if err != nil {
		return nil, err
	}
	kind, ok, err := loss.ParseKind(c.Penalty)
	if err != nil {
		return nil, err
	}
	if !ok {
		return base, nil
	}
	return loss.NewRegularized(base, kind, c.RegCoef, nil)
}

// ParseRatio は "name=numerator/denominator" を分解する
func ParseRatio(spec string) (name, numerator, denominator string, err error) {
	name, expr, found := strings.Cut(spec, "=")
	if found {
		numerator, denominator, found = strings.Cut(expr, "/")
	}
	name = strings.TrimSpace(name)
	numerator = strings.TrimSpace(numerator)
	denominator = strings.TrimSpace(denominator)
	if !found || name == "" || numerator == "" || denominator == "" {
		return "", "", "", errors.NewValidationError(KeyRatio, "expected name=numerator/denominator", spec)
	}
	return name, numerator, denominator, nil
}
