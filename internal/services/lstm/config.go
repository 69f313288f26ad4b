package lstm

import "fmt"

// Config describes the network shape and the training schedule.
type Config struct {
	SequenceLength int     `yaml:"sequence_length"`
	HiddenUnits    int     `yaml:"hidden_units"`
	Layers         int     `yaml:"layers"`
	Dropout        float64 `yaml:"dropout"`
	Epochs         int     `yaml:"epochs"`
	BatchSize      int     `yaml:"batch_size"`
	LearningRate   float64 `yaml:"learning_rate"`
	Beta1          float64 `yaml:"beta1"`
	Beta2          float64 `yaml:"beta2"`
	Epsilon        float64 `yaml:"epsilon"`
	// Seed fixes weight init and dropout masks. Zero seeds from the clock,
	// which makes training non-reproducible.
	Seed int64 `yaml:"seed"`
}

// DefaultConfig: three 100-unit layers, dropout 0.2 between them, 100 epochs of
// Adam over batches of 32.
func DefaultConfig() Config {
	return Config{
		SequenceLength: 45,
		HiddenUnits:    100,
		Layers:         3,
		Dropout:        0.2,
		Epochs:         100,
		BatchSize:      32,
		LearningRate:   0.001,
		Beta1:          0.9,
		Beta2:          0.999,
		Epsilon:        1e-7,
	}
}

// WithDefaults fills zero-valued fields from DefaultConfig. Dropout and Seed
// keep their zero values.
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	if c.SequenceLength == 0 {
		c.SequenceLength = d.SequenceLength
	}
	if c.HiddenUnits == 0 {
		c.HiddenUnits = d.HiddenUnits
	}
	if c.Layers == 0 {
		c.Layers = d.Layers
	}
	if c.Epochs == 0 {
		c.Epochs = d.Epochs
	}
	if c.BatchSize == 0 {
		c.BatchSize = d.BatchSize
	}
	if c.LearningRate == 0 {
		c.LearningRate = d.LearningRate
	}
	if c.Beta1 == 0 {
		c.Beta1 = d.Beta1
	}
	if c.Beta2 == 0 {
		c.Beta2 = d.Beta2
	}
	if c.Epsilon == 0 {
		c.Epsilon = d.Epsilon
	}
	return c
}

// Validate checks that the config describes a trainable network.
func (c Config) Validate() error {
	if c.SequenceLength < 1 {
		return fmt.Errorf("sequence_length must be positive, got %d", c.SequenceLength)
	}
	if c.HiddenUnits < 1 {
		return fmt.Errorf("hidden_units must be positive, got %d", c.HiddenUnits)
	}
	if c.Layers < 1 {
		return fmt.Errorf("layers must be positive, got %d", c.Layers)
	}
	if c.Dropout < 0 || c.Dropout >= 1 {
		return fmt.Errorf("dropout must be in [0,1), got %g", c.Dropout)
	}
	if c.Epochs < 1 {
		return fmt.Errorf("epochs must be positive, got %d", c.Epochs)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("batch_size must be positive, got %d", c.BatchSize)
	}
	if c.LearningRate <= 0 {
		return fmt.Errorf("learning_rate must be positive, got %g", c.LearningRate)
	}
	return nil
}
