// Copyright (c) TokenFlow Authors.
// Licensed under the MIT License.

package config

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Train: DefaultTrainConfig(),
		Log:   DefaultLogConfig(),
	}
}

// DefaultTrainConfig returns the default training parameters: the regex
// variant with the GPT-4 split pattern and a small vocabulary.
func DefaultTrainConfig() TrainConfig {
	return TrainConfig{
		Variant:   "regex",
		VocabSize: 512,
		Pattern:   "",
		Verbose:   false,
		ModelDir:  "models",
		ModelName: "tokenflow",
	}
}

// DefaultLogConfig returns the default logging parameters.
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:        "info",
		Format:       "console",
		OutputPaths:  []string{"stderr"},
		EnableCaller: false,
	}
}
