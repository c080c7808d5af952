// Copyright (c) TokenFlow Authors.
// Licensed under the MIT License.

package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/BaSui01/tokenflow/config"
	"github.com/BaSui01/tokenflow/tokenizer"
)

// Version information, injected at build time.
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "train":
		runTrain(os.Args[2:])
	case "encode":
		runEncode(os.Args[2:])
	case "decode":
		runDecode(os.Args[2:])
	case "version":
		printVersion()
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func runTrain(args []string) {
	fs := flag.NewFlagSet("train", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to config file")
	inputPath := fs.String("input", "", "Path to the training text")
	vocabSize := fs.Int("vocab-size", 0, "Target vocabulary size (overrides config)")
	variant := fs.String("variant", "", "Tokenizer variant: basic or regex (overrides config)")
	verbose := fs.Bool("verbose", false, "Log every merge")
	fs.Parse(args)

	if *inputPath == "" {
		fmt.Fprintln(os.Stderr, "train: --input is required")
		os.Exit(1)
	}

	loader := config.NewLoader()
	if *configPath != "" {
		loader = loader.WithConfigPath(*configPath)
	}
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *vocabSize != 0 {
		cfg.Train.VocabSize = *vocabSize
	}
	if *variant != "" {
		cfg.Train.Variant = *variant
	}
	if *verbose {
		cfg.Train.Verbose = true
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := initLogger(cfg.Log)
	defer logger.Sync()

	text, err := os.ReadFile(*inputPath)
	if err != nil {
		logger.Fatal("Failed to read training text", zap.Error(err))
	}

	tok, err := buildTrainable(cfg.Train)
	if err != nil {
		logger.Fatal("Failed to build tokenizer", zap.Error(err))
	}

	logger.Info("Training",
		zap.String("variant", cfg.Train.Variant),
		zap.Int("vocab_size", cfg.Train.VocabSize),
		zap.Int("input_bytes", len(text)),
	)
	if err := tok.Train(string(text), cfg.Train.VocabSize, cfg.Train.Verbose); err != nil {
		logger.Fatal("Training failed", zap.Error(err))
	}

	if err := os.MkdirAll(cfg.Train.ModelDir, 0o755); err != nil {
		logger.Fatal("Failed to create model directory", zap.Error(err))
	}
	saver, ok := tok.(tokenizer.Persistable)
	if !ok {
		logger.Fatal("Tokenizer cannot be persisted")
	}
	if err := saver.Save(cfg.Train.ModelDir, cfg.Train.ModelName); err != nil {
		logger.Fatal("Failed to save model", zap.Error(err))
	}

	logger.Info("Model saved",
		zap.String("dir", cfg.Train.ModelDir),
		zap.String("name", cfg.Train.ModelName),
		zap.Int("merges", len(tok.Merges())),
	)
}

// buildTrainable constructs the configured tokenizer variant with specials
// registered.
func buildTrainable(cfg config.TrainConfig) (tokenizer.Trainable, error) {
	if cfg.Variant == "basic" {
		return tokenizer.NewBasic(), nil
	}
	tok, err := tokenizer.NewRegex(cfg.Pattern)
	if err != nil {
		return nil, err
	}
	for _, s := range cfg.Specials {
		if err := tok.RegisterSpecials(tokenizer.SpecialToken{Label: s.Label, ID: s.ID}); err != nil {
			return nil, err
		}
	}
	return tok, nil
}

func runEncode(args []string) {
	fs := flag.NewFlagSet("encode", flag.ExitOnError)
	modelPath := fs.String("model", "", "Path to a .model file")
	text := fs.String("text", "", "Text to encode")
	inputPath := fs.String("input", "", "Read the text from a file instead")
	specials := fs.String("specials", "forbid", "Special-token policy: forbid, all, ignore, or a comma-separated label list")
	fs.Parse(args)

	tok := loadTokenizer(*modelPath)
	input := readText(*text, *inputPath)

	policy, err := parsePolicy(*specials)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var ids []int
	switch t := tok.(type) {
	case *tokenizer.Regex:
		ids, err = t.EncodeWithSpecials(input, policy)
	default:
		ids, err = tok.Encode(input)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Encode failed: %v\n", err)
		os.Exit(1)
	}

	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = strconv.Itoa(id)
	}
	fmt.Println(strings.Join(out, " "))
}

func runDecode(args []string) {
	fs := flag.NewFlagSet("decode", flag.ExitOnError)
	modelPath := fs.String("model", "", "Path to a .model file")
	fs.Parse(args)

	tok := loadTokenizer(*modelPath)

	ids := make([]int, 0, fs.NArg())
	for _, arg := range fs.Args() {
		for _, field := range strings.Fields(arg) {
			id, err := strconv.Atoi(field)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Invalid token id %q\n", field)
				os.Exit(1)
			}
			ids = append(ids, id)
		}
	}

	text, err := tok.Decode(ids)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Decode failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(text)
}

func loadTokenizer(path string) tokenizer.Tokenizer {
	if path == "" {
		fmt.Fprintln(os.Stderr, "--model is required")
		os.Exit(1)
	}
	tok, err := tokenizer.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load model: %v\n", err)
		os.Exit(1)
	}
	return tok
}

func readText(text, inputPath string) string {
	if inputPath != "" {
		data, err := os.ReadFile(inputPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to read input: %v\n", err)
			os.Exit(1)
		}
		return string(data)
	}
	return text
}

func parsePolicy(spec string) (tokenizer.SpecialsPolicy, error) {
	switch spec {
	case "forbid", "":
		return tokenizer.ForbidSpecials, nil
	case "all":
		return tokenizer.AllowAllSpecials, nil
	case "ignore":
		return tokenizer.IgnoreSpecials, nil
	default:
		labels := strings.Split(spec, ",")
		for i := range labels {
			labels[i] = strings.TrimSpace(labels[i])
			if labels[i] == "" {
				return tokenizer.SpecialsPolicy{}, fmt.Errorf("invalid specials policy %q", spec)
			}
		}
		return tokenizer.AllowSpecials(labels...), nil
	}
}

func initLogger(cfg config.LogConfig) *zap.Logger {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var encoderConfig zapcore.EncoderConfig
	if cfg.Format == "console" {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		encoderConfig = zap.NewProductionEncoderConfig()
		encoderConfig.TimeKey = "timestamp"
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	zapConfig := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      cfg.Format == "console",
		Encoding:         cfg.Format,
		EncoderConfig:    encoderConfig,
		OutputPaths:      cfg.OutputPaths,
		ErrorOutputPaths: []string{"stderr"},
	}

	opts := []zap.Option{zap.AddStacktrace(zapcore.ErrorLevel)}
	if cfg.EnableCaller {
		opts = append(opts, zap.AddCaller())
	}

	logger, err := zapConfig.Build(opts...)
	if err != nil {
		logger, _ = zap.NewProduction()
	}
	return logger
}

func printVersion() {
	fmt.Printf("TokenFlow %s\n", Version)
	fmt.Printf("  Build Time: %s\n", BuildTime)
	fmt.Printf("  Git Commit: %s\n", GitCommit)
}

func printUsage() {
	fmt.Println(`TokenFlow - BPE tokenizer toolkit

Usage:
  tokenflow <command> [options]

Commands:
  train     Train a tokenizer and save the model
  encode    Encode text into token ids
  decode    Decode token ids into text
  version   Show version information
  help      Show this help message

Options for 'train':
  --input <path>       Training text file (required)
  --config <path>      Configuration file (YAML)
  --vocab-size <n>     Target vocabulary size (> 256)
  --variant <name>     basic or regex
  --verbose            Log every merge

Options for 'encode':
  --model <path>       Model file (required)
  --text <s>           Text to encode
  --input <path>       Read the text from a file
  --specials <policy>  forbid | all | ignore | label,label,...

Options for 'decode':
  --model <path>       Model file (required)
  <id> ...             Token ids`)
}
