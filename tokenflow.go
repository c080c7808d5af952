// Package tokenflow provides a top-level convenience entry point for the BPE
// tokenizer suite.
//
// Usage:
//
//	import "github.com/BaSui01/tokenflow"
//
//	tok := tokenflow.NewBasic()
//	tok, err := tokenflow.NewRegex("")
//	tok, err := tokenflow.NewCL100kBase()
//	tok, err := tokenflow.Load("models/demo.model")
//
// This is a thin wrapper over the tokenizer and gpt4 packages; both produce
// identical results. Use this package when you prefer the shorter import
// path.
package tokenflow

import (
	"github.com/BaSui01/tokenflow/gpt4"
	"github.com/BaSui01/tokenflow/tokenizer"
	"github.com/BaSui01/tokenflow/types"
)

// Token is a token id: 0-255 are raw bytes, 256 and up are merges.
type Token = types.Token

// Tokenizer is the capability surface shared by all variants.
type Tokenizer = tokenizer.Tokenizer

// SpecialToken is a reserved, non-mergeable label/id entry.
type SpecialToken = tokenizer.SpecialToken

// SpecialsPolicy controls how Encode treats registered special-token text.
type SpecialsPolicy = tokenizer.SpecialsPolicy

// Option configures a tokenizer at construction time.
type Option = tokenizer.Option

// NewBasic creates an untrained byte-level BPE tokenizer.
func NewBasic(opts ...Option) *tokenizer.Basic {
	return tokenizer.NewBasic(opts...)
}

// NewRegex creates an untrained regex-chunked BPE tokenizer. An empty pattern
// selects the GPT-4 split pattern.
func NewRegex(pattern string, opts ...Option) (*tokenizer.Regex, error) {
	return tokenizer.NewRegex(pattern, opts...)
}

// NewCL100kBase builds the pretrained cl100k_base tokenizer from embedded
// data.
func NewCL100kBase(opts ...Option) (*gpt4.Tokenizer, error) {
	return gpt4.NewCL100kBase(opts...)
}

// Load reads a model file and reconstructs the matching variant.
func Load(path string, opts ...Option) (Tokenizer, error) {
	return tokenizer.Load(path, opts...)
}

// Re-export the encode policies and common options so callers never need to
// import tokenizer/.

// ForbidSpecials fails encoding when registered special-token text occurs.
var ForbidSpecials = tokenizer.ForbidSpecials

// AllowAllSpecials encodes every registered special occurrence atomically.
var AllowAllSpecials = tokenizer.AllowAllSpecials

// IgnoreSpecials treats special-token text as ordinary text.
var IgnoreSpecials = tokenizer.IgnoreSpecials

// AllowSpecials admits only the listed labels.
var AllowSpecials = tokenizer.AllowSpecials

// WithLogger sets the zap logger used for training progress.
var WithLogger = tokenizer.WithLogger
