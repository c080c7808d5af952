// Package bpe implements the byte-pair-encoding core primitives: adjacent
// pair counting, deterministic best-pair selection, the single-pass merge
// rewrite, and vocabulary reconstruction from an ordered merge list.
//
// Everything in this package is pure and deterministic. Callers that need
// chunking, special tokens, or persistence compose these primitives from the
// tokenizer package.
package bpe
