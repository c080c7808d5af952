package tokenizer

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BaSui01/tokenflow/bpe"
	"github.com/BaSui01/tokenflow/types"
)

// modelVersion is the first line of every model file. Load rejects anything
// else, so a format change requires a new version string.
const modelVersion = "tokenflow v1"

// Model file layout, line oriented:
//
//	tokenflow v1
//	<split pattern, empty for the basic variant>
//	<number of special tokens>
//	<label> <id>        (one per special token)
//	<left> <right>      (one per merge; id is 256 + line index)
//
// The companion .vocab file is a human-readable dump and is never parsed
// back.

// saveModel writes <prefix>.model and <prefix>.vocab under dir.
func saveModel(dir, prefix, pattern string, specials *SpecialTable, merges []bpe.MergeRule, vocab bpe.Vocab) error {
	var b strings.Builder
	fmt.Fprintln(&b, modelVersion)
	fmt.Fprintln(&b, pattern)
	fmt.Fprintln(&b, specials.Len())
	for _, tok := range specials.Tokens() {
		fmt.Fprintf(&b, "%s %d\n", tok.Label, tok.ID)
	}
	for _, rule := range merges {
		fmt.Fprintf(&b, "%d %d\n", rule.Pair.Left, rule.Pair.Right)
	}

	modelPath := filepath.Join(dir, prefix+".model")
	if err := os.WriteFile(modelPath, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write model file: %w", err)
	}
	return writeVocabDump(filepath.Join(dir, prefix+".vocab"), merges, specials, vocab)
}

// writeVocabDump renders every vocabulary entry for human inspection: merged
// tokens show their two parents, leaves and specials show only themselves.
func writeVocabDump(path string, merges []bpe.MergeRule, specials *SpecialTable, vocab bpe.Vocab) error {
	var b strings.Builder
	for i := 0; i < types.NumByteTokens; i++ {
		token, _ := vocab.Bytes(i)
		fmt.Fprintf(&b, "[%s] %d\n", bpe.RenderToken(token), i)
	}
	for _, rule := range merges {
		left, _ := vocab.Bytes(rule.Pair.Left)
		right, _ := vocab.Bytes(rule.Pair.Right)
		token, _ := vocab.Bytes(rule.ID)
		fmt.Fprintf(&b, "[%s][%s] -> [%s] %d\n",
			bpe.RenderToken(left), bpe.RenderToken(right), bpe.RenderToken(token), rule.ID)
	}
	for _, tok := range specials.Tokens() {
		fmt.Fprintf(&b, "[%s] %d\n", tok.Label, tok.ID)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write vocab file: %w", err)
	}
	return nil
}

type modelData struct {
	pattern  string
	specials []SpecialToken
	merges   []bpe.MergeRule
}

// loadModel parses a model file strictly: any truncation, malformed number,
// out-of-order merge reference, or version mismatch fails with
// MALFORMED_MODEL rather than producing a silently wrong tokenizer.
func loadModel(path string) (*modelData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, types.NewError(types.ErrMalformedModel, "read model file").WithCause(err)
	}
	lines := strings.Split(string(raw), "\n")
	idx := 0
	next := func() (string, bool) {
		if idx >= len(lines) {
			return "", false
		}
		line := lines[idx]
		idx++
		return line, true
	}

	version, ok := next()
	if !ok || version != modelVersion {
		return nil, types.Errorf(types.ErrMalformedModel, "unsupported model version %q", version)
	}

	pattern, ok := next()
	if !ok {
		return nil, types.NewError(types.ErrMalformedModel, "missing pattern line")
	}

	countLine, ok := next()
	if !ok {
		return nil, types.NewError(types.ErrMalformedModel, "missing special-token count")
	}
	numSpecials, err := strconv.Atoi(strings.TrimSpace(countLine))
	if err != nil || numSpecials < 0 {
		return nil, types.Errorf(types.ErrMalformedModel, "invalid special-token count %q", countLine)
	}

	md := &modelData{pattern: pattern}
	for i := 0; i < numSpecials; i++ {
		line, ok := next()
		if !ok {
			return nil, types.Errorf(types.ErrMalformedModel, "missing special token line %d", i)
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, types.Errorf(types.ErrMalformedModel, "invalid special token line %q", line)
		}
		id, err := strconv.Atoi(fields[1])
		if err != nil || id < 0 {
			return nil, types.Errorf(types.ErrMalformedModel, "invalid special token id %q", fields[1])
		}
		md.specials = append(md.specials, SpecialToken{Label: fields[0], ID: id})
	}

	// The remaining lines are merges; ids are implied by position. Blank
	// lines are allowed only at the end of the file.
	sawBlank := false
	for {
		line, ok := next()
		if !ok {
			break
		}
		if strings.TrimSpace(line) == "" {
			sawBlank = true
			continue
		}
		if sawBlank {
			return nil, types.NewError(types.ErrMalformedModel, "blank line inside merge list")
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, types.Errorf(types.ErrMalformedModel, "invalid merge line %q", line)
		}
		left, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, types.Errorf(types.ErrMalformedModel, "invalid merge id %q", fields[0])
		}
		right, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, types.Errorf(types.ErrMalformedModel, "invalid merge id %q", fields[1])
		}
		id := types.FirstMergeID + len(md.merges)
		if left < 0 || left >= id || right < 0 || right >= id {
			return nil, types.Errorf(types.ErrMalformedModel,
				"merge %d references id outside [0,%d): %d %d", id, id, left, right)
		}
		md.merges = append(md.merges, bpe.MergeRule{
			Pair: bpe.Pair{Left: left, Right: right},
			ID:   id,
		})
	}

	return md, nil
}

// Load reads a model file and reconstructs the matching variant: a model
// without a split pattern loads as *Basic, anything else as *Regex. The
// result is bit-identical to the saved tokenizer.
func Load(path string, opts ...Option) (Tokenizer, error) {
	md, err := loadModel(path)
	if err != nil {
		return nil, err
	}
	if md.pattern == "" {
		if len(md.specials) > 0 {
			return nil, types.NewError(types.ErrMalformedModel,
				"model without split pattern cannot carry special tokens")
		}
		return basicFromModel(md, opts)
	}
	return NewRegexFromModel(md.pattern, md.merges, md.specials, opts...)
}

// LoadBasic reads a model file saved by a *Basic tokenizer.
func LoadBasic(path string, opts ...Option) (*Basic, error) {
	t, err := Load(path, opts...)
	if err != nil {
		return nil, err
	}
	b, ok := t.(*Basic)
	if !ok {
		return nil, types.NewError(types.ErrMalformedModel, "model file carries a split pattern; load it with LoadRegex")
	}
	return b, nil
}

// LoadRegex reads a model file saved by a *Regex tokenizer.
func LoadRegex(path string, opts ...Option) (*Regex, error) {
	t, err := Load(path, opts...)
	if err != nil {
		return nil, err
	}
	r, ok := t.(*Regex)
	if !ok {
		return nil, types.NewError(types.ErrMalformedModel, "model file has no split pattern; load it with LoadBasic")
	}
	return r, nil
}

func basicFromModel(md *modelData, opts []Option) (*Basic, error) {
	vocab, err := bpe.BuildVocab(md.merges)
	if err != nil {
		return nil, err
	}
	t := NewBasic(opts...)
	t.merges = newMergeTable(md.merges)
	t.vocab = vocab
	return t, nil
}
