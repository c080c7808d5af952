package tokenizer

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/BaSui01/tokenflow/types"
)

// SpecialToken is a reserved, non-mergeable label/id entry.
type SpecialToken struct {
	Label string
	ID    types.Token
}

// SpecialTable is an ordered special-token registry with bidirectional
// lookup. A nil *SpecialTable behaves as an empty one.
type SpecialTable struct {
	ordered []SpecialToken
	byLabel map[string]types.Token
	byID    map[types.Token]string
}

// NewSpecialTable builds a registry from the given tokens, preserving their
// order. Duplicate labels or ids fail with SPECIAL_TOKEN_COLLISION.
func NewSpecialTable(tokens ...SpecialToken) (*SpecialTable, error) {
	t := &SpecialTable{
		byLabel: make(map[string]types.Token, len(tokens)),
		byID:    make(map[types.Token]string, len(tokens)),
	}
	for _, tok := range tokens {
		if err := t.add(tok); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (t *SpecialTable) add(tok SpecialToken) error {
	if tok.Label == "" || strings.IndexFunc(tok.Label, unicode.IsSpace) >= 0 {
		return fmt.Errorf("special token label %q must be non-empty and contain no whitespace", tok.Label)
	}
	if tok.ID < 0 {
		return fmt.Errorf("special token %q has negative id %d", tok.Label, tok.ID)
	}
	if _, ok := t.byLabel[tok.Label]; ok {
		return types.Errorf(types.ErrSpecialTokenCollision, "label %q registered twice", tok.Label)
	}
	if label, ok := t.byID[tok.ID]; ok {
		return types.Errorf(types.ErrSpecialTokenCollision, "id %d used by both %q and %q", tok.ID, label, tok.Label)
	}
	t.ordered = append(t.ordered, tok)
	t.byLabel[tok.Label] = tok.ID
	t.byID[tok.ID] = tok.Label
	return nil
}

// Len returns the number of registered specials.
func (t *SpecialTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.ordered)
}

// Tokens returns the registered specials in registration order.
func (t *SpecialTable) Tokens() []SpecialToken {
	if t == nil {
		return nil
	}
	out := make([]SpecialToken, len(t.ordered))
	copy(out, t.ordered)
	return out
}

// ID returns the id registered for label.
func (t *SpecialTable) ID(label string) (types.Token, bool) {
	if t == nil {
		return 0, false
	}
	id, ok := t.byLabel[label]
	return id, ok
}

// Label returns the label registered for id.
func (t *SpecialTable) Label(id types.Token) (string, bool) {
	if t == nil {
		return "", false
	}
	label, ok := t.byID[id]
	return label, ok
}

// subset keeps only the given labels, preserving registration order.
func (t *SpecialTable) subset(labels map[string]struct{}) *SpecialTable {
	if t == nil || len(labels) == 0 {
		return nil
	}
	var kept []SpecialToken
	for _, tok := range t.ordered {
		if _, ok := labels[tok.Label]; ok {
			kept = append(kept, tok)
		}
	}
	sub, err := NewSpecialTable(kept...)
	if err != nil {
		// Entries were already validated on their way into t.
		return nil
	}
	return sub
}

// segment is one piece of pre-chunked text: either a literal run or an
// atomic special-token hit.
type segment struct {
	text    string
	special bool
}

// splitSpecials cuts text at every exact occurrence of a registered special
// label. Matches are resolved leftmost-first; when two labels match at the
// same offset the longer one wins. Special segments are atomic: they are
// never pattern-split or merged.
func splitSpecials(text string, table *SpecialTable) []segment {
	if table.Len() == 0 {
		if text == "" {
			return nil
		}
		return []segment{{text: text}}
	}

	var segs []segment
	for len(text) > 0 {
		bestIdx := -1
		bestLabel := ""
		for _, tok := range table.ordered {
			idx := strings.Index(text, tok.Label)
			if idx < 0 {
				continue
			}
			if bestIdx == -1 || idx < bestIdx || (idx == bestIdx && len(tok.Label) > len(bestLabel)) {
				bestIdx = idx
				bestLabel = tok.Label
			}
		}
		if bestIdx == -1 {
			segs = append(segs, segment{text: text})
			break
		}
		if bestIdx > 0 {
			segs = append(segs, segment{text: text[:bestIdx]})
		}
		segs = append(segs, segment{text: bestLabel, special: true})
		text = text[bestIdx+len(bestLabel):]
	}
	return segs
}

type specialsMode int

const (
	specialsForbid specialsMode = iota
	specialsAllowAll
	specialsIgnore
	specialsAllowSet
)

// SpecialsPolicy controls how Encode treats registered special-token text.
type SpecialsPolicy struct {
	mode specialsMode
	set  map[string]struct{}
}

var (
	// ForbidSpecials fails encoding with DISALLOWED_SPECIAL when any
	// registered special-token string occurs in the input. This is the
	// default, matching tiktoken.
	ForbidSpecials = SpecialsPolicy{mode: specialsForbid}

	// AllowAllSpecials encodes every registered special-token occurrence as
	// its atomic id.
	AllowAllSpecials = SpecialsPolicy{mode: specialsAllowAll}

	// IgnoreSpecials treats special-token text as ordinary text.
	IgnoreSpecials = SpecialsPolicy{mode: specialsIgnore}
)

// AllowSpecials admits only the listed labels; other registered specials
// present in the input are treated as ordinary text.
func AllowSpecials(labels ...string) SpecialsPolicy {
	set := make(map[string]struct{}, len(labels))
	for _, label := range labels {
		set[label] = struct{}{}
	}
	return SpecialsPolicy{mode: specialsAllowSet, set: set}
}

// active resolves the policy against the registered table and the input
// text: it returns the specials admitted for atomic encoding, or an error
// under ForbidSpecials when a registered special is present.
func (p SpecialsPolicy) active(table *SpecialTable, text string) (*SpecialTable, error) {
	switch p.mode {
	case specialsAllowAll:
		return table, nil
	case specialsIgnore:
		return nil, nil
	case specialsAllowSet:
		return table.subset(p.set), nil
	default:
		for _, tok := range table.Tokens() {
			if strings.Contains(text, tok.Label) {
				return nil, types.Errorf(types.ErrDisallowedSpecial,
					"special token %q found in text and policy forbids it", tok.Label)
			}
		}
		return nil, nil
	}
}
