package testutil

import "github.com/BaSui01/tokenflow/types"

// SpecialFixture mirrors tokenizer.SpecialToken without importing it, so
// that tokenizer's own tests can use the fixture too.
type SpecialFixture struct {
	Label string
	ID    types.Token
}

// CL100kSpecials is the cl100k_base special-token set.
var CL100kSpecials = []SpecialFixture{
	{Label: "<|endoftext|>", ID: 100257},
	{Label: "<|fim_prefix|>", ID: 100258},
	{Label: "<|fim_middle|>", ID: 100259},
	{Label: "<|fim_suffix|>", ID: 100260},
	{Label: "<|endofprompt|>", ID: 100276},
}

// LlamaText is a multi-paragraph training corpus with embedded special
// tokens, mixed punctuation, digits, and non-ASCII text.
const LlamaText = `<|endoftext|>The llama (Lama glama) is a domesticated South American camelid, widely used as a meat and pack animal by Andean cultures since the pre-Columbian era.
Llamas are social animals and live with others as a herd. Their wool is soft and contains only a small amount of lanolin. Llamas can learn simple tasks after a few repetitions. When using a pack, they can carry about 25 to 30% of their body weight for 8 to 13 km (5-8 miles). The name llama (in the past also spelled "lama" or "glama") was adopted by European settlers from native Peruvians.
The ancestors of llamas are thought to have originated from the Great Plains of North America about 40 million years ago, and subsequently migrated to South America about three million years ago during the Great American Interchange. By the end of the last ice age (10,000-12,000 years ago), camelids were extinct in North America. As of 2007, there were over seven million llamas and alpacas in South America and over 158,000 llamas and 100,000 alpacas, descended from progenitors imported late in the 20th century, in the United States and Canada.
<|fim_prefix|>In Aymara mythology, llamas are important beings. The Heavenly Llama is said to drink water from the ocean and urinates as it rains. According to Aymara eschatology,<|fim_suffix|> where they come from at the end of time.<|fim_middle|> llamas will return to the water springs and ponds<|endofprompt|>`

// ShortStrings is a set of small encode/decode inputs covering the empty
// string, a single character, and multi-script text with an emoji.
var ShortStrings = []string{
	"",
	"?",
	"hello world!!!? (안녕하세요!) lol123 😉",
}
