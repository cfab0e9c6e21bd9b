// Package synonym derives engine synonym entries from record keywords.
package synonym

import (
	"unicode"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

func InitTokenizer() (*tokenizer.Tokenizer, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ContainsCJK reports whether text carries CJK characters that need
// morphological segmentation before the engine can match them.
func ContainsCJK(text string) bool {
	for _, r := range text {
		if unicode.In(r, unicode.Hiragana, unicode.Katakana, unicode.Han) {
			return true
		}
	}
	return false
}

// FromKeywords maps each CJK keyword to its token segmentation so a query
// for any token matches documents carrying the full keyword. Non-CJK
// keywords are already tokenized by the engine and are left alone.
func FromKeywords(t *tokenizer.Tokenizer, keywords []string) map[string][]string {
	result := make(map[string][]string)
	if t == nil {
		return result
	}

	for _, kw := range keywords {
		if kw == "" || !ContainsCJK(kw) {
			continue
		}
		tokens := t.Wakati(kw)
		if len(tokens) < 2 {
			continue
		}
		result[kw] = tokens
	}
	return result
}
