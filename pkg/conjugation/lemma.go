package conjugation

import (
	"strings"
	"unicode/utf8"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// Lemmatizer proposes dictionary forms for a term beyond what suffix rules find.
type Lemmatizer interface {
	Lemmas(term string) []string
}

// KagomeLemmatizer derives Japanese dictionary forms with the kagome IPA tokenizer.
type KagomeLemmatizer struct {
	t *tokenizer.Tokenizer
}

// NewKagomeLemmatizer loads the IPA dictionary. This is slow; create one per process.
func NewKagomeLemmatizer() (*KagomeLemmatizer, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, err
	}
	return &KagomeLemmatizer{t: t}, nil
}

// IPA feature layout:
// 0 part of speech, 1-3 sub POS, 4 conjugation type, 5 conjugation form,
// 6 base form, 7 reading, 8 pronunciation.
const (
	featPOS      = 0
	featBaseForm = 6
)

// Lemmas returns the term with its first conjugating word put back into
// dictionary form (e.g. 食べさせられた -> 食べる, 勉強した -> 勉強する) and the
// hiragana spelling of katakana input.
func (k *KagomeLemmatizer) Lemmas(term string) []string {
	var out []string
	add := func(s string) {
		if s == term || utf8.RuneCountInString(s) <= 1 {
			return
		}
		for _, o := range out {
			if o == s {
				return
			}
		}
		out = append(out, s)
	}

	var head strings.Builder
	for _, tok := range k.t.Tokenize(term) {
		if tok.Class == tokenizer.DUMMY || strings.TrimSpace(tok.Surface) == "" {
			continue
		}
		features := tok.Features()
		if len(features) > featBaseForm && conjugates(features[featPOS]) && features[featBaseForm] != "*" {
			add(head.String() + features[featBaseForm])
			break
		}
		head.WriteString(tok.Surface)
	}

	add(ToHiragana(term))
	return out
}

func conjugates(pos string) bool {
	return pos == "動詞" || pos == "形容詞" || pos == "助動詞"
}

// ToHiragana converts Katakana to Hiragana.
func ToHiragana(s string) string {
	runes := []rune(s)
	for i, r := range runes {
		if r >= 0x30A1 && r <= 0x30F6 {
			runes[i] = r - 0x60
		}
	}
	return string(runes)
}
