package ingest

import (
	"slices"
	"strconv"
	"strings"

	"github.com/japaniel/dictlookup/pkg/db"
)

// JMdictEntry matches the structure of jmdict-simplified entries.
type JMdictEntry struct {
	ID    string          `json:"id"`
	Kanji []JMdictElement `json:"kanji"`
	Kana  []JMdictElement `json:"kana"`
	Sense []JMdictSense   `json:"sense"`
}

type JMdictElement struct {
	Text   string   `json:"text"`
	Common bool     `json:"common"`
	Tags   []string `json:"tags"`
}

type JMdictSense struct {
	PartOfSpeech []string      `json:"partOfSpeech"`
	Gloss        []JMdictGloss `json:"gloss"`
}

type JMdictGloss struct {
	Text string `json:"text"`
	Lang string `json:"lang"`
}

// Frequencies assigned to converted JMdict entries. Lower ranks first.
const (
	commonFrequency   = 1
	uncommonFrequency = 100
)

// Entry flattens a JMdict word into a dictionary row. The first kanji
// spelling is the term and a second one the alternate term; kana-only words
// use the kana as the term. Senses become numbered definition lines.
func (e JMdictEntry) Entry() db.Entry {
	var out db.Entry
	switch {
	case len(e.Kanji) > 0:
		out.Term = e.Kanji[0].Text
		if len(e.Kanji) > 1 {
			out.AltTerm = e.Kanji[1].Text
		}
		if len(e.Kana) > 0 {
			out.Pronunciation = e.Kana[0].Text
		}
	case len(e.Kana) > 0:
		out.Term = e.Kana[0].Text
		out.Pronunciation = e.Kana[0].Text
		if len(e.Kana) > 1 {
			out.AltTerm = e.Kana[1].Text
		}
	}

	var pos []string
	var lines []string
	for i, s := range e.Sense {
		for _, p := range s.PartOfSpeech {
			if !slices.Contains(pos, p) {
				pos = append(pos, p)
			}
		}
		var glosses []string
		for _, g := range s.Gloss {
			glosses = append(glosses, g.Text)
		}
		if len(glosses) > 0 {
			lines = append(lines, strconv.Itoa(i+1)+". "+strings.Join(glosses, "; "))
		}
	}
	out.PartOfSpeech = strings.Join(pos, ",")
	out.Definition = strings.Join(lines, "\n")

	out.Frequency = uncommonFrequency
	if e.common() {
		out.Frequency = commonFrequency
	}
	return out
}

func (e JMdictEntry) common() bool {
	for _, k := range e.Kanji {
		if k.Common {
			return true
		}
	}
	for _, k := range e.Kana {
		if k.Common {
			return true
		}
	}
	return false
}
