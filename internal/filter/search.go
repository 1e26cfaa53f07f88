package filter

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// minTrigramRunes is the shortest term the trigram index can match
const minTrigramRunes = 3

func (c *Compiler) search(b *builder, raw string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return
	}

	like := "%" + EscapeLike(raw) + "%"
	tagMatch := tagExists(`t.name LIKE ? ESCAPE '\'`)

	if c.FTS {
		if expr := MatchExpr(raw); expr != "" {
			b.add("i.id IN (SELECT rowid FROM ideas_fts WHERE ideas_fts MATCH ?) OR "+tagMatch, expr, like)
			return
		}
	}

	b.add(`i.title LIKE ? ESCAPE '\' OR i.content LIKE ? ESCAPE '\' OR `+tagMatch, like, like, like)
}

// MatchExpr turns free text into an FTS5 trigram expression: every word
// becomes a quoted substring term, terms are AND-ed. Operators typed by the
// user are inert. Words without letters or digits are dropped. A word shorter
// than three characters has no trigram, so the whole query returns "" and
// the caller falls back to LIKE.
func MatchExpr(raw string) string {
	words := strings.Fields(raw)
	terms := make([]string, 0, len(words))
	for _, w := range words {
		if !strings.ContainsFunc(w, isWordRune) {
			continue
		}
		if utf8.RuneCountInString(w) < minTrigramRunes {
			return ""
		}
		w = strings.ReplaceAll(w, `"`, `""`)
		terms = append(terms, `"`+w+`"`)
	}
	return strings.Join(terms, " ")
}

// EscapeLike escapes LIKE wildcards with a backslash
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
