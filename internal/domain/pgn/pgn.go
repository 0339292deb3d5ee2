package pgn

import (
	"regexp"
	"strings"
)

// Parsed — результат разбора PGN-текста: чистый список ходов и
// стартовая позиция из тегов, если она там была.
type Parsed struct {
	Tokens   []string
	StartFEN string
}

type Options struct {
	// RequireSetupTag: тег [FEN ...] принимается только вместе с [SetUp "1"]
	RequireSetupTag bool
}

var (
	tagPairRe     = regexp.MustCompile(`\[\s*([A-Za-z0-9_]+)\s+"([^"]*)"\s*\]`)
	tagAnyRe      = regexp.MustCompile(`\[[^\]]*\]`)
	braceRe       = regexp.MustCompile(`\{[^}]*\}`)
	lineCommentRe = regexp.MustCompile(`(?m);[^\n]*`)
	nagRe         = regexp.MustCompile(`\$\d+`)
	moveNumberRe  = regexp.MustCompile(`\d+\.+`)
)

var resultTokens = map[string]bool{
	"1-0":     true,
	"0-1":     true,
	"1/2-1/2": true,
	"*":       true,
}

// Tokenize sanitizes a free-form transcript into an ordered move-token list.
// The passes run in a fixed order so that later passes never see artifacts
// of earlier ones. Tokenize is pure: it never checks move legality.
func Tokenize(raw string, opts Options) Parsed {
	text := strings.ReplaceAll(raw, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	startFEN := extractStartFEN(text, opts)

	text = tagAnyRe.ReplaceAllString(text, " ")
	text = braceRe.ReplaceAllString(text, " ")
	text = lineCommentRe.ReplaceAllString(text, " ")
	text = stripVariations(text)
	text = nagRe.ReplaceAllString(text, " ")
	text = moveNumberRe.ReplaceAllString(text, " ")

	var tokens []string
	for _, field := range strings.Fields(text) {
		if resultTokens[field] {
			continue
		}
		token := strings.TrimRight(field, "!?")
		if token == "" {
			continue
		}
		tokens = append(tokens, token)
	}

	return Parsed{Tokens: tokens, StartFEN: startFEN}
}

func extractStartFEN(text string, opts Options) string {
	fen := ""
	setup := false
	for _, match := range tagPairRe.FindAllStringSubmatch(text, -1) {
		switch strings.ToLower(match[1]) {
		case "fen":
			fen = strings.TrimSpace(match[2])
		case "setup":
			setup = strings.TrimSpace(match[2]) == "1"
		}
	}
	if fen == "" {
		return ""
	}
	if opts.RequireSetupTag && !setup {
		return ""
	}
	return fen
}

// stripVariations removes parenthesized variation blocks at any nesting
// depth in a single scan. An unbalanced ')' is dropped as noise.
func stripVariations(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	depth := 0
	for _, r := range text {
		switch r {
		case '(':
			if depth == 0 {
				b.WriteRune(' ')
			}
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		default:
			if depth == 0 {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}
