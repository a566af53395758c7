package engine

import (
	"regexp"

	"github.com/samber/lo"
)

// keywordUse is one :keyword token in the original source. Line and Col are
// 1-based and point at the colon.
type keywordUse struct {
	Name string
	Line int
	Col  int
}

// script is wall source rewritten for zygomys, plus where each keyword was
// written so builtin errors can be traced back to the source.
type script struct {
	text     string
	keywords []keywordUse
}

// rewriter scans wall source once and emits zygomys source:
//
//   - :keyword becomes the string "__kw_keyword", so keywords need no global
//     symbols and never clash with user variables.
//   - kebab-case identifiers become snake_case, since zygomys reads a
//     hyphen as subtraction.
//   - ; comments become // comments.
//
// String literals and comments are copied untouched. Newlines are never
// added or removed, so zygomys line numbers match the original source.
type rewriter struct {
	src      []byte
	out      []byte
	pos      int
	line     int
	col      int
	keywords []keywordUse
}

// prepare rewrites source for zygomys.
func prepare(source string) *script {
	r := &rewriter{
		src:  []byte(source),
		out:  make([]byte, 0, len(source)+len(source)/4),
		line: 1,
		col:  1,
	}
	r.run()
	return &script{text: string(r.out), keywords: r.keywords}
}

// preprocessSource returns only the rewritten text.
func preprocessSource(source string) string {
	return prepare(source).text
}

func (r *rewriter) run() {
	for r.pos < len(r.src) {
		switch c := r.src[r.pos]; {
		case c == '"':
			r.quoted('"', true)
		case c == '`':
			r.quoted('`', false)
		case c == ';':
			r.comment()
		case c == ':' && r.peek(1) == '=':
			r.copy(2)
		case c == ':' && isLetter(r.peek(1)):
			r.keyword()
		case c == '-' && r.pos > 0 && isIdentChar(r.src[r.pos-1]) && isLetter(r.peek(1)):
			r.emit('_')
			r.advance()
		default:
			r.copy(1)
		}
	}
}

func (r *rewriter) peek(off int) byte {
	if r.pos+off < len(r.src) {
		return r.src[r.pos+off]
	}
	return 0
}

// advance moves past one input byte, keeping line and column current.
func (r *rewriter) advance() {
	if r.src[r.pos] == '\n' {
		r.line++
		r.col = 1
	} else {
		r.col++
	}
	r.pos++
}

func (r *rewriter) emit(b ...byte) {
	r.out = append(r.out, b...)
}

// copy passes n input bytes through unchanged.
func (r *rewriter) copy(n int) {
	for ; n > 0 && r.pos < len(r.src); n-- {
		r.emit(r.src[r.pos])
		r.advance()
	}
}

// quoted copies a string literal including both delimiters. An unterminated
// literal runs to the end of input and is left for zygomys to reject.
func (r *rewriter) quoted(delim byte, escapes bool) {
	r.copy(1)
	for r.pos < len(r.src) && r.src[r.pos] != delim {
		if escapes && r.src[r.pos] == '\\' {
			r.copy(2)
			continue
		}
		r.copy(1)
	}
	r.copy(1)
}

// comment turns a run of semicolons into // and copies the rest of the line.
func (r *rewriter) comment() {
	r.emit('/', '/')
	for r.pos < len(r.src) && r.src[r.pos] == ';' {
		r.advance()
	}
	for r.pos < len(r.src) && r.src[r.pos] != '\n' {
		r.copy(1)
	}
}

func (r *rewriter) keyword() {
	use := keywordUse{Line: r.line, Col: r.col}
	r.advance()
	start := r.pos
	for r.pos < len(r.src) && isKWChar(r.src[r.pos]) {
		r.advance()
	}
	use.Name = string(r.src[start:r.pos])
	r.keywords = append(r.keywords, use)

	r.out = append(r.out, '"')
	r.out = append(r.out, kwPrefix...)
	r.out = append(r.out, use.Name...)
	r.out = append(r.out, '"')
}

// keywordInMessage finds ":name" in a builtin error message.
var keywordInMessage = regexp.MustCompile(`:([A-Za-z][A-Za-z0-9_-]*)`)

// locate fills in the position of an error that zygomys reported without
// one. Builtin errors name the offending keyword; when that keyword is
// written exactly once its position is unambiguous.
func (s *script) locate(e *EvalError) {
	if e.Line > 0 {
		return
	}
	for _, m := range keywordInMessage.FindAllStringSubmatch(e.Message, -1) {
		found := lo.Filter(s.keywords, func(k keywordUse, _ int) bool { return k.Name == m[1] })
		if len(found) == 1 {
			e.Line, e.Col = found[0].Line, found[0].Col
			return
		}
	}
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}
