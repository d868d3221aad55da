// Package asm reads sprite data out of disassembled game source: literal
// `.byte` blocks holding compressed images, palettes and dictionaries, and
// animation tables (`.atd`) describing image sizes and label references.
package asm

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/golang/glog"
)

var (
	lineRe = regexp.MustCompile(`^(?P<label>[\w$?]+:?)?(?:\s+(?P<instruction>[.$\w]+)?)?\s*(?P<args>(?:[-~:|\[\]/\w,()*.@<>+_$=?]|(?:"[^"]*")|(?:'[^']*')|(?:, +)|else +|if +|\s+)*)?\s*(?P<comment>;.*)?$`)

	wholeLineCommentRe = regexp.MustCompile(`^\s*[;*]`)
	whitespaceLineRe   = regexp.MustCompile(`^\s+$`)
	byteSplitRe        = regexp.MustCompile(`,\s*|\s+`)
)

// Line is one parsed source line. All fields are empty for blank lines.
type Line struct {
	Label       string
	Instruction string
	Args        string
	Comment     string
	Text        string
}

// ParseLine splits a source line into label, instruction, arguments and
// comment. A trailing ':' is dropped from the label. name and lineNo are only
// used for logging unparseable lines.
func ParseLine(line, name string, lineNo int) Line {
	if wholeLineCommentRe.MatchString(line) {
		return Line{Comment: line, Text: line}
	}
	if whitespaceLineRe.MatchString(line) {
		return Line{}
	}
	m := lineRe.FindStringSubmatch(line)
	if m == nil {
		if strings.TrimSpace(strings.Replace(line, "\x1a", "", 1)) != "" {
			glog.V(1).Infof("%s:%d: failed to parse line %q", name, lineNo, line)
		}
		return Line{}
	}
	l := Line{Text: line}
	for i, g := range lineRe.SubexpNames() {
		switch g {
		case "label":
			l.Label = strings.TrimSuffix(m[i], ":")
		case "instruction":
			l.Instruction = m[i]
		case "args":
			l.Args = m[i]
		case "comment":
			l.Comment = m[i]
		}
	}
	return l
}

// LiteralDataEntry is the data assembled under one label.
type LiteralDataEntry struct {
	Label   string
	Comment string
	Data    []byte
}

type dataState struct {
	data  []byte
	align int
}

// ParseLiteralDataEntries assembles `.byte` data into one entry per label.
// Comments on their own lines accumulate into the next label's comment.
// Only `.byte` and `.align` are understood; other instructions are skipped.
func ParseLiteralDataEntries(lines []string, name string) []LiteralDataEntry {
	var (
		rv       []LiteralDataEntry
		cur      *LiteralDataEntry
		comments []string
		st       = dataState{align: 1}
	)

	flush := func() {
		if cur == nil {
			return
		}
		cur.Data = st.data
		rv = append(rv, *cur)
		cur = nil
	}

	for i, text := range lines {
		l := ParseLine(text, name, i+1)
		if l.Label != "" {
			flush()
			cur = &LiteralDataEntry{Label: l.Label, Comment: strings.Join(comments, "\n")}
			st.data = nil
			comments = nil
			if l.Comment != "" {
				if cur.Comment != "" {
					cur.Comment += "\n" + l.Comment
				} else {
					cur.Comment = l.Comment
				}
			}
		}
		if l.Comment != "" && l.Instruction == "" {
			comments = append(comments, l.Comment)
		}
		switch l.Instruction {
		case ".align":
			if n, ok := parseInt(l.Args); ok {
				st.align = int(n)
			}
		case ".byte":
			st.bytes(l.Args)
		}
	}
	flush()
	return rv
}

func (st *dataState) bytes(args string) {
	tokens := byteSplitRe.Split(args, -1)
	for _, tok := range tokens {
		if tok == "" {
			continue
		}
		n, _ := parseInt(tok)
		st.data = append(st.data, byte(n))
	}
	if st.align <= 0 {
		return
	}
	for pad := len(tokens) % st.align; pad > 0; pad-- {
		st.data = append(st.data, 0)
	}
}

// parseInt reads the leading integer of s: optional sign, then hex with a 0x
// prefix or decimal digits. Trailing garbage is ignored; ok is false when
// there are no digits at all.
func parseInt(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	neg := false
	switch {
	case strings.HasPrefix(s, "-"):
		neg = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	base := 10
	digits := "0123456789"
	if len(s) > 2 && (s[:2] == "0x" || s[:2] == "0X") {
		base = 16
		digits = "0123456789abcdefABCDEF"
		s = s[2:]
	}
	end := 0
	for end < len(s) && strings.IndexByte(digits, s[end]) >= 0 {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.ParseInt(s[:end], base, 64)
	if err != nil {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}
