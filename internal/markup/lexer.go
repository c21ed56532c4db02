package markup

// Mode is the lexer state: which token kind, if any, is open.
type Mode int

const (
	ModeNone Mode = iota
	ModeText
	ModeImage
	ModeEntityLink
	ModePageLink
	ModeCustom
)

func (m Mode) String() string {
	switch m {
	case ModeText:
		return "Text"
	case ModeImage:
		return "Image"
	case ModeEntityLink:
		return "EntityLink"
	case ModePageLink:
		return "PageLink"
	case ModeCustom:
		return "CustomBlock"
	default:
		return "None"
	}
}

// Delimiter returns the character that opens and closes the mode.
func (m Mode) Delimiter() rune {
	switch m {
	case ModeText:
		return '#'
	case ModeImage:
		return '$'
	case ModeEntityLink:
		return '@'
	case ModePageLink:
		return '~'
	case ModeCustom:
		return '|'
	default:
		return 0
	}
}

const escapeRune = '\\'

// Event describes what a single character did to the lexer.
type Event int

const (
	// EventNone: the character was buffered or dropped.
	EventNone Event = iota
	// EventOpen: a delimiter opened a mode.
	EventOpen
	// EventClose: a delimiter closed the active mode; Token is set.
	EventClose
	// EventEscape: an escaped delimiter was taken literally.
	EventEscape
	// EventMismatch: a delimiter of another mode appeared while a mode was open.
	EventMismatch
)

// Transition is the result of one Step.
type Transition struct {
	Event Event
	// Mode is the mode opened, closed or active at the mismatch.
	Mode  Mode
	Token string
	Char  rune
}

// Lexer is the body scanner. It keeps one buffer and never nests.
type Lexer struct {
	mode   Mode
	buf    []rune
	last   rune
	custom bool
}

// NewLexer returns a lexer. customBlocks enables the '|' delimiter.
func NewLexer(customBlocks bool) *Lexer {
	return &Lexer{custom: customBlocks}
}

// Mode returns the active mode.
func (l *Lexer) Mode() Mode { return l.mode }

// StartLine forgets the previous character; escapes do not span lines.
func (l *Lexer) StartLine() { l.last = 0 }

// Pending returns the buffered text of an unterminated token.
func (l *Lexer) Pending() string { return string(l.buf) }

func (l *Lexer) modeFor(c rune) Mode {
	switch c {
	case '#':
		return ModeText
	case '$':
		return ModeImage
	case '@':
		return ModeEntityLink
	case '~':
		return ModePageLink
	case '|':
		if l.custom {
			return ModeCustom
		}
	}
	return ModeNone
}

// Step feeds one character.
func (l *Lexer) Step(c rune) Transition {
	last := l.last
	l.last = c

	target := l.modeFor(c)
	if target == ModeNone {
		if l.mode != ModeNone {
			l.buf = append(l.buf, c)
		}
		return Transition{Event: EventNone, Mode: l.mode, Char: c}
	}

	if last == escapeRune {
		if l.mode != ModeNone {
			if n := len(l.buf); n > 0 && l.buf[n-1] == escapeRune {
				l.buf = l.buf[:n-1]
			}
			l.buf = append(l.buf, c)
		}
		return Transition{Event: EventEscape, Mode: l.mode, Char: c}
	}

	switch l.mode {
	case ModeNone:
		l.mode = target
		l.buf = l.buf[:0]
		return Transition{Event: EventOpen, Mode: target, Char: c}
	case target:
		token := string(l.buf)
		l.buf = l.buf[:0]
		l.mode = ModeNone
		return Transition{Event: EventClose, Mode: target, Token: token, Char: c}
	default:
		return Transition{Event: EventMismatch, Mode: l.mode, Char: c}
	}
}
