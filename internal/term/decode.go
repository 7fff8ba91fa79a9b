package term

import (
	"bufio"
	"errors"
	"unicode/utf8"

	"github.com/dshills/lineweave/internal/key"
)

// ErrInvalidInput reports bytes from the terminal that do not form valid
// UTF-8 or a recognized escape sequence. The bytes are dropped; the
// session continues.
var ErrInvalidInput = errors.New("invalid input byte sequence")

// decodeEvent reads one key event from r. It blocks until a complete
// event is available. Unrecognized or malformed sequences return
// ErrInvalidInput with the offending bytes consumed.
func decodeEvent(r *bufio.Reader) (key.Event, error) {
	b, err := r.ReadByte()
	if err != nil {
		return key.Event{}, err
	}

	switch {
	case b == 0x1b:
		return decodeEscape(r)
	case b == '\r':
		return key.Special(key.KeyEnter, key.ModNone), nil
	case b == '\t':
		return key.Special(key.KeyTab, key.ModNone), nil
	case b == 0x7f || b == 0x08:
		return key.Special(key.KeyBackspace, key.ModNone), nil
	case b < 0x20:
		// Control byte: Ctrl-A .. Ctrl-Z and friends. 0x0a is Ctrl-J.
		return key.Ctrl(rune('a' + b - 1)), nil
	case b < 0x80:
		return key.RuneEvent(rune(b), key.ModNone), nil
	default:
		if err := r.UnreadByte(); err != nil {
			return key.Event{}, err
		}
		return decodeRune(r)
	}
}

// decodeRune reads one multi-byte UTF-8 rune.
func decodeRune(r *bufio.Reader) (key.Event, error) {
	ru, size, err := r.ReadRune()
	if err != nil {
		return key.Event{}, err
	}
	if ru == utf8.RuneError && size == 1 {
		// Malformed byte; it has been consumed.
		return key.Event{}, ErrInvalidInput
	}
	return key.RuneEvent(ru, key.ModNone), nil
}

// decodeEscape handles everything after an ESC byte: CSI and SS3
// sequences, Alt-modified keys, and the bare Escape key.
func decodeEscape(r *bufio.Reader) (key.Event, error) {
	// A lone ESC with nothing buffered is the Escape key itself.
	if r.Buffered() == 0 {
		return key.Special(key.KeyEscape, key.ModNone), nil
	}

	b, err := r.ReadByte()
	if err != nil {
		return key.Event{}, err
	}

	switch b {
	case '[':
		return decodeCSI(r)
	case 'O':
		return decodeSS3(r)
	case '\r':
		return key.Special(key.KeyEnter, key.ModAlt), nil
	case 0x7f, 0x08:
		return key.Special(key.KeyBackspace, key.ModAlt), nil
	default:
		if b < 0x20 {
			return key.Event{}, ErrInvalidInput
		}
		if b < 0x80 {
			return key.RuneEvent(rune(b), key.ModAlt), nil
		}
		if err := r.UnreadByte(); err != nil {
			return key.Event{}, err
		}
		ev, err := decodeRune(r)
		if err != nil {
			return ev, err
		}
		ev.Modifiers = ev.Modifiers.With(key.ModAlt)
		return ev, nil
	}
}

// decodeCSI reads a control sequence: parameters, then a final byte in
// 0x40..0x7e.
func decodeCSI(r *bufio.Reader) (key.Event, error) {
	params := []int{0}
	var final byte
	for {
		b, err := r.ReadByte()
		if err != nil {
			return key.Event{}, err
		}
		switch {
		case b >= '0' && b <= '9':
			params[len(params)-1] = params[len(params)-1]*10 + int(b-'0')
		case b == ';':
			params = append(params, 0)
		case b >= 0x40 && b <= 0x7e:
			final = b
		default:
			return key.Event{}, ErrInvalidInput
		}
		if final != 0 {
			break
		}
	}

	mods := key.ModNone
	if len(params) > 1 && params[1] > 0 {
		mods = csiModifiers(params[1])
	}

	switch final {
	case 'A':
		return key.Special(key.KeyUp, mods), nil
	case 'B':
		return key.Special(key.KeyDown, mods), nil
	case 'C':
		return key.Special(key.KeyRight, mods), nil
	case 'D':
		return key.Special(key.KeyLeft, mods), nil
	case 'H':
		return key.Special(key.KeyHome, mods), nil
	case 'F':
		return key.Special(key.KeyEnd, mods), nil
	case 'Z':
		return key.Special(key.KeyTab, key.ModShift), nil
	case '~':
		switch params[0] {
		case 1, 7:
			return key.Special(key.KeyHome, mods), nil
		case 3:
			return key.Special(key.KeyDelete, mods), nil
		case 4, 8:
			return key.Special(key.KeyEnd, mods), nil
		case 5:
			return key.Special(key.KeyPageUp, mods), nil
		case 6:
			return key.Special(key.KeyPageDown, mods), nil
		}
	}
	return key.Event{}, ErrInvalidInput
}

// decodeSS3 reads a single-shift sequence (application cursor keys).
func decodeSS3(r *bufio.Reader) (key.Event, error) {
	b, err := r.ReadByte()
	if err != nil {
		return key.Event{}, err
	}
	switch b {
	case 'A':
		return key.Special(key.KeyUp, key.ModNone), nil
	case 'B':
		return key.Special(key.KeyDown, key.ModNone), nil
	case 'C':
		return key.Special(key.KeyRight, key.ModNone), nil
	case 'D':
		return key.Special(key.KeyLeft, key.ModNone), nil
	case 'H':
		return key.Special(key.KeyHome, key.ModNone), nil
	case 'F':
		return key.Special(key.KeyEnd, key.ModNone), nil
	}
	return key.Event{}, ErrInvalidInput
}

// csiModifiers maps an xterm modifier parameter to a Modifier bitmask.
// The encoding is (bitmask + 1): 2=Shift, 3=Alt, 5=Ctrl, combinations
// add.
func csiModifiers(param int) key.Modifier {
	bits := param - 1
	var mods key.Modifier
	if bits&1 != 0 {
		mods = mods.With(key.ModShift)
	}
	if bits&2 != 0 {
		mods = mods.With(key.ModAlt)
	}
	if bits&4 != 0 {
		mods = mods.With(key.ModCtrl)
	}
	if bits&8 != 0 {
		mods = mods.With(key.ModMeta)
	}
	return mods
}
