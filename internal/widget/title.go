package widget

import "bytes"

// maxTitleBytes bounds a pending title sequence; anything longer is
// assumed to be garbage and dropped.
const maxTitleBytes = 512

// titleScanner extracts window titles from raw terminal output. It
// recognizes the OSC 0/2 set-title sequences (`ESC ] Ps ; title BEL`
// or terminated by `ESC \`) across arbitrary chunk boundaries; other
// OSC sequences are consumed and ignored.
type titleScanner struct {
	pending []byte
}

// Feed consumes an output chunk and returns the titles completed by it,
// in order of appearance.
func (s *titleScanner) Feed(chunk []byte) []string {
	s.pending = append(s.pending, chunk...)

	var titles []string
	for {
		start := bytes.Index(s.pending, []byte{0x1b, ']'})
		if start < 0 {
			// Keep a trailing lone ESC in case the ']' is in the
			// next chunk.
			if n := len(s.pending); n > 0 && s.pending[n-1] == 0x1b {
				s.pending = s.pending[n-1:]
			} else {
				s.pending = nil
			}
			return titles
		}

		seq := s.pending[start+2:]
		title, consumed, ok := parseTitleSequence(seq)
		if !ok {
			if len(seq) > maxTitleBytes {
				// Unterminated and overlong: discard the opener
				// and keep scanning.
				s.pending = s.pending[start+2:]
				continue
			}
			// Incomplete sequence; wait for more output.
			s.pending = s.pending[start:]
			return titles
		}

		if title != "" {
			titles = append(titles, title)
		}
		s.pending = s.pending[start+2+consumed:]
	}
}

// parseTitleSequence parses `Ps ; text` terminated by BEL or ESC-backslash.
// Returns the title, the number of bytes consumed after "ESC ]", and
// whether the sequence was complete.
func parseTitleSequence(seq []byte) (string, int, bool) {
	if len(seq) == 0 {
		return "", 0, false
	}

	sep := bytes.IndexByte(seq, ';')
	for i := 0; i < len(seq); i++ {
		b := seq[i]
		if b == 0x07 { // BEL
			return titleBetween(seq, sep, i), i + 1, true
		}
		if b == 0x1b {
			if i+1 >= len(seq) {
				return "", 0, false
			}
			if seq[i+1] == '\\' { // ST
				return titleBetween(seq, sep, i), i + 2, true
			}
		}
	}
	return "", 0, false
}

// titleBetween extracts the payload when the full Ps is a set-title
// code. Only OSC 0 (icon+title) and OSC 2 (title) qualify; multi-digit
// codes like OSC 21 are not titles.
func titleBetween(seq []byte, sep, end int) string {
	if sep < 0 || sep >= end {
		return ""
	}
	ps := string(seq[:sep])
	if ps != "0" && ps != "2" {
		return ""
	}
	return string(seq[sep+1 : end])
}
