package nitf

// TextSubheader 文本段子头
type TextSubheader struct {
	TextID          string // TEXTID
	AttachmentLevel int    // TXTALVL
	DateTime        string // TXTDT
	Title           string // TXTITL
	Security        Security
	Format          string // TXTFMT: STA, UT1, U8S, MTF

	ExtendedOverflow int
	Extended         []byte // TXSHD
}

// Kind 实现 Subheader
func (*TextSubheader) Kind() SegmentKind { return KindText }

func (s *TextSubheader) encode(w *fieldWriter) {
	w.alpha("TE", 2, TextTag)
	w.alpha("TEXTID", 7, s.TextID)
	w.num("TXTALVL", 3, int64(s.AttachmentLevel))
	w.date("TXTDT", s.DateTime)
	w.text("TXTITL", 80, s.Title)
	s.Security.encode(w, "TS")
	w.alpha("ENCRYP", 1, "0")
	w.alpha("TXTFMT", 3, s.Format)
	w.extension("TXSHDL", 5, "TXSOFL", s.ExtendedOverflow, s.Extended)
}

func decodeTextSubheader(data []byte) (*TextSubheader, error) {
	r := newFieldReader("text subheader", data)
	s := &TextSubheader{}
	r.tag("TE", TextTag)
	s.TextID = r.alpha("TEXTID", 7)
	s.AttachmentLevel = int(r.num("TXTALVL", 3))
	s.DateTime = r.alpha("TXTDT", 14)
	s.Title = r.text("TXTITL", 80)
	s.Security.decode(r, "TS")
	r.tag("ENCRYP", "0")
	s.Format = r.alpha("TXTFMT", 3)
	s.ExtendedOverflow, s.Extended = r.extension("TXSHDL", 5, "TXSOFL")
	if err := r.finish(); err != nil {
		return nil, err
	}
	return s, nil
}
