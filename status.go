package sprite

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Status notices. They double as keys of the message catalog.
const (
	msgNewFrame = "New frame %d/%d"
	msgNoMemory = "Not enough memory"
	msgUndid    = "Undid %s"
	msgRedid    = "Redid %s"
)

func init() {
	for _, tr := range []struct {
		tag      language.Tag
		key, msg string
	}{
		{language.Spanish, msgNewFrame, "Nuevo cuadro %d/%d"},
		{language.Spanish, msgNoMemory, "No hay suficiente memoria"},
		{language.Spanish, msgUndid, "Deshecho: %s"},
		{language.Spanish, msgRedid, "Rehecho: %s"},
	} {
		if err := message.SetString(tr.tag, tr.key, tr.msg); err != nil {
			panic(err)
		}
	}
}

// newPrinter returns a printer for the closest supported language.
func newPrinter(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag)
}

// status formats a notice in the sprite's language and hands it to the
// status sink.
func (s *Sprite) status(key message.Reference, args ...any) {
	if s.opts.status == nil {
		return
	}
	s.opts.status(s.printer.Sprintf(key, args...))
}
