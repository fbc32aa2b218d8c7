package framing

import (
	"io"
	"iter"
	"log/slog"
)

// Result summarizes a framed stream.
type Result struct {
	Cards     int
	Discarded int
}

// Run pulls fragments one at a time, framing them into sink as they arrive.
//
// When the sequence ends normally the trailing buffer is framed as a final
// line. When it yields an error, Run stops at once and returns that error;
// lines already written stay written and the incomplete remainder is
// dropped. A sink write failure also ends the run.
func Run(fragments iter.Seq2[string, error], sink io.Writer, logger *slog.Logger) (Result, error) {
	p := NewParser(sink, logger)

	for fragment, err := range fragments {
		if err != nil {
			return p.result(), err
		}
		if _, err := p.WriteString(fragment); err != nil {
			return p.result(), err
		}
	}

	err := p.Close()
	return p.result(), err
}

func (p *Parser) result() Result {
	return Result{Cards: p.cards, Discarded: p.discarded}
}
