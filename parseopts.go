package rdexpr

import (
	"log/slog"
)

// ParseOption is an option for parsing.
type ParseOption interface {
	parseOption(parsectx) parsectx
}

type (
	traceopt struct {
		log *slog.Logger
	}
	tokenizeropt struct {
		tk *Tokenizer
	}
)

// parsectx holds general data for parsing.
type parsectx struct {
	// trace, if not nil, receives a debug record for each production the
	// parser applies.
	trace *slog.Logger
	// tk is the tokenizer Parse uses to scan its source.
	tk *Tokenizer
}

// Trace logs each grammar production the parser applies to log at debug
// level. A nil logger disables tracing.
func Trace(log *slog.Logger) ParseOption {
	return traceopt{log}
}

func (o traceopt) parseOption(p parsectx) parsectx {
	p.trace = o.log
	return p
}

// UseTokenizer sets the tokenizer Parse uses to scan its source. It has no
// effect on a Parser created from tokens directly. A nil tokenizer selects the
// default.
func UseTokenizer(tk *Tokenizer) ParseOption {
	return tokenizeropt{tk}
}

func (o tokenizeropt) parseOption(p parsectx) parsectx {
	p.tk = o.tk
	return p
}

func newparsectx(opts []ParseOption) parsectx {
	var p parsectx
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		p = opt.parseOption(p)
	}
	if p.tk == nil {
		p.tk = deftokenizer
	}
	return p
}
