package cli

import (
	"bytes"
	"io"
	"os"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/mattn/go-isatty"
)

// ColorEnabled reports whether output to w may carry terminal colours
func ColorEnabled(w io.Writer) bool {
	if noColor {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// WriteHighlighted writes data to w, syntax highlighted as language (json,
// yaml, toml) when w is a colour terminal.
func WriteHighlighted(w io.Writer, data []byte, language string) error {
	if !ColorEnabled(w) {
		_, err := w.Write(data)
		return err
	}

	highlighted, err := highlight(string(data), language)
	if err != nil {
		// plain output beats no output
		_, err = w.Write(data)
		return err
	}
	_, err = io.WriteString(w, highlighted)
	return err
}

func highlight(code, language string) (string, error) {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get("monokai")
	if style == nil {
		style = chromaStyles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return "", err
	}
	return buf.String(), nil
}
