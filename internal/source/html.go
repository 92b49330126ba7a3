package source

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const maxHTMLBodyBytes = 4 << 20 // 4 MiB

// embeddedJSONSelector matches the script blocks pages use to ship structured data.
const embeddedJSONSelector = `script[type="application/ld+json"], script[type="application/json"]`

var errNoEmbeddedJSON = errors.New("no embedded JSON script block found")

// decodeHTML returns the first non-empty JSON script block of an HTML page.
func decodeHTML(raw []byte) (any, error) {
	if len(raw) > maxHTMLBodyBytes {
		raw = raw[:maxHTMLBodyBytes]
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var (
		out     any
		found   bool
		lastErr error
	)
	doc.Find(embeddedJSONSelector).EachWithBreak(func(i int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		if text == "" {
			return true
		}
		v, err := decodeJSON([]byte(text))
		if err != nil {
			lastErr = fmt.Errorf("script block %d: %w", i, err)
			return true
		}
		out, found = v, true
		return false
	})

	if found {
		return out, nil
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, errNoEmbeddedJSON
}
