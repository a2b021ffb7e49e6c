package importer

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tallybook/tally/internal/model"
)

// NoDescription is used when a statement record carries no MEMO.
const NoDescription = "No description"

const ofxDateFormat = "20060102"

var (
	blockRe = regexp.MustCompile(`(?is)<STMTTRN>(.*?)</STMTTRN>`)
	leafRes = map[string]*regexp.Regexp{}
)

// Leaf fields read from each STMTTRN block.
const (
	tagType   = "TRNTYPE"
	tagPosted = "DTPOSTED"
	tagAmount = "TRNAMT"
	tagFITID  = "FITID"
	tagMemo   = "MEMO"
)

func init() {
	for _, tag := range []string{tagType, tagPosted, tagAmount, tagFITID, tagMemo} {
		// SGML leaves have no closing tag: the value runs to the next tag or line end.
		leafRes[tag] = regexp.MustCompile(`(?i)<` + tag + `>([^<\n]*)`)
	}
}

// OFXParser parses OFX 1.x (SGML) and OFX 2.x (XML) bank statement exports.
// QFX files use the same markup and are handled by an OFXParser named "qfx".
type OFXParser struct {
	name string
}

// NewOFXParser returns a parser registered under format name.
func NewOFXParser(name string) *OFXParser {
	return &OFXParser{name: name}
}

// Format returns the parser name.
func (p *OFXParser) Format() string {
	if p.name == "" {
		return "ofx"
	}
	return p.name
}

// Parse reads a whole statement and returns one Draft per well-formed STMTTRN block.
// Blocks missing a required field, or with an unreadable date or amount, are
// skipped. Only a read failure is reported as an error.
func (p *OFXParser) Parse(r io.Reader) ([]model.Draft, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading statement: %w", err)
	}
	return ParseOFX(string(data)), nil
}

// ParseOFX extracts drafts from statement text. It returns nil when no block is found.
// Amounts are rounded half away from zero to cents.
func ParseOFX(text string) []model.Draft {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var drafts []model.Draft
	for _, m := range blockRe.FindAllStringSubmatch(text, -1) {
		d, ok := parseBlock(m[1])
		if !ok {
			continue
		}
		drafts = append(drafts, d)
	}
	return drafts
}

func parseBlock(block string) (model.Draft, bool) {
	rawType, ok1 := leaf(block, tagType)
	posted, ok2 := leaf(block, tagPosted)
	rawAmount, ok3 := leaf(block, tagAmount)
	fitID, ok4 := leaf(block, tagFITID)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return model.Draft{}, false
	}

	date, err := parsePostedDate(posted)
	if err != nil {
		return model.Draft{}, false
	}

	signed, err := parseAmount(rawAmount)
	if err != nil {
		return model.Draft{}, false
	}

	typ := model.TypeIncome
	if signed.IsNegative() {
		typ = model.TypeExpense
	}

	desc, ok := leaf(block, tagMemo)
	if !ok {
		desc = NoDescription
	}

	return model.Draft{
		ExternalID:  fitID,
		Date:        date,
		Amount:      signed.Abs().Round(2),
		Type:        typ,
		Description: desc,
		RawType:     rawType,
	}, true
}

// leaf returns the trimmed value of <tag> in block, and false when it is absent or empty.
func leaf(block, tag string) (string, bool) {
	m := leafRes[tag].FindStringSubmatch(block)
	if m == nil {
		return "", false
	}
	v := strings.TrimSpace(m[1])
	return v, v != ""
}

// parsePostedDate reads YYYYMMDD and ignores any time or timezone suffix,
// e.g. "20250103120000[-3:BRT]".
func parsePostedDate(s string) (time.Time, error) {
	if len(s) < len(ofxDateFormat) {
		return time.Time{}, fmt.Errorf("posted date %q too short", s)
	}
	t, err := time.Parse(ofxDateFormat, s[:len(ofxDateFormat)])
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing posted date %q: %w", s, err)
	}
	return t, nil
}

// parseAmount accepts "-12.34", "+12.34" and the comma-decimal "-12,34".
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimPrefix(s, "+")
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	return d, nil
}
