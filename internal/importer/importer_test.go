package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallybook/tally/internal/model"
)

func readStatement(t *testing.T) []model.Draft {
	t.Helper()
	data, err := os.ReadFile("../../testdata/statement.ofx")
	require.NoError(t, err)

	p := NewOFXParser("ofx")
	drafts, err := p.Parse(strings.NewReader(string(data)))
	require.NoError(t, err)
	return drafts
}

func TestOFXParser_Parse(t *testing.T) {
	drafts := readStatement(t)
	require.Len(t, drafts, 5, "malformed blocks are dropped")

	// First: Uber expense, time and timezone suffix ignored.
	assert.Equal(t, "202501030001", drafts[0].ExternalID)
	assert.Equal(t, "2025-01-03", drafts[0].ISODate())
	assert.Equal(t, "24.90", drafts[0].Amount.StringFixed(2))
	assert.Equal(t, model.TypeExpense, drafts[0].Type)
	assert.Equal(t, "Uber trip 123", drafts[0].Description)
	assert.Equal(t, "DEBIT", drafts[0].RawType)

	// Second: income.
	assert.Equal(t, "ACME CONSULTING INVOICE 1042", drafts[1].Description)
	assert.Equal(t, model.TypeIncome, drafts[1].Type)
	assert.Equal(t, "3500.00", drafts[1].Amount.StringFixed(2))
}

func TestOFXParser_ZeroAmountIsIncome(t *testing.T) {
	drafts := readStatement(t)
	zero := drafts[3]
	assert.True(t, zero.Amount.IsZero())
	assert.Equal(t, model.TypeIncome, zero.Type)
	assert.Equal(t, NoDescription, zero.Description)
}

func TestOFXParser_CommaDecimal(t *testing.T) {
	drafts := readStatement(t)
	assert.Equal(t, "NETFLIX.COM", drafts[4].Description)
	assert.Equal(t, "89.99", drafts[4].Amount.StringFixed(2))
	assert.Equal(t, model.TypeExpense, drafts[4].Type)
}

func TestOFXParser_AmountsNeverNegative(t *testing.T) {
	for _, d := range readStatement(t) {
		assert.False(t, d.Amount.IsNegative(), "amount for %s", d.ExternalID)
	}
}

func stmtBlock(fitID, amount string) string {
	return fmt.Sprintf("<STMTTRN>\n<TRNTYPE>DEBIT\n<DTPOSTED>20250301\n<TRNAMT>%s\n<FITID>%s\n<MEMO>block %s\n</STMTTRN>\n", amount, fitID, fitID)
}

func TestParseOFX_MalformedBlocksDoNotChangeCount(t *testing.T) {
	var b strings.Builder
	b.WriteString("<OFX><BANKTRANLIST>\n")
	for i := 0; i < 4; i++ {
		b.WriteString(stmtBlock(fmt.Sprintf("ok-%d", i), "-10.00"))
	}
	// Each of these lacks exactly one required field.
	b.WriteString("<STMTTRN>\n<DTPOSTED>20250301\n<TRNAMT>-1\n<FITID>no-type\n</STMTTRN>\n")
	b.WriteString("<STMTTRN>\n<TRNTYPE>DEBIT\n<TRNAMT>-1\n<FITID>no-date\n</STMTTRN>\n")
	b.WriteString("<STMTTRN>\n<TRNTYPE>DEBIT\n<DTPOSTED>20250301\n<FITID>no-amount\n</STMTTRN>\n")
	b.WriteString("<STMTTRN>\n<TRNTYPE>DEBIT\n<DTPOSTED>20250301\n<TRNAMT>-1\n</STMTTRN>\n")
	// Unparseable values.
	b.WriteString(stmtBlock("bad-amount", "abc"))
	b.WriteString("<STMTTRN>\n<TRNTYPE>DEBIT\n<DTPOSTED>20251399\n<TRNAMT>-1\n<FITID>bad-date\n</STMTTRN>\n")
	b.WriteString("</BANKTRANLIST></OFX>\n")

	drafts := ParseOFX(b.String())
	require.Len(t, drafts, 4)
	for i, d := range drafts {
		assert.Equal(t, fmt.Sprintf("ok-%d", i), d.ExternalID)
	}
}

func TestParseOFX_NoBlocks(t *testing.T) {
	assert.Nil(t, ParseOFX(""))
	assert.Nil(t, ParseOFX("<OFX><BANKTRANLIST></BANKTRANLIST></OFX>"))
}

func TestParseOFX_LineEndings(t *testing.T) {
	block := "<STMTTRN>\r<TRNTYPE>CREDIT\r\n<DTPOSTED>20250301\r<TRNAMT>5\r\n<FITID>cr\r<MEMO>Refund\r</STMTTRN>"
	drafts := ParseOFX(block)
	require.Len(t, drafts, 1)
	assert.Equal(t, "Refund", drafts[0].Description)
	assert.Equal(t, "cr", drafts[0].ExternalID)
}

func TestParseOFX_XMLClosingTags(t *testing.T) {
	block := "<STMTTRN><TRNTYPE>DEBIT</TRNTYPE><DTPOSTED>20250301</DTPOSTED><TRNAMT>-7.50</TRNAMT><FITID>x1</FITID><MEMO>Coffee</MEMO></STMTTRN>"
	drafts := ParseOFX(block)
	require.Len(t, drafts, 1)
	assert.Equal(t, "Coffee", drafts[0].Description)
	assert.Equal(t, "7.50", drafts[0].Amount.StringFixed(2))
}

func TestParseOFX_LowercaseTags(t *testing.T) {
	block := "<stmttrn>\n<trntype>DEBIT\n<dtposted>20250301\n<trnamt>-1\n<fitid>lc\n</stmttrn>"
	drafts := ParseOFX(block)
	require.Len(t, drafts, 1)
	assert.Equal(t, "lc", drafts[0].ExternalID)
}

func TestParseOFX_RoundsToCents(t *testing.T) {
	block := stmtBlock("sub", "-12.345") + stmtBlock("tiny", "0.004")
	drafts := ParseOFX(block)
	require.Len(t, drafts, 2)

	assert.Equal(t, "12.35", drafts[0].Amount.String())
	assert.Equal(t, model.TypeExpense, drafts[0].Type)
	assert.True(t, drafts[1].Amount.IsZero())
	assert.Equal(t, model.TypeIncome, drafts[1].Type)
}

func TestOFXParser_Format(t *testing.T) {
	assert.Equal(t, "ofx", (&OFXParser{}).Format())
	assert.Equal(t, "qfx", NewOFXParser("qfx").Format())
}

func TestRegistry_GetUnknown(t *testing.T) {
	r := NewRegistry()
	assert.Nil(t, r.Get("nonexistent"))
}

func TestRegistry_CaseInsensitive(t *testing.T) {
	r := NewRegistry()
	r.Register(NewOFXParser("ofx"))
	assert.NotNil(t, r.Get("OFX"))
	assert.NotNil(t, r.Get("Ofx"))
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	r := NewRegistry()
	r.Register(NewOFXParser("ofx"))
	assert.Panics(t, func() { r.Register(NewOFXParser("OFX")) })
}

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()
	assert.NotNil(t, r.Get("ofx"))
	assert.NotNil(t, r.Get("qfx"))
	assert.NotNil(t, r.ForFile("January.QFX"))
	assert.Nil(t, r.ForFile("january.csv"))
}

func TestScan_FindsStatements(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "jan.ofx"), []byte("data"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "feb.QFX"), []byte("data"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("data"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "processed"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "processed", "old.ofx"), []byte("data"), 0o644))

	files, err := Scan(dir, DefaultRegistry())
	require.NoError(t, err)
	require.Len(t, files, 2)

	formats := map[string]string{}
	for _, f := range files {
		formats[f.Name] = f.Format
	}
	assert.Equal(t, "qfx", formats["feb.QFX"])
	assert.Equal(t, "ofx", formats["jan.ofx"])
}

func TestScan_MissingDir(t *testing.T) {
	files, err := Scan(filepath.Join(t.TempDir(), "nope"), DefaultRegistry())
	require.NoError(t, err)
	assert.Nil(t, files)
}

func TestMarkProcessed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "jan.ofx"), []byte("data"), 0o644))

	require.NoError(t, MarkProcessed(dir, "jan.ofx"))

	_, err := os.Stat(filepath.Join(dir, "jan.ofx"))
	assert.True(t, os.IsNotExist(err))

	_, err = os.Stat(filepath.Join(dir, "processed", "jan.ofx"))
	assert.NoError(t, err)
}
