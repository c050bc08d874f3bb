package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const opHeader = "Kirjauspäivä;Arvopäivä;Määrä EUROA;Laji;Selitys;Saaja/Maksaja;Saajan tilinumero ja pankin BIC;Viite;Viesti;Arkistointitunnus;\n"

func TestOPParser_IsSupported(t *testing.T) {
	p := &OPParser{}
	assert.False(t, p.IsSupported(""))
	assert.False(t, p.IsSupported("\n\n"))
	assert.False(t, p.IsSupported(readFixture(t, "nordea_first.csv")))
	assert.True(t, p.IsSupported(readFixture(t, "op_first.csv")))
	assert.True(t, p.IsSupported(`"Kirjauspäivä";"Arvopäivä";"Määrä EUROA"`))
}

func TestOPParser_Parse(t *testing.T) {
	p := &OPParser{}
	txns, err := p.Parse(readFixture(t, "op_first.csv"))
	require.NoError(t, err)
	require.Len(t, txns, 7)

	// Salary with thousands separator.
	assert.Equal(t, "EMPLOYER NAME OY", txns[0].Payee)
	assert.Equal(t, "02/01/2015", txns[0].DateText)
	assert.Equal(t, "2500.00", txns[0].AmountText)
	assert.True(t, txns[0].Amount.IsPositive())
	assert.Equal(t, "Palkka tammikuu", txns[0].Memo)
	assert.Empty(t, txns[0].Category)

	// Transfer to own Nordea account.
	assert.Equal(t, "JOHN SMITH", txns[1].Payee)
	assert.Equal(t, "-100.00", txns[1].AmountText)
	assert.Equal(t, "FI99 8888 7777 6666 55 NDEAFIHH", txns[1].TargetAccount)
	assert.Equal(t, "Säästöön", txns[1].Memo)
	assert.Equal(t, 2015, txns[1].Date.Year())
	assert.Equal(t, 1, int(txns[1].Date.Month()))
	assert.Equal(t, 5, txns[1].Date.Day())

	// Payee falls back to the description column.
	assert.Equal(t, "PALVELUMAKSU", txns[6].Payee)
	assert.Empty(t, txns[6].Memo)
}

func TestOPParser_HeaderOnly(t *testing.T) {
	p := &OPParser{}
	txns, err := p.Parse(opHeader)
	require.NoError(t, err)
	assert.Nil(t, txns)
}

func TestOPParser_Unsupported(t *testing.T) {
	p := &OPParser{}
	for _, in := range []string{"", "   \n", "Date,Amount\n1,2\n"} {
		_, err := p.Parse(in)
		assert.ErrorIs(t, err, ErrUnsupportedInput, "Parse(%q)", in)
	}
}

func TestOPParser_BadDate(t *testing.T) {
	p := &OPParser{}
	in := opHeader + "NOTADATE;01.01.2015;-4,00;106;TILISIIRTO;X;;;;a;\n"
	_, err := p.Parse(in)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedRow)
	assert.ErrorIs(t, err, ErrInvalidDate)
	assert.Contains(t, err.Error(), "row 2")
	assert.Contains(t, err.Error(), "parsing date")
}

func TestOPParser_BadAmount(t *testing.T) {
	p := &OPParser{}
	in := opHeader +
		"01.01.2015;01.01.2015;-4,00;106;TILISIIRTO;X;;;;a;\n" +
		"02.01.2015;02.01.2015;NOTANUMBER;106;TILISIIRTO;X;;;;a;\n"
	_, err := p.Parse(in)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedRow)
	assert.ErrorIs(t, err, ErrInvalidAmount)
	assert.Contains(t, err.Error(), "row 3")
}

func TestOPParser_ShortRow(t *testing.T) {
	p := &OPParser{}
	_, err := p.Parse(opHeader + "01.01.2015;01.01.2015;-4,00\n")
	assert.ErrorIs(t, err, ErrMalformedRow)
}

func TestCleanOPMessage(t *testing.T) {
	tests := map[string]string{
		"'Viesti: Lunch money'": "Lunch money",
		"  'Viesti: Rent ' ":    "Rent",
		"Plain text":            "Plain text",
		"":                      "",
		"'Viite: 1234'":         "Viite: 1234",
	}
	for in, want := range tests {
		assert.Equal(t, want, cleanOPMessage(in), "cleanOPMessage(%q)", in)
	}
}
