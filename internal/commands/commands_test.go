package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bankqif/bankqif/internal/config"
)

const (
	firstOP      = "Assets:Current Assets:First OP account"
	secondOP     = "Assets:Current Assets:Second OP account"
	firstNordea  = "Assets:Current Assets:First Nordea account"
	secondNordea = "Assets:Current Assets:Second Nordea account"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func fixture(name string) string {
	return filepath.Join("..", "..", "testdata", name)
}

func writeConfig(t *testing.T) string {
	t.Helper()
	cfg := config.Default()
	cfg.Accounts = []config.AccountConfig{
		{Name: firstOP, FileType: "op", Encoding: "utf-8", IBAN: "FI11 2222 2323 4444 55"},
		{Name: secondOP, FileType: "op", Encoding: "utf-8", IBAN: "FI22 3333 4444 5555 66"},
		{Name: firstNordea, FileType: "nordea", IBAN: "FI99 8888 7777 6666 55"},
		{Name: secondNordea, FileType: "nordea", IBAN: "FI88 7777 6666 5555 44"},
		{Name: "Assets:Latin OP", FileType: "op", IBAN: "FI11 2222 2323 4444 55"},
		{Name: "Assets:Mislabeled Nordea", FileType: "nordea", IBAN: "FI00 1111 2222 3333 44"},
	}
	path := filepath.Join(t.TempDir(), "bankqif.yaml")
	require.NoError(t, config.Save(path, cfg))
	return path
}

func TestConvert_FourStatements(t *testing.T) {
	cfgPath := writeConfig(t)
	summary := filepath.Join(t.TempDir(), "summary.csv")

	stdout, stderr, err := execute(t, "convert",
		"--config", cfgPath,
		"--log-format", "json",
		"--summary", summary,
		firstOP+"="+fixture("op_first.csv"),
		secondOP+"="+fixture("op_second.csv"),
		firstNordea+"="+fixture("nordea_first.csv"),
		secondNordea+"="+fixture("nordea_second.csv"),
	)
	require.NoError(t, err)

	assert.Contains(t, stdout, "!Option:AutoSwitch\n!Account\nN"+firstOP+"\nTBank\n^\n")
	assert.Contains(t, stdout, "L["+secondNordea+"]")
	assert.NotContains(t, stdout, "D06/01/2015")

	assert.Contains(t, stderr, "ok      "+firstOP+": 7 transactions")
	assert.Contains(t, stderr, "transfers: 3 matched, 2 unmatched")
	assert.NotContains(t, stderr, "statement account number differs")

	data, err := os.ReadFile(summary)
	require.NoError(t, err)
	assert.Contains(t, string(data), "account_name,iban,file_type,transactions,status,error\n")
	assert.Contains(t, string(data), firstNordea+",FI99 8888 7777 6666 55,nordea,3,ok,\n")
}

func TestConvert_OutFileAndLatin9(t *testing.T) {
	cfgPath := writeConfig(t)
	out := filepath.Join(t.TempDir(), "ledger.qif")

	stdout, _, err := execute(t, "convert", "--config", cfgPath, "--out", out,
		"Assets:Latin OP="+fixture("op_first_latin9.csv"))
	require.NoError(t, err)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "MSäästöön\n")
}

func TestConvert_WarnsOnAccountNumberMismatch(t *testing.T) {
	cfgPath := writeConfig(t)

	_, stderr, err := execute(t, "convert", "--config", cfgPath,
		"Assets:Mislabeled Nordea="+fixture("nordea_first.csv"))
	require.NoError(t, err)
	assert.Contains(t, stderr, "statement account number differs from configuration")
	assert.Contains(t, stderr, "ok      Assets:Mislabeled Nordea: 4 transactions")
}

func TestConvert_PartialFailure(t *testing.T) {
	cfgPath := writeConfig(t)
	bad := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(bad, []byte("not a statement\n"), 0o644))

	stdout, stderr, err := execute(t, "convert", "--config", cfgPath,
		firstOP+"="+fixture("op_first.csv"),
		firstNordea+"="+bad,
	)
	require.NoError(t, err)
	assert.Contains(t, stdout, "N"+firstOP)
	assert.NotContains(t, stdout, "N"+firstNordea)
	assert.Contains(t, stderr, "failed  "+firstNordea)
}

func TestConvert_AllFailed(t *testing.T) {
	cfgPath := writeConfig(t)

	_, _, err := execute(t, "convert", "--config", cfgPath,
		firstOP+"="+fixture("nordea_first.csv"),
	)
	assert.ErrorIs(t, err, ErrAllFailed)
}

func TestConvert_BadArguments(t *testing.T) {
	cfgPath := writeConfig(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing separator", []string{"Assets:OP"}, "expected <account-name>=<file>"},
		{"unknown account", []string{"Assets:Nope=" + fixture("op_first.csv")}, "is not configured"},
		{"duplicate account", []string{firstOP + "=" + fixture("op_first.csv"), firstOP + "=" + fixture("op_second.csv")}, "more than once"},
		{"missing file", []string{firstOP + "=" + fixture("missing.csv")}, "reading statement"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"convert", "--config", cfgPath}, tt.args...)
			_, _, err := execute(t, args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestConvert_MissingConfig(t *testing.T) {
	_, _, err := execute(t, "convert", "--config", filepath.Join(t.TempDir(), "none.yaml"),
		firstOP+"="+fixture("op_first.csv"))
	require.Error(t, err)
}

func TestConvert_ConfigFromEnvironment(t *testing.T) {
	t.Setenv("BANKQIF_CONFIG", writeConfig(t))

	stdout, _, err := execute(t, "convert", secondOP+"="+fixture("op_second.csv"))
	require.NoError(t, err)
	assert.Contains(t, stdout, "N"+secondOP)
}

func TestDetect(t *testing.T) {
	unknown := filepath.Join(t.TempDir(), "other.csv")
	require.NoError(t, os.WriteFile(unknown, []byte("Date,Amount\n"), 0o644))

	stdout, _, err := execute(t, "detect",
		fixture("op_first.csv"),
		fixture("op_first_latin9.csv"),
		fixture("nordea_second.csv"),
		unknown,
	)
	require.NoError(t, err)
	assert.Equal(t,
		fixture("op_first.csv")+"\top\n"+
			fixture("op_first_latin9.csv")+"\top\n"+
			fixture("nordea_second.csv")+"\tnordea\n"+
			unknown+"\tunknown\n",
		stdout)
}

func TestInit(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "books")

	stdout, _, err := execute(t, "init", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Wrote ")

	cfg, err := config.Load(filepath.Join(dir, "bankqif.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default().SelfPatterns, cfg.SelfPatterns)

	_, _, err = execute(t, "init", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, _, err = execute(t, "init", "--force", dir)
	require.NoError(t, err)
}

func TestInvalidLogLevel(t *testing.T) {
	_, _, err := execute(t, "--log-level", "loud", "detect", fixture("op_first.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing log level")
}
