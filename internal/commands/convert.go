package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bankqif/bankqif/internal/accounts"
	"github.com/bankqif/bankqif/internal/categorize"
	"github.com/bankqif/bankqif/internal/config"
	"github.com/bankqif/bankqif/internal/converter"
	"github.com/bankqif/bankqif/internal/importer"
	"github.com/bankqif/bankqif/internal/logger"
	"github.com/bankqif/bankqif/internal/reconcile"
	"github.com/bankqif/bankqif/internal/report"
	"github.com/bankqif/bankqif/internal/textenc"
)

// ErrAllFailed is returned when no statement could be converted.
var ErrAllFailed = errors.New("every statement failed to convert")

type convertOptions struct {
	out     string
	summary string
}

func newConvertCommand(global *globalOptions) *cobra.Command {
	var opts convertOptions

	cmd := &cobra.Command{
		Use:   "convert <account-name>=<file>...",
		Short: "Convert statements to a single QIF file",
		Long: "Convert statements to a single QIF file.\n\n" +
			"Each argument pairs a configured account name with its statement file.\n" +
			"Transfers between the given accounts are recorded once, on the paying side.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), global.configPath, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "write QIF to this file instead of stdout")
	cmd.Flags().StringVar(&opts.summary, "summary", "", "write a per-account CSV summary to this file")

	return cmd
}

func runConvert(ctx context.Context, stdout, stderr io.Writer, configPath string, opts convertOptions, args []string) error {
	log := logger.FromContext(ctx)

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	registry := importer.DefaultRegistry()
	if err := cfg.Validate(registry.Formats()); err != nil {
		return err
	}

	svc := accounts.NewService(cfg.Accounts)
	inputs, err := readInputs(ctx, svc, args)
	if err != nil {
		return err
	}

	categorizer, err := categorize.New(cfg.Categories, cfg.DefaultCategory)
	if err != nil {
		return err
	}
	reconciler, err := reconcile.NewFromStrings(cfg.SelfPatterns, reconcile.WithLogger(log))
	if err != nil {
		return fmt.Errorf("compiling self patterns: %w", err)
	}

	res, err := converter.New(registry, categorizer, reconciler).Convert(ctx, inputs)
	if err != nil {
		return err
	}

	if opts.out == "" {
		if _, err := io.WriteString(stdout, res.Ledger); err != nil {
			return fmt.Errorf("writing QIF: %w", err)
		}
	} else if err := os.WriteFile(opts.out, []byte(res.Ledger), 0o644); err != nil {
		return fmt.Errorf("writing QIF: %w", err)
	}

	if opts.summary != "" {
		if err := writeSummaryFile(opts.summary, res); err != nil {
			return err
		}
	}

	printStatus(stderr, res)

	if len(res.Accounts) > 0 && len(res.Failed()) == len(res.Accounts) {
		return ErrAllFailed
	}
	return nil
}

// readInputs resolves each name=file argument against the configured
// accounts and decodes the file with the account's encoding.
func readInputs(ctx context.Context, svc *accounts.Service, args []string) ([]converter.Input, error) {
	log := logger.FromContext(ctx)
	nordea := &importer.NordeaParser{}
	seen := make(map[string]bool, len(args))

	inputs := make([]converter.Input, 0, len(args))
	for _, arg := range args {
		name, path, ok := strings.Cut(arg, "=")
		if !ok || name == "" || path == "" {
			return nil, fmt.Errorf("argument %q: expected <account-name>=<file>", arg)
		}
		acct, ok := svc.Get(name)
		if !ok {
			return nil, fmt.Errorf("account %q is not configured", name)
		}
		if seen[name] {
			return nil, fmt.Errorf("account %q given more than once", name)
		}
		seen[name] = true

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading statement for %q: %w", name, err)
		}
		content, err := textenc.Decode(data, acct.EncodingFor())
		if err != nil {
			return nil, fmt.Errorf("statement for %q: %w", name, err)
		}

		if strings.EqualFold(acct.FileType, nordea.Format()) && acct.IBAN != "" {
			if number, ok := nordea.AccountNumber(content); ok && !svc.SameNumber(number, acct.IBAN) {
				log.Warn().
					Str("account", name).
					Str("configured", acct.IBAN).
					Str("statement", number).
					Msg("statement account number differs from configuration")
			}
		}

		inputs = append(inputs, converter.Input{
			Content:     content,
			FileType:    acct.FileType,
			AccountName: acct.Name,
			IBAN:        acct.IBAN,
		})
	}
	return inputs, nil
}

func writeSummaryFile(path string, res *converter.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating summary file: %w", err)
	}
	defer f.Close()

	if err := report.WriteSummary(f, res.Accounts); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}
	return f.Close()
}

func printStatus(w io.Writer, res *converter.Result) {
	for _, a := range res.Accounts {
		if a.OK() {
			fmt.Fprintf(w, "ok      %s: %d transactions\n", a.Name, len(a.Transactions))
		} else {
			fmt.Fprintf(w, "failed  %s: %v\n", a.Name, a.Err)
		}
	}
	if res.Stats.Matched > 0 || res.Stats.Unmatched() > 0 {
		fmt.Fprintf(w, "transfers: %d matched, %d unmatched\n", res.Stats.Matched, res.Stats.Unmatched())
	}
}
