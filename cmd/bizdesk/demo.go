package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"bizdesk/internal/app"
	"bizdesk/internal/seed"
	"bizdesk/pkg/logger"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Seed demo data and print the resulting books",
	RunE:  runDemo,
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the assistant context prompt for the demo data",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, true)
		if err != nil {
			return err
		}
		prompt, err := a.Assistant.ContextPrompt(cmd.Context())
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), prompt)
		return err
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(summaryCmd)
}

func seedData(ctx context.Context, a *app.App) (*seed.Result, error) {
	res, err := seed.Demo(ctx, a)
	if err != nil {
		return nil, fmt.Errorf("seed demo data: %w", err)
	}
	logger.Debug(ctx, "demo data ready", "invoice", res.Invoice.Number)
	return res, nil
}

func runDemo(cmd *cobra.Command, args []string) error {
	ctx := logger.WithLogger(cmd.Context(), cli.log)
	a, err := app.New(cli.cfg)
	if err != nil {
		return err
	}
	res, err := seedData(ctx, a)
	if err != nil {
		return err
	}
	return printBooks(ctx, cmd.OutOrStdout(), a, res)
}

func printBooks(ctx context.Context, out io.Writer, a *app.App, res *seed.Result) error {
	f := a.Formatter
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	docs, err := a.Documents.List(ctx, "")
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "DOCUMENT\tKIND\tTYPE\tCOUNTERPARTY\tAMOUNT\tSTATUS")
	for _, d := range docs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			d.Number, d.Kind, d.Type, d.CounterpartyName, f.Format(d.Amount, d.Currency), d.Status)
	}
	fmt.Fprintln(w)

	accounts, err := a.Bank.ListAccounts(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "ACCOUNT\tBANK\tBALANCE")
	for _, acc := range accounts {
		fmt.Fprintf(w, "%s\t%s\t%s\n", acc.Name, acc.BankName, f.Format(acc.Balance, acc.Currency))
	}
	fmt.Fprintln(w)

	s := res.Session
	if current, open, err := a.Cash.CurrentSession(ctx); err == nil && open {
		s = current
	}
	fmt.Fprintf(w, "Cash session opened %s\texpected %s\n",
		s.StartTime.Format(time.DateTime), f.Format(s.ExpectedBalance, ""))
	fmt.Fprintln(w)

	d, err := a.Reports.Dashboard(ctx, a.Config.Reports.TopClients)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Revenue\t%s\n", f.FormatAmount(d.Revenue))
	fmt.Fprintf(w, "Expenses\t%s\n", f.FormatAmount(d.Expenses))
	fmt.Fprintf(w, "Profit\t%s\n", f.FormatAmount(d.Profit))
	fmt.Fprintf(w, "Pending invoices\t%d\n", d.PendingInvoices)

	vat, err := a.Reports.VAT(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "VAT payable (%s%%)\t%s\n", vat.Rate.Shift(2).String(), f.FormatAmount(vat.Payable))

	return w.Flush()
}
