package main

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"github.com/Maxx-Protein/compliance-companion/internal/tax"
)

var version = "0.1.0"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "gstcalc",
		Short: "Offline GST, TCS, ITC and P&L calculators",
		Long: `gstcalc runs the same tax calculators as the HTTP API without a
database or server. Results are printed as JSON.`,
		Version:      version,
		SilenceUsage: true,
	}
	root.AddCommand(newGSTCmd(), newTCSCmd(), newITCCmd(), newPnLCmd())
	return root
}

func newGSTCmd() *cobra.Command {
	var (
		amount        float64
		rate          string
		sellerState   string
		customerState string
	)
	cmd := &cobra.Command{
		Use:   "gst",
		Short: "Split GST on a base amount into CGST/SGST or IGST",
		Example: `  gstcalc gst --amount 1000 --rate 18%
  gstcalc gst --amount 1000 --rate 12 --seller-state Karnataka --customer-state Maharashtra`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := tax.ParseRate(rate)
			if err != nil {
				return err
			}
			quote, err := tax.CalculateGST(amount, r, sellerState, customerState)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), quote)
		},
	}
	cmd.Flags().Float64Var(&amount, "amount", 0, "base amount before tax")
	cmd.Flags().StringVar(&rate, "rate", "", "GST slab, e.g. 18%")
	cmd.Flags().StringVar(&sellerState, "seller-state", "", "seller's state")
	cmd.Flags().StringVar(&customerState, "customer-state", "", "customer's state")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("rate")
	return cmd
}

func newTCSCmd() *cobra.Command {
	var (
		amount float64
		online bool
	)
	cmd := &cobra.Command{
		Use:   "tcs",
		Short: "Compute marketplace TCS withheld on a sale",
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := tax.CalculateTCS(amount, online)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().Float64Var(&amount, "amount", 0, "sale amount")
	cmd.Flags().BoolVar(&online, "online", true, "sale went through an e-commerce operator")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func newITCCmd() *cobra.Command {
	var in tax.ITCInput
	cmd := &cobra.Command{
		Use:   "itc",
		Short: "Compute eligible input tax credit and net GST payable",
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := tax.CalculateITC(in)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().Float64Var(&in.GSTCollected, "collected", 0, "GST collected on sales")
	cmd.Flags().Float64Var(&in.GSTPaid, "paid", 0, "GST paid on purchases")
	cmd.Flags().Float64Var(&in.BlockedITC, "blocked", 0, "credit blocked under section 17(5)")
	return cmd
}

func newPnLCmd() *cobra.Command {
	var in tax.PnLInput
	cmd := &cobra.Command{
		Use:   "pnl",
		Short: "Compute gross, operating and net profit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := tax.CalculatePnL(in)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().Float64Var(&in.GrossSales, "sales", 0, "gross sales")
	cmd.Flags().Float64Var(&in.COGS, "cogs", 0, "cost of goods sold")
	cmd.Flags().Float64Var(&in.OperatingExpenses, "opex", 0, "operating expenses")
	cmd.Flags().Float64Var(&in.GST, "gst", 0, "GST paid out")
	cmd.Flags().Float64Var(&in.Discount, "discount", 0, "discounts given")
	return cmd
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
