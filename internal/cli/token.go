// Payment token commands for the drm CLI.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/drm/internal/program"
	"github.com/mesh-intelligence/drm/internal/token"
)

// balanceOutput is the JSON shape of a token balance.
type balanceOutput struct {
	Owner   string `json:"owner"`
	Balance uint64 `json:"balance"`
	Amount  string `json:"amount"`
}

func newTokenCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint and inspect payment token balances",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "mint <owner> <amount>",
		Short: "Credit tokens to owner (registry authority only)",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			signer, err := a.signer()
			if err != nil {
				return err
			}
			units, err := token.ParseAmount(args[1], a.decimals())
			if err != nil {
				return fmt.Errorf("amount %q: %w", args[1], err)
			}
			return a.withProgram(cmd, func(ctx context.Context, p *program.Program) error {
				balance, err := p.MintTokens(ctx, signer, args[0], units)
				if err != nil {
					return err
				}
				return a.printBalance(cmd, args[0], balance)
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "balance <owner>",
		Short: "Show owner's token balance",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withProgram(cmd, func(ctx context.Context, p *program.Program) error {
				balance, err := p.Balance(ctx, args[0])
				if err != nil {
					return err
				}
				return a.printBalance(cmd, args[0], balance)
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List token accounts",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withProgram(cmd, func(ctx context.Context, p *program.Program) error {
				accounts, err := p.ListTokenAccounts(ctx, nil)
				if err != nil {
					return err
				}
				out := make([]balanceOutput, 0, len(accounts))
				for _, acct := range accounts {
					out = append(out, balanceOutput{
						Owner:   acct.Owner,
						Balance: acct.Balance,
						Amount:  token.FormatAmount(acct.Balance, a.decimals()),
					})
				}
				return a.emit(cmd, out, func(w io.Writer) {
					for _, b := range out {
						fmt.Fprintf(w, "%-32s  %s\n", b.Owner, b.Amount)
					}
				})
			})
		},
	})
	return cmd
}

func (a *app) printBalance(cmd *cobra.Command, owner string, balance uint64) error {
	out := balanceOutput{Owner: owner, Balance: balance, Amount: token.FormatAmount(balance, a.decimals())}
	return a.emit(cmd, out, func(w io.Writer) {
		fmt.Fprintf(w, "%s: %s\n", out.Owner, out.Amount)
	})
}
