package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"pawnledger/internal/core/access"
	"pawnledger/internal/core/domain"
	"pawnledger/internal/core/services"
)

func newCreateLoanCommand(a *app) *cobra.Command {
	var input services.CreateLoanInput

	cmd := &cobra.Command{
		Use:   "create-loan",
		Short: "Originate a loan against a pawned item",
		Long:  `Resolve the interest rate for the condition score and term, then store an Active loan. The originating employee defaults to --as.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, identity, err := a.authorize(cmd.Context(), access.AddLoans)
			if err != nil {
				return a.fail(err)
			}
			if input.EmployeeID == 0 {
				input.EmployeeID = identity.EmployeeID
			}

			loan, err := deps.Registry.Loans.CreateLoan(cmd.Context(), &input)
			if err != nil {
				return a.fail(err)
			}
			return a.succeed(loan.ToResponse(deps.Registry.Clock()))
		},
	}

	f := cmd.Flags()
	f.UintVar(&input.ClientID, "client", 0, "client ID")
	f.UintVar(&input.EmployeeID, "employee", 0, "originating employee ID (default: --as)")
	f.StringVar(&input.ConditionScore, "condition", "", "item condition score, e.g. 7.50")
	f.StringVar(&input.TermMonths, "term", "", "loan term in months, e.g. 6.25")
	f.StringVar(&input.Principal, "principal", "", "loan amount")
	f.StringVar(&input.ItemName, "item", "", "item name")
	f.StringVar(&input.ItemCategory, "category", "", "item category")
	f.StringVar(&input.PhysicalCondition, "physical-condition", "", "description of the item's physical condition")
	f.StringVar(&input.OriginationDate, "date", "", "origination date YYYY-MM-DD (default: today)")
	return cmd
}

func newPayLoanCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "pay-loan <code>",
		Short: "Mark an active loan as paid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := parseID("code", args[0])
			if err != nil {
				return a.fail(err)
			}
			deps, _, err := a.authorize(cmd.Context(), access.PayLoans)
			if err != nil {
				return a.fail(err)
			}

			loan, err := deps.Registry.Loans.PayLoan(cmd.Context(), code)
			if err != nil {
				return a.fail(err)
			}
			return a.succeed(loan.ToResponse(deps.Registry.Clock()))
		},
	}
}

func newSweepOverdueCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep-overdue",
		Short: "Move matured active loans to Overdue",
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, _, err := a.authorize(cmd.Context(), access.EditLoans)
			if err != nil {
				return a.fail(err)
			}

			count, err := deps.Registry.Loans.SweepOverdue(cmd.Context())
			if err != nil {
				return a.fail(err)
			}
			return a.succeed(map[string]int{"transitioned": count})
		},
	}
}

func parseID(name, s string) (uint, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil || v == 0 {
		return 0, domain.NewValidationError(name + " must be a positive number")
	}
	return uint(v), nil
}
