package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"momo-engine/internal/ussd"
)

func newCodeCmd(a *app) *cobra.Command {
	var (
		provider  string
		country   string
		recipient string
		amount    string
		codes     map[string]string
	)

	cmd := &cobra.Command{
		Use:   "code",
		Short: "Print the USSD payment code for a provider, country and amount",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			amt, err := ussd.ParseAmount(amount)
			if err != nil {
				return err
			}

			route := ussd.Resolve(ussd.Provider(provider), ussd.Country(country))
			recipients := ussd.RecipientCodes{}
			for k, v := range codes {
				recipients[k] = v
			}
			if recipient != "" && route.RecipientKey != "" {
				recipients[route.RecipientKey] = recipient
			}

			code := ussd.GeneratePaymentCode(recipients, country, provider, amt)
			a.logger.Debug("generated payment code",
				zap.String("provider", provider),
				zap.String("country", country),
				zap.String("shape", string(route.Shape)))

			_, err = fmt.Fprintln(cmd.OutOrStdout(), code)
			return err
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "Provider (MTN_MOMO, AIRTEL_MONEY, ORANGE_MONEY, MPESA)")
	cmd.Flags().StringVar(&country, "country", "", "Country (RWANDA, UGANDA, KENYA, TANZANIA, DRC, BURUNDI)")
	cmd.Flags().StringVar(&recipient, "recipient", "", "Merchant recipient code for the selected provider")
	cmd.Flags().StringVar(&amount, "amount", "", "Payment amount")
	cmd.Flags().StringToStringVar(&codes, "codes", nil, "Recipient codes by key, e.g. MTN_MOMO=0788123456,M_PESA=0722123456")
	_ = cmd.MarkFlagRequired("provider")
	_ = cmd.MarkFlagRequired("country")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}
