package main

import (
	"fmt"

	cosmostypes "github.com/cosmos/cosmos-sdk/types"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	"github.com/spf13/cobra"

	"github.com/nodemesh/cosmosclient/pkg/client"
)

func sendCmd() *cobra.Command {
	var (
		flagKeyringBackend string
		flagKeyringDir     string
		flagMemo           string
		flagGasLimit       uint64
		flagFee            string
	)

	cmd := &cobra.Command{
		Use:   "send <from-key> <to-address> <amount>",
		Short: "Send coins and wait for the transaction to land in a block",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			stack, err := buildClientStack(flagConfigPath)
			if err != nil {
				return err
			}

			txnClient, keyringSigner, err := stack.buildTxClient(
				cmd.Context(),
				flagKeyringBackend, flagKeyringDir, args[0],
				cmd.InOrStdin(),
			)
			if err != nil {
				return err
			}

			fromAddress, err := cosmostypes.Bech32ifyAddressBytes(
				stack.cfg.Bech32Prefix,
				keyringSigner.PubKey().Address(),
			)
			if err != nil {
				return err
			}
			amount, err := cosmostypes.ParseCoinsNormalized(args[2])
			if err != nil {
				return fmt.Errorf("parsing amount %q: %w", args[2], err)
			}

			txOpts := client.TxOptions{
				Memo:     flagMemo,
				GasLimit: flagGasLimit,
			}
			if flagFee != "" {
				if txOpts.Fee, err = cosmostypes.ParseCoinsNormalized(flagFee); err != nil {
					return fmt.Errorf("parsing fee %q: %w", flagFee, err)
				}
			}

			txResponse, err := txnClient.SignAndBroadcastWithOptions(
				cmd.Context(),
				txOpts,
				&banktypes.MsgSend{
					FromAddress: fromAddress,
					ToAddress:   args[1],
					Amount:      amount,
				},
			)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(),
				"tx %s included at height %d\n",
				txResponse.TxHash, txResponse.Height,
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&flagKeyringBackend, "keyring-backend", "os", "keyring backend (os, file, test)")
	cmd.Flags().StringVar(&flagKeyringDir, "keyring-dir", "", "keyring directory (defaults to the current directory)")
	cmd.Flags().StringVar(&flagMemo, "memo", "", "transaction memo")
	cmd.Flags().Uint64Var(&flagGasLimit, "gas-limit", 0, "explicit gas limit; 0 estimates via simulation")
	cmd.Flags().StringVar(&flagFee, "fee", "", "explicit fee, e.g. 3250uatom; empty derives it from the gas price")
	return cmd
}
