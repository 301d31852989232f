// Command prism-cli is an operator tool for resolving DIDs, submitting
// signed operations, and inspecting the chain follower's cursor directly
// against the configured database and wallet backend.
package main

import (
	"bufio"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/prism-network/prism-index/internal/diddoc"
	"github.com/prism-network/prism-index/internal/prismdid"
	"github.com/prism-network/prism-index/internal/prismop"
	"github.com/prism-network/prism-index/internal/prismrepo"
	"github.com/prism-network/prism-index/internal/prismresolve"
	"github.com/prism-network/prism-index/internal/prismstate"
	"github.com/prism-network/prism-index/internal/store/postgres"
	"github.com/prism-network/prism-index/internal/submitter"
	"github.com/prism-network/prism-index/pkg/config"
)

func main() {
	_ = godotenv.Load(".env")

	root := &cobra.Command{Use: "prism-cli"}
	root.AddCommand(resolveCmd())
	root.AddCommand(submitCmd())
	root.AddCommand(cursorCmd())
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	return config.LoadFromEnv()
}

func resolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve [did]",
		Short: "resolve a did:prism identifier into its current DID document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx := context.Background()
			store, err := postgres.Open(ctx, cfg.Database.DSN)
			if err != nil {
				return err
			}
			defer store.Close()

			parsed, err := prismdid.Parse(args[0])
			if err != nil {
				return err
			}
			rows, err := store.GetOperationsByDid(ctx, parsed.Canonical)
			if err != nil {
				return err
			}

			param := prismop.ParametersV1()
			machine := prismstate.NewMachine(param)
			operations := make([]prismresolve.TimedOperation, 0, len(rows))
			for _, row := range rows {
				signed, err := prismop.ParseSignedOperation(row.Signed, param)
				if err != nil {
					continue
				}
				operations = append(operations, prismresolve.TimedOperation{Metadata: row.Metadata, Signed: signed})
			}

			state, _ := prismresolve.ResolvePublished(machine, operations)
			if state == nil {
				return fmt.Errorf("did not found: %s", args[0])
			}

			doc := diddoc.FromDidState(parsed.String(), *state)
			out, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
}

func submitCmd() *cobra.Command {
	var batchSize int
	cmd := &cobra.Command{
		Use:   "submit [file]",
		Short: "submit the hex-encoded signed operations in file, one per line, as wallet transactions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			var operations []prismop.WireSignedPrismOperation
			scanner := bufio.NewScanner(f)
			for scanner.Scan() {
				line := scanner.Text()
				if line == "" {
					continue
				}
				raw, err := hex.DecodeString(line)
				if err != nil {
					return fmt.Errorf("invalid hex line: %w", err)
				}
				op, err := prismop.DecodeSignedPrismOperation(raw)
				if err != nil {
					return fmt.Errorf("decode signed operation: %w", err)
				}
				operations = append(operations, op)
			}
			if err := scanner.Err(); err != nil {
				return err
			}
			if len(operations) == 0 {
				return fmt.Errorf("%s: no operations to submit", args[0])
			}

			wallet := submitter.NewWalletSink(
				cfg.Submitter.WalletBaseURL,
				cfg.Submitter.WalletID,
				cfg.Submitter.WalletPassphrase,
				cfg.Submitter.PaymentAddress,
				time.Duration(cfg.Submitter.RequestTimeoutSec)*time.Second,
			)
			size := batchSize
			if size <= 0 {
				size = cfg.Submitter.BatchSize
			}
			txIds, err := submitter.SubmitAll(context.Background(), wallet, operations, size)
			for _, id := range txIds {
				fmt.Println(id)
			}
			return err
		},
	}
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "operations per transaction (defaults to the configured submitter batch size)")
	return cmd
}

func cursorCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "cursor", Short: "inspect or set the chain follower's persisted cursor"}
	cmd.AddCommand(cursorGetCmd())
	cmd.AddCommand(cursorSetCmd())
	return cmd
}

func cursorGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "print the current persisted cursor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx := context.Background()
			store, err := postgres.Open(ctx, cfg.Database.DSN)
			if err != nil {
				return err
			}
			defer store.Close()

			cursor, err := store.GetCursor(ctx)
			if err != nil {
				return err
			}
			if cursor == nil {
				fmt.Println("no cursor persisted")
				return nil
			}
			fmt.Printf("slot=%d block_hash=%s\n", cursor.Slot, hex.EncodeToString(cursor.BlockHash[:]))
			return nil
		},
	}
}

func cursorSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set [slot] [block-hash-hex]",
		Short: "overwrite the persisted cursor, forcing the follower to resume from this point",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			slot, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid slot: %w", err)
			}
			hashBytes, err := hex.DecodeString(args[1])
			if err != nil {
				return fmt.Errorf("invalid block hash: %w", err)
			}
			if len(hashBytes) != 32 {
				return fmt.Errorf("block hash must be 32 bytes, got %d", len(hashBytes))
			}
			var hash [32]byte
			copy(hash[:], hashBytes)

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx := context.Background()
			store, err := postgres.Open(ctx, cfg.Database.DSN)
			if err != nil {
				return err
			}
			defer store.Close()

			return store.SetCursor(ctx, prismrepo.DltCursor{Slot: slot, BlockHash: hash})
		},
	}
}
