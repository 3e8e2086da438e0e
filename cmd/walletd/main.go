// Command walletd is the custodial wallet daemon: it opens the wallet
// store, starts the scan engine and webhook dispatcher as background
// goroutines, and serves the rpc read/admin facade, all wired together
// the way pkg/daemon.SetupDefaultDaemon/StartDaemon wires the teacher's
// modules together from a single Config.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/shieldwallet/walletd/build"
	"github.com/shieldwallet/walletd/cryptonote"
	"github.com/shieldwallet/walletd/depositset"
	"github.com/shieldwallet/walletd/ledger"
	"github.com/shieldwallet/walletd/persist"
	"github.com/shieldwallet/walletd/pkg/config"
	"github.com/shieldwallet/walletd/rpc"
	"github.com/shieldwallet/walletd/scan"
	"github.com/shieldwallet/walletd/walletdb"
	"github.com/shieldwallet/walletd/webhook"
)

const (
	exitCodeGeneral = 1
	exitCodeUsage   = 64

	serverShutdownTimeout = 5 * time.Second
)

func die(args ...interface{}) {
	fmt.Fprintln(os.Stderr, args...)
	os.Exit(exitCodeGeneral)
}

func main() {
	var configFile string
	cfg := config.Default()

	root := &cobra.Command{
		Use:   "walletd",
		Short: "walletd daemon v" + build.Version,
		Long:  "walletd is a custodial wallet service for a privacy-preserving UTXO ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			fileCfg, err := config.Load(configFile)
			if err != nil {
				return err
			}
			// Start from the file's values, then re-apply every flag the
			// user set explicitly on top of them.
			fs := pflag.NewFlagSet("walletd", pflag.ContinueOnError)
			config.RegisterFlags(fs, &fileCfg)
			var setErr error
			cmd.Flags().Visit(func(f *pflag.Flag) {
				if setErr == nil && fs.Lookup(f.Name) != nil {
					setErr = fs.Set(f.Name, f.Value.String())
				}
			})
			if setErr != nil {
				return setErr
			}
			return run(fileCfg)
		},
	}

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(*cobra.Command, []string) {
			fmt.Printf("walletd v%s\n", build.Version)
		},
	})

	root.Flags().StringVar(&configFile, "config", "", "path to a TOML config file")
	config.RegisterFlags(root.Flags(), &cfg)

	if err := root.Execute(); err != nil {
		os.Exit(exitCodeUsage)
	}
}

func run(cfg config.Config) error {
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	log, err := persist.NewFileLogger("walletd", filepath.Join(cfg.DataDir, "walletd.log"), cfg.LogVerbose)
	if err != nil {
		die(err)
	}
	defer log.Close()

	db, err := walletdb.Open(cfg.DataDir, log)
	if err != nil {
		die(err)
	}
	defer db.Close()

	ledgerStore := ledger.NewHTTPClient(cfg.LedgerAddr)
	kernel := cryptonote.DefaultKernel{}
	deposits := depositset.New()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The webhook dispatcher must be joined last, after the scan engine,
	// so it gets one final chance to drain and deliver any deposit the
	// engine's last chunk just marked ready. Deferring its Stop before
	// the engine's means it runs after, since defers unwind LIFO.
	var dispatcher *webhook.Dispatcher
	defer func() {
		if dispatcher != nil {
			dispatcher.Stop()
		}
	}()

	engine := scan.New(ledgerStore, db, kernel, deposits, log)
	go engine.Run(ctx)
	defer engine.Stop()

	if cfg.WebhookURL != "" {
		dispatcher = webhook.New(cfg.WebhookURL, deposits, webhook.NewRestartFlag(cfg.Restart), log)
		go dispatcher.Run(ctx)
	}

	api := rpc.New(db, log)
	server := &http.Server{Addr: cfg.APIAddr, Handler: api}

	go func() {
		log.WithField("addr", cfg.APIAddr).Info("rpc facade listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("rpc facade stopped unexpectedly")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
	defer shutdownCancel()
	return server.Shutdown(shutdownCtx)
}
