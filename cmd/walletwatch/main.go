package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/nats-io/nats.go"

	"github.com/walletwatch/xrpl-wallet-events/internal/bridge"
	"github.com/walletwatch/xrpl-wallet-events/internal/config"
	"github.com/walletwatch/xrpl-wallet-events/internal/emitter"
	"github.com/walletwatch/xrpl-wallet-events/internal/ledgerstream"
	"github.com/walletwatch/xrpl-wallet-events/internal/tokenstore"
	"github.com/walletwatch/xrpl-wallet-events/internal/wallet"
	"github.com/walletwatch/xrpl-wallet-events/internal/xrpl"
	"github.com/walletwatch/xrpl-wallet-events/pkg/common/logger"
	"github.com/walletwatch/xrpl-wallet-events/pkg/infra"
)

// --- CLI definitions --- //

type CLI struct {
	Watch       WatchCmd       `cmd:"" help:"Watch addresses for ledger events."`
	NATSPrinter NATSPrinterCmd `cmd:"" name:"nats-printer" help:"Print republished wallet events."`
}

type WatchCmd struct {
	ConfigPath string   `help:"Path to config file." default:"configs/config.yaml" name:"config"`
	Addresses  []string `help:"Addresses to watch." name:"address"`
	Fund       bool     `help:"Fund a fresh test-net wallet and watch it." name:"fund"`
	Debug      bool     `help:"Enable debug logs." name:"debug"`
}

type NATSPrinterCmd struct {
	NATSURL string `help:"NATS server URL." default:"nats://127.0.0.1:4222" name:"nats-url"`
	Subject string `help:"NATS subject to subscribe to." default:"xrpl.events.>" name:"subject"`
}

func (c *WatchCmd) Run() error {
	runWatcher(c.ConfigPath, c.Addresses, c.Fund, c.Debug)
	return nil
}

func (c *NATSPrinterCmd) Run() error {
	runNatsPrinter(c.NATSURL, c.Subject)
	return nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("walletwatch"),
		kong.Description("XRPL wallet event watcher & NATS log printer."),
		kong.UsageOnError(),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}

func runWatcher(configPath string, addresses []string, fund, debug bool) {
	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("Load config failed", "err", err)
		os.Exit(1)
	}

	level := logLevel(cfg.Log.Level)
	if debug {
		level = slog.LevelDebug
	}
	logger.Init(&logger.Options{
		Level:      level,
		TimeFormat: time.RFC3339,
	})
	logger.Info("Config loaded", "environment", cfg.Environment)

	ctx := context.Background()

	if fund {
		if cfg.XRPL.FaucetURL == "" {
			logger.Fatal("Funding requested but no faucet_url configured")
		}
		faucet := wallet.NewFaucet(cfg.XRPL.FaucetURL)
		if len(addresses) == 0 {
			res, err := faucet.Fund(ctx, "")
			if err != nil {
				logger.Fatal("Fund fresh wallet failed", "err", err)
			}
			logger.Info("Funded fresh wallet", "address", res.Address, "amount", res.Amount)
			addresses = append(addresses, res.Address)
		} else {
			for _, addr := range addresses {
				res, err := faucet.Fund(ctx, addr)
				if err != nil {
					logger.Fatal("Fund wallet failed", "address", addr, "err", err)
				}
				logger.Info("Funded wallet", "address", res.Address, "amount", res.Amount)
			}
		}
	}
	if len(addresses) == 0 {
		logger.Fatal("No addresses to watch; pass --address or --fund")
	}

	dialCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	client, err := ledgerstream.Dial(dialCtx, cfg.XRPL.URL)
	cancel()
	if err != nil {
		logger.Fatal("Dial ledger stream failed", "url", cfg.XRPL.URL, "err", err)
	}
	defer client.Close()

	registry := emitter.NewRegistry(client)
	network := emitter.NewNetworkEmitter(client, registry)

	store, err := tokenstore.Open(cfg.TokenStore.Directory)
	if err != nil {
		logger.Fatal("Open token store failed", "dir", cfg.TokenStore.Directory, "err", err)
	}
	defer store.Close()
	registry.Tap(store.Tap())

	if cfg.NATS.Enabled {
		nc, err := infra.ConnectNATS(cfg.NATS.URL)
		if err != nil {
			logger.Fatal("NATS connect failed", "url", cfg.NATS.URL, "err", err)
		}
		defer nc.Close()
		registry.Tap(bridge.New(nc, cfg.NATS.SubjectPrefix).Tap())
	}

	var handles []*emitter.Handle
	for _, addr := range addresses {
		logInitialBalance(ctx, client, addr)
		if err := primeTokens(ctx, client, store, addr); err != nil {
			logger.Warn("Prime token store failed", "address", addr, "err", err)
		}
		for _, kind := range emitter.Kinds() {
			h, err := registry.On(ctx, addr, kind, logEvent(addr))
			if err != nil {
				logger.Fatal("Subscribe failed", "address", addr, "err", err)
			}
			handles = append(handles, h)
		}
		logger.Info("Watching address", "address", addr)
	}

	network.Start()
	logger.Info("Watcher is running... Press Ctrl+C to stop")
	waitForShutdown(client.Done())
	network.Stop()

	releaseCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, h := range handles {
		if err := h.Release(releaseCtx); err != nil {
			logger.Warn("Release subscription failed", "err", err)
		}
	}
	logger.Info("Watcher stopped")
}

// primeTokens seeds the local token store from the ledger so that
// mint/burn events mutate an accurate baseline.
func primeTokens(ctx context.Context, client *ledgerstream.Client, store *tokenstore.Store, address string) error {
	reqCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	tokens, err := client.AccountNFTs(reqCtx, address)
	if err != nil {
		return err
	}
	return store.Replace(address, tokens)
}

func logInitialBalance(ctx context.Context, client *ledgerstream.Client, address string) {
	reqCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	drops, err := client.XRPBalance(reqCtx, address)
	if err != nil {
		// Unfunded accounts have no ledger entry yet; not fatal.
		logger.Warn("Fetch balance failed", "address", address, "err", err)
		return
	}
	logger.Info("Initial balance", "address", address, "drops", drops, "xrp", xrpl.DropsToXRP(drops))
}

func logEvent(address string) emitter.Handler {
	return func(evt emitter.Event) {
		data, err := json.Marshal(evt)
		if err != nil {
			logger.Error("Marshal event failed", "err", err)
			return
		}
		logger.Info("Event", "address", address, "kind", evt.Kind(), "payload", string(data))
	}
}

func logLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func runNatsPrinter(natsURL, subject string) {
	logger.Init(&logger.Options{
		Level:      slog.LevelInfo,
		TimeFormat: time.RFC3339,
	})

	logDir := "logs"
	if err := os.MkdirAll(logDir, 0755); err != nil {
		logger.Fatal("Create log directory failed", "err", err)
	}
	path := filepath.Join(logDir, "nats.log")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		logger.Fatal("Open log file failed", "err", err)
	}
	defer f.Close()

	logWriter := io.MultiWriter(os.Stdout, f)

	nc, err := infra.ConnectNATS(natsURL)
	if err != nil {
		logger.Fatal("NATS connect failed", "err", err)
	}
	defer nc.Close()

	logger.Info("Subscribed to", "subject", subject)

	_, err = nc.Subscribe(subject, func(msg *nats.Msg) {
		logger.Info("Received event", "subject", msg.Subject)
		fmt.Fprintf(logWriter, "%s %s\n", msg.Subject, msg.Data)
	})
	if err != nil {
		logger.Fatal("NATS subscribe failed", "err", err)
	}

	select {} // Block forever
}

func waitForShutdown(done <-chan struct{}) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	select {
	case <-stop:
	case <-done:
		logger.Warn("Ledger stream closed")
	}
}
