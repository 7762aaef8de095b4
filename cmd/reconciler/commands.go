package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"budget-reconciler/internal/domain"
	"budget-reconciler/internal/gateway"
	"budget-reconciler/internal/jobs"
	"budget-reconciler/internal/server"
	"budget-reconciler/internal/usecase"

	"github.com/alecthomas/kong"
)

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

type runCmd struct{}

func (c *runCmd) Run(g *Globals) error {
	a, err := newApp(g)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signalContext()
	defer stop()

	go a.serve(ctx, server.NewService(a.runner, a.log))

	if err := a.runner.Start(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	<-ctx.Done()
	a.log.Info("shutting down")
	a.runner.Stop()
	return nil
}

// jobCmd runs a single job once and prints its reports.
type jobCmd struct{}

func (c *jobCmd) Run(g *Globals, kctx *kong.Context) error {
	name, err := jobName(kctx.Command())
	if err != nil {
		return err
	}
	a, err := newApp(g)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signalContext()
	defer stop()

	reports, err := a.runner.Run(ctx, name)
	if len(reports) > 0 {
		if perr := printJSON(reports); perr != nil {
			return perr
		}
	}
	return err
}

func jobName(command string) (string, error) {
	switch command {
	case "calc-payments":
		return jobs.CalcPayments, nil
	case "sync-balance":
		return jobs.SyncBalance, nil
	case "track-kbb":
		return jobs.TrackKBB, nil
	case "track-crypto":
		return jobs.TrackCrypto, nil
	}
	return "", fmt.Errorf("%w: %s", jobs.ErrUnknownJob, command)
}

func printJSON(v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to generate JSON report: %w", err)
	}
	fmt.Println(string(output))
	return nil
}

type importCmd struct {
	Account string `required:"" help:"Account id or name to import into. Created on sqlite ledgers when missing."`
	Group   string `default:"Imported" help:"Category group for categories that do not exist yet."`
	File    string `arg:"" type:"existingfile" help:"CSV file to import."`
}

func (c *importCmd) Run(g *Globals) error {
	cfg, log, err := loadConfig(g)
	if err != nil {
		return err
	}
	if err := cfg.ValidateLedger(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	l, err := openLedger(cfg, nil)
	if err != nil {
		return fmt.Errorf("could not open ledger: %w", err)
	}
	defer l.Close()

	ctx, stop := signalContext()
	defer stop()

	rows, err := gateway.NewCSVTransactionRepository().GetTransactions(ctx, c.File)
	if err != nil {
		return err
	}
	accountID, err := resolveAccount(ctx, l, c.Account)
	if err != nil {
		return err
	}

	n, err := usecase.NewImportUseCase(l, usecase.WithLogger(log)).ImportTransactions(ctx, accountID, rows, c.Group)
	log.WithField("account", c.Account).WithField("rows", n).Info("import finished")
	return err
}

// resolveAccount finds an account by id or name, creating it when the
// ledger supports that.
func resolveAccount(ctx context.Context, l ledger, ref string) (string, error) {
	accounts, err := l.Accounts(ctx)
	if err != nil {
		return "", fmt.Errorf("could not list accounts: %w", err)
	}
	for _, a := range accounts {
		if a.ID == ref || a.Name == ref {
			return a.ID, nil
		}
	}
	if creator, ok := l.(interface {
		EnsureAccount(context.Context, domain.Account) (string, error)
	}); ok {
		return creator.EnsureAccount(ctx, domain.Account{Name: ref})
	}
	return "", fmt.Errorf("account %q: %w", ref, gateway.ErrNotFound)
}

type claimSimplefinCmd struct {
	Token string `arg:"" optional:"" help:"SimpleFIN setup token. Read from stdin when omitted."`
}

func (c *claimSimplefinCmd) Run(g *Globals) error {
	cfg, log, err := loadConfig(g)
	if err != nil {
		return err
	}

	token := c.Token
	if token == "" {
		fmt.Fprint(os.Stderr, "Enter your SimpleFIN setup token: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("could not read setup token: %w", err)
		}
		token = strings.TrimSpace(line)
	}

	ctx, stop := signalContext()
	defer stop()

	creds, err := newSimpleFIN(cfg, nil).Claim(ctx, token)
	if err != nil {
		return err
	}
	log.WithField("cache_dir", cfg.CacheDir).Info("SimpleFIN credentials stored")
	fmt.Println(creds)
	return nil
}
