package main

import (
	"github.com/alecthomas/kong"
)

// Globals holds options shared by every command.
type Globals struct {
	Config   string `help:"Path to a TOML or YAML config file." env:"RECONCILER_CONFIG" type:"path"`
	LogLevel string `help:"Override log.level." name:"log-level"`
}

var cli struct {
	Globals `embed:""`

	Run            runCmd            `cmd:"" help:"Run the scheduler and status server until interrupted."`
	CalcPayments   jobCmd            `cmd:"" name:"calc-payments" help:"Predict the next statement due date and amount of every credit card."`
	SyncBalance    jobCmd            `cmd:"" name:"sync-balance" help:"Run bank sync, align synced balances, then predict payments."`
	TrackKBB       jobCmd            `cmd:"" name:"track-kbb" help:"Revalue vehicles from Kelley Blue Book."`
	TrackCrypto    jobCmd            `cmd:"" name:"track-crypto" help:"Revalue validators and wallets in Crypto accounts."`
	Import         importCmd         `cmd:"" help:"Import transactions from a CSV file (id,date,amount,category,notes)."`
	ClaimSimplefin claimSimplefinCmd `cmd:"" name:"claim-simplefin" help:"Exchange a SimpleFIN setup token for bridge credentials."`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("reconciler"),
		kong.Description("Keeps a budget ledger reconciled with banks, card statements, vehicles and crypto."),
		kong.UsageOnError(),
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
