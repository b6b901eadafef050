// Command econsim runs the property-trading economy simulation: the
// cyclical macro-economy, the instrument ledger, and a table of bot
// players making buy, borrow, repay, and bid decisions each period.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/Kgreeven-max/Monopoly1.0-sub001/internal/api"
	"github.com/Kgreeven-max/Monopoly1.0-sub001/internal/bank"
	"github.com/Kgreeven-max/Monopoly1.0-sub001/internal/bots"
	"github.com/Kgreeven-max/Monopoly1.0-sub001/internal/config"
	"github.com/Kgreeven-max/Monopoly1.0-sub001/internal/economy"
	"github.com/Kgreeven-max/Monopoly1.0-sub001/internal/engine"
	"github.com/Kgreeven-max/Monopoly1.0-sub001/internal/entropy"
	"github.com/Kgreeven-max/Monopoly1.0-sub001/internal/game"
	"github.com/Kgreeven-max/Monopoly1.0-sub001/internal/persistence"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfgPath := "config.yaml"
	if len(os.Args) > 1 {
		cfgPath = os.Args[1]
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	os.MkdirAll("data", 0755)
	db, err := persistence.Open(cfg.Database.SQLitePath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", cfg.Database.SQLitePath)

	var rng entropy.Source
	if cfg.Game.Seed != 0 {
		rng = entropy.NewSeeded(cfg.Game.Seed)
	} else {
		rng = entropy.New()
	}

	ctx := newDemoGame(cfg)
	ledger := bank.NewLedger()
	econ := economy.NewEngine(logger)
	profile := bots.ProfileFor(bots.Difficulty(cfg.Game.BotDifficulty))

	slog.Info("game created",
		"game", ctx.ID,
		"players", len(ctx.Players),
		"properties", len(ctx.Properties),
		"difficulty", profile.Difficulty,
	)

	if err := db.SaveAll(ctx, ledger); err != nil {
		slog.Error("initial save failed", "error", err)
	}

	// Mu serializes the turn loop and the API handlers; everything
	// inside one game is single-writer.
	var mu sync.Mutex

	loop := engine.NewLoop(ctx.Period, time.Duration(cfg.Game.PeriodSeconds)*time.Second)
	loop.OnPeriod = func(period int) {
		mu.Lock()
		records := runPeriod(ctx, ledger, econ, profile, cfg.Game.EventChance, rng, period)
		mu.Unlock()

		if records.phaseChange != nil {
			if err := db.SavePhaseChange(records.phaseChange); err != nil {
				slog.Error("save phase change failed", "error", err)
			}
		}
		if err := db.SaveDecisions(records.decisions); err != nil {
			slog.Error("save decisions failed", "error", err)
		}
		if err := db.SaveAll(ctx, ledger); err != nil {
			slog.Error("periodic save failed", "error", err)
		}
	}

	server := &api.Server{
		Game:     ctx,
		Ledger:   ledger,
		Econ:     econ,
		DB:       db,
		Rng:      rng,
		Port:     cfg.Server.Port,
		AdminKey: cfg.Server.AdminKey,
		Mu:       &mu,
	}
	server.Start()
	if cfg.Server.AdminKey == "" {
		slog.Warn("server.admin_key not set, admin endpoints disabled")
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, shutting down", "signal", sig)
		loop.Stop()
	}()

	fmt.Printf("econsim running: %d players on %d properties, one period every %ds\n",
		len(ctx.Players), len(ctx.Properties), cfg.Game.PeriodSeconds)
	fmt.Printf("API: http://localhost:%d/api/v1/status\n", cfg.Server.Port)

	loop.Run()

	slog.Info("final save...")
	if err := db.SaveAll(ctx, ledger); err != nil {
		slog.Error("final save failed", "error", err)
	}
}

// periodRecords collects everything a period produced for persistence.
type periodRecords struct {
	phaseChange *game.PhaseChange
	decisions   []game.Decision
}

// runPeriod executes one full period: interest accrual, cycle advance,
// a possible economic event, then one decision round per bot.
func runPeriod(ctx *game.Context, ledger *bank.Ledger, econ *economy.Engine, profile bots.Profile, eventChance float64, rng entropy.Source, period int) periodRecords {
	ctx.Period = period
	var out periodRecords

	for _, inst := range ledger.ActiveByType(bank.TypeLoan) {
		ledger.AccrueInterest(inst)
	}
	for _, inst := range ledger.ActiveByType(bank.TypeHELOC) {
		ledger.AccrueInterest(inst)
	}

	out.phaseChange = econ.Advance(ctx)

	if rng.Float64() < eventChance {
		if ev := econ.SelectEvent(ctx.Phase, rng); ev != nil {
			econ.ApplyEvent(ev, ctx, ledger)
		}
	}

	for _, player := range ctx.Players {
		if !player.IsBot || player.Bankrupt {
			continue
		}
		out.decisions = append(out.decisions, runBotTurn(ctx, ledger, profile, player, rng)...)
	}

	slog.Info("period complete",
		"game", ctx.ID,
		"period", period,
		"phase", ctx.Phase.String(),
		"aggregate_cash", humanize.Commaf(ctx.AggregateCash()),
		"aggregate_property_value", humanize.Commaf(ctx.AggregatePropertyValue()),
	)
	return out
}

// runBotTurn runs one bot's decision round: consider one unowned
// property, consider an opportunistic loan, and consider paying down
// each outstanding loan.
func runBotTurn(ctx *game.Context, ledger *bank.Ledger, profile bots.Profile, player *game.Player, rng entropy.Source) []game.Decision {
	var decisions []game.Decision

	if target := randomUnowned(ctx, rng); target != nil {
		holdings := 0
		for _, p := range ctx.PropertiesOwnedBy(player.ID) {
			if p.Group == target.Group {
				holdings++
			}
		}
		buy := bots.DecideBuy(profile, target, holdings, player.Cash, rng)
		decisions = append(decisions, buy.Record(ctx, player.ID))
		if buy.Buy {
			player.Cash -= target.CurrentPrice
			id := player.ID
			target.OwnerID = &id
			slog.Info("bot bought property",
				"player", player.Name,
				"property", target.Name,
				"price", humanize.Commaf(target.CurrentPrice),
			)
		}
	}

	owned := ctx.PropertiesOwnedBy(player.ID)
	loan := bots.DecideTakeLoan(profile, 0, player.Cash, owned, rng)
	decisions = append(decisions, loan.Record(ctx, player.ID))
	if loan.Take {
		rate := bank.LoanRate(player.CreditTier, player.BankruptcyCount, loan.Amount, ctx.Phase)
		if inst, err := ledger.Create(player.ID, loan.Amount, rate, 10, bank.TypeLoan, ctx.Period, nil); err == nil {
			player.Cash += inst.Principal
			slog.Info("bot took loan",
				"player", player.Name,
				"amount", humanize.Commaf(inst.Principal),
				"rate", inst.Rate,
			)
		}
	}

	for _, inst := range ledger.ActiveByOwner(player.ID, bank.TypeLoan) {
		repay := bots.DecideRepayLoan(profile, inst, ctx.Phase, player.Cash, ctx.Period, rng)
		decisions = append(decisions, repay.Record(ctx, player.ID))
		if !repay.Repay || repay.Amount > player.Cash {
			continue
		}
		overpayment, err := ledger.Repay(inst, repay.Amount)
		if err != nil {
			slog.Error("repay failed", "player", player.Name, "error", err)
			continue
		}
		player.Cash -= repay.Amount - overpayment
	}

	return decisions
}

// randomUnowned picks a random bank-held property, nil when all are owned.
func randomUnowned(ctx *game.Context, rng entropy.Source) *game.Property {
	var unowned []*game.Property
	for _, p := range ctx.Properties {
		if p.OwnerID == nil {
			unowned = append(unowned, p)
		}
	}
	if len(unowned) == 0 {
		return nil
	}
	return unowned[rng.IntRange(0, len(unowned)-1)]
}

// newDemoGame builds a fresh game with a standard board and a table of
// bot players.
func newDemoGame(cfg *config.Config) *game.Context {
	ctx := game.NewContext(cfg.Game.CycleStep)

	names := []string{"Ada", "Blaise", "Curie", "Dijkstra", "Erdos", "Fourier"}
	for i := 0; i < cfg.Game.BotCount && i < len(names); i++ {
		ctx.Players = append(ctx.Players, &game.Player{
			ID:         int64(i + 1),
			Name:       names[i],
			Cash:       cfg.Game.StartingCash,
			CreditTier: game.CreditGood,
			IsBot:      true,
		})
	}

	ctx.Properties = standardBoard()
	return ctx
}

// standardBoard returns the classic 28-deed roster: eight color groups,
// four railroads, two utilities. Prices and rents are base values; the
// cycle moves current prices from there.
func standardBoard() []*game.Property {
	specs := []struct {
		name  string
		group string
		price float64
		rent  float64
	}{
		{"Old Road", "brown", 60, 2},
		{"Baltic Lane", "brown", 60, 4},
		{"Oriental Avenue", "lightblue", 100, 6},
		{"Vermont Avenue", "lightblue", 100, 6},
		{"Connecticut Avenue", "lightblue", 120, 8},
		{"Charles Place", "pink", 140, 10},
		{"States Avenue", "pink", 140, 10},
		{"Virginia Avenue", "pink", 160, 12},
		{"James Place", "orange", 180, 14},
		{"Tennessee Avenue", "orange", 180, 14},
		{"New York Avenue", "orange", 200, 16},
		{"Kentucky Avenue", "red", 220, 18},
		{"Indiana Avenue", "red", 220, 18},
		{"Illinois Avenue", "red", 240, 20},
		{"Atlantic Avenue", "yellow", 260, 22},
		{"Ventnor Avenue", "yellow", 260, 22},
		{"Marvin Gardens", "yellow", 280, 24},
		{"Pacific Avenue", "green", 300, 26},
		{"Carolina Avenue", "green", 300, 26},
		{"Pennsylvania Avenue", "green", 320, 28},
		{"Park Place", "darkblue", 350, 35},
		{"Boardwalk", "darkblue", 400, 50},
		{"Reading Railroad", game.GroupRailroad, 200, 25},
		{"Pennsylvania Railroad", game.GroupRailroad, 200, 25},
		{"B&O Railroad", game.GroupRailroad, 200, 25},
		{"Short Line", game.GroupRailroad, 200, 25},
		{"Electric Company", game.GroupUtility, 150, 10},
		{"Water Works", game.GroupUtility, 150, 10},
	}

	properties := make([]*game.Property, 0, len(specs))
	for i, s := range specs {
		properties = append(properties, &game.Property{
			ID:           int64(i + 1),
			Name:         s.name,
			BasePrice:    s.price,
			CurrentPrice: s.price,
			BaseRent:     s.rent,
			CurrentRent:  s.rent,
			Group:        s.group,
		})
	}
	return properties
}
