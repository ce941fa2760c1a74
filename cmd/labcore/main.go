package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"labcore/internal/config"
	"labcore/internal/database"
	"labcore/internal/domain"
	"labcore/internal/platform/logger"
	"labcore/internal/platform/metrics"
	"labcore/internal/repository"
	"labcore/internal/uow"
)

const usage = `usage: labcore <command> [args]

commands:
  migrate                 create or update the schema
  stats                   print laboratory, booking and resource aggregates
  resources [-type T]     list resources with their variants
  history <booking-id>    print the audit trail of a booking and verify it
`

func main() {
	_ = godotenv.Load()

	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	lg, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer lg.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, lg, flag.Args()); err != nil {
		lg.Error("command failed", "command", flag.Arg(0), "kind", domain.Kind(err), "error", err)
		stop()
		lg.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, lg *logger.Logger, args []string) error {
	db, err := database.Connect(cfg.Database, lg)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	mgr := uow.New(db, *cfg, lg, metrics.New(prometheus.NewRegistry()))

	switch args[0] {
	case "migrate":
		if err := database.Migrate(db); err != nil {
			return err
		}
		lg.Info("schema migrated")
		return nil
	case "stats":
		return printStats(ctx, mgr)
	case "resources":
		return printResources(ctx, mgr, args[1:])
	case "history":
		return printHistory(ctx, mgr, args[1:])
	default:
		flag.Usage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

type statsReport struct {
	EquipmentPerLaboratory []repository.LaboratoryCount `json:"equipment_per_laboratory"`
	AccountsPerLaboratory  []repository.LaboratoryCount `json:"accounts_per_laboratory"`
	TopByEquipment         []repository.LaboratoryCount `json:"top_laboratories_by_equipment"`
	InterestAreas          []string                     `json:"interest_areas"`
	BookingsByStatus       []repository.StatusCount     `json:"bookings_by_status"`
	ResourcesByType        []repository.TypeCount       `json:"resources_by_type"`
	UnpairedResources      int64                        `json:"unpaired_resources"`
}

func printStats(ctx context.Context, mgr *uow.Manager) error {
	var rep statsReport
	err := mgr.Run(ctx, func(u *uow.Unit) error {
		var err error
		if rep.EquipmentPerLaboratory, err = u.Stats.EquipmentPerLaboratory(ctx); err != nil {
			return err
		}
		if rep.AccountsPerLaboratory, err = u.Stats.AccountsPerLaboratory(ctx); err != nil {
			return err
		}
		if rep.TopByEquipment, err = u.Stats.TopLaboratoriesByEquipment(ctx, 5); err != nil {
			return err
		}
		if rep.InterestAreas, err = u.Stats.DistinctInterestAreas(ctx); err != nil {
			return err
		}
		if rep.BookingsByStatus, err = u.Stats.BookingsByStatus(ctx); err != nil {
			return err
		}
		if rep.ResourcesByType, err = u.Resources.CountByType(ctx); err != nil {
			return err
		}
		rep.UnpairedResources, err = u.Stats.UnpairedResources(ctx)
		return err
	})
	if err != nil {
		return err
	}
	return printJSON(rep)
}

func printResources(ctx context.Context, mgr *uow.Manager, args []string) error {
	fs := flag.NewFlagSet("resources", flag.ContinueOnError)
	typ := fs.String("type", "", "only resources of this type")
	project := fs.Int64("project", 0, "only resources linked to this project")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var out []domain.Resource
	err := mgr.Run(ctx, func(u *uow.Unit) error {
		var err error
		out, err = u.Resources.List(ctx, repository.ResourceFilter{
			Type:      domain.ResourceType(*typ),
			ProjectID: *project,
		})
		return err
	})
	if err != nil {
		return err
	}
	return printJSON(out)
}

func printHistory(ctx context.Context, mgr *uow.Manager, args []string) error {
	if len(args) != 1 {
		return errors.New("history needs exactly one booking id")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid booking id %q: %w", args[0], err)
	}

	var rows []domain.BookingHistory
	var verifyErr error
	err = mgr.Run(ctx, func(u *uow.Unit) error {
		var err error
		if rows, err = u.Bookings.History(ctx, id); err != nil {
			return err
		}
		verifyErr = u.Bookings.VerifyHistory(ctx, id)
		return nil
	})
	if err != nil {
		return err
	}
	if err := printJSON(rows); err != nil {
		return err
	}
	return verifyErr
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
