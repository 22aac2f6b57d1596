package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gym-club-management/internal/config"
	"gym-club-management/internal/domain"
	"gym-club-management/internal/domain/model"
	pg "gym-club-management/internal/infra/db/postgres"
	"gym-club-management/internal/usecase"
)

// Seeds the bootstrap admin account and a starter plan catalog. Safe to run
// repeatedly; existing rows are left alone.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool := pg.MustConnectPostgres(cfg.Database.URL)
	defer pool.Close()

	authUC := usecase.NewAuthUseCase(pg.NewPostgresAccountRepo(pool), nil)
	planUC := usecase.NewPlanUseCase(pg.NewPostgresPlanRepo(pool), nil)

	if _, err := authUC.Register(ctx, "admin", "admin123", model.RoleAdmin); err != nil {
		if !errors.Is(err, domain.ErrAlreadyExists) {
			log.Fatalf("seed admin account: %v", err)
		}
		fmt.Println("admin account already present")
	} else {
		fmt.Println("seeded admin account (username=admin); change the password after first login")
	}

	plans, err := planUC.ListAll(ctx)
	if err != nil {
		log.Fatalf("list plans: %v", err)
	}
	if len(plans) > 0 {
		fmt.Printf("%d plans already present. No changes.\n", len(plans))
		for _, p := range plans {
			fmt.Printf("  - %s (months=%d, price=%d cents)\n", p.Type, p.DurationMonths, p.PriceCents)
		}
		return
	}

	seed := []struct {
		Type     string
		Sessions int // 0 means unlimited
		Price    int64
		Months   int
	}{
		{"BASIC", 2, 29_90, 1},
		{"STANDARD", 4, 44_90, 1},
		{"PREMIUM", 0, 64_90, 1},
	}

	for _, s := range seed {
		quota := model.UnlimitedQuota()
		if s.Sessions > 0 {
			quota, err = model.QuotaOf(s.Sessions)
			if err != nil {
				log.Fatalf("quota for %q: %v", s.Type, err)
			}
		}
		p, err := planUC.Create(ctx, s.Type, quota, s.Price, s.Months)
		if err != nil {
			log.Fatalf("create plan %q: %v", s.Type, err)
		}
		fmt.Printf("seeded: %s (id=%d, months=%d, price=%d cents)\n", p.Type, p.ID, p.DurationMonths, p.PriceCents)
	}

	fmt.Println("Seeding complete.")
}
