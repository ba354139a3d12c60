package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/consultorio/turnos-bot/internal/appointment"
	"github.com/consultorio/turnos-bot/internal/config"
	"github.com/consultorio/turnos-bot/internal/db"
	redisclient "github.com/consultorio/turnos-bot/internal/redis"
)

// seed fills the configured store with fake upcoming appointments so the
// bot has something to list and search against during development.
func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	count := 25
	if v := os.Getenv("SEED_COUNT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			log.Fatalf("invalid SEED_COUNT %q", v)
		}
		count = n
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	var repo appointment.Repository
	switch cfg.StoreBackend {
	case config.StorePostgres:
		pool, err := db.ConnectPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Fatalf("connect postgres: %v", err)
		}
		defer pool.Close()
		repo = appointment.NewPgRepository(pool)
	case config.StoreMemory:
		log.Fatal("seeding the memory store is pointless, it dies with the process")
	default:
		log.Fatalf("seed supports the postgres store only, got %q", cfg.StoreBackend)
	}

	svc := appointment.NewService(repo, nil, redisclient.NewLocalLocker())

	gofakeit.Seed(time.Now().UnixNano())

	types := []string{string(appointment.TypeParticular), string(appointment.TypeOS)}

	created := 0
	for i := 0; i < count; i++ {
		day := time.Now().AddDate(0, 0, gofakeit.Number(1, 30))
		hour := gofakeit.Number(9, 19)

		_, err := svc.Schedule(ctx,
			gofakeit.Name(),
			day.Format("2/1/2006"),
			fmt.Sprintf("%d:00", hour),
			types[gofakeit.Number(0, len(types)-1)],
		)
		var conflict *appointment.ConflictError
		if errors.As(err, &conflict) {
			continue
		}
		if err != nil {
			log.Fatalf("seed appointment: %v", err)
		}
		created++
	}

	log.Printf("seed complete, created %d appointments", created)
}
