package main

import (
	"log"
	"os"

	"github.com/NordCoder/Upkeep/internal/obs"
	"github.com/NordCoder/Upkeep/migrations"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

func main() {
	l, err := obs.NewLogger(obs.LogConfig{Level: "info", App: "upkeep/migrator", Env: os.Getenv("APP_ENV")})
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = l.Sync() }()

	dbURL := os.Getenv("DB_DSN")
	if dbURL == "" {
		l.Fatal("DB_DSN is empty")
	}

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		l.Fatal("set dialect", zap.Error(err))
	}
	db, err := goose.OpenDBWithDriver("pgx", dbURL)
	if err != nil {
		l.Fatal("open db", zap.Error(err))
	}
	defer db.Close()

	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}
	switch cmd {
	case "up":
		err = goose.Up(db, ".")
	case "down":
		err = goose.Down(db, ".")
	case "status":
		err = goose.Status(db, ".")
	default:
		l.Fatal("unknown command", zap.String("cmd", cmd))
	}
	if err != nil {
		l.Fatal("migrate", zap.String("cmd", cmd), zap.Error(err))
	}
	l.Info("migrations done", zap.String("cmd", cmd))
}
