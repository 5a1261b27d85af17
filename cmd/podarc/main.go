package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"podarc/internal/domain/config"
	"podarc/internal/export"
	"podarc/internal/serve"
	"syscall"
)

const indexPath = ".podarc/snapshot.db"

func main() {
	cfg, err := config.LoadOrDefault("./podarc.yaml")
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mode := "serve"
	if len(os.Args) > 1 {
		mode = os.Args[1]
	}

	switch mode {
	case "serve":
		s, err := serve.New(cfg, indexPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "serve init error:", err.Error())
			os.Exit(1)
		}
		defer s.Close()
		if err := s.ListenAndServe(ctx, cfg.Server.Addr); err != nil {
			fmt.Fprintln(os.Stderr, "serve error:", err.Error())
			os.Exit(1)
		}
	case "export":
		outDir := "public/data"
		if len(os.Args) > 2 {
			outDir = os.Args[2]
		}
		ex := &export.Exporter{Cfg: cfg, IndexPath: indexPath, OutDir: outDir}
		res, err := ex.Run(ctx)
		if err != nil {
			fmt.Fprintln(os.Stderr, "export error:", err.Error())
			os.Exit(1)
		}
		for _, w := range res.Warnings {
			log.Printf("[warn] row %d: %s", w.Row, w.Msg)
		}
		log.Printf("[export] %d episodes, %d files in %s", res.Episodes, len(res.Files), outDir)
	default:
		fmt.Fprintf(os.Stderr, "usage: %s [serve|export [outdir]]\n", os.Args[0])
		os.Exit(2)
	}
}
