package main

import (
	"fmt"
	"log"
	"net/http"

	"vidfetch-server/internal/api"
	"vidfetch-server/internal/cache"
	"vidfetch-server/internal/config"
	"vidfetch-server/internal/extract"
	"vidfetch-server/internal/jobs"
	"vidfetch-server/internal/server"
	"vidfetch-server/internal/stats"

	"github.com/joho/godotenv"
)

func main() {
	godotenv.Load()
	cfg := config.Load()

	if err := server.PrepareFilesystem(cfg); err != nil {
		log.Fatalf(">>> ❌ Error preparing filesystem: %v", err)
	}

	store := jobs.NewMemoryStore()
	chain := extract.NewChain(extract.NewYouTube(), extract.NewYTDLP())
	collector := stats.NewCollector()
	manager := jobs.NewManager(store, chain, collector, cfg)

	reaper := jobs.NewReaper(store, cfg.Retention, cfg.ReaperInterval)
	go reaper.Run()

	infoCache := cache.New(cfg.InfoCacheTTL)
	handler := api.NewHandler(manager, store, chain, infoCache, collector, cfg)
	router := api.NewRouter(handler)

	fmt.Println(">>> 🏭 Vidfetch Server Started")
	fmt.Printf(">>> ⚡ Port: %s\n", cfg.Port)

	log.Fatal(http.ListenAndServe(cfg.Port, router))
}
