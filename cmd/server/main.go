package main

import (
	"fmt"
	"log"

	"schedsim/api"
	"schedsim/config"
	"schedsim/internal/logging"
	"schedsim/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalln(err)
	}
	logger := logging.New(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)

	st, err := store.Open(cfg.DBPath, logger)
	if err != nil {
		log.Fatalln(err)
	}
	defer st.Close()

	app := api.NewApp(cfg, st, logger)
	logger.Info("server listening", "port", cfg.Port)
	log.Fatalln(app.Listen(fmt.Sprintf(":%d", cfg.Port)))
}
