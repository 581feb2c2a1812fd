package main

import (
	"path/filepath"

	"github.com/AbbosRakhmonov/espreading/internal/config"
	"github.com/AbbosRakhmonov/espreading/internal/database"
	"github.com/AbbosRakhmonov/espreading/internal/logging"
	"github.com/AbbosRakhmonov/espreading/internal/models"
	"github.com/AbbosRakhmonov/espreading/internal/router"
	"go.uber.org/zap"
)

func main() {
	projectRoot := "."

	// A basic console logger covers bootstrap until the configured logger
	// is up.
	bootLog, err := zap.NewDevelopment()
	if err != nil {
		panic("failed to initialize bootstrap logger: " + err.Error())
	}
	if err := config.Init(projectRoot, bootLog); err != nil {
		bootLog.Fatal("Failed to load configuration", zap.Error(err))
	}

	log, err := logging.Init(projectRoot)
	if err != nil {
		bootLog.Fatal("Failed to initialize logger", zap.Error(err))
	}
	defer log.Sync()

	database.Init(log)

	// Load the reading catalog at startup; it supplies the denormalized
	// labels stamped onto completions.
	catalog, err := models.LoadCatalog(filepath.Join(projectRoot, "config", "readings.yaml"))
	if err != nil {
		log.Fatal("Failed to load reading catalog", zap.Error(err))
	}

	r := router.Setup(log, database.DB, catalog)

	port := ":" + config.Conf.Server.Port
	log.Info("Server listening on http://localhost" + port)
	if err := r.Run(port); err != nil {
		log.Fatal("Failed to run Gin server", zap.Error(err))
	}
}
