package main

import (
	"log"

	"webshop/config"
	"webshop/routers"
)

func main() {
	cfg, err := config.LoadConfig("config/config.yaml")
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}

	db, err := config.SetupMySQLConnection(cfg)
	if err != nil {
		log.Fatalf("could not connect to the database: %v", err)
	}
	defer func() {
		dbInstance, _ := db.DB()
		_ = dbInstance.Close()
	}()

	rdb, err := config.SetupRedisConnection(cfg)
	if err != nil {
		log.Fatalf("could not connect to Redis: %v", err)
	}
	defer rdb.Close()

	router := routers.SetupRouters(db, rdb, cfg)
	if err := router.Run(cfg.Server.Addr); err != nil {
		log.Fatal(err)
	}
}
