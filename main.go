package main

import (
	"log"
	"net/http"
	"os"

	"github.com/devrodri-com/mutter-games-dev/app/cmd"
	"github.com/devrodri-com/mutter-games-dev/app/configs"
	"github.com/devrodri-com/mutter-games-dev/app/routes"
)

func main() {
	env := configs.LoadENV
	if len(os.Args) > 1 {
		cmd.RunCli()
		return
	}

	keys, err := configs.LoadSessionKeysFromEnv()
	if err != nil {
		log.Fatal("Session keys failed to load:", err)
	}

	db, err := configs.OpenConnection()
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}
	log.Println("✅ Database connected.")

	rdb := configs.OpenRedis()
	if rdb != nil {
		log.Println("✅ Redis connected.")
	}

	router, err := routes.NewRouter(db, rdb, keys, env)
	if err != nil {
		log.Fatal("Router setup failed:", err)
	}

	server := http.Server{
		Addr:    env.Port,
		Handler: router,
	}

	log.Printf("🚀 Server starting on %s", server.Addr)
	if err := server.ListenAndServe(); err != nil {
		log.Println("failed to connecting to the server")
	}
}
