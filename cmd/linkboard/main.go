package main

import (
	"github.com/joho/godotenv"

	"github.com/fsdevblog/linkboard/internal/app"
	"github.com/fsdevblog/linkboard/internal/config"
)

func main() {
	// .env опционален, в проде переменные задаются окружением.
	_ = godotenv.Load()

	appConf := config.MustLoadConfig()

	a := app.Must(app.New(*appConf))

	a.Logger.WithField("address", appConf.ServerAddress).Info("Starting server")
	if err := a.Run(); err != nil {
		panic(err)
	}
}
