package main

import (
	"flag"

	"github.com/sirupsen/logrus"

	"chirp/crud"
	"chirp/http"
)

// main is the app's entry point.
func main() {
	// The "-prod" flag means we're running in production, in which case a
	// config file is required and the app refuses to start without one.
	productionBool := flag.Bool("prod", false, "Provide this flag in production to ensure that a config file is provided before the application starts.")
	flag.Parse()

	config := LoadConfig(*productionBool)

	// Open a database connection and execute migrations.
	db := NewDB(config.Database.ConnectionInfo())
	must(Open(db, config.IsProd()))
	defer Close(db)
	must(AutoMigrate(db))

	// Start the crud services.
	services, err := crud.NewServices(
		db.Gorm,
		crud.WithUser(config.HMACKey, config.Pepper),
		crud.WithAuthor(),
		crud.WithCheep(),
		crud.WithFeed(),
	)
	must(err)

	// Set up a webserver and serve the app.
	server := http.NewServer(config.IsProd(), config.CSRFKey, services)
	logrus.WithFields(logrus.Fields{
		"port": config.Port,
		"env":  config.Env,
	}).Info("chirp listening")
	server.Run(config.Port)
}

// must is a little helper for shortening the panic instruction.
func must(err error) {
	if err != nil {
		logrus.Fatal(err)
	}
}
