package main

import (
	"log"
	"net/http"

	"edu2job-backend/config"
	"edu2job-backend/controllers/authentication"
	"edu2job-backend/controllers/httpCors"
	"edu2job-backend/controllers/predictions"
	"edu2job-backend/services"
)

func main() {
	cfg := config.Load()

	db, err := config.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("database initialization failed: %v", err)
	}
	defer func() {
		if err := config.CloseDB(db); err != nil {
			log.Printf("closing database: %v", err)
		}
	}()
	log.Println("Connected to database")

	secret := []byte(cfg.JWTSecret)
	authHandler := authentication.NewAuthHandler(db, secret)
	profileHandler := authentication.NewProfileHandler(db, secret)
	mlClient := services.NewMLClient(cfg.MLServiceURL, cfg.MLTimeout)
	predictionHandler := predictions.NewHandler(db, mlClient, secret)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /register", authHandler.Register)
	mux.HandleFunc("POST /login", authHandler.Login)
	mux.HandleFunc("POST /reset-password", authHandler.ResetPassword)

	mux.HandleFunc("GET /profile", profileHandler.GetProfile)
	mux.HandleFunc("POST /profile", profileHandler.SaveProfile)

	mux.HandleFunc("POST /predict", predictionHandler.Predict)
	mux.HandleFunc("GET /predictions", predictionHandler.List)
	mux.HandleFunc("GET /predictions/history", predictionHandler.History)
	mux.HandleFunc("DELETE /predictions/{id}", predictionHandler.Delete)

	handler := httpCors.CorsSettings().Handler(mux)

	log.Printf("Server running on port %s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, handler); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
