package handlers

import (
	"encoding/json"
	"net/http"
)

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

func Health(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(healthResponse{Status: "healthy", Service: "bracket"})
}
