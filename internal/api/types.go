package api

import "github.com/gitdrop/gitdrop/internal/batch"

type BatchResponse struct {
	OK      bool           `json:"ok"`
	Results []batch.Result `json:"results"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
