package main

//go:generate swag init -g cmd/syncd/main.go -o docs

// @title           Stockroom Sync API
// @version         0.1.0
// @description     Shop and ledger synchronization, local catalog queries, and push controls.
// @host            localhost:8080
// @BasePath        /
// @schemes         http
