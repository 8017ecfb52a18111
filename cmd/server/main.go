package main

import (
	"os"

	"rag-chat/frontend/internal/app"
)

// @title           RAG Chat Frontend API
// @version         1.0
// @description     Conversation registry and streaming chat API in front of a RAG assistant backend.
// @host            localhost:8000
// @BasePath        /api
func main() {
	os.Exit(app.Run())
}
