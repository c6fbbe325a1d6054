package main

import (
	"node-health-watcher/internal/server"
)

func main() {
	server.Run()
}
