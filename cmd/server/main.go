package main

import "hrcalc/internal/app/server"

func main() {
	server.Run()
}
