package main

import "github.com/Digital-Shane/movie-tidy/internal/cmd"

func main() {
	cmd.Execute()
}
