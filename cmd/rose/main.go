package main

import "github.com/lijunde/rose/internal/command"

func main() {
	command.Execute()
}
