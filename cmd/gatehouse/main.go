package main

import "gatehouse/internal/app/cmd"

func main() {
	cmd.Execute()
}
