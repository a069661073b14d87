package main

import "love-journal-backend/cmd"

func main() {
	cmd.Execute()
}
