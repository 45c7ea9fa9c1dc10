package main

import "habit-tracker/backend/cmd"

func main() {
	cmd.Execute()
}
