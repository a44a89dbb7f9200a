package main

import "github.com/inovacc/collectr/cmd"

func main() {
	cmd.Execute()
}
