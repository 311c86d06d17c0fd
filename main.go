package main

import "github.com/mselser95/crypto-tracker/cmd"

func main() {
	cmd.Execute()
}
