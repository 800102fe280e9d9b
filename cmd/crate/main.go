/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/jesseward/Serato-lib/cmd/crate/cmd"

func main() {
	cmd.Execute()
}
