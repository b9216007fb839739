/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"github.com/skybrush-io/skyb-go/cmd/skyc/cmd"
)

func main() {
	cmd.Execute()
}
