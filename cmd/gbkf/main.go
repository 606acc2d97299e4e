/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"github.com/gbkf/gbkf-go/cmd/gbkf/cmd"
)

func main() {
	cmd.Execute()
}
