/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/azure/cost-tracker/cmd"

func main() {
	cmd.Execute()
}
