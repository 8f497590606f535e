/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/C241-PS090/backend-api/cmd"

func main() {
	cmd.Execute()
}
