package main

import "github.com/ihavespoons/smellbench/cmd"

func main() {
	cmd.Execute()
}
