package main

import "github.com/sheetshop/sheetshop/cmd"

func main() {
	cmd.Execute()
}
