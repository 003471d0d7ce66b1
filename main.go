package main

import "github.com/cuckooquote/quote-management/cmd"

func main() {
	cmd.Execute()
}
