package main

import "github.com/jfmyers9/gnlookup/cmd"

func main() {
	cmd.Execute()
}
