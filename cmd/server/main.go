package main

import "github.com/nfrund/frontdoor/cmd/server/cmd"

func main() {
	cmd.Execute()
}
