package main

import "balance-mirror/cmd"

func main() {
	cmd.Execute()
}
