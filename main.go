package main

import "github.com/KaramelBytes/bookstats/cmd"

func main() {
	cmd.Execute()
}
