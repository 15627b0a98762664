package main

import "github.com/Yates-Labs/novelrag/cmd"

func main() {
	cmd.Execute()
}
