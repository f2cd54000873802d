package main

import (
	cmd "github.com/rurushi/panel/cmd/rurushi"
)

func main() {
	cmd.Execute()
}
