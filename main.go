package main

import "yara_assistant/internal/cli"

func main() {
	cli.Execute()
}
