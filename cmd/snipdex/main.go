package main

import "github.com/snipdex/snipdex/internal/cli"

func main() {
	cli.Execute()
}
