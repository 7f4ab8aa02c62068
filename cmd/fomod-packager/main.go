package main

import "fomod-packager/internal/cli"

func main() {
	cli.Execute()
}
