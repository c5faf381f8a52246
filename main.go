package main

import "github.com/pharmalign/drugalign/cmd"

func main() {
	cmd.Execute()
}
