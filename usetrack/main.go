package main

import "github.com/usablab/usetrack/usetrack/cmd"

func main() {
	cmd.Execute()
}
