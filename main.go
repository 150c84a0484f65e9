package main

import "github.com/jsphweid/tabrhythm/cmd"

func main() {
	cmd.Execute()
}
