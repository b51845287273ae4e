package main

import "github.com/carmsdata/carms-etl/cmd"

func main() {
	cmd.Execute()
}
