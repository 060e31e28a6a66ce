package main

import "github.com/planweave/wallgeom/cmd/wallplan/cmd"

func main() {
	cmd.Execute()
}
