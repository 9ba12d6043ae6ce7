package main

import (
	"github.com/sidkik/dirbackup/cmd"
	"github.com/sidkik/dirbackup/cmd/util"
)

func main() {
	defer util.HandlePanic()
	cmd.Execute()
}
