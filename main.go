package main

import "github.com/creativeprojects/onesecmail/cmd"

// populated by goreleaser
var (
	version = "dev"
	commit  = ""
	date    = ""
	builtBy = ""
)

func main() {
	cmd.Execute(version, commit, date, builtBy)
}
