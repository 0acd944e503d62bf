package cmd

// Version is the bckt-go release version, overridable at build time via
// -ldflags "-X github.com/WaylonWalker/bckt-go/cmd/bckt-go/cmd.Version=...".
var Version = "0.1.0-dev"
