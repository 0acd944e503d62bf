// Command bckt-go renders a bckt site: dated, front-mattered posts into
// a browsable HTML tree with archives, tags, feeds and a search index.
package main

import "github.com/WaylonWalker/bckt-go/cmd/bckt-go/cmd"

func main() {
	cmd.Execute()
}
