// Command htmldiff demonstrates mutationdiff against a parsed HTML
// fragment: it parses the input once, applies a hand-written series of
// childList edits to it through the htmldom adapter, and prints the
// resulting bounding range and diff.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"golang.org/x/net/html"

	"github.com/watchtree/mutationdiff"
	"github.com/watchtree/mutationdiff/htmldom"
)

func main() {
	// glog registers its own -v on import (log.go); pass -v=N on the
	// command line to raise the [mutations] trace level instead of
	// declaring a second -v here.
	input := flag.String("html", "<div id=\"root\"><p>a</p><p>b</p></div>", "HTML fragment to parse and mutate")
	flag.Parse()

	doc, err := html.Parse(strings.NewReader(*input))
	if err != nil {
		fmt.Fprintln(os.Stderr, "parse:", err)
		os.Exit(1)
	}

	adapter := htmldom.New()
	root := findFirstDiv(doc)
	if root == nil {
		fmt.Fprintln(os.Stderr, "no <div> found in input")
		os.Exit(1)
	}
	rootHandle := adapter.Handle(root)

	diff := mutationdiff.NewMutationDiff(adapter)

	first := root.FirstChild
	if first == nil || first.NextSibling == nil {
		fmt.Fprintln(os.Stderr, "input needs at least two children under the first <div>")
		os.Exit(1)
	}
	a := adapter.Handle(first)
	b := adapter.Handle(first.NextSibling)

	prev, next := adapter.SiblingsOf(a)
	_ = prev
	adapter.Remove(a)
	if err := diff.Record(mutationdiff.MutationRecord{
		Kind:        mutationdiff.RecordChildList,
		Parent:      rootHandle,
		Removed:     []mutationdiff.NodeHandle{a},
		PreviousSib: mutationdiff.EndSibling(),
		NextSib:     mutationdiff.NodeSibling(b),
	}); err != nil {
		fmt.Fprintln(os.Stderr, "record:", err)
		os.Exit(1)
	}
	adapter.Append(rootHandle, a)
	if err := diff.Record(mutationdiff.MutationRecord{
		Kind:        mutationdiff.RecordChildList,
		Parent:      rootHandle,
		Added:       []mutationdiff.NodeHandle{a},
		PreviousSib: mutationdiff.NodeSibling(b),
		NextSib:     next,
	}); err != nil {
		fmt.Fprintln(os.Stderr, "record:", err)
		os.Exit(1)
	}

	fmt.Println("mutated:", diff.Mutated())
	rng, err := diff.Range()
	if err != nil {
		fmt.Println("range error:", err)
	} else {
		fmt.Printf("range: %+v\n", rng)
	}

	result, err := diff.Diff(mutationdiff.DiffAll, nil)
	if err != nil {
		fmt.Println("diff error:", err)
		return
	}
	for _, nd := range result.Nodes {
		fmt.Printf("node %d: original=%v mutated=%v attrs=%d\n", nd.Node, nd.Original, nd.Mutated, len(nd.Attributes))
	}
}

func findFirstDiv(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "div" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirstDiv(c); found != nil {
			return found
		}
	}
	return nil
}
