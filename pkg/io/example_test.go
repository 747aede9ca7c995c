package io_test

import (
	"fmt"
	"strings"

	netio "github.com/RemieJanssen/NetworkGenerators/pkg/io"
	"github.com/RemieJanssen/NetworkGenerators/pkg/network"
)

func ExampleWriteEdgeList() {
	g := network.New(nil)
	for _, id := range []int{3, 1, 2} {
		if err := g.AddNode(id); err != nil {
			panic(err)
		}
	}
	g.AddEdge(network.Edge{From: 3, To: 1})
	g.AddEdge(network.Edge{From: 3, To: 2})

	var b strings.Builder
	if err := netio.WriteEdgeList(g, &b); err != nil {
		panic(err)
	}

	// Lines are CRLF-separated with no trailing separator.
	fmt.Printf("%q\n", b.String())
	// Output:
	// "3 1\r\n3 2"
}

func ExampleWriteParentList() {
	g := network.New(nil)
	for _, id := range []int{3, 1, 2} {
		if err := g.AddNode(id); err != nil {
			panic(err)
		}
	}
	g.AddEdge(network.Edge{From: 3, To: 1})
	g.AddEdge(network.Edge{From: 3, To: 2})

	var b strings.Builder
	if err := netio.WriteParentList(g, &b); err != nil {
		panic(err)
	}

	fmt.Printf("%q\n", b.String())
	// Output:
	// "3\r\n1 3\r\n2 3"
}
