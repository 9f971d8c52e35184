package form_test

import (
	"fmt"

	"github.com/luskyqi1995/topobuilder/pkg/form"
)

func ExampleParseArchitecture() {
	topo, _ := form.ParseArchitecture("2H.4E.2H")
	for _, layer := range topo.Architecture {
		fmt.Println(len(layer), layer[0].Type)
	}
	// Output:
	// 2 H
	// 4 E
	// 2 H
}

func ExampleCase_CastAbsolute() {
	c, _ := form.New("2H4E2H").AddArchitecture("2H.4E.2H")
	abs, _ := c.CastAbsolute()
	sse, _ := abs.StructureByID("B2E")
	fmt.Printf("%.2f\n", sse.Position().X)
	// Output:
	// 4.85
}

func ExampleCase_ConnectivityStrings() {
	c, _ := form.New("sheet").AddTopology("A2E.A1E.A3E")
	fmt.Println(c.ConnectivityStrings()[0])
	// Output:
	// A2E.A1E.A3E
}
