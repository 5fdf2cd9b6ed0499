package plan_test

import (
	"fmt"
	"os"

	"github.com/matzehuels/xbar/pkg/crossbar"
	"github.com/matzehuels/xbar/pkg/plan"
)

func ExampleWriteJSONL() {
	x, _ := crossbar.New(3)
	if err := plan.WriteJSONL(os.Stdout, x); err != nil {
		fmt.Println("Error:", err)
	}
	// Output:
	// {"index":0,"terminals":[0,1],"column":0,"start":{"block":0,"row":0,"abs":0,"stage":0,"terminal":0},"end":{"block":0,"row":1,"abs":1,"stage":0,"terminal":1}}
	// {"index":1,"terminals":[1,2],"column":0,"start":{"block":2,"row":0,"abs":4,"stage":1,"terminal":1},"end":{"block":2,"row":1,"abs":5,"stage":1,"terminal":2}}
	// {"index":2,"terminals":[0,2],"column":0,"start":{"block":1,"row":0,"abs":2,"stage":0,"terminal":2},"end":{"block":1,"row":1,"abs":3,"stage":1,"terminal":0}}
}

func ExampleSummarize() {
	x, _ := crossbar.New(5)
	s := plan.Summarize(x)

	fmt.Printf("%d terminals, %d rows, %d columns, %d wires\n", s.Terminals, s.Rows, s.Columns, s.Connections)
	for _, b := range s.Blocks {
		fmt.Printf("block %d: rows [%d, %d) depth %d\n", b.Index, b.Start, b.End, b.Depth)
	}
	// Output:
	// 5 terminals, 20 rows, 2 columns, 10 wires
	// block 0: rows [0, 8) depth 1
	// block 1: rows [8, 12) depth 2
	// block 2: rows [12, 16) depth 3
	// block 3: rows [16, 20) depth 3
}
