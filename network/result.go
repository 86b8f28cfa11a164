package network

import (
	"fmt"

	"github.com/xlab/treeprint"
)

// Result summarizes a finished simulation.
type Result struct {
	Passes     int
	IdlePasses int
	Packets    int
	Dropped    int
	Deliveries int

	FirstGateway *Packet
	SteadyState  *Packet
}

func (r Result) ToTree() treeprint.Tree {
	tree := treeprint.New()
	tree.SetValue(fmt.Sprintf("network: %d passes, %d idle", r.Passes, r.IdlePasses))
	traffic := tree.AddBranch("traffic")
	traffic.AddNode(fmt.Sprintf("packets: %d", r.Packets))
	traffic.AddNode(fmt.Sprintf("dropped: %d", r.Dropped))
	gw := tree.AddBranch("gateway")
	if r.FirstGateway != nil {
		gw.AddNode(fmt.Sprintf("first: %s", r.FirstGateway))
	} else {
		gw.AddNode("first: none")
	}
	gw.AddNode(fmt.Sprintf("deliveries: %d", r.Deliveries))
	if r.SteadyState != nil {
		gw.AddNode(fmt.Sprintf("steady y: %d", r.SteadyState.Y))
	}
	return tree
}

func (r Result) String() string {
	return r.ToTree().String()
}
