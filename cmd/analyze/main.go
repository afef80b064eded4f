// analyze is a thin, scriptable stand-in for the façade's stream_search
// endpoint: it runs a bounded search against a FEN and prints every
// streamed record as a line to stdout, without any HTTP/WebSocket layer.
package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/seekerror/logw"

	"github.com/corvid-chess/engine/pkg/board/fen"
	"github.com/corvid-chess/engine/pkg/engine"
)

var (
	position         = flag.String("fen", "", "Position to analyze (default to standard)")
	maxDepth         = flag.Int("depth", 6, "Search depth limit")
	timeLimitMS      = flag.Int64("time_ms", 2000, "Search wall-clock limit, in milliseconds")
	snapshotInterval = flag.Int64("snapshot_ms", 140, "Minimum interval between snapshot records, in milliseconds")
)

func main() {
	ctx := context.Background()
	flag.Parse()

	if *position == "" {
		*position = fen.Initial
	}

	e := engine.New(ctx, "corvid-analyze", "corvid-chess")

	req := engine.SearchRequest{
		FEN:              *position,
		MaxDepth:         *maxDepth,
		TimeLimitMS:      *timeLimitMS,
		SnapshotInterval: *snapshotInterval,
	}

	handle, out, err := e.StreamSearch(ctx, req)
	if err != nil {
		logw.Exitf(ctx, "StreamSearch failed: %v", err)
	}

	for snap := range out {
		elapsed := time.Duration(snap.ElapsedMS) * time.Millisecond
		fmt.Println(fmt.Sprintf("%v,depth=%v,nodes=%v,cutoffs=%v,nps=%v,elapsed=%v,best=%v,eval=%v",
			snap.Kind, snap.Depth, snap.Nodes, snap.Cutoffs, snap.NPS, elapsed, snap.BestMove, snap.Eval))
	}

	result := handle.Halt()
	fmt.Println(fmt.Sprintf("final: depth=%v best=%v eval=%+d", result.Depth, result.BestMove, result.BestScore))
}
