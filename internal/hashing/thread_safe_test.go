package hashing

import (
	"sync"
	"testing"

	"github.com/lgbarn/repertoire-go/internal/testutil"
	"github.com/lgbarn/repertoire-go/internal/tree"
)

func TestThreadSafeIndex_Concurrent(t *testing.T) {
	tr := tree.New()
	play(t, tr, "g1f3 g8f6 b1c3")
	play(t, tr, "b1c3 g8f6 g1f3")

	sigs := make([]Signature, 0, tr.Len())
	for id := tree.RootID; int(id) < tr.Len(); id++ {
		sig, _ := SignatureOf(tr, id)
		sigs = append(sigs, sig)
	}

	x := NewThreadSafeIndex()
	const numWorkers = 10

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, sig := range sigs {
				x.Add(sig)
				x.Transpositions(sig)
			}
		}()
	}
	wg.Wait()

	testutil.AssertEqual(t, x.TranspositionCount(), 1)
	testutil.AssertEqual(t, x.UniqueCount(), tr.Len()-1)
}

func TestThreadSafeIndex_LoadFromIndex(t *testing.T) {
	tr := tree.New()
	id := play(t, tr, "e2e4 e7e5")

	plain := NewIndex()
	plain.AddTree(tr)

	x := NewThreadSafeIndex()
	x.LoadFromIndex(plain)
	testutil.AssertEqual(t, x.UniqueCount(), 3)

	sig, _ := SignatureOf(tr, id)
	testutil.AssertFalse(t, x.Add(sig), "re-adding a loaded node")
}
