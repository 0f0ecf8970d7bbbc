package frontier

import (
	"time"

	"github.com/nao1215/campuscrawl/internal/model"
)

// queueItem is one URL waiting in a bucket queue.
type queueItem struct {
	// link is the scored URL.
	link model.Link

	// seq is the insertion number, the stable FIFO tie breaker.
	seq uint64
}

// urlHeap is a priority queue of queueItems ordered by descending score,
// then ascending insertion number. It implements container/heap.
type urlHeap []queueItem

func (h urlHeap) Len() int { return len(h) }

func (h urlHeap) Less(i, j int) bool {
	if h[i].link.Score != h[j].link.Score {
		return h[i].link.Score > h[j].link.Score
	}
	return h[i].seq < h[j].seq
}

func (h urlHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *urlHeap) Push(x any) {
	*h = append(*h, x.(queueItem))
}

func (h *urlHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = queueItem{}
	*h = old[:n-1]
	return item
}

// scheduleItem is one bucket's next dispatch deadline.
type scheduleItem struct {
	// at is the earliest time the bucket may dispatch again. The zero
	// time means the bucket is eligible immediately.
	at time.Time

	// bucket is the bucket waiting to dispatch.
	bucket *domainBucket
}

// scheduleHeap orders buckets by ascending deadline, then bucket name
// for determinism. It implements container/heap.
type scheduleHeap []scheduleItem

func (h scheduleHeap) Len() int { return len(h) }

func (h scheduleHeap) Less(i, j int) bool {
	if !h[i].at.Equal(h[j].at) {
		return h[i].at.Before(h[j].at)
	}
	return h[i].bucket.name < h[j].bucket.name
}

func (h scheduleHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *scheduleHeap) Push(x any) {
	*h = append(*h, x.(scheduleItem))
}

func (h *scheduleHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = scheduleItem{}
	*h = old[:n-1]
	return item
}
