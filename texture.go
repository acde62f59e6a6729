package carousel

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // register decoders
	_ "image/png"
	"io/fs"
	"sync"

	_ "golang.org/x/image/webp"
	"golang.org/x/sync/semaphore"
)

// TextureResult is the outcome of one image load.
type TextureResult struct {
	Slide int
	Path  string
	Image image.Image
	Err   error

	id uint64
}

// loadRequest is one in-flight Load. id tells a replaced request's result
// apart from its successor's for the same slide.
type loadRequest struct {
	id     uint64
	ctx    context.Context
	cancel context.CancelFunc
}

// TextureLoader decodes slide images off the update goroutine. Each request
// runs in its own goroutine with its own cancellable context; at most
// maxConcurrent decodes run at once. Completed results queue until Poll
// drains them on the update goroutine, so a result only ever touches its
// own slide and never races the animation.
//
// Cancelled requests (via their CancelFunc or Close) deliver nothing.
type TextureLoader struct {
	fsys    fs.FS
	sem     *semaphore.Weighted
	ctx     context.Context
	cancel  context.CancelFunc
	results chan TextureResult
	wg      sync.WaitGroup

	mu       sync.Mutex
	inFlight map[int]*loadRequest
	nextID   uint64
}

// NewTextureLoader creates a loader reading from fsys. Cancelling ctx has the
// same effect as Close without waiting.
func NewTextureLoader(ctx context.Context, fsys fs.FS, maxConcurrent int) *TextureLoader {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	ctx, cancel := context.WithCancel(ctx)
	return &TextureLoader{
		fsys:     fsys,
		sem:      semaphore.NewWeighted(int64(maxConcurrent)),
		ctx:      ctx,
		cancel:   cancel,
		results:  make(chan TextureResult, 16),
		inFlight: make(map[int]*loadRequest),
	}
}

// Load starts loading path for slide. A second Load for the same slide
// cancels the first, and a result of the first still queued is dropped.
// The returned func cancels this request.
func (l *TextureLoader) Load(slide int, path string) context.CancelFunc {
	ctx, cancel := context.WithCancel(l.ctx)

	l.mu.Lock()
	if prev, ok := l.inFlight[slide]; ok {
		prev.cancel()
	}
	l.nextID++
	req := &loadRequest{id: l.nextID, ctx: ctx, cancel: cancel}
	l.inFlight[slide] = req
	l.mu.Unlock()

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()

		res := TextureResult{Slide: slide, Path: path, id: req.id}
		res.Image, res.Err = l.decode(ctx, path)
		if errors.Is(res.Err, context.Canceled) || ctx.Err() != nil {
			l.forget(slide, req)
			return
		}
		select {
		case l.results <- res:
		case <-ctx.Done():
			l.forget(slide, req)
		}
	}()
	return cancel
}

// forget releases req and removes it from inFlight unless a newer request
// has replaced it.
func (l *TextureLoader) forget(slide int, req *loadRequest) {
	req.cancel()
	l.mu.Lock()
	if cur, ok := l.inFlight[slide]; ok && cur.id == req.id {
		delete(l.inFlight, slide)
	}
	l.mu.Unlock()
}

// accept reports whether res belongs to the live request for its slide and
// retires that request. Results of replaced or cancelled requests are
// rejected.
func (l *TextureLoader) accept(res TextureResult) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	cur, ok := l.inFlight[res.Slide]
	if !ok || cur.id != res.id {
		return false
	}
	delete(l.inFlight, res.Slide)
	live := cur.ctx.Err() == nil
	cur.cancel()
	return live
}

// Pending returns the number of requests that have not yet been delivered
// or cancelled.
func (l *TextureLoader) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.inFlight)
}

func (l *TextureLoader) decode(ctx context.Context, path string) (image.Image, error) {
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer l.sem.Release(1)

	f, err := l.fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// Poll hands every completed result to fn without blocking and returns how
// many were delivered.
func (l *TextureLoader) Poll(fn func(TextureResult)) int {
	n := 0
	for {
		select {
		case res := <-l.results:
			if !l.accept(res) {
				continue
			}
			fn(res)
			n++
		default:
			return n
		}
	}
}

// Next blocks until a result arrives or ctx is done.
func (l *TextureLoader) Next(ctx context.Context) (TextureResult, error) {
	for {
		select {
		case res := <-l.results:
			if l.accept(res) {
				return res, nil
			}
		case <-ctx.Done():
			return TextureResult{}, ctx.Err()
		}
	}
}

// Close cancels every in-flight load and waits for their goroutines to exit.
// Results already queued are discarded.
func (l *TextureLoader) Close() {
	l.cancel()
	l.wg.Wait()
	for {
		select {
		case <-l.results:
		default:
			l.mu.Lock()
			clear(l.inFlight)
			l.mu.Unlock()
			return
		}
	}
}
