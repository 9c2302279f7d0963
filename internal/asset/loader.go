package asset

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

type Loader interface {
	Load(ctx context.Context, id string) *Pending
}

// Pending is a one-shot load result. Poll never blocks, so a frame loop can
// check it once per tick.
type Pending struct {
	id   string
	done chan struct{}
	once sync.Once

	result Result
}

type Result struct {
	Model *Model
	Err   error
}

func NewPending(id string) *Pending {
	return &Pending{id: id, done: make(chan struct{})}
}

func (p *Pending) ID() string {
	return p.id
}

// Resolve delivers the result. Only the first call has any effect.
func (p *Pending) Resolve(model *Model, err error) {
	p.once.Do(func() {
		p.result = Result{Model: model, Err: err}
		close(p.done)
	})
}

// Poll reports the result if the load has finished.
func (p *Pending) Poll() (Result, bool) {
	select {
	case <-p.done:
		return p.result, true
	default:
		return Result{}, false
	}
}

func (p *Pending) wait(ctx context.Context) (*Model, error) {
	select {
	case <-p.done:
		return p.result.Model, p.result.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// FileLoader resolves model ids to .glb files under Root.
type FileLoader struct {
	Root string
}

func NewFileLoader(root string) *FileLoader {
	return &FileLoader{Root: root}
}

func (l *FileLoader) Load(ctx context.Context, id string) *Pending {
	p := NewPending(id)
	go func() {
		model, err := l.load(ctx, id)
		p.Resolve(model, err)
	}()
	return p
}

func (l *FileLoader) load(ctx context.Context, id string) (*Model, error) {
	if id == "" {
		return nil, ErrEmptyID
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := id
	if !filepath.IsAbs(path) {
		path = filepath.Join(l.Root, filepath.FromSlash(id))
	}
	slog.Debug("Loading model", "id", id, "path", path)

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open model %s: %w", id, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat model %s: %w", id, err)
	}
	model, err := decodeGLB(bufio.NewReader(f), info.Size())
	if err != nil {
		return nil, fmt.Errorf("decode model %s: %w", id, err)
	}
	model.ID = id
	return model, nil
}
