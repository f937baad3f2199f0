package accessclient

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
)

const (
	progressBarWidth     = 32
	progressRenderPeriod = 120 * time.Millisecond
)

var errInterrupted = errors.New("interrupted")

// progress ведёт одну строку состояния на все скачивания клиента.
// Одновременные скачивания (StreamOrdered) суммируются в общий итог,
// строка завершается, когда закончились все начатые скачивания.
type progress struct {
	out io.Writer

	mu         sync.Mutex
	started    int
	finished   int
	total      int64
	current    int64
	unsized    bool
	failed     error
	lastRender time.Time
	width      int
}

func newProgress(out io.Writer) *progress {
	return &progress{out: out}
}

// track начинает учёт тела ответа. size < 0 означает неизвестную длину.
func (p *progress) track(body io.ReadCloser, size int64) io.ReadCloser {
	p.mu.Lock()
	if p.started == p.finished {
		// предыдущая серия закрыта, строка начинается заново
		p.started, p.finished = 0, 0
		p.total, p.current = 0, 0
		p.unsized, p.failed = false, nil
		p.width = 0
	}
	p.started++
	if size < 0 {
		p.unsized = true
	} else {
		p.total += size
	}
	p.renderLocked("")
	p.mu.Unlock()

	return &trackedBody{ReadCloser: body, p: p}
}

func (p *progress) add(n int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current += n
	if time.Since(p.lastRender) >= progressRenderPeriod {
		p.renderLocked("")
	}
}

func (p *progress) done(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.finished++
	if err != nil && p.failed == nil {
		p.failed = err
	}
	if p.finished < p.started {
		p.renderLocked("")
		return
	}

	suffix := " ✓"
	if p.failed != nil {
		suffix = fmt.Sprintf(" ✗ %v", p.failed)
	}
	p.renderLocked(suffix)
	fmt.Fprintln(p.out)
}

func (p *progress) renderLocked(suffix string) {
	line := p.lineLocked() + suffix
	pad := ""
	if p.width > len(line) {
		pad = strings.Repeat(" ", p.width-len(line))
	}
	fmt.Fprintf(p.out, "\r%s%s", line, pad)
	p.width = len(line)
	p.lastRender = time.Now()
}

func (p *progress) lineLocked() string {
	var b strings.Builder
	b.WriteString("Downloading ")

	if p.unsized || p.total == 0 {
		b.WriteString(humanize.IBytes(uint64(p.current)))
	} else {
		ratio := float64(p.current) / float64(p.total)
		if ratio > 1 {
			ratio = 1
		}
		filled := int(ratio*progressBarWidth + 0.5)
		fmt.Fprintf(&b, "[%s%s] %3d%% %s/%s",
			strings.Repeat("=", filled), strings.Repeat(" ", progressBarWidth-filled),
			int(ratio*100+0.5),
			humanize.IBytes(uint64(p.current)), humanize.IBytes(uint64(p.total)))
	}

	if p.started > 1 {
		fmt.Fprintf(&b, " (%d/%d files)", p.finished, p.started)
	}
	return b.String()
}

// trackedBody сообщает progress о прочитанных байтах и о завершении скачивания.
type trackedBody struct {
	io.ReadCloser
	p    *progress
	eof  bool
	once sync.Once
}

func (t *trackedBody) Read(b []byte) (int, error) {
	n, err := t.ReadCloser.Read(b)
	if n > 0 {
		t.p.add(int64(n))
	}
	if errors.Is(err, io.EOF) {
		t.eof = true
		t.finish(nil)
	} else if err != nil {
		t.finish(err)
	}
	return n, err
}

func (t *trackedBody) Close() error {
	err := t.ReadCloser.Close()
	switch {
	case err != nil:
		t.finish(err)
	case !t.eof:
		t.finish(errInterrupted)
	}
	return err
}

func (t *trackedBody) finish(err error) {
	t.once.Do(func() { t.p.done(err) })
}
