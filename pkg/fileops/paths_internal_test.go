//nolint:varnamelen // Test files use idiomatic short variable names (t, g, etc.)
package fileops

import (
	"bytes"
	"errors"
	"io"
	"testing"

	. "github.com/onsi/gomega" //nolint:revive // Dot import is idiomatic for Gomega matchers
)

func TestPathHelpers(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	g.Expect(joinPath("/sdmc/", "a.txt")).Should(Equal("/sdmc/a.txt"))
	g.Expect(joinPath("/sdmc", "a.txt")).Should(Equal("/sdmc/a.txt"))
	g.Expect(joinPath("", "a.txt")).Should(Equal("a.txt"))

	g.Expect(parentDir("/sdmc/switch/app.nro")).Should(Equal("/sdmc/switch/"))
	g.Expect(parentDir("app.nro")).Should(Equal(""))

	g.Expect(nameFromPath("/sdmc/switch/")).Should(Equal("switch"))
	g.Expect(nameFromPath("/sdmc/switch/app.nro")).Should(Equal("app.nro"))
	g.Expect(nameFromPath("app.nro")).Should(Equal("app.nro"))

	g.Expect(asDirPath("/out")).Should(Equal("/out/"))
	g.Expect(asDirPath("/out//")).Should(Equal("/out/"))
	g.Expect(isDirPath("/out/")).Should(BeTrue())
	g.Expect(isDirPath("/out")).Should(BeFalse())

	g.Expect(entryPath("/mods/link/")).Should(Equal("/mods/link"))
	g.Expect(entryPath("/mods/link")).Should(Equal("/mods/link"))
	g.Expect(entryPath("/")).Should(Equal("/"))
}

func TestBufferPool_ReturnsRequestedSize(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	pool := newBufferPool()

	buf := pool.get(BufferSize)
	g.Expect(*buf).Should(HaveLen(BufferSize))
	pool.put(buf)

	small := pool.get(512)
	g.Expect(*small).Should(HaveLen(512))
}

// halfWriter accepts at most half of every write.
type halfWriter struct {
	out bytes.Buffer
}

func (w *halfWriter) Write(p []byte) (int, error) {
	n := (len(p) + 1) / 2

	return w.out.Write(p[:n])
}

type stuckWriter struct{}

func (stuckWriter) Write([]byte) (int, error) { return 0, nil }

func TestWriteFull_LoopsOnShortWrites(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	writer := &halfWriter{}
	data := bytes.Repeat([]byte("abc"), 1000)

	g.Expect(writeFull(writer, data)).Should(Succeed())
	g.Expect(writer.out.Bytes()).Should(Equal(data))
}

func TestWriteFull_StopsWhenNothingIsWritten(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	err := writeFull(stuckWriter{}, []byte("data"))

	g.Expect(errors.Is(err, io.ErrShortWrite)).Should(BeTrue())
}
