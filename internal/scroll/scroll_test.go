package scroll

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/desertthunder/taskview/internal/dom"
)

const page = `<html><body><main id="tasks">
<section id="queue"></section><section id="active"></section><section id="ended"></section>
</main></body></html>`

func setup(t *testing.T) (*dom.Document, *Tracker) {
	t.Helper()
	d, err := dom.Parse(page)
	require.NoError(t, err)
	return d, NewTracker(d, DefaultSelectors...)
}

func offset(t *testing.T, d *dom.Document, selector string) int {
	t.Helper()
	n, err := d.Resolve(selector)
	require.NoError(t, err)
	return d.ScrollTop(n)
}

func scrollTo(t *testing.T, d *dom.Document, selector string, v int) {
	t.Helper()
	n, err := d.Resolve(selector)
	require.NoError(t, err)
	d.SetScrollTop(n, v)
}

func TestRegister(t *testing.T) {
	_, tr := setup(t)
	tr.Register("#queue")
	tr.Register("#extra")
	tr.Register("#extra")
	assert.Equal(t, []string{"body", "#queue", "#active", "#ended", "#extra"}, tr.Selectors())
}

func TestSaveRestore(t *testing.T) {
	t.Run("round trip without changes is exact", func(t *testing.T) {
		d, tr := setup(t)
		scrollTo(t, d, "body", 10)
		scrollTo(t, d, "#queue", 25)
		scrollTo(t, d, "#ended", 7)

		tr.SaveAll()
		tr.RestoreAll()

		assert.Equal(t, 10, offset(t, d, "body"))
		assert.Equal(t, 25, offset(t, d, "#queue"))
		assert.Equal(t, 0, offset(t, d, "#active"))
		assert.Equal(t, 7, offset(t, d, "#ended"))
	})

	t.Run("replaced containers get offsets added", func(t *testing.T) {
		d, tr := setup(t)
		scrollTo(t, d, "#queue", 30)
		scrollTo(t, d, "body", 5)
		tr.SaveAll()

		tasks, _ := d.ByID("tasks")
		require.NoError(t, d.SetInner(tasks, `<section id="queue"></section><section id="active"></section><section id="ended"></section>`))
		scrollTo(t, d, "#queue", 4)

		tr.RestoreAll()
		assert.Equal(t, 34, offset(t, d, "#queue"))
		assert.Equal(t, 5, offset(t, d, "body"), "body survives the swap and keeps its exact offset")
	})

	t.Run("absent containers are skipped", func(t *testing.T) {
		d, tr := setup(t)
		scrollTo(t, d, "#active", 9)
		tr.SaveAll()

		tasks, _ := d.ByID("tasks")
		require.NoError(t, d.SetInner(tasks, `<section id="queue"></section>`))

		assert.NotPanics(t, tr.RestoreAll)
		a, ok := tr.Anchor("#active")
		require.True(t, ok)
		assert.Equal(t, 9, a.Offset)

		tr.SaveAll()
		a, _ = tr.Anchor("#active")
		assert.Equal(t, 9, a.Offset, "missing container keeps its previous anchor")
	})
}
